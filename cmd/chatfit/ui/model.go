package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"chatfit/internal/app"
	"chatfit/internal/assistant"
	"chatfit/internal/signal"
)

// Section is one storefront page, matching the sidebar of the web client.
type Section int

const (
	SectionProducts Section = iota
	SectionWishlist
	SectionCart
	SectionOrders
	sectionCount
)

func (s Section) String() string {
	switch s {
	case SectionProducts:
		return "Products"
	case SectionWishlist:
		return "Wishlist"
	case SectionCart:
		return "Cart"
	case SectionOrders:
		return "Orders"
	}
	return "?"
}

func (s Section) topic() signal.Topic {
	switch s {
	case SectionProducts:
		return signal.TopicProducts
	case SectionWishlist:
		return signal.TopicWishlist
	case SectionCart:
		return signal.TopicCart
	}
	return signal.TopicOrders
}

// focus selects where key presses go.
type focus int

const (
	focusBrowse focus = iota
	focusChat
)

type tickMsg time.Time

type chatReplyMsg struct {
	err error
}

type actionDoneMsg struct {
	err error
}

// Model is the bubbletea model for the storefront shell.
type Model struct {
	app *app.App

	section Section
	focus   focus
	cursor  int

	textarea textarea.Model
	chatView viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer
	styles   Styles

	width    int
	height   int
	ready    bool
	chatBusy bool
	status   string
}

// New creates the shell around an already-started App.
func New(a *app.App) Model {
	ta := textarea.New()
	ta.Placeholder = "Ask about t-shirts, or type a command…"
	ta.ShowLineNumbers = false
	ta.SetHeight(1)
	ta.CharLimit = 500

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		app:      a,
		textarea: ta,
		spinner:  sp,
		styles:   DefaultStyles(),
		focus:    focusBrowse,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tick())
}

// tick drives periodic re-reads of the cache snapshots; the coordinators
// update caches on their own goroutines and the TUI just re-renders.
func tick() tea.Cmd {
	return tea.Tick(300*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		chatWidth := m.chatWidth()
		m.chatView = viewport.New(chatWidth, m.chatHeight())
		m.textarea.SetWidth(chatWidth)
		m.renderer, _ = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(chatWidth-4),
		)
		m.ready = true
		m.refreshChatView()
		return m, nil

	case tickMsg:
		if m.ready {
			m.refreshChatView()
		}
		return m, tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case chatReplyMsg:
		m.chatBusy = false
		if msg.err != nil {
			m.status = m.styles.Danger.Render("assistant unavailable")
		} else {
			m.status = ""
		}
		m.refreshChatView()
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			m.status = m.styles.Danger.Render("action failed: " + msg.err.Error())
		} else {
			m.status = m.styles.OK.Render("done")
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		if m.focus == focusChat {
			m.focus = focusBrowse
			m.textarea.Blur()
		} else {
			m.focus = focusChat
			return m, m.textarea.Focus()
		}
		return m, nil
	}

	if m.focus == focusChat {
		return m.handleChatKey(msg)
	}
	return m.handleBrowseKey(msg)
}

func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		text := m.textarea.Value()
		if text == "" || m.chatBusy {
			return m, nil
		}
		m.textarea.Reset()
		return m.sendChat(text)
	}
	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab", "right":
		m.section = (m.section + 1) % sectionCount
		m.cursor = 0
		return m, nil
	case "shift+tab", "left":
		m.section = (m.section + sectionCount - 1) % sectionCount
		m.cursor = 0
		return m, nil
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < m.sectionLen()-1 {
			m.cursor++
		}
		return m, nil
	case "r":
		m.app.RefreshNow(m.section.topic())
		m.status = m.styles.Muted.Render("refreshing " + m.section.String() + "…")
		return m, nil
	case "x":
		return m.deleteSelected()
	case "o":
		if m.section == SectionCart {
			return m.runAction(func(ctx context.Context) error {
				return m.app.PlaceOrder(ctx)
			}, "placing order…")
		}
		return m, nil
	case "1", "2", "3":
		return m.pressActionButton(int(msg.String()[0] - '1'))
	}
	return m, nil
}

// sectionLen reports how many selectable rows the current section has.
func (m Model) sectionLen() int {
	switch m.section {
	case SectionWishlist:
		items, _ := m.app.WishlistItems()
		return len(items)
	case SectionOrders:
		groups, _, _ := m.app.OrderGroups()
		return len(groups)
	}
	return 0
}

// deleteSelected removes the cursored wishlist entry or order.
func (m Model) deleteSelected() (tea.Model, tea.Cmd) {
	switch m.section {
	case SectionWishlist:
		items, _ := m.app.WishlistItems()
		if m.cursor >= len(items) {
			return m, nil
		}
		id := items[m.cursor].VariantID
		return m.runAction(func(ctx context.Context) error {
			return m.app.RemoveFromWishlist(ctx, id)
		}, "removing from wishlist…")
	case SectionOrders:
		groups, _, _ := m.app.OrderGroups()
		if m.cursor >= len(groups) {
			return m, nil
		}
		id := groups[m.cursor].OwnerID
		return m.runAction(func(ctx context.Context) error {
			return m.app.DeleteOrder(ctx, id)
		}, "deleting order…")
	}
	return m, nil
}

func (m Model) runAction(fn func(context.Context) error, note string) (tea.Model, tea.Cmd) {
	m.status = m.styles.Muted.Render(note)
	return m, func() tea.Msg {
		return actionDoneMsg{err: fn(context.Background())}
	}
}

// pressActionButton sends the nth quick reply of the latest bot message.
func (m Model) pressActionButton(n int) (tea.Model, tea.Cmd) {
	history := m.app.Assistant.History()
	for i := len(history) - 1; i >= 0; i-- {
		msg := history[i]
		if msg.Role != assistant.RoleBot {
			continue
		}
		if n < len(msg.Buttons) {
			return m.sendChat(msg.Buttons[n].Value)
		}
		return m, nil
	}
	return m, nil
}

func (m Model) sendChat(text string) (tea.Model, tea.Cmd) {
	m.chatBusy = true
	m.refreshChatView()
	send := func() tea.Msg {
		_, err := m.app.Assistant.Send(context.Background(), text)
		return chatReplyMsg{err: err}
	}
	return m, tea.Batch(send, m.spinner.Tick)
}
