package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"chatfit/internal/assistant"
	"chatfit/internal/catalog"
)

const chatPaneWidth = 46

func (m Model) chatWidth() int {
	if m.width > 100 {
		return chatPaneWidth
	}
	return max(28, m.width/3)
}

func (m Model) chatHeight() int {
	return max(8, m.height-6)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "loading…"
	}

	left := lipgloss.NewStyle().Width(m.width - m.chatWidth() - 4).Render(
		m.renderTabs() + "\n\n" + m.renderSection(),
	)
	right := m.renderChat()
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	help := m.styles.Muted.Render("tab: section • esc: chat/browse • r: refresh • x: remove • o: order cart • q: quit")
	footer := help
	if m.status != "" {
		footer = m.status + "  " + help
	}
	return body + "\n" + footer
}

func (m Model) renderTabs() string {
	var tabs []string
	for s := Section(0); s < sectionCount; s++ {
		style := m.styles.Tab
		if s == m.section {
			style = m.styles.TabOn
		}
		tabs = append(tabs, style.Render(s.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderSection() string {
	switch m.section {
	case SectionProducts:
		return m.renderProducts()
	case SectionWishlist:
		return m.renderWishlist()
	case SectionCart:
		return m.renderCart()
	default:
		return m.renderOrders()
	}
}

func (m Model) renderProducts() string {
	products, loading := m.app.CatalogProducts()
	if loading {
		return m.spinner.View() + " loading products…"
	}
	if len(products) == 0 {
		return m.styles.Muted.Render("No products available")
	}

	var b strings.Builder
	total := 0
	for _, p := range products {
		total += p.TotalQuantity
	}
	b.WriteString(m.styles.Subtitle.Render(fmt.Sprintf("%d designs • %d total items", len(products), total)))
	b.WriteString("\n")
	for _, p := range products {
		b.WriteString(m.styles.Item.Render(fmt.Sprintf("%s  %s", p.Name, m.styles.Muted.Render(fmt.Sprintf("%d in stock", p.TotalQuantity)))))
		b.WriteString("\n")
		for _, v := range p.Variants {
			b.WriteString(m.styles.Variant.Render(variantLine(v)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderCart() string {
	products, total, loading := m.app.CartSummary()
	if loading {
		return m.spinner.View() + " loading cart…"
	}
	if len(products) == 0 {
		return m.styles.Muted.Render("Your cart is empty")
	}

	var b strings.Builder
	b.WriteString(m.styles.Subtitle.Render(fmt.Sprintf("%d items • %s", len(products), money(total))))
	b.WriteString("\n")
	for _, p := range products {
		b.WriteString(m.styles.Item.Render(fmt.Sprintf("%s  %s", p.Name,
			m.styles.Muted.Render(fmt.Sprintf("%d items • %s", p.TotalQuantity, money(p.TotalValue))))))
		b.WriteString("\n")
		for _, v := range p.Variants {
			b.WriteString(m.styles.Variant.Render(fmt.Sprintf("%s %s × %d", v.Size, v.Color, v.Quantity)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderOrders() string {
	groups, grand, loading := m.app.OrderGroups()
	if loading {
		return m.spinner.View() + " loading orders…"
	}
	if len(groups) == 0 {
		return m.styles.Muted.Render("No orders yet")
	}

	var b strings.Builder
	b.WriteString(m.styles.Subtitle.Render(fmt.Sprintf("%d orders • %s", len(groups), money(grand))))
	b.WriteString("\n")
	for i, g := range groups {
		style := m.styles.Item
		prefix := ""
		if i == m.cursor {
			style = m.styles.ItemOn
			prefix = "> "
		}
		b.WriteString(style.Render(fmt.Sprintf("%sOrder %s  %s", prefix, g.OwnerID,
			m.styles.Muted.Render(money(g.Total)))))
		b.WriteString("\n")
		for _, p := range g.Products {
			b.WriteString(m.styles.Variant.Render(fmt.Sprintf("%s × %d • %s", p.Name, p.TotalQuantity, money(p.TotalValue))))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderWishlist() string {
	items, loading := m.app.WishlistItems()
	if loading {
		return m.spinner.View() + " loading wishlist…"
	}
	if len(items) == 0 {
		return m.styles.Muted.Render("Your wishlist is empty")
	}

	var b strings.Builder
	noun := "items"
	if len(items) == 1 {
		noun = "item"
	}
	b.WriteString(m.styles.Subtitle.Render(fmt.Sprintf("%d %s", len(items), noun)))
	b.WriteString("\n")
	for i, it := range items {
		style := m.styles.Item
		prefix := ""
		if i == m.cursor {
			style = m.styles.ItemOn
			prefix = "> "
		}
		b.WriteString(style.Render(fmt.Sprintf("%s%s  %s", prefix, it.Name,
			m.styles.Muted.Render(fmt.Sprintf("%s %s • %s • %d left", it.Size, it.Color, money(it.Price.Float64()), it.Stock)))))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderChat() string {
	var b strings.Builder
	b.WriteString(m.chatView.View())
	b.WriteString("\n")
	if m.chatBusy {
		b.WriteString(m.spinner.View() + " thinking…\n")
	}
	b.WriteString(m.styles.Input.Render(m.textarea.View()))
	return m.styles.ChatPane.Render(b.String())
}

// refreshChatView re-renders the conversation into the viewport and keeps it
// scrolled to the latest message.
func (m *Model) refreshChatView() {
	if !m.ready {
		return
	}
	var b strings.Builder
	for _, msg := range m.app.Assistant.History() {
		if msg.Role == assistant.RoleUser {
			b.WriteString(m.styles.ChatUser.Render("You: " + msg.Text))
			b.WriteString("\n")
			continue
		}
		text := msg.Text
		if m.renderer != nil {
			if rendered, err := m.renderer.Render(text); err == nil {
				text = strings.TrimSpace(rendered)
			}
		}
		b.WriteString(text)
		b.WriteString("\n")
		for i, btn := range msg.Buttons {
			b.WriteString(m.styles.Muted.Render(fmt.Sprintf("  [%d] %s", i+1, btn.Label)))
			b.WriteString("\n")
		}
	}
	m.chatView.SetContent(b.String())
	m.chatView.GotoBottom()
}

func variantLine(v catalog.Variant) string {
	return fmt.Sprintf("Size %s • %s • %s • %d left", v.Size, v.Color, money(v.UnitPrice), v.Quantity)
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
