// Package app assembles the storefront client: REST client, resource caches,
// signal bus, per-resource refresh coordinators, and the assistant session.
// Everything ambient in the original client (session token, process-wide
// caches, global event dispatch) lives here as injected dependencies with an
// explicit Start/Close lifecycle.
package app

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"chatfit/internal/api"
	"chatfit/internal/assistant"
	"chatfit/internal/cache"
	"chatfit/internal/catalog"
	"chatfit/internal/config"
	"chatfit/internal/refresh"
	"chatfit/internal/signal"
)

// App owns every component of the storefront client.
type App struct {
	cfg    config.Config
	logger *zap.Logger

	Client    *api.Client
	Store     *cache.Store
	Bus       *signal.Bus
	Assistant *assistant.Session

	resources map[signal.Topic]*resource
	subs      []*signal.Subscription
}

// resource ties one cache kind's coordinator to the fetch and loading-flag
// hooks it was wired with, so lifecycle code never matches on names.
type resource struct {
	name       string
	fetch      refresh.FetchFunc
	setLoading func(bool)
	coord      *refresh.Coordinator
}

// New wires the client, caches, bus, coordinators and assistant. Nothing is
// fetched or subscribed until Start.
func New(cfg config.Config, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := api.NewClient(api.Config{
		BaseURL: cfg.BaseURL,
		Token:   cfg.Token,
		Timeout: cfg.Timeout(),
	}, logger)
	store := cache.NewStore()
	bus := signal.NewBus(logger)

	a := &App{
		cfg:       cfg,
		logger:    logger,
		Client:    client,
		Store:     store,
		Bus:       bus,
		Assistant: assistant.NewSession(client, bus, logger),
		resources: make(map[signal.Topic]*resource),
	}

	a.register(signal.TopicProducts, "products", store.Products.SetLoading, a.fetchProducts)
	a.register(signal.TopicCart, "cart", store.Cart.SetLoading, a.fetchCart)
	a.register(signal.TopicWishlist, "wishlist", store.Wishlist.SetLoading, a.fetchWishlist)
	a.register(signal.TopicOrders, "orders", store.Orders.SetLoading, a.fetchOrders)

	return a
}

func (a *App) register(topic signal.Topic, name string, setLoading func(bool), fetch refresh.FetchFunc) {
	a.resources[topic] = &resource{
		name:       name,
		fetch:      fetch,
		setLoading: setLoading,
		coord:      refresh.New(name, a.cfg.DebounceWindow(), setLoading, fetch, a.logger),
	}
}

// Start binds each coordinator to its topic and performs the initial load of
// all four resource kinds in parallel. Individual load failures are logged
// and leave that cache empty; the next signal retries.
func (a *App) Start(ctx context.Context) {
	for topic, r := range a.resources {
		a.subs = append(a.subs, refresh.Bind(a.Bus, topic, r.coord))
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, r := range a.resources {
		r := r
		g.Go(func() error {
			start := time.Now()
			err := r.fetch(ctx)
			r.setLoading(false)
			if err != nil {
				a.logger.Warn("initial load failed",
					zap.String("resource", r.name),
					zap.Error(err))
				return nil
			}
			a.logger.Debug("initial load complete",
				zap.String("resource", r.name),
				zap.Duration("elapsed", time.Since(start)))
			return nil
		})
	}
	g.Wait()
}

// Close tears down subscriptions and coordinators. In-flight fetches settle
// on their own.
func (a *App) Close() {
	for _, sub := range a.subs {
		sub.Unsubscribe()
	}
	a.subs = nil
	for _, r := range a.resources {
		r.coord.Stop()
	}
}

// Refresh manually signals one resource kind, going through the same
// debounced path as any other invalidation.
func (a *App) Refresh(topic signal.Topic) {
	a.Bus.Publish(topic)
}

// RefreshNow skips the debounce wait for one resource kind.
func (a *App) RefreshNow(topic signal.Topic) {
	if r, ok := a.resources[topic]; ok {
		r.coord.Flush()
	}
}

// Coordinator exposes the coordinator for a topic, for tests and for callers
// that need settle notifications.
func (a *App) Coordinator(topic signal.Topic) *refresh.Coordinator {
	if r, ok := a.resources[topic]; ok {
		return r.coord
	}
	return nil
}

func (a *App) fetchProducts(ctx context.Context) error {
	data, err := a.Client.Products(ctx)
	if err != nil {
		return err
	}
	a.Store.Products.Replace(data)
	return nil
}

func (a *App) fetchCart(ctx context.Context) error {
	data, err := a.Client.CartItems(ctx)
	if err != nil {
		return err
	}
	a.Store.Cart.Replace(data)
	return nil
}

func (a *App) fetchWishlist(ctx context.Context) error {
	data, err := a.Client.WishlistItems(ctx)
	if err != nil {
		return err
	}
	a.Store.Wishlist.Replace(data)
	return nil
}

func (a *App) fetchOrders(ctx context.Context) error {
	data, err := a.Client.UserOrders(ctx)
	if err != nil {
		return err
	}
	a.Store.Orders.Replace(data)
	return nil
}

// AddToCart adds a variant to the cart and invalidates the cart cache on
// success. Failures surface to the caller and publish nothing.
func (a *App) AddToCart(ctx context.Context, variantID string, quantity int) error {
	if err := a.Client.AddToCart(ctx, variantID, quantity); err != nil {
		return err
	}
	a.Bus.Publish(signal.TopicCart)
	return nil
}

// PlaceOrder converts the cart into an order; both the cart and orders caches
// go stale.
func (a *App) PlaceOrder(ctx context.Context) error {
	if err := a.Client.PlaceOrder(ctx); err != nil {
		return err
	}
	a.Bus.Publish(signal.TopicCart)
	a.Bus.Publish(signal.TopicOrders)
	return nil
}

// AddToWishlist saves a variant and invalidates the wishlist cache.
func (a *App) AddToWishlist(ctx context.Context, variantID string) error {
	if err := a.Client.AddToWishlist(ctx, variantID); err != nil {
		return err
	}
	a.Bus.Publish(signal.TopicWishlist)
	return nil
}

// RemoveFromWishlist removes a variant and invalidates the wishlist cache.
func (a *App) RemoveFromWishlist(ctx context.Context, variantID string) error {
	if err := a.Client.RemoveFromWishlist(ctx, variantID); err != nil {
		return err
	}
	a.Bus.Publish(signal.TopicWishlist)
	return nil
}

// DeleteOrder deletes one order and invalidates the orders cache.
func (a *App) DeleteOrder(ctx context.Context, orderID string) error {
	if err := a.Client.DeleteOrder(ctx, orderID); err != nil {
		return err
	}
	a.Bus.Publish(signal.TopicOrders)
	return nil
}

// CatalogProducts aggregates the product cache into per-design summaries.
func (a *App) CatalogProducts() ([]catalog.Product, bool) {
	variants, loading := a.Store.Products.Get()
	items := make([]catalog.LineItem, len(variants))
	for i, v := range variants {
		items[i] = catalog.LineItem{
			Name:      v.Name,
			Size:      v.Size,
			Color:     v.Color,
			UnitPrice: v.Price.Float64(),
			Quantity:  v.Quantity,
			ImageURL:  v.ImageURL,
		}
	}
	return catalog.Aggregate(items), loading
}

// CartSummary aggregates the cart cache into per-product summaries plus the
// cart's total value.
func (a *App) CartSummary() ([]catalog.Product, float64, bool) {
	lines, loading := a.Store.Cart.Get()
	items := make([]catalog.LineItem, len(lines))
	for i, l := range lines {
		items[i] = catalog.LineItem{
			Name:      l.Name,
			Size:      l.Size,
			Color:     l.Color,
			UnitPrice: l.Price.Float64(),
			Quantity:  l.Quantity,
		}
	}
	products := catalog.Aggregate(items)
	var total float64
	for _, p := range products {
		total += p.TotalValue
	}
	return products, total, loading
}

// OrderGroups flattens the order cache into line items owned by their order
// id and returns one aggregated group per order, plus the grand total.
func (a *App) OrderGroups() ([]catalog.Group, float64, bool) {
	orders, loading := a.Store.Orders.Get()
	var items []catalog.LineItem
	for _, o := range orders {
		for _, l := range o.Items {
			items = append(items, catalog.LineItem{
				OwnerID:   o.OrderID,
				Name:      l.Name,
				Size:      l.Size,
				Color:     l.Color,
				UnitPrice: l.Price.Float64(),
				Quantity:  l.Quantity,
			})
		}
	}
	groups := catalog.GroupByOwner(items)
	return groups, catalog.GrandTotal(groups), loading
}

// WishlistItems returns the raw wishlist snapshot; the wishlist renders
// per-variant, not aggregated.
func (a *App) WishlistItems() ([]api.WishlistItem, bool) {
	return a.Store.Wishlist.Get()
}
