package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatfit/internal/config"
	"chatfit/internal/refresh"
	"chatfit/internal/signal"
)

// fakeBackend serves the storefront endpoints with mutable in-memory state.
type fakeBackend struct {
	cartFetches int32
	cartLines   atomic.Value // []map[string]any
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/tshirts", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": "v1", "name": "A", "size": "M", "color": "Red", "price": 10.0, "quantity": 5},
			{"id": "v2", "name": "A", "size": "L", "color": "Red", "price": 10.0, "quantity": 2},
		})
	})
	mux.HandleFunc("GET /api/cart", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.cartFetches, 1)
		json.NewEncoder(w).Encode(f.cartLines.Load())
	})
	mux.HandleFunc("POST /api/cart/add", func(w http.ResponseWriter, r *http.Request) {
		f.cartLines.Store([]map[string]any{
			{"name": "A", "size": "M", "color": "Red", "price": 10.0, "quantity": 2},
		})
		w.Write([]byte(`{"success":true}`))
	})
	mux.HandleFunc("GET /api/wishlist", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	mux.HandleFunc("GET /api/order/user", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			{
				"order_id": "o1",
				"items": []map[string]any{
					{"name": "B", "size": "M", "color": "Blue", "price": 5.0, "quantity": 3},
				},
			},
		})
	})
	return mux
}

func newTestApp(t *testing.T, debounceMS int) (*App, *fakeBackend) {
	t.Helper()
	backend := &fakeBackend{}
	backend.cartLines.Store([]map[string]any{})
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.BaseURL = srv.URL
	cfg.DebounceMS = debounceMS

	a := New(cfg, nil)
	t.Cleanup(a.Close)
	return a, backend
}

func TestStartLoadsAllResources(t *testing.T) {
	a, _ := newTestApp(t, 1000)
	a.Start(context.Background())

	products, loading := a.CatalogProducts()
	require.False(t, loading)
	require.Len(t, products, 1)
	assert.Equal(t, "A", products[0].Name)
	assert.Equal(t, 7, products[0].TotalQuantity)
	assert.Len(t, products[0].Variants, 2)

	groups, total, loading := a.OrderGroups()
	require.False(t, loading)
	require.Len(t, groups, 1)
	assert.Equal(t, "o1", groups[0].OwnerID)
	assert.Equal(t, 15.0, total)

	_, loading = a.WishlistItems()
	assert.False(t, loading)
}

func TestAddToCartInvalidatesAndRefetches(t *testing.T) {
	a, backend := newTestApp(t, 20)
	a.Start(context.Background())
	initialFetches := atomic.LoadInt32(&backend.cartFetches)

	done := a.Coordinator(signal.TopicCart).Settled()
	require.NoError(t, a.AddToCart(context.Background(), "v1", 2))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("cart refresh never ran")
	}

	assert.Equal(t, initialFetches+1, atomic.LoadInt32(&backend.cartFetches))
	products, total, _ := a.CartSummary()
	require.Len(t, products, 1)
	assert.Equal(t, 20.0, total)
}

func TestBurstOfMutationsCoalesces(t *testing.T) {
	a, backend := newTestApp(t, 80)
	a.Start(context.Background())
	initialFetches := atomic.LoadInt32(&backend.cartFetches)

	// Several invalidations inside one window must trigger one re-fetch.
	done := a.Coordinator(signal.TopicCart).Settled()
	for i := 0; i < 4; i++ {
		a.Refresh(signal.TopicCart)
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("cart refresh never ran")
	}
	time.Sleep(150 * time.Millisecond)

	assert.Equal(t, initialFetches+1, atomic.LoadInt32(&backend.cartFetches))
}

func TestCartSignalDoesNotTouchOrders(t *testing.T) {
	a, _ := newTestApp(t, 20)
	a.Start(context.Background())

	done := a.Coordinator(signal.TopicCart).Settled()
	a.Refresh(signal.TopicCart)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("cart refresh never ran")
	}

	assert.Equal(t, refresh.Idle, a.Coordinator(signal.TopicOrders).State())
}

func TestImmediateRefreshSurvivesRacingSignal(t *testing.T) {
	a, backend := newTestApp(t, 1000)
	a.Start(context.Background())
	initialFetches := atomic.LoadInt32(&backend.cartFetches)

	// A flush followed straight away by a bus publish on the same topic hits
	// the coordinator before its fire goroutine runs; the publish must fold
	// into that fetch.
	done := a.Coordinator(signal.TopicCart).Settled()
	a.RefreshNow(signal.TopicCart)
	a.Refresh(signal.TopicCart)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("cart refresh never ran")
	}

	assert.GreaterOrEqual(t, atomic.LoadInt32(&backend.cartFetches), initialFetches+1)
}

func TestInitialLoadFailureClearsLoading(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.BaseURL = srv.URL
	a := New(cfg, nil)
	t.Cleanup(a.Close)
	a.Start(context.Background())

	products, loading := a.CatalogProducts()
	assert.False(t, loading)
	assert.Empty(t, products)
	_, _, loading = a.CartSummary()
	assert.False(t, loading)
	_, loading = a.WishlistItems()
	assert.False(t, loading)
	_, _, loading = a.OrderGroups()
	assert.False(t, loading)
}

func TestMutationFailurePublishesNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.BaseURL = srv.URL
	a := New(cfg, nil)
	t.Cleanup(a.Close)

	var published int32
	a.Bus.Subscribe(signal.TopicCart, func() { atomic.AddInt32(&published, 1) })

	require.Error(t, a.AddToCart(context.Background(), "v1", 1))
	assert.Zero(t, atomic.LoadInt32(&published))
}
