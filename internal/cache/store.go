package cache

import "chatfit/internal/api"

// Store bundles the one cache per resource kind that presentation reads from.
// Each cache is written only by its own refresh coordinator; kinds are
// independent, so no cross-kind locking exists.
type Store struct {
	Products *Cache[api.ProductVariant]
	Cart     *Cache[api.CartLine]
	Wishlist *Cache[api.WishlistItem]
	Orders   *Cache[api.Order]
}

// NewStore creates all four caches in their initial loading state.
func NewStore() *Store {
	return &Store{
		Products: New[api.ProductVariant](),
		Cart:     New[api.CartLine](),
		Wishlist: New[api.WishlistItem](),
		Orders:   New[api.Order](),
	}
}
