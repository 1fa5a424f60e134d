// Package localstore persists local-only storefront state: the cart, the
// wishlist, the outbound contact override, and the order history log.
//
// These records have no remote counterpart. Reads recover from missing or
// corrupt values by returning the empty default; startup never fails on
// local state.
package localstore

import (
	"context"
	"time"

	"github.com/boutikpaw/storefront/internal/catalog"
)

// CartEntry is one persisted cart line: a product snapshot plus a quantity.
type CartEntry struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// PastOrder is one immutable entry of the append-only local order log.
type PastOrder struct {
	ID    string      `json:"id"`
	Date  time.Time   `json:"date"`
	Items []CartEntry `json:"items"`
	Total int64       `json:"total"`
}

// Store persists local-only storefront state. Each key is read independently
// at startup and written on its own mutation event.
type Store interface {
	SaveCart(ctx context.Context, entries []CartEntry) error
	LoadCart(ctx context.Context) ([]CartEntry, error)

	SaveWishlist(ctx context.Context, productIDs []string) error
	LoadWishlist(ctx context.Context) ([]string, error)

	SaveContact(ctx context.Context, number string) error
	LoadContact(ctx context.Context) (string, error)

	SaveOrderHistory(ctx context.Context, orders []PastOrder) error
	LoadOrderHistory(ctx context.Context) ([]PastOrder, error)
}
