// Package cart owns the authoritative in-memory cart.
//
// The cart is a sequence of product snapshots with quantities, keyed by
// product identity: adding a product already present increments its quantity
// instead of duplicating the entry. Every mutation writes the full
// collection through to the local store so a reload mid-session never loses
// the cart.
package cart

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/boutikpaw/storefront/internal/catalog"
	"github.com/boutikpaw/storefront/internal/localstore"
)

// Notifier surfaces cart events to the user.
type Notifier interface {
	Success(message string)
	Info(message string)
}

// Aggregator is the single writer of the cart collection. All other
// components read through Entries, Total, and ItemCount.
type Aggregator struct {
	store    localstore.Store
	notifier Notifier

	mu      sync.Mutex
	entries []localstore.CartEntry
}

// New creates an empty aggregator. The notifier may be nil.
func New(store localstore.Store, notifier Notifier) *Aggregator {
	return &Aggregator{store: store, notifier: notifier}
}

// Restore loads the persisted cart. Missing or corrupt state restores to an
// empty cart.
func (a *Aggregator) Restore(ctx context.Context) error {
	entries, err := a.store.LoadCart(ctx)
	if err != nil {
		return fmt.Errorf("restore cart: %w", err)
	}
	a.mu.Lock()
	a.entries = entries
	a.mu.Unlock()
	return nil
}

// Add puts one unit of the product in the cart, merging by product id. The
// merge is computed from the current collection on every call, so rapid
// repeated adds can never produce a duplicate entry.
func (a *Aggregator) Add(ctx context.Context, product catalog.Product) {
	a.mu.Lock()
	merged := false
	for i := range a.entries {
		if a.entries[i].Product.ID == product.ID {
			a.entries[i].Quantity++
			merged = true
			break
		}
	}
	if !merged {
		a.entries = append(a.entries, localstore.CartEntry{Product: product, Quantity: 1})
	}
	a.persistLocked(ctx)
	a.mu.Unlock()

	if a.notifier != nil {
		a.notifier.Success(fmt.Sprintf("%s ajoute nan panyen!", product.Name))
	}
}

// ChangeQuantity adjusts an entry's quantity by delta, clamping at 1.
// Decrementing never removes the entry; Remove is a distinct operation. An
// absent id is a no-op that still persists the collection.
func (a *Aggregator) ChangeQuantity(ctx context.Context, productID string, delta int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.entries {
		if a.entries[i].Product.ID == productID {
			next := a.entries[i].Quantity + delta
			if next < 1 {
				next = 1
			}
			a.entries[i].Quantity = next
			break
		}
	}
	a.persistLocked(ctx)
}

// Remove drops the entry with the given product id. Removing an absent id is
// a no-op, not an error.
func (a *Aggregator) Remove(ctx context.Context, productID string) {
	a.mu.Lock()
	kept := a.entries[:0]
	for _, entry := range a.entries {
		if entry.Product.ID != productID {
			kept = append(kept, entry)
		}
	}
	a.entries = kept
	a.persistLocked(ctx)
	a.mu.Unlock()

	if a.notifier != nil {
		a.notifier.Info("Retire nan panyen")
	}
}

// Clear empties the cart. Checkout never calls this; clearing is always an
// explicit user action.
func (a *Aggregator) Clear(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = nil
	a.persistLocked(ctx)
}

// Entries returns a copy of the cart collection in insertion order.
func (a *Aggregator) Entries() []localstore.CartEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]localstore.CartEntry(nil), a.entries...)
}

// Total sums price times quantity over all entries.
func (a *Aggregator) Total() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	var total int64
	for _, entry := range a.entries {
		total += entry.Product.Price * int64(entry.Quantity)
	}
	return total
}

// ItemCount sums quantities: a single quantity-3 entry counts as 3 items.
func (a *Aggregator) ItemCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	var count int
	for _, entry := range a.entries {
		count += entry.Quantity
	}
	return count
}

// persistLocked writes the full collection through to the local store. The
// write is fire-and-forget: a failure is logged, never surfaced, and the
// next mutation rewrites the complete state anyway.
func (a *Aggregator) persistLocked(ctx context.Context) {
	if a.store == nil {
		return
	}
	snapshot := append([]localstore.CartEntry(nil), a.entries...)
	if err := a.store.SaveCart(ctx, snapshot); err != nil {
		log.Printf("cart: persist: %v", err)
	}
}
