// Package mirror keeps local catalog snapshots current against the remote
// store.
//
// A subscription performs one full fetch up front and refetches the whole
// collection on every change-feed event. Refetching everything on any
// mutation trades efficiency for convergence: every observer lands on the
// same snapshot no matter which row changed. Consumers that want diffing can
// wrap this interface without touching subscribers.
package mirror

import (
	"context"
	"log"
	"sync"

	"github.com/boutikpaw/storefront/internal/catalog"
	"github.com/boutikpaw/storefront/internal/remote"
)

// UnsubscribeFunc tears down a subscription. It is idempotent; once it
// returns, no further snapshot is delivered.
type UnsubscribeFunc func()

// Mirror mediates all catalog reads and writes against the remote store.
type Mirror struct {
	client remote.Client
}

// New creates a mirror over the remote client.
func New(client remote.Client) *Mirror {
	return &Mirror{client: client}
}

// SubscribeProducts delivers the product collection now and after every
// remote change, ordered by name ascending.
func (m *Mirror) SubscribeProducts(ctx context.Context, onSnapshot func([]catalog.Product)) (UnsubscribeFunc, error) {
	return subscribeKind(ctx, m.client, remote.KindProducts, decodeProducts, onSnapshot)
}

// SubscribeCategories delivers the category collection now and after every
// remote change, ordered by name ascending.
func (m *Mirror) SubscribeCategories(ctx context.Context, onSnapshot func([]catalog.Category)) (UnsubscribeFunc, error) {
	return subscribeKind(ctx, m.client, remote.KindCategories, decodeCategories, onSnapshot)
}

// SubscribeBanner delivers the current banner, or nil while none exists.
func (m *Mirror) SubscribeBanner(ctx context.Context, onSnapshot func(*catalog.Banner)) (UnsubscribeFunc, error) {
	return subscribeKind(ctx, m.client, remote.KindBanners, decodeBanner, onSnapshot)
}

func decodeProducts(rows []remote.Row) []catalog.Product {
	products := make([]catalog.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, remote.ProductFromRow(row))
	}
	return products
}

func decodeCategories(rows []remote.Row) []catalog.Category {
	categories := make([]catalog.Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, remote.CategoryFromRow(row))
	}
	return categories
}

func decodeBanner(rows []remote.Row) *catalog.Banner {
	for _, row := range rows {
		banner := remote.BannerFromRow(row)
		if banner.ID == catalog.BannerID {
			return &banner
		}
	}
	if len(rows) > 0 {
		banner := remote.BannerFromRow(rows[0])
		return &banner
	}
	return nil
}

// subscribeKind runs one subscription: a single worker goroutine owns every
// fetch and delivery, so snapshots can never arrive out of fetch-completion
// order. Change events only arm a coalescing trigger; an event landing while
// a refetch is in flight schedules exactly one more refetch after it.
func subscribeKind[T any](ctx context.Context, client remote.Client, kind remote.Kind, decode func([]remote.Row) T, onSnapshot func(T)) (UnsubscribeFunc, error) {
	runCtx, cancel := context.WithCancel(ctx)

	trigger := make(chan struct{}, 1)
	trigger <- struct{}{}

	feedSub, err := client.SubscribeChanges(runCtx, kind, func(remote.Event) {
		select {
		case trigger <- struct{}{}:
		default:
		}
	})
	if err != nil {
		cancel()
		return nil, err
	}

	sub := &subscriber[T]{onSnapshot: onSnapshot}
	sub.wg.Add(1)
	go func() {
		defer sub.wg.Done()
		for {
			select {
			case <-runCtx.Done():
				return
			case <-trigger:
			}
			rows, fetchErr := client.Fetch(runCtx, kind)
			if fetchErr != nil {
				if runCtx.Err() == nil {
					log.Printf("mirror: fetch %s: %v", kind, fetchErr)
				}
				continue
			}
			sub.deliver(decode(rows))
		}
	}()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			sub.mu.Lock()
			sub.closed = true
			sub.mu.Unlock()
			cancel()
			if cancelErr := feedSub.Cancel(); cancelErr != nil {
				log.Printf("mirror: cancel %s feed: %v", kind, cancelErr)
			}
			sub.wg.Wait()
		})
	}
	return unsubscribe, nil
}

type subscriber[T any] struct {
	onSnapshot func(T)

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// deliver hands a snapshot to the consumer unless the subscription was torn
// down, including teardown racing an in-flight fetch.
func (s *subscriber[T]) deliver(snapshot T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.onSnapshot(snapshot)
}
