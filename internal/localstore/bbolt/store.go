// Package bbolt provides a BoltDB-backed local store.
package bbolt

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"github.com/boutikpaw/storefront/internal/localstore"
)

const (
	stateBucket = "state"

	cartKey     = "cart"
	wishlistKey = "wishlist"
	contactKey  = "wa_number"
	historyKey  = "order_history"
)

// Store provides BoltDB-backed persistence for local storefront state.
type Store struct {
	db *bbolt.DB
}

// Open opens a BoltDB-backed store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	db, err := bbolt.Open(cleanPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	store := &Store{db: db}
	if err := store.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureBuckets() error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		_, createErr := tx.CreateBucketIfNotExists([]byte(stateBucket))
		return createErr
	})
	if err != nil {
		return fmt.Errorf("ensure state bucket: %w", err)
	}
	return nil
}

// SaveCart persists the full cart collection.
func (s *Store) SaveCart(ctx context.Context, entries []localstore.CartEntry) error {
	return s.put(ctx, cartKey, entries)
}

// LoadCart reads the persisted cart, substituting empty for missing or
// corrupt state.
func (s *Store) LoadCart(ctx context.Context) ([]localstore.CartEntry, error) {
	var entries []localstore.CartEntry
	if err := s.get(ctx, cartKey, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// SaveWishlist persists the wishlist identifier list.
func (s *Store) SaveWishlist(ctx context.Context, productIDs []string) error {
	return s.put(ctx, wishlistKey, productIDs)
}

// LoadWishlist reads the persisted wishlist, substituting empty for missing
// or corrupt state.
func (s *Store) LoadWishlist(ctx context.Context) ([]string, error) {
	var ids []string
	if err := s.get(ctx, wishlistKey, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// SaveContact persists the outbound contact override.
func (s *Store) SaveContact(ctx context.Context, number string) error {
	return s.put(ctx, contactKey, number)
}

// LoadContact reads the persisted outbound contact, substituting empty for
// missing or corrupt state.
func (s *Store) LoadContact(ctx context.Context) (string, error) {
	var number string
	if err := s.get(ctx, contactKey, &number); err != nil {
		return "", err
	}
	return number, nil
}

// SaveOrderHistory persists the full order history log.
func (s *Store) SaveOrderHistory(ctx context.Context, orders []localstore.PastOrder) error {
	return s.put(ctx, historyKey, orders)
}

// LoadOrderHistory reads the persisted order history, substituting empty for
// missing or corrupt state.
func (s *Store) LoadOrderHistory(ctx context.Context) ([]localstore.PastOrder, error) {
	var orders []localstore.PastOrder
	if err := s.get(ctx, historyKey, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *Store) put(ctx context.Context, key string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(stateBucket))
		if bucket == nil {
			return fmt.Errorf("state bucket is missing")
		}
		return bucket.Put([]byte(key), payload)
	})
}

// get decodes the value stored under key into target. A missing key leaves
// the target at its zero value; a corrupt value is logged and discarded so
// startup degrades to the empty default instead of failing.
func (s *Store) get(ctx context.Context, key string, target any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	return s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(stateBucket))
		if bucket == nil {
			return fmt.Errorf("state bucket is missing")
		}
		payload := bucket.Get([]byte(key))
		if payload == nil {
			return nil
		}
		if err := json.Unmarshal(payload, target); err != nil {
			log.Printf("localstore: discard corrupt %s state: %v", key, err)
		}
		return nil
	})
}
