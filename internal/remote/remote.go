// Package remote defines the boundary to the remote catalog store and its
// change feed.
//
// Remote records cross this boundary as untranslated rows keyed by the
// remote snake_case column names. Translation to and from the in-memory
// catalog types happens in this package only; nothing above it ever sees a
// raw column name.
package remote

import (
	"context"
	"errors"
)

// Kind identifies one mirrored remote collection.
type Kind string

const (
	// KindProducts is the products collection.
	KindProducts Kind = "products"
	// KindCategories is the categories collection.
	KindCategories Kind = "categories"
	// KindBanners is the banners collection.
	KindBanners Kind = "banners"
)

// Op labels a change-feed mutation.
type Op string

const (
	// OpInsert marks a row insertion.
	OpInsert Op = "insert"
	// OpUpdate marks a row update.
	OpUpdate Op = "update"
	// OpDelete marks a row deletion.
	OpDelete Op = "delete"
)

var (
	// ErrNotFound indicates a requested remote row is missing.
	ErrNotFound = errors.New("remote row not found")
	// ErrUnknownKind indicates an unrecognized collection kind.
	ErrUnknownKind = errors.New("unknown collection kind")
)

// Row is one untranslated remote record, keyed by remote column names.
type Row map[string]any

// Event is one change-feed notification. Consumers treat any event as an
// invalidation of the whole collection; no row payload is carried.
type Event struct {
	Kind Kind
	Op   Op
	ID   string
}

// Subscription is a standing change-feed registration. Cancel is idempotent
// and stops all further event delivery.
type Subscription interface {
	Cancel() error
}

// Client is the remote data collaborator: per-collection fetch, writes, and
// change-feed registration.
type Client interface {
	// Fetch returns the full collection, ordered by name ascending for
	// products and categories.
	Fetch(ctx context.Context, kind Kind) ([]Row, error)
	// Insert adds a row. A missing id is assigned by the store.
	Insert(ctx context.Context, kind Kind, row Row) error
	// Update patches the row with the given id.
	Update(ctx context.Context, kind Kind, id string, patch Row) error
	// Delete removes the row with the given id.
	Delete(ctx context.Context, kind Kind, id string) error
	// SubscribeChanges registers onEvent for mutations on the collection.
	SubscribeChanges(ctx context.Context, kind Kind, onEvent func(Event)) (Subscription, error)
}
