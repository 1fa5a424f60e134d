// Package postgres implements the remote catalog store on PostgreSQL.
//
// Every successful write publishes a change event so mirrors refetch; the
// feed itself is pluggable and lives elsewhere.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/boutikpaw/storefront/internal/platform/id"
	"github.com/boutikpaw/storefront/internal/remote"
)

// Publisher broadcasts change events after committed writes.
type Publisher interface {
	Publish(ctx context.Context, event remote.Event) error
}

// Subscriber registers change-feed handlers per collection.
type Subscriber interface {
	Subscribe(ctx context.Context, kind remote.Kind, onEvent func(remote.Event)) (remote.Subscription, error)
}

// Store is a PostgreSQL-backed remote.Client. The change feed is delegated
// to a Subscriber and mutations are announced through a Publisher.
type Store struct {
	db   *gorm.DB
	pub  Publisher
	feed Subscriber
}

// Open connects to PostgreSQL and migrates the catalog tables.
func Open(dsn string, pub Publisher, feed Subscriber) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres db: %w", err)
	}
	if err := db.AutoMigrate(&productRecord{}, &categoryRecord{}, &bannerRecord{}); err != nil {
		return nil, fmt.Errorf("migrate catalog tables: %w", err)
	}
	return &Store{db: db, pub: pub, feed: feed}, nil
}

// Close closes the underlying database connection pool.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("unwrap sql db: %w", err)
	}
	return sqlDB.Close()
}

// Fetch returns the full collection, ordered by name for products and
// categories. Banners are a single fixed-id row.
func (s *Store) Fetch(ctx context.Context, kind remote.Kind) ([]remote.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch kind {
	case remote.KindProducts:
		var records []productRecord
		if err := s.db.WithContext(ctx).Order("name asc").Find(&records).Error; err != nil {
			return nil, fmt.Errorf("fetch products: %w", err)
		}
		rows := make([]remote.Row, 0, len(records))
		for _, r := range records {
			rows = append(rows, r.row())
		}
		return rows, nil
	case remote.KindCategories:
		var records []categoryRecord
		if err := s.db.WithContext(ctx).Order("name asc").Find(&records).Error; err != nil {
			return nil, fmt.Errorf("fetch categories: %w", err)
		}
		rows := make([]remote.Row, 0, len(records))
		for _, r := range records {
			rows = append(rows, r.row())
		}
		return rows, nil
	case remote.KindBanners:
		var records []bannerRecord
		if err := s.db.WithContext(ctx).Find(&records).Error; err != nil {
			return nil, fmt.Errorf("fetch banners: %w", err)
		}
		rows := make([]remote.Row, 0, len(records))
		for _, r := range records {
			rows = append(rows, r.row())
		}
		return rows, nil
	default:
		return nil, remote.ErrUnknownKind
	}
}

// Insert adds a row, assigning an identifier when the caller omitted one.
func (s *Store) Insert(ctx context.Context, kind remote.Kind, row remote.Row) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	record, err := recordFromRow(kind, row)
	if err != nil {
		return err
	}
	if err := record.ensureID(); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("insert %s row: %w", kind, err)
	}
	s.publish(ctx, remote.Event{Kind: kind, Op: remote.OpInsert, ID: record.recordID()})
	return nil
}

// Update patches the row with the given id. Missing rows are an error so the
// banner upsert can fall back to insert.
func (s *Store) Update(ctx context.Context, kind remote.Kind, rowID string, patch remote.Row) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	record, err := recordFromRow(kind, patch)
	if err != nil {
		return err
	}
	columns := record.patchColumns()
	result := s.db.WithContext(ctx).Model(record.model()).Where("id = ?", idArg(kind, rowID)).Updates(columns)
	if result.Error != nil {
		return fmt.Errorf("update %s row %s: %w", kind, rowID, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("update %s row %s: %w", kind, rowID, remote.ErrNotFound)
	}
	s.publish(ctx, remote.Event{Kind: kind, Op: remote.OpUpdate, ID: rowID})
	return nil
}

// Delete removes the row with the given id. Deleting an absent row is not an
// error; the event is still published so mirrors reconverge.
func (s *Store) Delete(ctx context.Context, kind remote.Kind, rowID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	record, err := recordFromRow(kind, remote.Row{})
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Where("id = ?", idArg(kind, rowID)).Delete(record.model()).Error; err != nil {
		return fmt.Errorf("delete %s row %s: %w", kind, rowID, err)
	}
	s.publish(ctx, remote.Event{Kind: kind, Op: remote.OpDelete, ID: rowID})
	return nil
}

// SubscribeChanges registers a change-feed handler for the collection.
func (s *Store) SubscribeChanges(ctx context.Context, kind remote.Kind, onEvent func(remote.Event)) (remote.Subscription, error) {
	if s.feed == nil {
		return nil, errors.New("change feed is not configured")
	}
	return s.feed.Subscribe(ctx, kind, onEvent)
}

func (s *Store) publish(ctx context.Context, event remote.Event) {
	if s.pub == nil {
		return
	}
	// Feed delivery is best effort: a lost event means a stale mirror until
	// the next change, never a corrupted one.
	_ = s.pub.Publish(ctx, event)
}

type record interface {
	model() any
	row() remote.Row
	recordID() string
	ensureID() error
	patchColumns() map[string]any
}

func recordFromRow(kind remote.Kind, row remote.Row) (record, error) {
	switch kind {
	case remote.KindProducts:
		return newProductRecord(row), nil
	case remote.KindCategories:
		return newCategoryRecord(row), nil
	case remote.KindBanners:
		return newBannerRecord(row), nil
	default:
		return nil, remote.ErrUnknownKind
	}
}

// idArg types a row id for the collection's primary key column. Category
// ids are integers; everything else keys on strings.
func idArg(kind remote.Kind, rowID string) any {
	if kind != remote.KindCategories {
		return rowID
	}
	n, err := strconv.ParseInt(rowID, 10, 64)
	if err != nil {
		return int64(-1)
	}
	return n
}

// newRowID assigns identifiers for rows inserted without one.
func newRowID() (string, error) {
	generated, err := id.NewID()
	if err != nil {
		return "", fmt.Errorf("assign row id: %w", err)
	}
	return generated, nil
}
