package mirror

import (
	"context"
	"log"

	"github.com/boutikpaw/storefront/internal/catalog"
	"github.com/boutikpaw/storefront/internal/remote"
)

// Write operations report success as a boolean after logging the failure
// reason. There are no automatic retries; surfacing the failure to the user
// is the caller's call.

// CreateProduct inserts a new product. The remote store assigns the id.
func (m *Mirror) CreateProduct(ctx context.Context, p catalog.Product) bool {
	normalized, err := catalog.NormalizeProduct(p)
	if err != nil {
		log.Printf("mirror: create product: %v", err)
		return false
	}
	normalized.ID = ""
	if err := m.client.Insert(ctx, remote.KindProducts, remote.ProductRow(normalized)); err != nil {
		log.Printf("mirror: create product: %v", err)
		return false
	}
	return true
}

// UpdateProduct patches the product with the given id.
func (m *Mirror) UpdateProduct(ctx context.Context, productID string, p catalog.Product) bool {
	normalized, err := catalog.NormalizeProduct(p)
	if err != nil {
		log.Printf("mirror: update product %s: %v", productID, err)
		return false
	}
	if err := m.client.Update(ctx, remote.KindProducts, productID, remote.ProductRow(normalized)); err != nil {
		log.Printf("mirror: update product %s: %v", productID, err)
		return false
	}
	return true
}

// DeleteProduct removes the product with the given id.
func (m *Mirror) DeleteProduct(ctx context.Context, productID string) bool {
	if err := m.client.Delete(ctx, remote.KindProducts, productID); err != nil {
		log.Printf("mirror: delete product %s: %v", productID, err)
		return false
	}
	return true
}

// CreateCategory inserts a new category; the remote store assigns the
// integer id.
func (m *Mirror) CreateCategory(ctx context.Context, name string) bool {
	if err := m.client.Insert(ctx, remote.KindCategories, remote.CategoryRow(catalog.Category{Name: name})); err != nil {
		log.Printf("mirror: create category %q: %v", name, err)
		return false
	}
	return true
}

// DeleteCategory removes the category with the given id.
func (m *Mirror) DeleteCategory(ctx context.Context, categoryID int64) bool {
	if err := m.client.Delete(ctx, remote.KindCategories, remote.CategoryRowID(categoryID)); err != nil {
		log.Printf("mirror: delete category %d: %v", categoryID, err)
		return false
	}
	return true
}

// UpsertBanner updates the singleton banner row, falling back to insert when
// the row does not exist yet. The fallback replaces a separate existence
// check.
func (m *Mirror) UpsertBanner(ctx context.Context, b catalog.Banner) bool {
	b.ID = catalog.BannerID
	row := remote.BannerRow(b)
	if err := m.client.Update(ctx, remote.KindBanners, catalog.BannerID, row); err != nil {
		if insertErr := m.client.Insert(ctx, remote.KindBanners, row); insertErr != nil {
			log.Printf("mirror: upsert banner: update: %v; insert: %v", err, insertErr)
			return false
		}
	}
	return true
}
