package app

import (
	"context"
	"errors"
	"log"

	"github.com/boutikpaw/storefront/internal/assistant"
	"github.com/boutikpaw/storefront/internal/blob"
	"github.com/boutikpaw/storefront/internal/catalog"
)

// ErrLocked indicates a management operation that needs an unlocked session.
var ErrLocked = errors.New("management session is locked")

// ErrNoImageStore indicates no image bucket is attached.
var ErrNoImageStore = errors.New("image storage is not configured")

// Management operations. Each one requires an unlocked management session
// and surfaces its outcome through the toast queue, mirroring how shopper
// actions report.

const lockedMessage = "Ou dwe louvri mòd jesyon an anvan."

// CreateProduct adds a product to the remote catalog.
func (a *App) CreateProduct(ctx context.Context, product catalog.Product) bool {
	if !a.requireUnlocked() {
		return false
	}
	if !a.mirror.CreateProduct(ctx, product) {
		a.Toasts.Error("Nou pa t ka ajoute pwodui a.")
		return false
	}
	a.Toasts.Success("Pwodui a ajoute!")
	return true
}

// UpdateProduct saves changes to an existing product. When the image URL
// changed, the previous bucket image is discarded after the save succeeds.
func (a *App) UpdateProduct(ctx context.Context, product catalog.Product) bool {
	if !a.requireUnlocked() {
		return false
	}
	previous, known := a.findProduct(product.ID)
	if !a.mirror.UpdateProduct(ctx, product.ID, product) {
		a.Toasts.Error("Nou pa t ka sove chanjman yo.")
		return false
	}
	if known && previous.Image != "" && previous.Image != product.Image {
		a.discardImage(ctx, previous.Image)
	}
	a.Toasts.Success("Chanjman yo sove!")
	return true
}

// DeleteProduct removes a product from the remote catalog along with its
// bucket image.
func (a *App) DeleteProduct(ctx context.Context, productID string) bool {
	if !a.requireUnlocked() {
		return false
	}
	previous, known := a.findProduct(productID)
	if !a.mirror.DeleteProduct(ctx, productID) {
		a.Toasts.Error("Nou pa t ka efase pwodui a.")
		return false
	}
	if known && previous.Image != "" {
		a.discardImage(ctx, previous.Image)
	}
	a.Toasts.Info("Pwodui a efase.")
	return true
}

// UploadImage stores an image for the product or banner forms and returns
// its public URL.
func (a *App) UploadImage(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	if !a.requireUnlocked() {
		return "", ErrLocked
	}
	if a.images == nil {
		return "", ErrNoImageStore
	}
	publicURL, err := a.images.Upload(ctx, filename, contentType, data)
	if err != nil {
		a.Toasts.Error("Imaj la pa t ka monte.")
		return "", err
	}
	return publicURL, nil
}

// discardImage drops a replaced bucket image. Images hosted elsewhere are
// left alone; failures only cost orphaned storage, so they are logged and
// swallowed.
func (a *App) discardImage(ctx context.Context, publicURL string) {
	if a.images == nil {
		return
	}
	err := a.images.Delete(ctx, publicURL)
	if err != nil && !errors.Is(err, blob.ErrForeignURL) {
		log.Printf("app: discarding image %s failed: %v", publicURL, err)
	}
}

func (a *App) findProduct(productID string) (catalog.Product, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, product := range a.products {
		if product.ID == productID {
			return product, true
		}
	}
	return catalog.Product{}, false
}

// CreateCategory adds a category.
func (a *App) CreateCategory(ctx context.Context, name string) bool {
	if !a.requireUnlocked() {
		return false
	}
	if !a.mirror.CreateCategory(ctx, name) {
		a.Toasts.Error("Nou pa t ka ajoute kategori a.")
		return false
	}
	a.Toasts.Success("Kategori a ajoute!")
	return true
}

// DeleteCategory removes a category.
func (a *App) DeleteCategory(ctx context.Context, categoryID int64) bool {
	if !a.requireUnlocked() {
		return false
	}
	if !a.mirror.DeleteCategory(ctx, categoryID) {
		a.Toasts.Error("Nou pa t ka efase kategori a.")
		return false
	}
	a.Toasts.Info("Kategori a efase.")
	return true
}

// SaveBanner creates or replaces the storefront banner.
func (a *App) SaveBanner(ctx context.Context, banner catalog.Banner) bool {
	if !a.requireUnlocked() {
		return false
	}
	if !a.mirror.UpsertBanner(ctx, banner) {
		a.Toasts.Error("Nou pa t ka sove banyè a.")
		return false
	}
	a.Toasts.Success("Banyè a sove!")
	return true
}

// StockValue totals the catalog's unit prices for the management dashboard.
func (a *App) StockValue() int64 {
	a.mu.Lock()
	products := a.products
	a.mu.Unlock()
	return catalog.StockValue(products)
}

// DescribeProduct drafts a sales description for the management product
// form. It always returns usable text.
func (a *App) DescribeProduct(ctx context.Context, name, category string) string {
	if a.assistant == nil {
		return assistant.FallbackDescription
	}
	return a.assistant.GenerateProductDescription(ctx, name, category)
}

func (a *App) requireUnlocked() bool {
	if a.Admin.Unlocked() {
		return true
	}
	a.Toasts.Error(lockedMessage)
	return false
}
