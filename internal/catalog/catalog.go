// Package catalog models the storefront catalog: products, categories, and
// the promotional banner.
//
// Catalog records originate in the remote store and reach this package as
// mirror snapshots; nothing here ever invents a product identifier.
package catalog

import (
	"errors"
	"strings"
)

// CategoryAll is the local-only sentinel meaning "no category filter".
// It is never persisted remotely.
const CategoryAll = "All"

// BannerID is the fixed identifier of the singleton promotional banner row.
const BannerID = "storefront-banner"

var (
	// ErrEmptyName indicates a product name is required.
	ErrEmptyName = errors.New("product name is required")
	// ErrNegativePrice indicates a product price must be zero or positive.
	ErrNegativePrice = errors.New("product price must not be negative")
	// ErrReservedCategory indicates the sentinel category cannot be assigned.
	ErrReservedCategory = errors.New("category name is reserved")
)

// Product is a storefront catalog entry. Price is in integer gourdes.
// Supplier fields are visible in admin mode only.
type Product struct {
	ID              string
	Name            string
	Price           int64
	Category        string
	Description     string
	Image           string
	SupplierName    string
	SupplierContact string
}

// Category is a remote-assigned catalog grouping. Names are unique by
// convention in the remote store; uniqueness is not enforced locally.
type Category struct {
	ID   int64
	Name string
}

// Banner is the singleton promotional banner record.
type Banner struct {
	ID         string
	Title      string
	Subtitle   string
	PromoText  string
	ButtonText string
	Image      string
}

// NormalizeProduct validates and canonicalizes product fields ahead of a
// remote write. The ID is left untouched: the remote store assigns it.
func NormalizeProduct(p Product) (Product, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return Product{}, ErrEmptyName
	}
	if p.Price < 0 {
		return Product{}, ErrNegativePrice
	}
	p.Category = strings.TrimSpace(p.Category)
	if p.Category == CategoryAll {
		return Product{}, ErrReservedCategory
	}
	p.Description = strings.TrimSpace(p.Description)
	p.SupplierName = strings.TrimSpace(p.SupplierName)
	p.SupplierContact = strings.TrimSpace(p.SupplierContact)
	return p, nil
}
