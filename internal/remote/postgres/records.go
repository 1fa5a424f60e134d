package postgres

import (
	"github.com/boutikpaw/storefront/internal/remote"
)

// productRecord is the products table row. Column names follow the remote
// snake_case schema; translation to catalog types stays in package remote.
type productRecord struct {
	ID              string `gorm:"column:id;primaryKey;type:varchar(64)"`
	Name            string `gorm:"column:name;not null;type:varchar(200)"`
	Price           int64  `gorm:"column:price;not null"`
	Category        string `gorm:"column:category;type:varchar(100)"`
	Description     string `gorm:"column:description;type:text"`
	Image           string `gorm:"column:image;type:text"`
	SupplierName    string `gorm:"column:supplier_name;type:varchar(200)"`
	SupplierContact string `gorm:"column:supplier_contact;type:varchar(100)"`
}

func (productRecord) TableName() string { return "products" }

func newProductRecord(row remote.Row) *productRecord {
	p := remote.ProductFromRow(row)
	return &productRecord{
		ID:              p.ID,
		Name:            p.Name,
		Price:           p.Price,
		Category:        p.Category,
		Description:     p.Description,
		Image:           p.Image,
		SupplierName:    p.SupplierName,
		SupplierContact: p.SupplierContact,
	}
}

func (r *productRecord) model() any { return &productRecord{} }

func (r *productRecord) row() remote.Row {
	return remote.Row{
		"id":               r.ID,
		"name":             r.Name,
		"price":            r.Price,
		"category":         r.Category,
		"description":      r.Description,
		"image":            r.Image,
		"supplier_name":    r.SupplierName,
		"supplier_contact": r.SupplierContact,
	}
}

func (r *productRecord) recordID() string { return r.ID }

func (r *productRecord) ensureID() error {
	if r.ID != "" {
		return nil
	}
	generated, err := newRowID()
	if err != nil {
		return err
	}
	r.ID = generated
	return nil
}

func (r *productRecord) patchColumns() map[string]any {
	return map[string]any{
		"name":             r.Name,
		"price":            r.Price,
		"category":         r.Category,
		"description":      r.Description,
		"image":            r.Image,
		"supplier_name":    r.SupplierName,
		"supplier_contact": r.SupplierContact,
	}
}

// categoryRecord is the categories table row. Identifiers are integers
// assigned by the database sequence.
type categoryRecord struct {
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;not null;type:varchar(100)"`
}

func (categoryRecord) TableName() string { return "categories" }

func newCategoryRecord(row remote.Row) *categoryRecord {
	c := remote.CategoryFromRow(row)
	return &categoryRecord{ID: c.ID, Name: c.Name}
}

func (r *categoryRecord) model() any { return &categoryRecord{} }

func (r *categoryRecord) row() remote.Row {
	return remote.Row{"id": r.ID, "name": r.Name}
}

func (r *categoryRecord) recordID() string {
	return remote.CategoryRowID(r.ID)
}

func (r *categoryRecord) ensureID() error {
	// The database sequence assigns category ids.
	return nil
}

func (r *categoryRecord) patchColumns() map[string]any {
	return map[string]any{"name": r.Name}
}

// bannerRecord is the banners table row; in practice a single fixed-id row.
type bannerRecord struct {
	ID         string `gorm:"column:id;primaryKey;type:varchar(64)"`
	Title      string `gorm:"column:title;type:text"`
	Subtitle   string `gorm:"column:subtitle;type:text"`
	PromoText  string `gorm:"column:promo_text;type:text"`
	ButtonText string `gorm:"column:button_text;type:text"`
	Image      string `gorm:"column:image;type:text"`
}

func (bannerRecord) TableName() string { return "banners" }

func newBannerRecord(row remote.Row) *bannerRecord {
	b := remote.BannerFromRow(row)
	return &bannerRecord{
		ID:         b.ID,
		Title:      b.Title,
		Subtitle:   b.Subtitle,
		PromoText:  b.PromoText,
		ButtonText: b.ButtonText,
		Image:      b.Image,
	}
}

func (r *bannerRecord) model() any { return &bannerRecord{} }

func (r *bannerRecord) row() remote.Row {
	return remote.Row{
		"id":          r.ID,
		"title":       r.Title,
		"subtitle":    r.Subtitle,
		"promo_text":  r.PromoText,
		"button_text": r.ButtonText,
		"image":       r.Image,
	}
}

func (r *bannerRecord) recordID() string { return r.ID }

func (r *bannerRecord) ensureID() error {
	if r.ID != "" {
		return nil
	}
	generated, err := newRowID()
	if err != nil {
		return err
	}
	r.ID = generated
	return nil
}

func (r *bannerRecord) patchColumns() map[string]any {
	return map[string]any{
		"title":       r.Title,
		"subtitle":    r.Subtitle,
		"promo_text":  r.PromoText,
		"button_text": r.ButtonText,
		"image":       r.Image,
	}
}
