package remote

import (
	"strconv"

	"github.com/boutikpaw/storefront/internal/catalog"
)

// Remote column names. The bidirectional mapping between these and the
// catalog struct fields lives in this file and nowhere else.
const (
	colID              = "id"
	colName            = "name"
	colPrice           = "price"
	colCategory        = "category"
	colDescription     = "description"
	colImage           = "image"
	colSupplierName    = "supplier_name"
	colSupplierContact = "supplier_contact"
	colTitle           = "title"
	colSubtitle        = "subtitle"
	colPromoText       = "promo_text"
	colButtonText      = "button_text"
)

// ProductRow maps a product to its remote row representation.
func ProductRow(p catalog.Product) Row {
	return Row{
		colID:              p.ID,
		colName:            p.Name,
		colPrice:           p.Price,
		colCategory:        p.Category,
		colDescription:     p.Description,
		colImage:           p.Image,
		colSupplierName:    p.SupplierName,
		colSupplierContact: p.SupplierContact,
	}
}

// ProductFromRow maps a remote row to a product.
func ProductFromRow(row Row) catalog.Product {
	return catalog.Product{
		ID:              rowString(row, colID),
		Name:            rowString(row, colName),
		Price:           rowInt(row, colPrice),
		Category:        rowString(row, colCategory),
		Description:     rowString(row, colDescription),
		Image:           rowString(row, colImage),
		SupplierName:    rowString(row, colSupplierName),
		SupplierContact: rowString(row, colSupplierContact),
	}
}

// CategoryRow maps a category to its remote row representation.
func CategoryRow(c catalog.Category) Row {
	return Row{
		colID:   c.ID,
		colName: c.Name,
	}
}

// CategoryFromRow maps a remote row to a category.
func CategoryFromRow(row Row) catalog.Category {
	return catalog.Category{
		ID:   rowInt(row, colID),
		Name: rowString(row, colName),
	}
}

// BannerRow maps a banner to its remote row representation.
func BannerRow(b catalog.Banner) Row {
	return Row{
		colID:         b.ID,
		colTitle:      b.Title,
		colSubtitle:   b.Subtitle,
		colPromoText:  b.PromoText,
		colButtonText: b.ButtonText,
		colImage:      b.Image,
	}
}

// BannerFromRow maps a remote row to a banner.
func BannerFromRow(row Row) catalog.Banner {
	return catalog.Banner{
		ID:         rowString(row, colID),
		Title:      rowString(row, colTitle),
		Subtitle:   rowString(row, colSubtitle),
		PromoText:  rowString(row, colPromoText),
		ButtonText: rowString(row, colButtonText),
		Image:      rowString(row, colImage),
	}
}

// CategoryRowID renders an integer category identifier in the string form
// the collaborator interface uses for row ids.
func CategoryRowID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// rowString reads a string column, tolerating numeric ids from JSON decoding.
func rowString(row Row, key string) string {
	switch v := row[key].(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatInt(int64(v), 10)
	default:
		return ""
	}
}

// rowInt reads an integer column, tolerating JSON float64 and string values.
func rowInt(row Row, key string) int64 {
	switch v := row[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
