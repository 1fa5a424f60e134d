package catalog

import "strings"

// FilterProducts derives the displayed product view from a catalog snapshot.
//
// A category other than CategoryAll keeps only exact, case-sensitive
// category matches. A non-empty search term further keeps products whose
// name or description contains the term case-insensitively. The input order
// is preserved and the input slice is never mutated.
func FilterProducts(products []Product, category, searchTerm string) []Product {
	result := make([]Product, 0, len(products))
	term := strings.ToLower(strings.TrimSpace(searchTerm))
	for _, p := range products {
		if category != CategoryAll && p.Category != category {
			continue
		}
		if term != "" {
			name := strings.ToLower(p.Name)
			desc := strings.ToLower(p.Description)
			if !strings.Contains(name, term) && !strings.Contains(desc, term) {
				continue
			}
		}
		result = append(result, p)
	}
	return result
}

// CategoryNames prepends the CategoryAll sentinel to the remote category
// names, preserving the remote order. No local dedup or sort is applied.
func CategoryNames(categories []Category) []string {
	names := make([]string, 0, len(categories)+1)
	names = append(names, CategoryAll)
	for _, c := range categories {
		names = append(names, c.Name)
	}
	return names
}

// StockValue sums product prices across the catalog. It is the admin
// dashboard aggregate, not a per-quantity inventory valuation.
func StockValue(products []Product) int64 {
	var total int64
	for _, p := range products {
		total += p.Price
	}
	return total
}
