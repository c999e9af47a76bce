package persistence

import (
	"slices"
	"strings"
)

// sortColumns whitelists the columns a list query may be ordered by. User
// input never reaches ORDER BY unless it names one of them exactly.
type sortColumns struct {
	allowed  []string
	fallback string
}

var (
	productSort  = sortColumns{[]string{"created_at", "updated_at", "name", "sku", "price", "stock", "sort_order"}, "created_at"}
	saleSort     = sortColumns{[]string{"created_at", "total_amount", "receipt_number"}, "created_at"}
	vendorSort   = sortColumns{[]string{"created_at", "name"}, "name"}
	purchaseSort = sortColumns{[]string{"created_at", "purchased_at", "total_amount"}, "purchased_at"}
)

// column returns field when whitelisted, else the fallback
func (s sortColumns) column(field string) string {
	field = strings.TrimSpace(field)
	if slices.Contains(s.allowed, field) {
		return field
	}
	return s.fallback
}

// clause builds "<column> ASC|DESC"; anything but asc sorts newest/largest first
func (s sortColumns) clause(field, dir string) string {
	if strings.EqualFold(strings.TrimSpace(dir), "asc") {
		return s.column(field) + " ASC"
	}
	return s.column(field) + " DESC"
}
