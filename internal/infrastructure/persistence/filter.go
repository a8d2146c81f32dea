package persistence

import (
	"fmt"
	"strings"

	"github.com/osworks/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// allowedSortFields whitelists the columns list endpoints may sort by.
// Anything else falls back to created_at.
var allowedSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"number":     true,
	"status":     true,
	"due_date":   true,
	"event":      true,
}

// validateSortOrder normalizes the sort direction to ASC or DESC
func validateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// validateSortField validates the sort column against the whitelist
func validateSortField(field string) string {
	field = strings.TrimSpace(field)
	if allowedSortFields[field] {
		return field
	}
	return "created_at"
}

// applyFilter applies ordering and pagination from a shared.Filter
func applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 200 {
		pageSize = 20
	}

	order := fmt.Sprintf("%s %s", validateSortField(filter.OrderBy), validateSortOrder(filter.OrderDir))
	return query.
		Order(order).
		Offset((page - 1) * pageSize).
		Limit(pageSize)
}
