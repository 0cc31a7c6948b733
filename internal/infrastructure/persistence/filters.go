package persistence

import (
	"strings"

	"github.com/avaliaai/backend/internal/domain/shared"
	"github.com/avaliaai/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// EventSortFields contains allowed sort fields for events
var EventSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"title":      true,
	"venue":      true,
	"starts_at":  true,
}

// OccurrenceSortFields contains allowed sort fields for occurrence listings
var OccurrenceSortFields = map[string]bool{
	"starts_at":  true,
	"ends_at":    true,
	"created_at": true,
	"title":      true,
}

// ProfileSortFields contains allowed sort fields for profiles
var ProfileSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"email":        true,
	"display_name": true,
	"role":         true,
}

// applySearch filters on the folded search_text column. The term gets
// the same accent folding the column was written with.
func applySearch(query *gorm.DB, search string) *gorm.DB {
	if search == "" {
		return query
	}
	return query.Where("search_text LIKE ?", "%"+models.FoldText(search)+"%")
}

func applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}

// sortClause builds a safe ORDER BY clause from the filter, falling
// back to defaultField when the requested field is not whitelisted.
func sortClause(filter shared.Filter, allowed map[string]bool, defaultField string) string {
	field := strings.TrimSpace(filter.OrderBy)
	if field == "" || !allowed[field] {
		field = defaultField
	}

	dir := "ASC"
	if strings.EqualFold(strings.TrimSpace(filter.OrderDir), "desc") {
		dir = "DESC"
	}
	return field + " " + dir
}
