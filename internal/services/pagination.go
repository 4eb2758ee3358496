package services

import (
	"math"

	"taskhub/backend/internal/models"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// PaginatedTasks is the page envelope returned by TaskService.List.
type PaginatedTasks struct {
	Items      []models.Task `json:"items"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int           `json:"total_pages"`
}

// sanitizePagination clamps page to at least 1 and page_size into
// [1,100], with non-positive sizes falling back to the default.
func sanitizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	} else if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// totalPages is ceil(total/pageSize); zero for a non-positive page size,
// which sanitizePagination already rules out on the normal path.
func totalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(pageSize)))
}
