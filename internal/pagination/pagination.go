// Package pagination provides page windowing over in-memory collections.
// Pages are 1-indexed and always clamped into the valid range, so a filter
// change that shrinks the result set can never leave a request pointing
// past the end.
package pagination

import "math"

// DefaultPageSize matches the asset list page size.
const DefaultPageSize = 5

// PageRequest holds pagination parameters parsed from query strings.
type PageRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// Defaults fills in default values when page or page_size are not provided.
func (p *PageRequest) Defaults() {
	if p.Page == 0 {
		p.Page = 1
	}
	if p.PageSize == 0 {
		p.PageSize = DefaultPageSize
	}
}

// TotalPages returns the number of pages needed for totalItems, never
// less than 1.
func TotalPages(totalItems, pageSize int) int {
	pages := int(math.Ceil(float64(totalItems) / float64(pageSize)))
	if pages < 1 {
		return 1
	}
	return pages
}

// Clamp forces page into [1, TotalPages(totalItems, pageSize)].
func Clamp(page, totalItems, pageSize int) int {
	if page < 1 {
		return 1
	}
	if max := TotalPages(totalItems, pageSize); page > max {
		return max
	}
	return page
}

// Slice returns the window of items for the (clamped) page.
func Slice[T any](items []T, page, pageSize int) []T {
	page = Clamp(page, len(items), pageSize)
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// PageResponse wraps a paginated list of items with metadata.
type PageResponse[T any] struct {
	Data       []T `json:"data"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// NewPageResponse creates a PageResponse from the given data and total count.
func NewPageResponse[T any](data []T, page, pageSize, totalItems int) PageResponse[T] {
	if data == nil {
		data = []T{}
	}
	return PageResponse[T]{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: TotalPages(totalItems, pageSize),
	}
}
