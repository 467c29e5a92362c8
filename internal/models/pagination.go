package models

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageRequest carries 1-based paging parameters.
type PageRequest struct {
	Page     int
	PageSize int
}

// Normalize clamps paging to sane values.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > MaxPageSize {
		p.PageSize = DefaultPageSize
	}
	return p
}

// Offset returns the row offset for the page.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Page is one page of a listing together with the total number of matching rows.
type Page[T any] struct {
	Items    []T
	Total    int
	Page     int
	PageSize int
}

// TotalPages is at least 1 so empty listings still render a single page.
func (p Page[T]) TotalPages() int {
	if p.PageSize <= 0 || p.Total == 0 {
		return 1
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}

// NewPage builds a page, never returning a nil Items slice.
func NewPage[T any](items []T, total int, req PageRequest) Page[T] {
	if items == nil {
		items = make([]T, 0)
	}
	return Page[T]{Items: items, Total: total, Page: req.Page, PageSize: req.PageSize}
}
