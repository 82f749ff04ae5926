package models

// APIResponse is the envelope returned by list and detail calls of the data layer.
// Exactly one of Data and Error is set.
type APIResponse[T any] struct {
	Data  *T            `json:"data,omitempty"`
	Error *APIError     `json:"error,omitempty"`
	Meta  *ListMetadata `json:"meta,omitempty"`
}

// APIError is the normalized error shape surfaced to presentation code.
type APIError struct {
	Message string         `json:"message"`
	Code    string         `json:"code,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// PaginationParams selects one page of a list query. Page is 1-based.
type PaginationParams struct {
	Page      int    `json:"page"`
	Limit     int    `json:"limit"`
	SortBy    string `json:"sort_by,omitempty"`
	SortOrder string `json:"sort_order,omitempty"`
}

// Sort orders accepted by PaginationParams.SortOrder.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// DefaultPageLimit is used when PaginationParams.Limit is not positive.
const DefaultPageLimit = 20

// Offset returns the number of rows to skip for the page.
func (p PaginationParams) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize()
}

// PageSize returns Limit, or DefaultPageLimit when Limit is not set.
func (p PaginationParams) PageSize() int {
	if p.Limit <= 0 {
		return DefaultPageLimit
	}
	return p.Limit
}

// Ascending reports whether rows are sorted in ascending order.
func (p PaginationParams) Ascending() bool {
	return p.SortOrder != SortDesc
}

// ListMetadata describes the page returned in an [APIResponse].
type ListMetadata struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}
