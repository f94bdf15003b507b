package response

// PageResponse is the standard wrapper for list endpoints.
type PageResponse[T any] struct {
	Items  []T `json:"items"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// NewPageResponse is a helper to quickly create a response
func NewPageResponse[T any](items []T, limit, offset, total int) PageResponse[T] {
	// Handle empty slice to avoid JSON outputting null
	if items == nil {
		items = make([]T, 0)
	}

	return PageResponse[T]{
		Items:  items,
		Limit:  limit,
		Offset: offset,
		Total:  total,
	}
}
