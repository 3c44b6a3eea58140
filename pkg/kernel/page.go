package kernel

// Page is pagination metadata for list responses.
type Page struct {
	Number int `json:"page"`
	Size   int `json:"page_size"`
	Total  int `json:"total"`
	Pages  int `json:"pages"`
}

// Paginated is a generic container for paginated data with metadata
type Paginated[T any] struct {
	Items []T  `json:"items"`
	Page  Page `json:"pagination"`
}

// NewPaginated creates a new paginated result with calculated fields
func NewPaginated[T any](items []T, req PageRequest, total int) Paginated[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if req.Size > 0 {
		pages = (total + req.Size - 1) / req.Size
	}
	return Paginated[T]{
		Items: items,
		Page:  Page{Number: req.Number, Size: req.Size, Total: total, Pages: pages},
	}
}

func (p Paginated[T]) HasNext() bool {
	return p.Page.Number < p.Page.Pages
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageRequest is a 1-based page query.
type PageRequest struct {
	Number int
	Size   int
}

// Normalize clamps the request into a valid range.
func (r PageRequest) Normalize() PageRequest {
	if r.Number < 1 {
		r.Number = 1
	}
	if r.Size < 1 {
		r.Size = DefaultPageSize
	}
	if r.Size > MaxPageSize {
		r.Size = MaxPageSize
	}
	return r
}

func (r PageRequest) Offset() int {
	return (r.Number - 1) * r.Size
}
