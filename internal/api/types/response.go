// internal/api/types/response.go
package types

// MaxPageSize caps the page size a client may request.
const MaxPageSize = 100

// PageRequest is a zero-based page number and a page size.
type PageRequest struct {
	Page int
	Size int
}

// Normalize clamps the request: negative pages become 0, sizes outside
// 1..MaxPageSize fall back to defaultSize (itself clamped).
func (p PageRequest) Normalize(defaultSize int) PageRequest {
	if defaultSize < 1 || defaultSize > MaxPageSize {
		defaultSize = 20
	}
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size < 1 || p.Size > MaxPageSize {
		p.Size = defaultSize
	}
	return p
}

// Offset is the number of rows to skip.
func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// PaginatedResponse defines a generic structure for paginated responses.
// T represents the type of data contained in the 'Data' slice.
type PaginatedResponse[T any] struct {
	Data       []T   `json:"data"`
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	TotalCount int64 `json:"total_count"`
}

// NewPaginatedResponse wraps one page of data.
func NewPaginatedResponse[T any](data []T, req PageRequest, total int64) PaginatedResponse[T] {
	if data == nil {
		data = []T{}
	}
	return PaginatedResponse[T]{Data: data, Page: req.Page, Size: req.Size, TotalCount: total}
}

// TotalPages is the number of pages needed for TotalCount rows.
func (p PaginatedResponse[T]) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return int((p.TotalCount + int64(p.Size) - 1) / int64(p.Size))
}

func (p PaginatedResponse[T]) HasPrevious() bool {
	return p.Page > 0
}

func (p PaginatedResponse[T]) HasNext() bool {
	return p.Page+1 < p.TotalPages()
}
