package pagination

const (
	// PageDefaultSize is the default page size if not specified
	PageDefaultSize = 20
	// PageMaxSize is the maximum allowed page size
	PageMaxSize = 100
)

// OffsetRequest represents an offset-based pagination request
type OffsetRequest struct {
	Page int `json:"page" query:"page"`
	Size int `json:"size" query:"size"`
}

// Validate validates and normalizes offset pagination parameters
func (r *OffsetRequest) Validate() error {
	if r.Page <= 0 {
		r.Page = 1
	}
	if r.Size <= 0 {
		r.Size = PageDefaultSize
	}
	if r.Size > PageMaxSize {
		r.Size = PageMaxSize
	}
	return nil
}

// OffsetResult represents traditional offset-based pagination
type OffsetResult[T any] struct {
	Items   []T   `json:"items"`
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	Size    int   `json:"size"`
	HasMore bool  `json:"has_more"`
}

// NewOffsetResult creates a new offset-based result
func NewOffsetResult[T any](items []T, total int64, page int, size int) *OffsetResult[T] {
	offset := (page - 1) * size
	hasMore := int64(offset+size) < total

	return &OffsetResult[T]{
		Items:   items,
		Total:   total,
		Page:    page,
		Size:    size,
		HasMore: hasMore,
	}
}
