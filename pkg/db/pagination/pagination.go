package pagination

const (
	DefaultPageSize = 10
	MaxPageSize     = 250
	MaxPage         = 1_000_000
)

// Pagination is a page-number pagination request.
type Pagination struct {
	Page int
	Size int
}

// Normalize clamps the request into usable bounds. MaxPage keeps the
// computed offset from overflowing int.
func Normalize(p Pagination) Pagination {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// Offset is the index of the first row of the requested page.
func (p Pagination) Offset() int {
	return p.Page * p.Size
}

// Page bundles one slice of a result set with total-count metadata.
type Page[T any] struct {
	Content          []T   `json:"content"`
	TotalElements    int64 `json:"totalElements"`
	TotalPages       int   `json:"totalPages"`
	Number           int   `json:"number"`
	Size             int   `json:"size"`
	NumberOfElements int   `json:"numberOfElements"`
	First            bool  `json:"first"`
	Last             bool  `json:"last"`
}

func NewPage[T any](content []T, req Pagination, total int64) *Page[T] {
	if content == nil {
		content = []T{}
	}

	totalPages := 0
	if req.Size > 0 {
		totalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}

	return &Page[T]{
		Content:          content,
		TotalElements:    total,
		TotalPages:       totalPages,
		Number:           req.Page,
		Size:             req.Size,
		NumberOfElements: len(content),
		First:            req.Page == 0,
		Last:             req.Page >= totalPages-1,
	}
}
