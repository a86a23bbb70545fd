package dto

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
	MaxPage      = 100000
)

type PageQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1,max=100000"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// Requested reports whether the caller asked for a page at all.
func (q PageQuery) Requested() bool {
	return q.Page > 0 || q.Limit > 0
}

// Normalize fills in defaults for a zero page or limit and clamps both to their maximum.
func (q *PageQuery) Normalize() {
	if q.Page <= 0 {
		q.Page = DefaultPage
	}
	if q.Page > MaxPage {
		q.Page = MaxPage
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
}

func (q PageQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
	Limit       int   `json:"limit"`
}

func NewPaginationMeta(q PageQuery, total int64) PaginationMeta {
	totalPages := 0
	if q.Limit > 0 {
		totalPages = int((total + int64(q.Limit) - 1) / int64(q.Limit))
	}
	return PaginationMeta{
		CurrentPage: q.Page,
		TotalPages:  totalPages,
		TotalItems:  total,
		Limit:       q.Limit,
	}
}

// SinglePageMeta describes an unpaged result that holds every matching item.
func SinglePageMeta(total int64) PaginationMeta {
	totalPages := 0
	if total > 0 {
		totalPages = 1
	}
	return PaginationMeta{
		CurrentPage: DefaultPage,
		TotalPages:  totalPages,
		TotalItems:  total,
		Limit:       int(total),
	}
}
