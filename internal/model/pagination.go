package model

// Pagination describes a page of a larger ordered result.
type Pagination struct {
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	TotalCount  int `json:"total_count"`
	TotalPages  int `json:"total_pages"`
}

// NewPagination computes page metadata. A zero total still reports one page.
func NewPagination(page, perPage, total int) Pagination {
	pages := 1
	if perPage > 0 && total > 0 {
		pages = (total + perPage - 1) / perPage
	}
	return Pagination{
		CurrentPage: page,
		PerPage:     perPage,
		TotalCount:  total,
		TotalPages:  pages,
	}
}
