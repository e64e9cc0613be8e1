package utils

import "strconv"

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

type Pagination struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalItems   int `json:"totalItems"`
	ItemsPerPage int `json:"itemsPerPage"`
}

// ParsePageLimit coerces raw query values into positive page/limit numbers,
// falling back to the defaults on anything non-numeric or non-positive.
func ParsePageLimit(pageRaw, limitRaw string) (int, int) {
	page := DefaultPage
	limit := DefaultLimit

	if n, err := strconv.Atoi(pageRaw); err == nil && n > 0 {
		page = n
	}

	if n, err := strconv.Atoi(limitRaw); err == nil && n > 0 {
		limit = n
	}

	return page, limit
}

func Offset(page, limit int) int {
	return (page - 1) * limit
}

// NewPagination computes the metadata block returned next to a windowed list.
// totalPages is ceil(totalItems/limit).
func NewPagination(page, limit, totalItems int) Pagination {
	totalPages := (totalItems + limit - 1) / limit

	return Pagination{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalItems:   totalItems,
		ItemsPerPage: limit,
	}
}
