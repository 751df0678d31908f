// Package pagination converts page/limit query parameters and a total row count
// into the SQL offset and total-page count used by list endpoints.
package pagination

import (
	"strconv"

	"github.com/taman-kehati/taman-kehati/internal/validation"
)

// Page describes one page of a paginated result set. It is embedded verbatim in
// list responses as the "pagination" block.
type Page struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`

	// Offset is the SQL OFFSET for this page. It is derived, not part of the
	// response contract.
	Offset int `json:"-"`
}

// Paginate computes the offset and total page count for the requested page.
//
// A page beyond the last page is not an error — the caller simply receives an
// empty result set. page < 1 or limit < 1 is a ValidationError.
func Paginate(page, limit, total int) (Page, error) {
	if page < 1 {
		return Page{}, validation.NewValidationError("page", strconv.Itoa(page), "must be at least 1")
	}
	if limit < 1 {
		return Page{}, validation.NewValidationError("limit", strconv.Itoa(limit), "must be at least 1")
	}
	if total < 0 {
		return Page{}, validation.NewValidationError("total", strconv.Itoa(total), "must not be negative")
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return Page{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		Offset:     (page - 1) * limit,
	}, nil
}
