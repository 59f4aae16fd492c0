package request

import "errors"

var ErrInvalidSortOrder = errors.New("sort_order must be asc or desc")

// ByIDRequest is a common struct for endpoints that require an ID path parameter.
type ByIDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// ListParams holds the paging and sorting query parameters shared by list endpoints.
type ListParams struct {
	Page      int    `form:"page,default=1" binding:"min=1"`
	PageSize  int    `form:"page_size,default=20" binding:"min=1,max=100"`
	SortOrder string `form:"sort_order"`
}

// Validate normalizes SortOrder to ASC/DESC.
func (p *ListParams) Validate() error {
	switch p.SortOrder {
	case "", "desc", "DESC":
		p.SortOrder = "DESC"
	case "asc", "ASC":
		p.SortOrder = "ASC"
	default:
		return ErrInvalidSortOrder
	}
	return nil
}
