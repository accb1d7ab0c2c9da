// models/response.go
package models

import (
	"net/http"
	"strconv"
)

// APIResponse is the uniform envelope every endpoint returns. Data and
// TotalCount are omitted when empty so simple acknowledgements stay
// two fields.
type APIResponse struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	TotalCount *int64      `json:"totalCount,omitempty"`
	Warning    string      `json:"warning,omitempty"`
}

// ListParams carries the shared pagination and filter query values for
// the delivery and delivery-log listings.
type ListParams struct {
	Supplier  string
	Material  string
	Packaging string
	Search    string
	Page      int
	PerPage   int
}

// ParseListParams reads the listing query string. Page and per-page
// fall back to sane values rather than erroring on junk input.
func ParseListParams(r *http.Request) ListParams {
	q := r.URL.Query()
	p := ListParams{
		Supplier:  q.Get("curSupplier"),
		Material:  q.Get("curMaterial"),
		Packaging: q.Get("curPackage"),
		Search:    q.Get("curSearch"),
		Page:      1,
		PerPage:   10,
	}
	if p.Search == "" {
		// the web client misspells this key
		p.Search = q.Get("curSearh")
	}
	if n, err := strconv.Atoi(q.Get("currentPage")); err == nil && n > 0 {
		p.Page = n
	}
	if n, err := strconv.Atoi(q.Get("itemsPerPage")); err == nil && n > 0 {
		p.PerPage = n
	}
	return p
}

// Offset converts the 1-based page into a SQL offset.
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}
