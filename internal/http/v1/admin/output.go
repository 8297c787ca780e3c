package admin

import "github.com/janisto/biodata-discovery/internal/platform/pagination"

// ListData is the moderation list body.
type ListData struct {
	Data       []Biodata       `json:"data"       doc:"Biodatas, newest first"`
	Pagination pagination.Meta `json:"pagination" doc:"Page metadata"`
}

// ListBiodatasOutput for GET /admin/biodatas
type ListBiodatasOutput struct {
	Link string `header:"Link" doc:"RFC 8288 pagination links"`
	Body ListData
}

// BiodataOutput wraps a single biodata.
type BiodataOutput struct {
	Body Biodata
}
