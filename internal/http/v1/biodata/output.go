package biodata

import (
	"github.com/janisto/biodata-discovery/internal/platform/pagination"
)

// SearchData is the search response body.
type SearchData struct {
	Data       []Biodata       `json:"data"       doc:"Matching biodatas, newest first"`
	Pagination pagination.Meta `json:"pagination" doc:"Page metadata"`
}

// SearchOutput for GET /biodatas
type SearchOutput struct {
	Link string `header:"Link" doc:"RFC 8288 pagination links"`
	Body SearchData
}

// BiodataOutput wraps a single biodata.
type BiodataOutput struct {
	Body Biodata
}

// SaveBiodataOutput for PUT /biodatas/me
type SaveBiodataOutput struct {
	Status   int
	Location string `header:"Location" doc:"URL of the saved biodata"`
	Body     Biodata
}

// ViewResult is the outcome of a recorded view.
type ViewResult struct {
	Counted bool   `json:"counted" doc:"Whether the view was counted"      example:"true"`
	Reason  string `json:"reason"  doc:"Why the view was or was not counted" example:"view counted"`
}

// RecordViewOutput for POST /biodatas/{id}/views
type RecordViewOutput struct {
	Body ViewResult
}

// ViewCountOutput for GET /biodatas/{id}/view-count
type ViewCountOutput struct {
	Body struct {
		ViewCount int64 `json:"viewCount" doc:"Counted views" example:"17"`
	}
}

// ViewStatsOutput for GET /biodatas/{id}/view-stats
type ViewStatsOutput struct {
	Body struct {
		TotalViews     int64 `json:"totalViews"     doc:"All stored views"                  example:"120"`
		RecentViews    int64 `json:"recentViews"    doc:"Views in the last 7 days"          example:"14"`
		ViewsThisMonth int64 `json:"viewsThisMonth" doc:"Views since the 1st of this month" example:"31"`
	}
}

// ToggleVisibilityOutput for POST /biodatas/me/visibility
type ToggleVisibilityOutput struct {
	Body struct {
		Success   bool   `json:"success"             doc:"Whether visibility changed"      example:"true"`
		Message   string `json:"message"             doc:"Human-readable outcome"          example:"biodata is now inactive"`
		NewStatus string `json:"newStatus,omitempty" doc:"Visibility after the toggle"     example:"inactive"`
	}
}
