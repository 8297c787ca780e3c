package pagination

// Meta describes one offset page.
type Meta struct {
	Page       int `json:"page"       doc:"Current page (1-based)"   example:"1"`
	Limit      int `json:"limit"      doc:"Items per page"           example:"6"`
	Total      int `json:"total"      doc:"Total matching items"     example:"13"`
	TotalPages int `json:"totalPages" doc:"Total number of pages"    example:"3"`
}

// Slice returns items[(page-1)*limit : page*limit] and the page metadata.
// page and limit below 1 are treated as 1; a page past the end yields an empty slice.
func Slice[T any](items []T, page, limit int) ([]T, Meta) {
	page = max(page, 1)
	limit = max(limit, 1)
	total := len(items)
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	meta := Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: pages,
	}

	// Checked before multiplying so huge pages cannot overflow start.
	if page > pages {
		return []T{}, meta
	}
	start := (page - 1) * limit
	end := min(start+limit, total)
	return items[start:end], meta
}
