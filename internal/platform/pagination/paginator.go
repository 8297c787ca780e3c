package pagination

import (
	"net/url"
	"strconv"
)

// Result holds one cursor-addressed page.
type Result[T any] struct {
	Items      []T
	Total      int
	LinkHeader string
	NextCursor string
	PrevCursor string
}

// Paginate slices items after the element identified by cursor.Value.
// getID must return the same identifier that was encoded into the cursor.
func Paginate[T any](
	items []T,
	cursor Cursor,
	limit int,
	cursorType string,
	getID func(T) string,
	baseURL string,
	query url.Values,
) Result[T] {
	total := len(items)
	start := 0
	if cursor.Value != "" {
		for i, item := range items {
			if getID(item) == cursor.Value {
				start = i + 1
				break
			}
		}
	}
	end := min(start+limit, total)
	page := items[start:end]

	var next, prev string
	if end < total && len(page) > 0 {
		next = Cursor{Type: cursorType, Value: getID(page[len(page)-1])}.Encode()
	}
	switch {
	case start == 0:
	case start <= limit:
		prev = Cursor{Type: cursorType}.Encode()
	default:
		prev = Cursor{Type: cursorType, Value: getID(items[start-1-limit])}.Encode()
	}

	q := cloneValues(query)
	q.Set("limit", strconv.Itoa(limit))
	return Result[T]{
		Items:      page,
		Total:      total,
		LinkHeader: BuildLinkHeader(baseURL, q, next, prev),
		NextCursor: next,
		PrevCursor: prev,
	}
}
