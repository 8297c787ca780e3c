package pagination

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// BuildLinkHeader constructs an RFC 8288 Link header for cursor pages, preserving query params.
func BuildLinkHeader(baseURL string, query url.Values, nextCursor, prevCursor string) string {
	var links []string
	if nextCursor != "" {
		links = append(links, link(baseURL, query, "cursor", nextCursor, "next"))
	}
	if prevCursor != "" {
		links = append(links, link(baseURL, query, "cursor", prevCursor, "prev"))
	}
	return strings.Join(links, ", ")
}

// BuildPageLinkHeader constructs an RFC 8288 Link header for offset pages (first, prev, next, last).
func BuildPageLinkHeader(baseURL string, query url.Values, meta Meta) string {
	if meta.TotalPages == 0 {
		return ""
	}
	q := cloneValues(query)
	q.Set("limit", strconv.Itoa(meta.Limit))

	links := []string{link(baseURL, q, "page", "1", "first")}
	if meta.Page > 1 && meta.Page <= meta.TotalPages {
		links = append(links, link(baseURL, q, "page", strconv.Itoa(meta.Page-1), "prev"))
	}
	if meta.Page < meta.TotalPages {
		links = append(links, link(baseURL, q, "page", strconv.Itoa(meta.Page+1), "next"))
	}
	links = append(links, link(baseURL, q, "page", strconv.Itoa(meta.TotalPages), "last"))
	return strings.Join(links, ", ")
}

func link(baseURL string, query url.Values, key, value, rel string) string {
	q := cloneValues(query)
	q.Set(key, value)
	return fmt.Sprintf("<%s?%s>; rel=%q", baseURL, q.Encode(), rel)
}

func cloneValues(v url.Values) url.Values {
	if v == nil {
		return make(url.Values)
	}
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
