package biodata

import (
	"github.com/janisto/biodata-discovery/internal/service/location"
)

// Predicate decides whether a biodata stays in a result set.
type Predicate func(*Biodata) bool

// Filter keeps the items accepted by every predicate, preserving order.
func Filter(items []*Biodata, preds ...Predicate) []*Biodata {
	out := make([]*Biodata, 0, len(items))
next:
	for _, b := range items {
		for _, p := range preds {
			if !p(b) {
				continue next
			}
		}
		out = append(out, b)
	}
	return out
}

// Visible keeps publicly discoverable biodatas.
func Visible(b *Biodata) bool {
	return b.IsPubliclyVisible()
}

// InLocation keeps biodatas whose addresses satisfy sel.
func InLocation(sel location.Selector) Predicate {
	return func(b *Biodata) bool {
		return sel.Match(b.Addresses())
	}
}

// MatchesCandidate evaluates a CandidateQuery in process for stores that cannot
// express it natively.
func MatchesCandidate(q CandidateQuery) Predicate {
	earliest, latest := q.BirthBounds()
	return func(b *Biodata) bool {
		if q.ID != nil && b.ID != *q.ID {
			return false
		}
		if q.Gender != "" && b.Gender != q.Gender {
			return false
		}
		if q.MaritalStatus != "" && b.MaritalStatus != q.MaritalStatus {
			return false
		}
		if earliest == nil && latest == nil {
			return true
		}
		if b.BirthDate == nil {
			return false
		}
		if latest != nil && b.BirthDate.After(*latest) {
			return false
		}
		if earliest != nil && !b.BirthDate.After(*earliest) {
			return false
		}
		return true
	}
}
