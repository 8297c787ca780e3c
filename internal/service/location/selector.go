package location

import "strings"

// Address is one set of address fields on a profile.
type Address struct {
	Country  string `json:"country,omitempty"`
	Division string `json:"division,omitempty"`
	District string `json:"district,omitempty"`
	Upazila  string `json:"upazila,omitempty"`
	Area     string `json:"area,omitempty"`
}

// AddressPair carries the permanent and effective present address of a candidate.
type AddressPair struct {
	Permanent Address
	Present   Address
}

func (p AddressPair) sets() [2]Address {
	return [2]Address{p.Present, p.Permanent}
}

// Selector is a parsed hierarchical location path such as
// "Bangladesh > Dhaka > All Districts". Segment 0 is the country.
type Selector struct {
	raw      string
	segments []string
}

// ParseSelector splits raw on ">" and trims each segment. Empty segments are dropped.
func ParseSelector(raw string) Selector {
	raw = strings.TrimSpace(raw)
	s := Selector{raw: raw}
	if raw == "" {
		return s
	}
	for _, seg := range strings.Split(raw, ">") {
		if seg = strings.TrimSpace(seg); seg != "" {
			s.segments = append(s.segments, seg)
		}
	}
	return s
}

// Raw returns the trimmed input.
func (s Selector) Raw() string { return s.raw }

// Segments returns a copy of the parsed segments.
func (s Selector) Segments() []string {
	return append([]string(nil), s.segments...)
}

// IsEmpty reports whether the selector applies no filter.
func (s Selector) IsEmpty() bool { return len(s.segments) == 0 }

// Match applies the precedence rules; the first applicable rule decides:
//  1. empty selector matches everything
//  2. "All Divisions" anywhere matches everything
//  3. "All Districts" with a division segment matches on division
//  4. "All Upazilas" with a district segment matches on district
//  5. four or more segments require division, district and upazila (or area)
//     to match within the same address set
//  6. anything else falls back to a substring scan over all fields
//
// Comparisons are case-insensitive substring checks of the candidate field
// against the selector segment.
func (s Selector) Match(pair AddressPair) bool {
	n := len(s.segments)
	switch {
	case n == 0:
		return true
	case s.has(AllDivisions):
		return true
	case s.has(AllDistricts) && n >= 2:
		division := s.segments[1]
		return contains(pair.Present.Division, division) || contains(pair.Permanent.Division, division)
	case s.has(AllUpazilas) && n >= 3:
		district := s.segments[2]
		return contains(pair.Present.District, district) || contains(pair.Permanent.District, district)
	case n >= 4:
		division, district, upazila := s.segments[1], s.segments[2], s.segments[3]
		for _, a := range pair.sets() {
			if contains(a.Division, division) &&
				contains(a.District, district) &&
				(contains(a.Upazila, upazila) || contains(a.Area, upazila)) {
				return true
			}
		}
		return false
	default:
		return s.fallback(pair)
	}
}

func (s Selector) fallback(pair AddressPair) bool {
	tokens := []string{s.raw}
	rest := s.segments
	if len(rest) > 1 {
		rest = rest[1:]
	}
	for _, seg := range rest {
		if !isWildcard(seg) {
			tokens = append(tokens, seg)
		}
	}

	for _, a := range pair.sets() {
		for _, field := range []string{a.Area, a.District, a.Upazila, a.Division} {
			for _, tok := range tokens {
				if contains(field, tok) {
					return true
				}
			}
		}
	}
	return false
}

func (s Selector) has(wildcard string) bool {
	for _, seg := range s.segments {
		if strings.EqualFold(seg, wildcard) {
			return true
		}
	}
	return false
}

// Match parses raw and matches it against pair.
func Match(raw string, pair AddressPair) bool {
	return ParseSelector(raw).Match(pair)
}

func isWildcard(seg string) bool {
	return strings.EqualFold(seg, AllDivisions) ||
		strings.EqualFold(seg, AllDistricts) ||
		strings.EqualFold(seg, AllUpazilas)
}

// contains reports whether field contains token, ignoring case. Empty values never match.
func contains(field, token string) bool {
	field = strings.TrimSpace(field)
	token = strings.TrimSpace(token)
	if field == "" || token == "" {
		return false
	}
	return strings.Contains(strings.ToLower(field), strings.ToLower(token))
}
