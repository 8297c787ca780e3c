package location

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Level is the depth of a node in the geographic tree.
type Level int

const (
	LevelCountry Level = iota
	LevelDivision
	LevelDistrict
	LevelUpazila
)

// Wildcard segments offered at each selectable level.
const (
	AllDivisions = "All Divisions"
	AllDistricts = "All Districts"
	AllUpazilas  = "All Upazilas"
)

// Separator joins selector segments.
const Separator = " > "

//go:embed data/bangladesh.json
var defaultDataset []byte

// ErrEmptyDataset is returned when a dataset declares no country or divisions.
var ErrEmptyDataset = errors.New("location dataset is empty")

type node struct {
	name     string
	level    Level
	parent   int
	children []int
}

// Place is one flattened (division, district, upazila) tuple.
// Upazila is empty for districts without upazila data.
type Place struct {
	Division string `json:"division"`
	District string `json:"district"`
	Upazila  string `json:"upazila,omitempty"`
}

// Tree is an immutable arena of geographic nodes rooted at a single country.
type Tree struct {
	nodes  []node
	places []Place
}

type dataset struct {
	Country   string `json:"country"`
	Divisions []struct {
		Name      string `json:"name"`
		Districts []struct {
			Name     string   `json:"name"`
			Upazilas []string `json:"upazilas"`
		} `json:"districts"`
	} `json:"divisions"`
}

var (
	defaultOnce sync.Once
	defaultTree *Tree
	defaultErr  error
)

// Default returns the tree built from the embedded dataset. It is parsed once.
func Default() (*Tree, error) {
	defaultOnce.Do(func() {
		defaultTree, defaultErr = Load(bytes.NewReader(defaultDataset))
	})
	return defaultTree, defaultErr
}

// Load builds a tree from a JSON dataset.
func Load(r io.Reader) (*Tree, error) {
	var ds dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return nil, fmt.Errorf("decode location dataset: %w", err)
	}
	if strings.TrimSpace(ds.Country) == "" || len(ds.Divisions) == 0 {
		return nil, ErrEmptyDataset
	}

	t := &Tree{}
	root := t.add(ds.Country, LevelCountry, -1)
	for _, div := range ds.Divisions {
		di := t.add(div.Name, LevelDivision, root)
		for _, dist := range div.Districts {
			dsi := t.add(dist.Name, LevelDistrict, di)
			if len(dist.Upazilas) == 0 {
				t.places = append(t.places, Place{Division: div.Name, District: dist.Name})
				continue
			}
			for _, upa := range dist.Upazilas {
				t.add(upa, LevelUpazila, dsi)
				t.places = append(t.places, Place{Division: div.Name, District: dist.Name, Upazila: upa})
			}
		}
	}
	return t, nil
}

func (t *Tree) add(name string, level Level, parent int) int {
	idx := len(t.nodes)
	t.nodes = append(t.nodes, node{name: strings.TrimSpace(name), level: level, parent: parent})
	if parent >= 0 {
		t.nodes[parent].children = append(t.nodes[parent].children, idx)
	}
	return idx
}

// Country returns the root name.
func (t *Tree) Country() string {
	return t.nodes[0].name
}

// Places returns every flattened tuple in dataset order.
func (t *Tree) Places() []Place {
	out := make([]Place, len(t.places))
	copy(out, t.places)
	return out
}

// Divisions lists division names.
func (t *Tree) Divisions() []string {
	return t.childNames(0)
}

// Districts lists districts of a division. Lookup is case-insensitive; unknown names yield nil.
func (t *Tree) Districts(division string) []string {
	di, ok := t.child(0, division)
	if !ok {
		return nil
	}
	return t.childNames(di)
}

// Upazilas lists upazilas of a district within a division.
func (t *Tree) Upazilas(division, district string) []string {
	di, ok := t.child(0, division)
	if !ok {
		return nil
	}
	dsi, ok := t.child(di, district)
	if !ok {
		return nil
	}
	return t.childNames(dsi)
}

// Options returns the selector strings offered to clients, from the broadest
// ("Country > All Divisions") down to fully specified upazila paths.
func (t *Tree) Options() []string {
	country := t.Country()
	opts := []string{join(country, AllDivisions)}
	for _, di := range t.nodes[0].children {
		div := t.nodes[di].name
		opts = append(opts, join(country, div, AllDistricts))
		for _, dsi := range t.nodes[di].children {
			dist := t.nodes[dsi].name
			if len(t.nodes[dsi].children) == 0 {
				opts = append(opts, join(country, div, dist))
				continue
			}
			opts = append(opts, join(country, div, dist, AllUpazilas))
			for _, ui := range t.nodes[dsi].children {
				opts = append(opts, join(country, div, dist, t.nodes[ui].name))
			}
		}
	}
	return opts
}

// path returns the names from the root down to the node at idx.
func (t *Tree) path(idx int) []string {
	var out []string
	for i := idx; i >= 0; i = t.nodes[i].parent {
		out = append(out, t.nodes[i].name)
	}
	for l, r := 0, len(out)-1; l < r; l, r = l+1, r-1 {
		out[l], out[r] = out[r], out[l]
	}
	return out
}

// Lookup finds every node whose name equals name (case-insensitive) and returns
// their full paths joined with Separator. Names shared across divisions yield
// several paths.
func (t *Tree) Lookup(name string) []string {
	var out []string
	for i := range t.nodes {
		if strings.EqualFold(t.nodes[i].name, strings.TrimSpace(name)) {
			out = append(out, join(t.path(i)...))
		}
	}
	return out
}

func (t *Tree) child(parent int, name string) (int, bool) {
	name = strings.TrimSpace(name)
	for _, c := range t.nodes[parent].children {
		if strings.EqualFold(t.nodes[c].name, name) {
			return c, true
		}
	}
	return 0, false
}

func (t *Tree) childNames(parent int) []string {
	children := t.nodes[parent].children
	out := make([]string, 0, len(children))
	for _, c := range children {
		out = append(out, t.nodes[c].name)
	}
	return out
}

func join(segments ...string) string {
	return strings.Join(segments, Separator)
}
