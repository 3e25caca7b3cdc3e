package domain

import (
	"encoding/json"
	"sort"
)

// StringSet is an unordered set of categorical values.
type StringSet map[string]struct{}

// NewStringSet builds a set from values. Duplicates collapse.
func NewStringSet(values ...string) StringSet {
	s := make(StringSet, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s StringSet) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Values returns the members sorted ascending.
func (s StringSet) Values() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// MarshalJSON encodes the set as a sorted array.
func (s StringSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values())
}

// UnmarshalJSON decodes an array into the set.
func (s *StringSet) UnmarshalJSON(data []byte) error {
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	*s = NewStringSet(values...)
	return nil
}

// YearRange is an inclusive range of establishment years.
type YearRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether year falls inside the range, bounds included.
func (y YearRange) Contains(year int) bool {
	return y.Min <= year && year <= y.Max
}

// Valid reports whether Min <= Max.
func (y YearRange) Valid() bool {
	return y.Min <= y.Max
}

// Clamp narrows the range to bounds. The result may be inverted when the two
// ranges do not overlap, which simply matches nothing.
func (y YearRange) Clamp(bounds YearRange) YearRange {
	if y.Min < bounds.Min {
		y.Min = bounds.Min
	}
	if y.Max > bounds.Max {
		y.Max = bounds.Max
	}
	return y
}

// FilterSpec describes the active dashboard filter. A record passes when its
// item type and outlet size are selected and its year is inside Years.
type FilterSpec struct {
	ItemTypes   StringSet `json:"item_types"`
	OutletSizes StringSet `json:"outlet_sizes"`
	Years       YearRange `json:"years"`
}

// FilterOptions are the choices offered for building a FilterSpec.
type FilterOptions struct {
	ItemTypes   []string  `json:"item_types"`
	OutletSizes []string  `json:"outlet_sizes"`
	Years       YearRange `json:"years"`
}
