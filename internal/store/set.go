package store

import (
	"encoding/json"
	"sort"
)

// StringSet is a set of strings with an explicit JSON encoding contract:
// it marshals as a sorted array and unmarshals from any string array,
// deduplicating. Sets are a first-class semantic type at the store boundary,
// never an accident of serialization.
type StringSet map[string]struct{}

// NewStringSet builds a set from the given members.
func NewStringSet(members ...string) StringSet {
	s := make(StringSet, len(members))
	for _, m := range members {
		s[m] = struct{}{}
	}
	return s
}

// Add inserts member into the set. Adding an existing member is a no-op.
func (s StringSet) Add(member string) {
	s[member] = struct{}{}
}

// Has reports whether member is in the set.
func (s StringSet) Has(member string) bool {
	_, ok := s[member]
	return ok
}

// Len returns the number of members.
func (s StringSet) Len() int { return len(s) }

// Members returns the sorted member list.
func (s StringSet) Members() []string {
	out := make([]string, 0, len(s))
	for m := range s {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// MarshalJSON encodes the set as a sorted JSON array.
func (s StringSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Members())
}

// UnmarshalJSON decodes a JSON string array into the set, deduplicating.
func (s *StringSet) UnmarshalJSON(data []byte) error {
	var members []string
	if err := json.Unmarshal(data, &members); err != nil {
		return err
	}
	out := make(StringSet, len(members))
	for _, m := range members {
		out[m] = struct{}{}
	}
	*s = out
	return nil
}
