package types

import "strings"

// SortMode selects the ordering of the derived view.
type SortMode string

// Sort modes.
const (
	SortRecent   SortMode = "recent"
	SortFavorite SortMode = "favorite"
	SortAlpha    SortMode = "alpha"
)

// Filter selects which statuses the derived view shows.
type Filter string

// FilterAll disables status filtering. The other filter values are the
// Status values themselves.
const (
	FilterAll       Filter = "all"
	FilterBacklog   Filter = Filter(StatusBacklog)
	FilterReading   Filter = Filter(StatusReading)
	FilterCompleted Filter = Filter(StatusCompleted)
)

// Valid reports whether m is a recognized sort mode.
func (m SortMode) Valid() bool {
	switch m {
	case SortRecent, SortFavorite, SortAlpha:
		return true
	}
	return false
}

// Valid reports whether f is a recognized filter.
func (f Filter) Valid() bool {
	return f == FilterAll || Status(f).Valid()
}

// Keep reports whether an item with status s passes the filter.
func (f Filter) Keep(s Status) bool {
	return f == FilterAll || Status(f) == s
}

// ParseSortMode converts user input to a SortMode.
func ParseSortMode(v string) (SortMode, error) {
	m := SortMode(strings.ToLower(strings.TrimSpace(v)))
	if !m.Valid() {
		return "", ErrInvalidSort
	}
	return m, nil
}

// ParseFilter converts user input to a Filter.
func ParseFilter(v string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(v)))
	if !f.Valid() {
		return "", ErrInvalidFilter
	}
	return f, nil
}

// Preferences is the persisted sort and filter selection.
type Preferences struct {
	Sort   SortMode `json:"sort"`
	Filter Filter   `json:"filter"`
}

// DefaultPreferences returns the preferences used before any are stored.
func DefaultPreferences() Preferences {
	return Preferences{Sort: SortRecent, Filter: FilterAll}
}

// Sanitize replaces unrecognized fields with their defaults. It reports
// whether anything was replaced.
func (p Preferences) Sanitize() (Preferences, bool) {
	def := DefaultPreferences()
	changed := false
	if !p.Sort.Valid() {
		p.Sort = def.Sort
		changed = true
	}
	if !p.Filter.Valid() {
		p.Filter = def.Filter
		changed = true
	}
	return p, changed
}

// PreferencesPatch carries a partial update. Nil fields are left unchanged.
type PreferencesPatch struct {
	Sort   *SortMode `json:"sort,omitempty"`
	Filter *Filter   `json:"filter,omitempty"`
}

// Apply merges the patch into p.
// Returns ErrInvalidSort or ErrInvalidFilter and leaves p untouched when a
// field holds an unrecognized value.
func (pp PreferencesPatch) Apply(p Preferences) (Preferences, error) {
	if pp.Sort != nil && !pp.Sort.Valid() {
		return p, ErrInvalidSort
	}
	if pp.Filter != nil && !pp.Filter.Valid() {
		return p, ErrInvalidFilter
	}
	if pp.Sort != nil {
		p.Sort = *pp.Sort
	}
	if pp.Filter != nil {
		p.Filter = *pp.Filter
	}
	return p, nil
}
