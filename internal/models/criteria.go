package models

import "strings"

// Wildcard is the sentinel criterion value that matches every song.
const Wildcard = "all"

// SortMode names the ordering applied after filtering.
type SortMode string

const (
	SortDefault        SortMode = "default"
	SortPopularityAsc  SortMode = "popularityAsc"
	SortPopularityDesc SortMode = "popularityDesc"
	SortEnergyAsc      SortMode = "energyAsc"
	SortEnergyDesc     SortMode = "energyDesc"
)

// SortModes lists every recognized sort mode.
var SortModes = []SortMode{SortDefault, SortPopularityAsc, SortPopularityDesc, SortEnergyAsc, SortEnergyDesc}

// FilterCriteria selects and orders a subset of the catalog.
//
// Empty Era, Artist and Tag values behave as [Wildcard].
type FilterCriteria struct {
	Query  string   `json:"query,omitempty"`
	Era    string   `json:"era,omitempty"`
	Artist string   `json:"artist,omitempty"`
	Tag    string   `json:"tag,omitempty"`
	Sort   SortMode `json:"sort,omitempty"`
}

// AllCriteria returns criteria that match the whole catalog in catalog order.
func AllCriteria() FilterCriteria {
	return FilterCriteria{Era: Wildcard, Artist: Wildcard, Tag: Wildcard, Sort: SortDefault}
}

// Active reports whether any selecting criterion is set.
//
// Sorting alone does not count. Callers that hide the catalog until the user filters use this.
func (c FilterCriteria) Active() bool {
	return strings.TrimSpace(c.Query) != "" ||
		!IsWildcard(c.Era) ||
		!IsWildcard(c.Artist) ||
		!IsWildcard(c.Tag)
}

// IsWildcard reports whether v is the wildcard sentinel or unset.
func IsWildcard(v string) bool {
	return v == "" || v == Wildcard
}
