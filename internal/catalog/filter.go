package catalog

import (
	"slices"
	"strings"

	"github.com/desertthunder/gigbuilder/internal/models"
)

// Filter returns the songs matching every criterion, ordered by the criteria's sort mode.
//
// All-wildcard criteria with an empty query return every song in input order. The input slice is never modified.
func Filter(songs []models.Song, criteria models.FilterCriteria) []models.Song {
	q := strings.ToLower(strings.TrimSpace(criteria.Query))

	out := make([]models.Song, 0, len(songs))
	for _, s := range songs {
		if matches(s, q, criteria) {
			out = append(out, s)
		}
	}

	if cmp := comparator(criteria.Sort); cmp != nil {
		slices.SortStableFunc(out, cmp)
	}

	return out
}

// Matches reports whether a single song satisfies criteria, ignoring sort.
func Matches(s models.Song, criteria models.FilterCriteria) bool {
	return matches(s, strings.ToLower(strings.TrimSpace(criteria.Query)), criteria)
}

func matches(s models.Song, q string, c models.FilterCriteria) bool {
	if q != "" &&
		!strings.Contains(strings.ToLower(s.Title), q) &&
		!strings.Contains(strings.ToLower(s.Artist), q) {
		return false
	}
	if !models.IsWildcard(c.Era) && s.Era != c.Era {
		return false
	}
	if !models.IsWildcard(c.Artist) && s.Artist != c.Artist {
		return false
	}
	if !models.IsWildcard(c.Tag) && !s.HasTag(c.Tag) {
		return false
	}
	return true
}

// comparator returns the ordering for mode, or nil when the catalog order should be kept.
func comparator(mode models.SortMode) func(a, b models.Song) int {
	switch mode {
	case models.SortPopularityAsc:
		return func(a, b models.Song) int { return compareFloat(a.Popularity, b.Popularity) }
	case models.SortPopularityDesc:
		return func(a, b models.Song) int { return compareFloat(b.Popularity, a.Popularity) }
	case models.SortEnergyAsc:
		return func(a, b models.Song) int { return a.Energy - b.Energy }
	case models.SortEnergyDesc:
		return func(a, b models.Song) int { return b.Energy - a.Energy }
	default:
		return nil
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// ParseSortMode maps user input to a [models.SortMode]; unknown values fall back to [models.SortDefault].
func ParseSortMode(s string) models.SortMode {
	for _, m := range models.SortModes {
		if strings.EqualFold(s, string(m)) {
			return m
		}
	}
	return models.SortDefault
}
