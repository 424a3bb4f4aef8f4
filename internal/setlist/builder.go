package setlist

import (
	"slices"

	"github.com/desertthunder/gigbuilder/internal/models"
	"github.com/desertthunder/gigbuilder/internal/shared"
)

// DefaultCapacity is the number of songs in a 90 minute set.
const DefaultCapacity = 15

// Step picks up to Count songs whose energy is exactly Energy.
type Step struct {
	Energy int
	Count  int
}

// Policy is the energy arc the builder follows.
type Policy struct {
	Capacity int
	Steps    []Step
}

// DefaultPolicy returns the 3/4/5/4/5 arc with a capacity of 15.
func DefaultPolicy() Policy {
	return Policy{
		Capacity: DefaultCapacity,
		Steps: []Step{
			{Energy: 3, Count: 4},
			{Energy: 4, Count: 5},
			{Energy: 5, Count: 4},
			{Energy: 4, Count: 1},
			{Energy: 5, Count: 1},
		},
	}
}

// PolicyFromConfig converts the TOML builder section, falling back to defaults for unset values.
func PolicyFromConfig(cfg shared.BuilderConfig) Policy {
	p := DefaultPolicy()
	if cfg.Capacity > 0 {
		p.Capacity = cfg.Capacity
	}
	if len(cfg.Steps) > 0 {
		p.Steps = make([]Step, len(cfg.Steps))
		for i, s := range cfg.Steps {
			p.Steps[i] = Step{Energy: s.Energy, Count: s.Count}
		}
	}
	return p
}

// BuildSmartSet builds a set from pool with [DefaultPolicy].
func BuildSmartSet(pool []models.Song) []models.Song {
	return Build(pool, DefaultPolicy())
}

// Build assembles at most policy.Capacity songs from pool without repeating an id.
//
// Each step counts only its own picks and yields fewer songs when the pool runs short at that energy. The pool is
// not modified.
func Build(pool []models.Song, policy Policy) []models.Song {
	capacity := max(policy.Capacity, 0)
	ranked := RankByPopularity(pool)

	set := make([]models.Song, 0, min(capacity, len(ranked)))
	picked := make(map[models.SongID]struct{}, capacity)

	take := func(s models.Song) bool {
		if _, dup := picked[s.ID]; dup {
			return false
		}
		picked[s.ID] = struct{}{}
		set = append(set, s)
		return true
	}

	for _, step := range policy.Steps {
		n := 0
		for _, s := range ranked {
			if n >= step.Count {
				break
			}
			if s.Energy == step.Energy && take(s) {
				n++
			}
		}
	}

	for _, s := range ranked {
		if len(set) >= capacity {
			break
		}
		take(s)
	}

	if len(set) > capacity {
		set = set[:capacity]
	}
	return set
}

// RankByPopularity returns a copy of songs sorted by popularity descending, stable among ties.
func RankByPopularity(songs []models.Song) []models.Song {
	ranked := slices.Clone(songs)
	slices.SortStableFunc(ranked, func(a, b models.Song) int {
		switch {
		case a.Popularity > b.Popularity:
			return -1
		case a.Popularity < b.Popularity:
			return 1
		}
		return 0
	})
	return ranked
}
