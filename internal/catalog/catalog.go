package catalog

import (
	"slices"
	"strings"

	"github.com/desertthunder/gigbuilder/internal/models"
)

// Catalog is the de-duplicated, ordered collection of songs for a session.
//
// It is not modified after construction; reloading builds a new Catalog.
type Catalog struct {
	songs []models.Song
	index map[models.SongID]int
}

// New builds a Catalog from already merged songs.
func New(songs []models.Song) *Catalog {
	return &Catalog{songs: songs, index: buildIndex(songs)}
}

// Merge concatenates sources in order, drops records without an id and keeps the first record for each id.
func Merge(sources ...[]models.Song) *Catalog {
	seen := make(map[models.SongID]struct{})
	var songs []models.Song

	for _, src := range sources {
		for _, s := range src {
			id := models.SongID(strings.TrimSpace(s.ID.String()))
			if id == "" {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			s.ID = id
			songs = append(songs, s)
		}
	}

	return New(songs)
}

func buildIndex(songs []models.Song) map[models.SongID]int {
	idx := make(map[models.SongID]int, len(songs))
	for i, s := range songs {
		if _, ok := idx[s.ID]; !ok {
			idx[s.ID] = i
		}
	}
	return idx
}

// Songs returns the catalog in load order. Callers must not modify the returned slice.
func (c *Catalog) Songs() []models.Song {
	if c == nil {
		return nil
	}
	return c.songs
}

// Len returns the number of songs.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.songs)
}

// Lookup finds a song by id.
func (c *Catalog) Lookup(id models.SongID) (models.Song, bool) {
	if c == nil {
		return models.Song{}, false
	}
	i, ok := c.index[id]
	if !ok {
		return models.Song{}, false
	}
	return c.songs[i], true
}

// Resolve maps ids to songs in order, silently dropping ids that are not in the catalog.
func (c *Catalog) Resolve(ids []models.SongID) []models.Song {
	out := make([]models.Song, 0, len(ids))
	for _, id := range ids {
		if s, ok := c.Lookup(id); ok {
			out = append(out, s)
		}
	}
	return out
}

// Filter applies [Filter] to the whole catalog.
func (c *Catalog) Filter(criteria models.FilterCriteria) []models.Song {
	return Filter(c.Songs(), criteria)
}

// Artists returns the distinct non-empty artists, sorted.
func (c *Catalog) Artists() []string {
	return c.distinct(func(s models.Song) []string { return []string{s.Artist} })
}

// Eras returns the distinct non-empty eras, sorted.
func (c *Catalog) Eras() []string {
	return c.distinct(func(s models.Song) []string { return []string{s.Era} })
}

// Tags returns the distinct non-empty tags, sorted.
func (c *Catalog) Tags() []string {
	return c.distinct(func(s models.Song) []string { return s.Tags })
}

func (c *Catalog) distinct(values func(models.Song) []string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, s := range c.Songs() {
		for _, v := range values(s) {
			if v == "" {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return out
}
