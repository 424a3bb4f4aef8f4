package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/gigbuilder/internal/catalog"
	"github.com/desertthunder/gigbuilder/internal/chords"
	"github.com/desertthunder/gigbuilder/internal/formatter"
	"github.com/desertthunder/gigbuilder/internal/models"
	"github.com/desertthunder/gigbuilder/internal/shared"
	"github.com/urfave/cli/v3"
)

// catalogField selects the distinct values printed by [Runner.CatalogValues].
type catalogField int

const (
	artists catalogField = iota
	eras
	tags
)

// criteriaFromFlags reads the shared filter flags.
func criteriaFromFlags(cmd *cli.Command) models.FilterCriteria {
	return models.FilterCriteria{
		Query:  cmd.String("query"),
		Era:    cmd.String("era"),
		Artist: cmd.String("artist"),
		Tag:    cmd.String("tag"),
		Sort:   catalog.ParseSortMode(cmd.String("sort")),
	}
}

// CatalogList prints the songs matching the filter flags.
func (r *Runner) CatalogList(ctx context.Context, cmd *cli.Command) error {
	criteria := criteriaFromFlags(cmd)

	cat, err := r.loadCatalog(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("hide-unfiltered") && !criteria.Active() {
		r.logger.Debug("no filters set, hiding catalog")
		return r.writePlain("Set a filter (--query, --era, --artist or --tag) to list songs.\n")
	}

	songs := cat.Filter(criteria)
	r.logger.Debug("filtered catalog", "total", cat.Len(), "matched", len(songs), "sort", criteria.Sort)

	if cmd.Bool("json") {
		return r.writeJSON(songs, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Songs (%d of %d)", len(songs), cat.Len()))
	for _, s := range songs {
		r.writePlain("%-6s %-36s %-24s %-8s E%d  P%g\n", s.ID, truncate(s.Title, 36), truncate(s.Artist, 24), s.Era, s.Energy, s.Popularity)
	}
	return nil
}

// CatalogValues returns an action printing the distinct values of field.
func (r *Runner) CatalogValues(field catalogField) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cat, err := r.loadCatalog(ctx)
		if err != nil {
			return err
		}

		var values []string
		switch field {
		case artists:
			values = cat.Artists()
		case eras:
			values = cat.Eras()
		case tags:
			values = cat.Tags()
		}

		if cmd.Bool("json") {
			return r.writeJSON(values, cmd.Bool("pretty"))
		}
		for _, v := range values {
			r.writePlain("%s\n", v)
		}
		return nil
	}
}

// CatalogChords prints one song's chord chart, optionally transposed.
func (r *Runner) CatalogChords(ctx context.Context, cmd *cli.Command) error {
	id := strings.TrimSpace(cmd.StringArg("id"))
	if id == "" {
		return fmt.Errorf("%w: song id", shared.ErrMissingArgument)
	}

	cat, err := r.loadCatalog(ctx)
	if err != nil {
		return err
	}

	song, ok := cat.Lookup(models.SongID(id))
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrSongNotFound, id)
	}

	offset := chords.NewOffset(int(cmd.Int("transpose")))

	r.writePlain("%s - %s\n", song.Title, song.Artist)
	if song.Key != "" {
		key := string(song.Key)
		if offset.Active() {
			key = fmt.Sprintf("%s -> %s (%s)", song.Key, chords.Transpose(key, offset.Int()), offset)
		}
		r.writePlain("Key: %s\n", key)
	}
	if song.Capo != "" && song.Capo != "0" {
		r.writePlain("Capo: %s\n", song.Capo)
	}
	r.writePlain("\n")
	return r.writePlain("%s", formatter.RenderChart(song, offset))
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
