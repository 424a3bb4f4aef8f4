package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/gigbuilder/internal/chords"
	"github.com/desertthunder/gigbuilder/internal/formatter"
	"github.com/desertthunder/gigbuilder/internal/models"
	"github.com/desertthunder/gigbuilder/internal/repositories"
	"github.com/desertthunder/gigbuilder/internal/shared"
	"github.com/desertthunder/gigbuilder/internal/tasks"
	"github.com/urfave/cli/v3"
)

// SetBuild builds a smart set from the filtered catalog, prints it and optionally saves it.
func (r *Runner) SetBuild(ctx context.Context, cmd *cli.Command) error {
	session, err := r.newSession(ctx)
	if err != nil {
		return err
	}

	criteria := criteriaFromFlags(cmd)
	name := shared.NormalizeName(cmd.String("save"))

	var songs []models.Song
	if name == "" {
		songs = session.BuildFiltered(criteria)
	} else {
		if songs, err = session.BuildAndSave(criteria, name); err != nil {
			return err
		}
		if err := r.prefs.Put(repositories.PrefLastSet, name); err != nil {
			r.logger.Warn("failed to remember last set", "error", err)
		}
	}
	r.logger.Info("built smart set", "songs", len(songs), "filtered", criteria.Active())

	return r.export(cmd, name, songs)
}

// SetShow prints or exports a saved set.
func (r *Runner) SetShow(ctx context.Context, cmd *cli.Command) error {
	name, err := requireName(cmd.StringArg("name"))
	if err != nil {
		return err
	}

	session, err := r.newSession(ctx)
	if err != nil {
		return err
	}

	songs, err := session.Load(name)
	if err != nil {
		return err
	}
	return r.export(cmd, name, songs)
}

// SetAdd appends songs to a saved set, creating the set when it does not exist yet.
func (r *Runner) SetAdd(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) < 2 {
		return fmt.Errorf("%w: usage: set add NAME ID...", shared.ErrMissingArgument)
	}
	name, err := requireName(args[0])
	if err != nil {
		return err
	}

	session, err := r.newSession(ctx)
	if err != nil {
		return err
	}

	if _, err := session.Load(name); err != nil && !errors.Is(err, shared.ErrSetNotFound) {
		return err
	}

	for _, id := range args[1:] {
		added, err := session.Add(models.SongID(strings.TrimSpace(id)))
		if err != nil {
			return err
		}
		if !added {
			r.writePlain("• %s is already in %q\n", id, name)
			continue
		}
		r.writePlain("+ %s\n", id)
	}

	if err := session.Save(name); err != nil {
		return err
	}
	return r.writePlain("✓ %q now has %d songs\n", name, session.Len())
}

// SetRemove removes the song at a 1-based position from a saved set.
func (r *Runner) SetRemove(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) != 2 {
		return fmt.Errorf("%w: usage: set remove NAME POSITION", shared.ErrMissingArgument)
	}
	name, err := requireName(args[0])
	if err != nil {
		return err
	}
	position, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("%w: position %q is not a number", shared.ErrInvalidArgument, args[1])
	}

	session, err := r.newSession(ctx)
	if err != nil {
		return err
	}
	if _, err := session.Load(name); err != nil {
		return err
	}

	removed, err := session.Remove(position - 1)
	if err != nil {
		return err
	}

	if session.Len() == 0 {
		if err := session.Delete(name); err != nil {
			return err
		}
		return r.writePlain("- %s; %q was empty and has been deleted\n", removed.Title, name)
	}

	if err := session.Save(name); err != nil {
		return err
	}
	return r.writePlain("- %s; %q now has %d songs\n", removed.Title, name, session.Len())
}

// SetClear empties a saved set. Empty sets are not stored, so the set is deleted.
func (r *Runner) SetClear(ctx context.Context, cmd *cli.Command) error {
	name, err := requireName(cmd.StringArg("name"))
	if err != nil {
		return err
	}

	session, err := r.newSession(ctx)
	if err != nil {
		return err
	}

	session.Clear()
	if err := session.Delete(name); err != nil {
		return err
	}
	return r.writePlain("✓ cleared %q\n", name)
}

// SetList prints the saved set names.
func (r *Runner) SetList(ctx context.Context, cmd *cli.Command) error {
	if err := r.openStore(); err != nil {
		return err
	}

	names, err := r.store.Names()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(names, cmd.Bool("pretty"))
	}
	if len(names) == 0 {
		return r.writePlain("No saved sets.\n")
	}
	for _, name := range names {
		r.writePlain("%s\n", name)
	}
	return nil
}

// SetDelete removes a saved set.
func (r *Runner) SetDelete(ctx context.Context, cmd *cli.Command) error {
	name, err := requireName(cmd.StringArg("name"))
	if err != nil {
		return err
	}
	if err := r.openStore(); err != nil {
		return err
	}

	if err := r.store.Delete(name); err != nil {
		return err
	}
	return r.writePlain("✓ deleted %q\n", name)
}

// export renders songs with the export flags to stdout or --output.
func (r *Runner) export(cmd *cli.Command, name string, songs []models.Song) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	e := formatter.SetExport{
		Name:   name,
		Songs:  songs,
		Offset: chords.NewOffset(int(cmd.Int("transpose"))),
		Chords: cmd.Bool("chords"),
	}

	if path := cmd.String("output"); path != "" {
		written, err := formatter.WriteExport(e, format, path)
		if err != nil {
			return err
		}
		r.logger.Info("exported set", "path", written, "format", format)
		return r.writePlain("✓ wrote %s\n", written)
	}

	data, err := formatter.Export(e, format)
	if err != nil {
		return err
	}
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func requireName(name string) (string, error) {
	name = shared.NormalizeName(name)
	if name == "" {
		return "", fmt.Errorf("%w: set name", shared.ErrMissingArgument)
	}
	return name, nil
}

// SetExport writes the named saved sets, or all of them, to a directory with a manifest.
func (r *Runner) SetExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	cat, err := r.loadCatalog(ctx)
	if err != nil {
		return err
	}
	if err := r.openStore(); err != nil {
		return err
	}

	var names []string
	for _, arg := range cmd.Args().Slice() {
		if name := shared.NormalizeName(arg); name != "" {
			names = append(names, name)
		}
	}

	progress := make(chan tasks.ProgressUpdate, 10)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase, "step", update.Step, "total", update.Total)
		}
	}()

	engine := tasks.NewExportEngine(cat, r.store)
	result, err := engine.BulkExport(ctx, progress, names, tasks.BulkExportOpts{
		Format:     format,
		OutputDir:  cmd.String("dir"),
		NumWorkers: int(cmd.Int("workers")),
		Offset:     chords.NewOffset(int(cmd.Int("transpose"))),
		Chords:     cmd.Bool("chords"),
	})
	close(progress)
	<-done

	if err != nil {
		return err
	}

	for _, res := range result.Results {
		if res.Success {
			r.writePlain("✓ %s -> %s\n", res.Name, res.File)
		} else {
			r.writePlain("✗ %s: %s\n", res.Name, res.Message)
		}
	}
	return r.writePlain("Exported %d of %d sets to %s (manifest: %s)\n",
		result.SuccessfulExports, result.TotalSets, result.OutputDirectory, result.ManifestPath)
}
