package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/gigbuilder/internal/shared"
	tu "github.com/desertthunder/gigbuilder/internal/testing"
)

// testRunner returns a runner over the sample catalog with an in-memory database.
//
// The config path points into a temp dir with no file, so Before keeps the given config.
func testRunner(t *testing.T) (*Runner, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()

	source := filepath.Join(dir, "songs.json")
	if err := os.WriteFile(source, []byte(tu.SampleCatalogJSON), 0o644); err != nil {
		t.Fatalf("failed to write catalog: %v", err)
	}

	db, err := shared.OpenDatabase(shared.DatabaseConfig{Path: shared.MemoryDatabase})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	config := shared.DefaultConfig()
	config.Catalog.Sources = []string{source}
	config.Stage.LogPath = filepath.Join(dir, "stage.log")

	output := &bytes.Buffer{}
	return NewRunner(RunnerOpts{
		Config: config,
		Logger: shared.NewLogger(io.Discard),
		Output: output,
		DB:     db,
	}), output
}

// run executes the CLI with args after the program name.
func run(t *testing.T, r *Runner, args ...string) error {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "missing.toml")
	return newApp(r).Run(context.Background(), append([]string{"gig", "--config", configPath}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.loader == nil {
				t.Error("expected loader to be created")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})
			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses configured timeout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{HTTPClient: nil})
			if runner.httpClient.Timeout != runner.config.Catalog.HTTPTimeout() {
				t.Errorf("expected timeout %v, got %v", runner.config.Catalog.HTTPTimeout(), runner.httpClient.Timeout)
			}
		})

		t.Run("with db skips opening storage", func(t *testing.T) {
			runner, _ := testRunner(t)
			if runner.store == nil || runner.prefs == nil {
				t.Error("expected repositories to be wired")
			}
			if err := runner.openStore(); err != nil {
				t.Errorf("openStore() error = %v", err)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		want := []string{"setup", "catalog", "set", "stage", "serve"}
		if len(commands) != len(want) {
			t.Fatalf("expected %d commands, got %d", len(want), len(commands))
		}
		for i, cmd := range commands {
			if cmd == nil || cmd.Name != want[i] {
				t.Errorf("command %d: expected %q, got %v", i, want[i], cmd)
			}
		}
	})
}

func TestCatalogCommands(t *testing.T) {
	t.Run("list with filters", func(t *testing.T) {
		r, out := testRunner(t)
		if err := run(t, r, "catalog", "list", "--era", "2000s"); err != nil {
			t.Fatalf("catalog list error = %v", err)
		}

		if !strings.Contains(out.String(), "Songs (2 of 3)") {
			t.Errorf("unexpected header:\n%s", out)
		}
		if strings.Contains(out.String(), "Wonderwall") {
			t.Errorf("unexpected 90s song in output:\n%s", out)
		}
	})

	t.Run("list hides until filtered", func(t *testing.T) {
		r, out := testRunner(t)
		if err := run(t, r, "catalog", "list", "--hide-unfiltered", "--sort", "energyAsc"); err != nil {
			t.Fatalf("catalog list error = %v", err)
		}
		if !strings.Contains(out.String(), "Set a filter") {
			t.Errorf("expected hint, got:\n%s", out)
		}
	})

	t.Run("list as JSON", func(t *testing.T) {
		r, out := testRunner(t)
		if err := run(t, r, "catalog", "list", "--json", "--query", "valerie"); err != nil {
			t.Fatalf("catalog list error = %v", err)
		}
		if !strings.Contains(out.String(), `"chordLink":"https://example.com/valerie"`) {
			t.Errorf("unexpected JSON:\n%s", out)
		}
	})

	t.Run("tags", func(t *testing.T) {
		r, out := testRunner(t)
		if err := run(t, r, "catalog", "tags"); err != nil {
			t.Fatalf("catalog tags error = %v", err)
		}
		if out.String() != "acoustic\ndance\nrock\nsingalong\n" {
			t.Errorf("unexpected tags: %q", out)
		}
	})

	t.Run("chords transposed", func(t *testing.T) {
		r, out := testRunner(t)
		if err := run(t, r, "catalog", "chords", "--transpose", "2", "1"); err != nil {
			t.Fatalf("catalog chords error = %v", err)
		}
		for _, want := range []string{"Key: F#m -> G#m (+2)", "Capo: 2", "CHORUS: D - E - F#m7"} {
			if !strings.Contains(out.String(), want) {
				t.Errorf("missing %q in:\n%s", want, out)
			}
		}
	})

	t.Run("chords for unknown song", func(t *testing.T) {
		r, _ := testRunner(t)
		if err := run(t, r, "catalog", "chords", "42"); !errors.Is(err, shared.ErrSongNotFound) {
			t.Errorf("expected ErrSongNotFound, got %v", err)
		}
	})

	t.Run("missing source", func(t *testing.T) {
		r, _ := testRunner(t)
		r.config.Catalog.Sources = []string{filepath.Join(t.TempDir(), "gone.json")}
		if err := run(t, r, "catalog", "list"); err == nil {
			t.Error("expected error for missing source")
		}
	})
}

func TestSetCommands(t *testing.T) {
	t.Run("build and save", func(t *testing.T) {
		r, out := testRunner(t)
		if err := run(t, r, "set", "build", "--save", "Friday", "--format", "markdown"); err != nil {
			t.Fatalf("set build error = %v", err)
		}

		// energy 3, then 4, then 5
		for _, want := range []string{"# Friday", "1. Oasis - Wonderwall", "2. Amy Winehouse - Valerie", "3. The Killers - Mr. Brightside"} {
			if !strings.Contains(out.String(), want) {
				t.Errorf("missing %q in:\n%s", want, out)
			}
		}

		last, err := r.prefs.Get("last_set")
		if err != nil || last.Value() != "Friday" {
			t.Errorf("expected last set to be remembered, got %v, %v", last, err)
		}
	})

	t.Run("add, remove, show and delete", func(t *testing.T) {
		r, out := testRunner(t)

		if err := run(t, r, "set", "add", "Pub", "2", "1", "2"); err != nil {
			t.Fatalf("set add error = %v", err)
		}
		if !strings.Contains(out.String(), "already in") {
			t.Errorf("expected duplicate notice, got:\n%s", out)
		}

		ids, err := r.store.Load("Pub")
		if err != nil || len(ids) != 2 || ids[0] != "2" || ids[1] != "1" {
			t.Fatalf("unexpected saved ids %v, %v", ids, err)
		}

		if err := run(t, r, "set", "remove", "Pub", "1"); err != nil {
			t.Fatalf("set remove error = %v", err)
		}

		out.Reset()
		if err := run(t, r, "set", "show", "--format", "csv", "Pub"); err != nil {
			t.Fatalf("set show error = %v", err)
		}
		if !strings.Contains(out.String(), "1,1,Wonderwall") {
			t.Errorf("unexpected CSV:\n%s", out)
		}

		out.Reset()
		if err := run(t, r, "set", "list"); err != nil {
			t.Fatalf("set list error = %v", err)
		}
		if out.String() != "Pub\n" {
			t.Errorf("unexpected set list %q", out)
		}

		if err := run(t, r, "set", "delete", "Pub"); err != nil {
			t.Fatalf("set delete error = %v", err)
		}
		if err := run(t, r, "set", "delete", "Pub"); !errors.Is(err, shared.ErrSetNotFound) {
			t.Errorf("expected ErrSetNotFound, got %v", err)
		}
	})

	t.Run("remove out of range", func(t *testing.T) {
		r, _ := testRunner(t)
		if err := run(t, r, "set", "add", "Pub", "1"); err != nil {
			t.Fatalf("set add error = %v", err)
		}
		if err := run(t, r, "set", "remove", "Pub", "5"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("removing the last song deletes the set", func(t *testing.T) {
		r, _ := testRunner(t)
		if err := run(t, r, "set", "add", "Solo", "3"); err != nil {
			t.Fatalf("set add error = %v", err)
		}
		if err := run(t, r, "set", "remove", "Solo", "1"); err != nil {
			t.Fatalf("set remove error = %v", err)
		}
		if _, err := r.store.Load("Solo"); !errors.Is(err, shared.ErrSetNotFound) {
			t.Errorf("expected set to be gone, got %v", err)
		}
	})

	t.Run("clear", func(t *testing.T) {
		r, _ := testRunner(t)
		if err := run(t, r, "set", "add", "Pub", "1", "2"); err != nil {
			t.Fatalf("set add error = %v", err)
		}
		if err := run(t, r, "set", "clear", "Pub"); err != nil {
			t.Fatalf("set clear error = %v", err)
		}
		if names, _ := r.store.Names(); len(names) != 0 {
			t.Errorf("expected no saved sets, got %v", names)
		}
	})

	t.Run("add unknown song", func(t *testing.T) {
		r, _ := testRunner(t)
		if err := run(t, r, "set", "add", "Pub", "99"); !errors.Is(err, shared.ErrSongNotFound) {
			t.Errorf("expected ErrSongNotFound, got %v", err)
		}
	})

	t.Run("missing arguments", func(t *testing.T) {
		r, _ := testRunner(t)
		if err := run(t, r, "set", "add", "Pub"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
		if err := run(t, r, "set", "show"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("bulk export", func(t *testing.T) {
		r, out := testRunner(t)
		for _, args := range [][]string{{"set", "add", "Pub", "1", "2"}, {"set", "add", "Wedding", "3"}} {
			if err := run(t, r, args...); err != nil {
				t.Fatalf("%v error = %v", args, err)
			}
		}

		dir := filepath.Join(t.TempDir(), "exports")
		out.Reset()
		if err := run(t, r, "set", "export", "--dir", dir, "--format", "csv"); err != nil {
			t.Fatalf("set export error = %v", err)
		}

		tu.AssertFileExists(t, filepath.Join(dir, "pub.csv"))
		tu.AssertFileExists(t, filepath.Join(dir, "wedding.csv"))
		tu.AssertFileExists(t, filepath.Join(dir, "export_manifest.json"))
		if !strings.Contains(out.String(), "Exported 2 of 2 sets") {
			t.Errorf("unexpected summary:\n%s", out)
		}
	})

	t.Run("export to file", func(t *testing.T) {
		r, _ := testRunner(t)
		path := filepath.Join(t.TempDir(), "set.txt")
		if err := run(t, r, "set", "build", "--tag", "singalong", "--output", path, "--chords"); err != nil {
			t.Fatalf("set build error = %v", err)
		}
		tu.AssertFileExists(t, path)
		if content := tu.MustReadFile(t, path); !strings.Contains(content, "PRE-CHORUS") {
			t.Errorf("expected chord charts in export:\n%s", content)
		}
	})
}

func TestSetupCommands(t *testing.T) {
	t.Run("config", func(t *testing.T) {
		r, _ := testRunner(t)
		path := filepath.Join(t.TempDir(), "config.toml")

		app := newApp(r)
		if err := app.Run(context.Background(), []string{"gig", "--config", path, "setup", "config"}); err != nil {
			t.Fatalf("setup config error = %v", err)
		}
		tu.AssertFileExists(t, path)

		app = newApp(r)
		if err := app.Run(context.Background(), []string{"gig", "--config", path, "setup", "config"}); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument for existing file, got %v", err)
		}
	})

	t.Run("database", func(t *testing.T) {
		tempDir := t.TempDir()
		originalDir := tu.MustGetwd(t)
		tu.MustChdir(t, tempDir)
		defer tu.MustChdir(t, originalDir)

		output := &bytes.Buffer{}
		r := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: output})
		if err := newApp(r).Run(context.Background(), []string{"gig", "setup", "database"}); err != nil {
			t.Fatalf("setup database error = %v", err)
		}

		tu.AssertFileExists(t, "config.toml")
		tu.AssertFileExists(t, "gig.db")
		if !strings.Contains(output.String(), "schema version 1") {
			t.Errorf("unexpected output %q", output)
		}
	})
}

func TestStageCommand(t *testing.T) {
	t.Run("no previous set to reopen", func(t *testing.T) {
		r, _ := testRunner(t)
		if err := run(t, r, "stage"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("storage failure is reported as such", func(t *testing.T) {
		r, _ := testRunner(t)
		r.db.Close()

		err := run(t, r, "stage")
		if err == nil || errors.Is(err, shared.ErrMissingArgument) {
			t.Fatalf("expected storage error, got %v", err)
		}
		if !strings.Contains(err.Error(), "failed to read last set") {
			t.Errorf("unexpected error %v", err)
		}
	})

	t.Run("unknown set", func(t *testing.T) {
		r, _ := testRunner(t)
		if err := run(t, r, "stage", "Ghost"); !errors.Is(err, shared.ErrSetNotFound) {
			t.Errorf("expected ErrSetNotFound, got %v", err)
		}
	})
}
