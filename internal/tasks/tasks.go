package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/desertthunder/gigbuilder/internal/catalog"
	"github.com/desertthunder/gigbuilder/internal/chords"
	"github.com/desertthunder/gigbuilder/internal/formatter"
	"github.com/desertthunder/gigbuilder/internal/models"
	"github.com/desertthunder/gigbuilder/internal/shared"
)

// ManifestName is the file written alongside bulk exports.
const ManifestName = "export_manifest.json"

// SetSource lists and loads saved sets by name.
type SetSource interface {
	Load(name string) ([]models.SongID, error)
	Names() ([]string, error)
}

// BulkExportOpts contains configuration for bulk set exports.
type BulkExportOpts struct {
	Format     formatter.Format // Export format (default: text)
	OutputDir  string           // Base output directory (default: sets_export_{epoch})
	NumWorkers int              // Concurrent workers (default: 4, max: 8)
	Offset     chords.Offset    // Transposition applied to chord charts
	Chords     bool             // Append chord charts to text and Markdown output
}

// SetExportResult is the outcome of exporting one saved set.
type SetExportResult struct {
	Name    string `json:"name"`
	Songs   int    `json:"songs"`
	File    string `json:"file,omitempty"`
	Success bool   `json:"success"`
	Error   error  `json:"-"`
	Message string `json:"error,omitempty"`
}

// BulkExportResult summarizes a bulk export and is written as the manifest.
type BulkExportResult struct {
	TotalSets         int               `json:"total_sets"`
	SuccessfulExports int               `json:"successful_exports"`
	FailedExports     int               `json:"failed_exports"`
	OutputDirectory   string            `json:"output_directory"`
	Format            formatter.Format  `json:"format"`
	ExportedAt        time.Time         `json:"exported_at"`
	Results           []SetExportResult `json:"results"`
	ManifestPath      string            `json:"-"`
}

// ExportEngine exports saved sets resolved against a catalog.
type ExportEngine struct {
	catalog *catalog.Catalog
	sets    SetSource
}

// NewExportEngine creates an ExportEngine over cat and sets.
func NewExportEngine(cat *catalog.Catalog, sets SetSource) *ExportEngine {
	return &ExportEngine{catalog: cat, sets: sets}
}

// BulkExport writes each named set to its own file with a worker pool. Empty names exports every saved set.
//
// Results in the returned summary are ordered by set name regardless of completion order.
func (e *ExportEngine) BulkExport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	names []string,
	opts BulkExportOpts,
) (*BulkExportResult, error) {
	if e.sets == nil {
		return nil, fmt.Errorf("%w: set storage not initialized", shared.ErrServiceUnavailable)
	}

	if len(names) == 0 {
		all, err := e.sets.Names()
		if err != nil {
			return nil, fmt.Errorf("failed to list saved sets: %w", err)
		}
		names = all
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no saved sets to export", shared.ErrEmptySet)
	}

	if opts.Format == "" {
		opts.Format = formatter.FormatText
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("sets_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 8 {
		opts.NumWorkers = 8
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkExportResult{
		TotalSets:       len(names),
		OutputDirectory: opts.OutputDir,
		Format:          opts.Format,
		ExportedAt:      time.Now().UTC(),
		Results:         make([]SetExportResult, 0, len(names)),
	}

	jobs := make(chan string, len(names))
	results := make(chan SetExportResult, len(names))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	sendProgress(prog, loadingSetsUpdate(len(names)))
	go func() {
		defer close(jobs)
		for _, name := range names {
			select {
			case <-ctx.Done():
				return
			case jobs <- name:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			sendProgress(prog, exportCompletedUpdate(completed, len(names), res))
		} else {
			result.FailedExports++
			sendProgress(prog, exportFailedUpdate(completed, len(names), res))
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	slices.SortFunc(result.Results, func(a, b SetExportResult) int {
		return strings.Compare(a.Name, b.Name)
	})

	manifestPath := filepath.Join(opts.OutputDir, ManifestName)
	sendProgress(prog, manifestUpdate(manifestPath))
	if err := writeManifest(result, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// exportWorker exports sets from the jobs channel until it is closed.
func (e *ExportEngine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan string,
	results chan<- SetExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for name := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}
		results <- e.exportSingleSet(name, opts)
	}
}

// exportSingleSet loads one set, resolves it and writes it in the requested format.
func (e *ExportEngine) exportSingleSet(name string, opts BulkExportOpts) SetExportResult {
	result := SetExportResult{Name: name}

	ids, err := e.sets.Load(name)
	if err != nil {
		return failed(result, fmt.Errorf("failed to load set: %w", err))
	}

	songs := e.catalog.Resolve(ids)
	result.Songs = len(songs)

	path := filepath.Join(opts.OutputDir, formatter.Filename(name, opts.Format))
	written, err := formatter.WriteExport(formatter.SetExport{
		Name:   name,
		Songs:  songs,
		Offset: opts.Offset,
		Chords: opts.Chords,
	}, opts.Format, path)
	if err != nil {
		return failed(result, err)
	}

	result.File = written
	result.Success = true
	return result
}

func failed(res SetExportResult, err error) SetExportResult {
	res.Error = err
	res.Message = err.Error()
	return res
}

func writeManifest(result *BulkExportResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
