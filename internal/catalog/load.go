package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/gigbuilder/internal/models"
	"github.com/desertthunder/gigbuilder/internal/shared"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Loader reads catalog sources and merges them into a [Catalog].
//
// Sources are local file paths or http(s) URLs. They are fetched concurrently but merged in the order given.
type Loader struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
	now        func() time.Time
}

// LoaderOpts contains configuration options for creating a Loader.
type LoaderOpts struct {
	HTTPClient *http.Client
	// RequestsPerSecond limits remote fetches; zero or less means unlimited.
	RequestsPerSecond float64
	Logger            *log.Logger
	Now               func() time.Time
}

// NewLoader creates a Loader with the provided options.
func NewLoader(opts LoaderOpts) *Loader {
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &Loader{
		httpClient: opts.HTTPClient,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     opts.Logger,
		now:        opts.Now,
	}
}

// Load fetches every source and merges them, first occurrence of an id winning.
func (l *Loader) Load(ctx context.Context, sources []string) (*Catalog, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: no catalog sources configured", shared.ErrMissingConfig)
	}

	results := make([][]models.Song, len(sources))
	g, gctx := errgroup.WithContext(ctx)

	for i, src := range sources {
		g.Go(func() error {
			songs, err := l.loadSource(gctx, src)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", src, err)
			}
			l.logger.Debug("loaded catalog source", "source", src, "songs", len(songs))
			results[i] = songs
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	catalog := Merge(results...)
	l.logger.Info("catalog loaded", "sources", len(sources), "songs", catalog.Len())
	return catalog, nil
}

func (l *Loader) loadSource(ctx context.Context, src string) ([]models.Song, error) {
	var data []byte
	var err error

	if isRemote(src) {
		data, err = l.fetch(ctx, src)
	} else {
		data, err = os.ReadFile(src)
	}
	if err != nil {
		return nil, err
	}

	return DecodeSongs(data)
}

func (l *Loader) fetch(ctx context.Context, src string) ([]byte, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrTimeout, err)
	}

	u, err := url.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidConfig, err)
	}
	q := u.Query()
	q.Set("v", strconv.FormatInt(l.now().UnixMilli(), 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", shared.ErrSourceUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// DecodeSongs parses a source document: either a JSON array of songs or an object with a "songs" array.
func DecodeSongs(data []byte) ([]models.Song, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty catalog document", shared.ErrInvalidCatalog)
	}

	var songs []models.Song
	if data[0] == '[' {
		if err := json.Unmarshal(data, &songs); err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrInvalidCatalog, err)
		}
		return songs, nil
	}

	var doc struct {
		Songs []models.Song `json:"songs"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidCatalog, err)
	}
	return doc.Songs, nil
}

func isRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}
