package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rampboard/pkg/cache"
	"github.com/matzehuels/rampboard/pkg/errors"
	rio "github.com/matzehuels/rampboard/pkg/io"
	"github.com/matzehuels/rampboard/pkg/observability"
	"github.com/matzehuels/rampboard/pkg/proportion"
	"github.com/matzehuels/rampboard/pkg/table"
)

// DefaultTTL is how long cached tables and artifacts live unless the runner
// is configured otherwise.
const DefaultTTL = 24 * time.Hour

// Runner encapsulates pipeline execution with caching.
//
// The Runner holds no per-run state, so goroutines may share one Runner
// with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration
}

// NewRunner creates a runner. A nil keyer means DefaultKeyer, a nil cache
// disables caching, and a nil logger means the default logger.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    DefaultTTL,
	}
}

// LoadedTable is a parsed table with the facts needed to cache it.
type LoadedTable struct {
	Table    *table.Table
	Encoding string
	Hash     string
}

// snapshot is the cached form of a LoadedTable.
type snapshot struct {
	Encoding string     `json:"encoding"`
	Columns  []string   `json:"columns"`
	Records  [][]string `json:"records"`
}

// LoadTable decodes data with the encoding trial list, or
// [rio.DefaultEncodings] when none is given, and returns the table and
// whether it came from the cache. The cache key covers the name, the content
// hash and the encodings, so a changed upload is always parsed afresh.
func (r *Runner) LoadTable(ctx context.Context, name string, data []byte, encodings ...string) (*LoadedTable, bool, error) {
	return r.loadTable(ctx, name, data, encodings, false)
}

func (r *Runner) loadTable(ctx context.Context, name string, data []byte, encodings []string, refresh bool) (*LoadedTable, bool, error) {
	if len(encodings) == 0 {
		encodings = rio.DefaultEncodings
	}
	hash := cache.Hash(data)
	key := r.Keyer.TableKey(name, hash, encodings)
	hooks := observability.Pipeline()
	cacheHooks := observability.Cache()

	if !refresh {
		if cached, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var snap snapshot
			if err := json.Unmarshal(cached, &snap); err == nil {
				cacheHooks.OnCacheHit(ctx, "table")
				t := table.New(snap.Columns, snap.Records)
				return &LoadedTable{Table: t, Encoding: snap.Encoding, Hash: hash}, true, nil
			}
		} else if err != nil {
			r.Logger.Warn("cache read failed", "err", err)
		}
		cacheHooks.OnCacheMiss(ctx, "table")
	}

	start := time.Now()
	hooks.OnLoadStart(ctx, name)
	t, enc, err := rio.ReadTable(bytes.NewReader(data), encodings)
	rows := 0
	if t != nil {
		rows = t.Len()
	}
	hooks.OnLoadComplete(ctx, name, enc, rows, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if payload, err := json.Marshal(snapshot{Encoding: enc, Columns: t.Columns, Records: t.Records()}); err == nil {
		if err := r.Cache.Set(ctx, key, payload, r.TTL); err != nil {
			r.Logger.Warn("cache write failed", "err", err)
		} else {
			cacheHooks.OnCacheSet(ctx, "table", len(payload))
		}
	}
	return &LoadedTable{Table: t, Encoding: enc, Hash: hash}, false, nil
}

// ForgetTable removes a cached table.
func (r *Runner) ForgetTable(ctx context.Context, name string, data []byte, encodings ...string) error {
	if len(encodings) == 0 {
		encodings = rio.DefaultEncodings
	}
	return r.Cache.Delete(ctx, r.Keyer.TableKey(name, cache.Hash(data), encodings))
}

// Compute normalizes t by the options' key and value columns.
func (r *Runner) Compute(ctx context.Context, t *table.Table, opts Options) (*proportion.Grouped, error) {
	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnComputeStart(ctx, opts.KeyColumn, opts.ValueColumns)
	g, err := proportion.Compute(t, opts.KeyColumn, opts.ValueColumns)
	groups := 0
	if g != nil {
		groups = len(g.Groups)
	}
	hooks.OnComputeComplete(ctx, opts.KeyColumn, groups, time.Since(start), err)
	return g, err
}

// RenderWithCacheInfo renders artifacts, reusing cached ones when every
// requested format is present, and reports whether it did.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, tableHash string, g *proportion.Grouped, ranked proportion.Ranked, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	cacheHooks := observability.Cache()

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(tableHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			break
		}
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		cacheHooks.OnCacheHit(ctx, "artifact")
		return artifacts, true, nil
	}
	cacheHooks.OnCacheMiss(ctx, "artifact")

	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnRenderStart(ctx, opts.Formats)
	rendered, err := Render(g, ranked, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(tableHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, r.TTL); err == nil {
			cacheHooks.OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return rendered, false, nil
}

// Execute runs the complete load → compute → rank → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	data := opts.Data
	if data == nil {
		var err error
		data, err = os.ReadFile(opts.Path)
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", opts.Path)
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeUnreadableFile, err, "read %s", opts.Path)
		}
	}

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	loaded, hit, err := r.loadTable(ctx, opts.Source, data, opts.Encodings, opts.Refresh)
	if err != nil {
		return nil, err
	}
	result.Table = loaded.Table
	result.Encoding = loaded.Encoding
	result.TableHash = loaded.Hash
	result.Stats.Rows = loaded.Table.Len()
	result.Stats.LoadTime = time.Since(loadStart)
	result.CacheInfo.TableHit = hit

	opts.Logger.Info("loaded table",
		"source", opts.Source,
		"encoding", loaded.Encoding,
		"rows", loaded.Table.Len(),
		"columns", len(loaded.Table.Columns),
		"cached", hit)

	// Stage 2: Compute
	if err := opts.SetSelectionDefaults(loaded.Table); err != nil {
		return nil, err
	}
	computeStart := time.Now()
	g, err := r.Compute(ctx, loaded.Table, opts)
	if err != nil {
		return nil, err
	}
	ranked, err := g.Ranked(opts.KeyValue, *opts.Palette)
	if err != nil {
		return nil, err
	}
	result.Grouped = g
	result.Ranked = ranked
	result.Stats.Groups = len(g.Groups)
	result.Stats.Entries = len(ranked.Entries)
	result.Stats.ComputeTime = time.Since(computeStart)

	opts.Logger.Debug("computed proportions",
		"key_column", opts.KeyColumn,
		"value_columns", opts.ValueColumns,
		"key", opts.KeyValue,
		"groups", len(g.Groups))

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, loaded.Hash, g, ranked, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Options = opts
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Debug("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
