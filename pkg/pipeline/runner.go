package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/nodegroup/pkg/cache"
	"github.com/matzehuels/nodegroup/pkg/group"
	"github.com/matzehuels/nodegroup/pkg/ident"
	"github.com/matzehuels/nodegroup/pkg/observability"
)

// Cache key types reported to observability hooks.
const (
	keyTypeGroups   = "groups"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the per-kind cache lifetimes when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
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
	}
}

// Execute groups pairs and renders the requested formats, consulting the
// cache at both stages.
func (r *Runner) Execute(ctx context.Context, pairs []ident.Pair, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		RunID:     uuid.New().String(),
		InputHash: InputHash(pairs),
	}
	logger := opts.Logger.With("run", result.RunID[:8])

	// Stage 1: Group
	groupStart := time.Now()
	observability.Group().OnGroupStart(ctx, len(pairs))
	gr, hit, err := r.group(ctx, result.InputHash, pairs, opts)
	result.Stats.GroupTime = time.Since(groupStart)
	if err != nil {
		observability.Group().OnGroupComplete(ctx, 0, 0, false, result.Stats.GroupTime, err)
		return nil, fmt.Errorf("group: %w", err)
	}
	observability.Group().OnGroupComplete(ctx, gr.stats.Nodes, gr.stats.Groups, hit, result.Stats.GroupTime, nil)

	groups := gr.groups
	if opts.Sorted {
		groups = group.Sorted(groups)
	}
	result.Groups = groups
	result.Stats.Stats = gr.stats
	result.CacheInfo.GroupsHit = hit

	logger.Info("grouped identifiers",
		"pairs", gr.stats.Pairs,
		"nodes", gr.stats.Nodes,
		"groups", gr.stats.Groups,
		"cached", hit,
		"duration", result.Stats.GroupTime)

	if opts.GroupsOnly {
		result.Artifacts = map[string][]byte{}
		return result, nil
	}

	// Stage 2: Render
	renderStart := time.Now()
	observability.Render().OnRenderStart(ctx, opts.Formats)
	graphFn := func() *group.Graph {
		if gr.graph == nil {
			gr.graph = group.New(pairs)
		}
		return gr.graph
	}
	artifacts, renderHit, err := r.render(ctx, result.InputHash, graphFn, groups, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	observability.Render().OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = renderHit

	logger.Debug("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// grouping is the result of stage 1. graph is nil on a cache hit and built
// on demand for formats that draw edges.
type grouping struct {
	groups [][]ident.ID
	graph  *group.Graph
	stats  group.Stats
}

// cachedGroups is the cache encoding of a grouping. Identifiers are stored
// as (type, name) tuples so that fields containing separators survive.
type cachedGroups struct {
	Groups [][][2]string `json:"groups"`
	Stats  group.Stats   `json:"stats"`
}

func encodeGroups(groups [][]ident.ID, stats group.Stats) ([]byte, error) {
	out := cachedGroups{Groups: make([][][2]string, len(groups)), Stats: stats}
	for i, members := range groups {
		out.Groups[i] = make([][2]string, len(members))
		for j, id := range members {
			out.Groups[i][j] = [2]string{id.Type(), id.Name()}
		}
	}
	return json.Marshal(out)
}

func decodeGroups(data []byte) ([][]ident.ID, group.Stats, error) {
	var in cachedGroups
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, group.Stats{}, err
	}
	groups := make([][]ident.ID, len(in.Groups))
	for i, members := range in.Groups {
		groups[i] = make([]ident.ID, len(members))
		for j, m := range members {
			groups[i][j] = ident.New(m[0], m[1])
		}
	}
	return groups, in.Stats, nil
}

func (r *Runner) group(ctx context.Context, inputHash string, pairs []ident.Pair, opts Options) (*grouping, bool, error) {
	key := r.Keyer.GroupKey(inputHash)

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit := r.cacheGet(ctx, opts.Logger, keyTypeGroups, key); hit {
			groups, stats, err := decodeGroups(data)
			if err == nil {
				return &grouping{groups: groups, stats: stats}, true, nil
			}
			opts.Logger.Debug("discarding undecodable cache entry", "key", key, "err", err)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	g := group.New(pairs)
	groups := g.Components()
	stats := group.Summarize(g, groups)

	if data, err := encodeGroups(groups, stats); err == nil {
		r.cacheSet(ctx, opts.Logger, keyTypeGroups, key, data, r.ttl(cache.TTLGroups))
	}
	return &grouping{groups: groups, graph: g, stats: stats}, false, nil
}

func (r *Runner) render(ctx context.Context, inputHash string, graphFn func() *group.Graph, groups [][]ident.ID, opts Options) (map[string][]byte, bool, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	seen := make(map[string]bool, len(opts.Formats))
	var missing []string

	for _, format := range opts.Formats {
		if seen[format] {
			continue
		}
		seen[format] = true
		if !opts.Refresh {
			key := r.Keyer.ArtifactKey(inputHash, opts.ArtifactKeyOpts(format))
			if data, hit := r.cacheGet(ctx, opts.Logger, keyTypeArtifact, key); hit {
				artifacts[format] = data
				continue
			}
		}
		missing = append(missing, format)
	}

	if len(missing) == 0 {
		return artifacts, true, nil // All artifacts from cache
	}

	renderOpts := opts
	renderOpts.Formats = missing
	var g *group.Graph
	if renderOpts.NeedsGraph() {
		g = graphFn()
	}
	rendered, err := Render(ctx, g, groups, renderOpts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(inputHash, opts.ArtifactKeyOpts(format))
		r.cacheSet(ctx, opts.Logger, keyTypeArtifact, key, data, r.ttl(cache.TTLArtifact))
		artifacts[format] = data
	}
	return artifacts, false, nil
}

// cacheGet reads key, treating backend errors as misses.
func (r *Runner) cacheGet(ctx context.Context, logger *log.Logger, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache read failed", "key", key, "err", err)
		hit = false
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, keyType)
	} else {
		observability.Cache().OnCacheMiss(ctx, keyType)
	}
	return data, hit
}

// cacheSet writes key, logging backend errors.
func (r *Runner) cacheSet(ctx context.Context, logger *log.Logger, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("cache write failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// InputHash returns the content hash of a pair list. Pairs are hashed as
// (type, name, type, name) tuples in input order, so the hash is exact even
// for names containing separators.
func InputHash(pairs []ident.Pair) string {
	tuples := make([][4]string, len(pairs))
	for i, p := range pairs {
		a, b := p.First(), p.Second()
		tuples[i] = [4]string{a.Type(), a.Name(), b.Type(), b.Name()}
	}
	h, _ := cache.HashJSON(tuples)
	return h
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
