package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/netform/netform/pkg/cache"
	"github.com/netform/netform/pkg/graph"
	"github.com/netform/netform/pkg/manifest"
	"github.com/netform/netform/pkg/netio"
	"github.com/netform/netform/pkg/observability"
	"github.com/netform/netform/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Logger: logger,
	}
}

// Execute runs the complete load → analyze → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	net, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Network = net
	result.NetworkHash = NetworkHash(net)
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.NodeCount = net.NodeCount()
	result.Stats.ConnectionCount = net.ConnectionCount()

	r.Logger.Info("loaded network",
		"run_id", result.RunID,
		"nodes", net.NodeCount(),
		"connections", net.ConnectionCount(),
		"duration", result.Stats.LoadTime)

	// Stage 2: Analyze
	analyzeStart := time.Now()
	analysis, analyzeHit, err := r.AnalyzeWithCacheInfo(ctx, net, result.NetworkHash, opts)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	result.Analysis = analysis
	result.Stats.AnalyzeTime = time.Since(analyzeStart)
	result.CacheInfo.AnalyzeHit = analyzeHit

	r.Logger.Info("analyzed network",
		"acyclic", analysis.Acyclic,
		"inputs", len(analysis.Inputs),
		"outputs", len(analysis.Outputs),
		"duration", result.Stats.AnalyzeTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, net, result.NetworkHash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads a network from the configured source.
func (r *Runner) Load(ctx context.Context, opts Options) (*graph.Network, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Pipeline().OnLoadStart(ctx, opts.Source, opts.SourceFormat)

	var net *graph.Network
	var err error
	switch opts.SourceFormat {
	case SourceJSON:
		net, err = netio.Import(opts.Source)
	default:
		net, err = manifest.Load(opts.Source)
	}

	nodeCount := 0
	if net != nil {
		nodeCount = net.NodeCount()
	}
	observability.Pipeline().OnLoadComplete(ctx, opts.Source, opts.SourceFormat, nodeCount, time.Since(start), err)
	return net, err
}

// Analyze derives the structural properties of a network without caching.
func Analyze(net *graph.Network) Analysis {
	a := Analysis{
		Name:            net.Name(),
		NodeCount:       net.NodeCount(),
		ConnectionCount: net.ConnectionCount(),
		Acyclic:         net.Validate() == nil,
		Roles:           make(map[string]string, net.NodeCount()),
	}
	for _, n := range net.Inputs() {
		a.Inputs = append(a.Inputs, n.Name)
	}
	for _, n := range net.Outputs() {
		a.Outputs = append(a.Outputs, n.Name)
	}
	for _, n := range net.Nodes() {
		a.Roles[n.Name] = n.Role().String()
	}
	a.ShapeConflicts = shapeConflicts(net)
	if a.Acyclic {
		if order, err := net.BuildOrder(); err == nil {
			for _, n := range order {
				a.BuildOrder = append(a.BuildOrder, n.Name)
			}
		}
	}
	return a
}

// AnalyzeWithCacheInfo analyzes a network with caching and returns cache hit info.
func (r *Runner) AnalyzeWithCacheInfo(ctx context.Context, net *graph.Network, networkHash string, opts Options) (Analysis, bool, error) {
	start := time.Now()
	observability.Pipeline().OnAnalyzeStart(ctx, net.Name(), net.NodeCount())

	cacheKey := cache.AnalysisKey(networkHash)

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached Analysis
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "analysis")
				observability.Pipeline().OnAnalyzeComplete(ctx, net.Name(), time.Since(start), nil)
				return cached, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "analysis")
	}

	analysis := Analyze(net)

	if data, err := json.Marshal(analysis); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLAnalysis); err == nil {
			observability.Cache().OnCacheSet(ctx, "analysis", len(data))
		}
	}

	observability.Pipeline().OnAnalyzeComplete(ctx, net.Name(), time.Since(start), nil)
	return analysis, false, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, net *graph.Network, networkHash string, opts Options) (map[string][]byte, bool, error) {
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	if !opts.Refresh {
		for _, format := range opts.Formats {
			cacheKey := cache.RenderKey(networkHash, format, opts.Detailed, opts.Horizontal)
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "render")
				artifacts[format] = data
			} else {
				observability.Cache().OnCacheMiss(ctx, "render")
				allCached = false
				break
			}
		}
		if allCached && len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	rendered := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		start := time.Now()
		observability.Pipeline().OnRenderStart(ctx, format)

		data, err := renderFormat(ctx, net, format, opts)

		observability.Pipeline().OnRenderComplete(ctx, format, time.Since(start), err)
		if err != nil {
			return nil, false, fmt.Errorf("render %s: %w", format, err)
		}
		rendered[format] = data
	}

	for format, data := range rendered {
		cacheKey := cache.RenderKey(networkHash, format, opts.Detailed, opts.Horizontal)
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "render", len(data))
		}
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, net *graph.Network, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, net, NetworkHash(net), opts)
	return artifacts, err
}

// renderFormat produces one artifact.
func renderFormat(ctx context.Context, net *graph.Network, format string, opts Options) ([]byte, error) {
	renderOpts := render.Options{Detailed: opts.Detailed, Horizontal: opts.Horizontal}
	switch format {
	case FormatDOT:
		return []byte(render.ToDOT(net, renderOpts)), nil
	case FormatSVG:
		return render.SVG(ctx, render.ToDOT(net, renderOpts))
	case FormatJSON:
		return json.MarshalIndent(netio.FromNetwork(net), "", "  ")
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// NetworkHash computes the content hash of a network's canonical JSON
// serialization, used as the cache key root for all derived entries.
func NetworkHash(net *graph.Network) string {
	data, err := json.Marshal(netio.FromNetwork(net))
	if err != nil {
		return ""
	}
	return cache.Hash(data)
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
