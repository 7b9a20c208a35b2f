// Package pipeline provides the core inspection pipeline for netform.
//
// This package implements the complete load → analyze → render pipeline that
// can be used by CLI and API components. By centralizing this logic, we
// ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read a network from a TOML manifest or JSON document
//  2. Analyze: Derive roles, build order, and structural properties
//  3. Render: Generate output in various formats (DOT, SVG, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, logger)
//	opts := pipeline.Options{
//	    Source:  "net.toml",
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/netform/netform/pkg/errors"
	"github.com/netform/netform/pkg/graph"
)

// Source format constants.
const (
	SourceTOML = "toml"
	SourceJSON = "json"
)

// Format constants for output formats.
const (
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatDOT:  true,
	FormatSVG:  true,
	FormatJSON: true,
}

// ValidSourceFormats is the set of supported input formats.
var ValidSourceFormats = map[string]bool{
	SourceTOML: true,
	SourceJSON: true,
}

// Options contains all configuration for the inspection pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Source       string `json:"source,omitempty"`        // Path to the network definition
	SourceFormat string `json:"source_format,omitempty"` // "toml" or "json"; inferred from extension when empty

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Detailed   bool     `json:"detailed,omitempty"`
	Horizontal bool     `json:"horizontal,omitempty"`

	// Refresh bypasses the cache for this run.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this pipeline execution.
	RunID string

	// Network is the loaded network.
	Network *graph.Network

	// NetworkHash is the content hash of the serialized network.
	NetworkHash string

	// Analysis contains the derived structural properties.
	Analysis Analysis

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Analysis contains the derived structural properties of a network.
// The struct is JSON-serializable for caching and API responses.
type Analysis struct {
	Name            string            `json:"name,omitempty"`
	NodeCount       int               `json:"node_count"`
	ConnectionCount int               `json:"connection_count"`
	Acyclic         bool              `json:"acyclic"`
	Inputs          []string          `json:"inputs,omitempty"`
	Outputs         []string          `json:"outputs,omitempty"`
	Roles           map[string]string `json:"roles,omitempty"`
	// BuildOrder is the dependency-respecting processing order of every
	// node reachable from an input. Empty when the network is cyclic.
	BuildOrder []string `json:"build_order,omitempty"`
	// ShapeConflicts names nodes whose display shape cannot lay out the
	// declared shape (both concrete, element counts differ).
	ShapeConflicts []string `json:"shape_conflicts,omitempty"`
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount       int
	ConnectionCount int
	LoadTime        time.Duration
	AnalyzeTime     time.Duration
	RenderTime      time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	AnalyzeHit bool // Whether the analysis came from cache
	RenderHit  bool // Whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: dot, svg, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent - calling it multiple times has
// the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for loading.
func (o *Options) ValidateForLoad() error {
	if o.Source == "" {
		return fmt.Errorf("source is required")
	}
	if err := errors.ValidatePath(o.Source); err != nil {
		return err
	}
	if o.SourceFormat == "" {
		o.SourceFormat = inferSourceFormat(o.Source)
	}
	if !ValidSourceFormats[o.SourceFormat] {
		return fmt.Errorf("invalid source format: %q (must be toml or json)", o.SourceFormat)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// inferSourceFormat maps a file extension to a source format, defaulting
// to TOML for unknown extensions.
func inferSourceFormat(path string) string {
	if filepath.Ext(path) == ".json" {
		return SourceJSON
	}
	return SourceTOML
}
