// Package pipeline provides the core trace → render pipeline for amdtrace.
//
// This package implements the complete trace → render flow that can be used
// by the CLI and the dev server. By centralizing this logic, we ensure
// consistent behavior across all entry points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Trace: Statically walk the AMD module graph from an entry module
//  2. Render: Generate output in various formats (JSON, DOT, SVG, PNG)
//
// Each stage can be run independently or as part of the complete pipeline.
// Trace results are cached by entry module and loader config hash; rendered
// artifacts are cached by graph content hash, so an unchanged graph never
// renders twice.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Entry:      "app/main",
//	    ConfigPath: "loader.json",
//	    BaseDir:    "./src",
//	    Formats:    []string{"json", "svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Trace only
//	g, err := runner.Trace(ctx, opts)
//
//	// Render an existing graph
//	artifacts, err := runner.Render(ctx, g, opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/amdtrace/amdtrace/pkg/amd"
	"github.com/amdtrace/amdtrace/pkg/cache"
	"github.com/amdtrace/amdtrace/pkg/dag"
	"github.com/amdtrace/amdtrace/pkg/graph"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

// Output format constants, re-exported from pkg/graph.
const (
	FormatJSON = graph.FormatJSON
	FormatDOT  = graph.FormatDOT
	FormatSVG  = graph.FormatSVG
	FormatPNG  = graph.FormatPNG
)

// DefaultFormat is the output format used when none is requested.
const DefaultFormat = FormatJSON

// DefaultBaseDir is the module tree root used when none is given.
const DefaultBaseDir = "."

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the trace pipeline.
// This struct supports JSON serialization for server requests.
type Options struct {
	// Trace options
	Entry      string `json:"entry"`
	ConfigPath string `json:"config_path,omitempty"` // Loader config JSON file
	BaseDir    string `json:"base_dir,omitempty"`    // Module tree root
	Refresh    bool   `json:"refresh,omitempty"`     // Ignore cached trace results

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // Include node metadata in DOT labels

	// Archive options
	Save bool `json:"save,omitempty"` // Record the run in the archive

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
	Config *amd.Config `json:"-"` // Pre-loaded loader config, overrides ConfigPath

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the traced dependency graph.
	Graph *dag.DAG

	// GraphHash is the content hash of the serialized graph.
	GraphHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// RunID identifies the archived run when Save was requested.
	RunID string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	TraceTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	TraceHit  bool // Whether the trace result came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: json, dot, svg, png)", format)
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

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForTrace(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForTrace checks required fields for tracing.
func (o *Options) ValidateForTrace() error {
	if o.Entry == "" {
		return fmt.Errorf("entry module is required")
	}

	// Trace defaults
	if o.BaseDir == "" {
		o.BaseDir = DefaultBaseDir
	}

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// TraceKeyOpts returns cache key options for trace results.
func (o *Options) TraceKeyOpts() cache.TraceKeyOpts {
	return cache.TraceKeyOpts{
		BaseDir: o.BaseDir,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Detailed: o.Detailed,
	}
}
