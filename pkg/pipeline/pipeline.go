// Package pipeline provides the grouping pipeline shared by the CLI and the
// HTTP adapter.
//
// By centralizing this logic, both entry points hash inputs, consult the
// cache, and render outputs the same way.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Group: partition the identifiers of a pair list into connected
//     components, cached by the content hash of the input
//  2. Render: encode the groups in each requested format (text, JSON, DOT,
//     SVG, PNG, PDF), cached per format and option set
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pairs, pipeline.Options{
//	    Formats: []string{"json", "svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Cache failures never fail a run: a backend error is logged and treated as
// a miss.
package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nodegroup/pkg/cache"
	"github.com/matzehuels/nodegroup/pkg/errors"
	"github.com/matzehuels/nodegroup/pkg/group"
	"github.com/matzehuels/nodegroup/pkg/ident"
)

// Format constants for output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// DefaultScale is the PNG scale factor used when Options.Scale is zero.
const DefaultScale = 2.0

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatText: true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// formatList is the user-facing list in validation messages.
const formatList = "text, json, dot, svg, png, pdf"

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Formats lists the artifacts to render. Defaults to text unless
	// GroupsOnly is set.
	Formats []string `json:"formats,omitempty"`

	// GroupsOnly stops after grouping: nothing is rendered or cached as an
	// artifact, and Formats must be empty.
	GroupsOnly bool `json:"groups_only,omitempty"`

	// Sorted orders members and groups by identifier instead of discovery
	// order. Cached groups are stored unsorted, so toggling it reuses them.
	Sorted bool `json:"sorted,omitempty"`

	// Refresh skips cache reads. Fresh results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	// Diagram options, see nodelink.Options.
	Compact bool `json:"compact,omitempty"`
	Flat    bool `json:"flat,omitempty"`

	// Scale is the PNG resolution multiplier.
	Scale float64 `json:"scale,omitempty"`

	// Logger receives debug output. Defaults to the runner's logger.
	Logger *log.Logger `json:"-"`
}

// ValidateAndSetDefaults checks the options and fills in defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.GroupsOnly && len(o.Formats) > 0 {
		return errors.New(errors.ErrCodeInvalidInput, "formats cannot be combined with groups-only runs")
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must not be negative")
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 && !o.GroupsOnly {
		o.Formats = []string{FormatText}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// NeedsGraph reports whether any requested format draws edges, which
// requires the pair graph and not just the groups.
func (o *Options) NeedsGraph() bool {
	for _, f := range o.Formats {
		switch f {
		case FormatDOT, FormatSVG, FormatPNG, FormatPDF:
			return true
		}
	}
	return false
}

// ArtifactKeyOpts returns cache key options for one rendered format.
// Options that cannot affect the format are left zero so they do not split
// the cache.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format, Sorted: o.Sorted}
	switch format {
	case FormatDOT, FormatSVG, FormatPDF:
		k.Compact, k.Flat = o.Compact, o.Flat
	case FormatPNG:
		k.Compact, k.Flat, k.Scale = o.Compact, o.Flat, o.Scale
	}
	return k
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, formatList)
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

// ParseFormats splits a comma-separated format list, trimming blanks.
// An empty string yields nil, which selects the default.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this run in logs and API responses.
	RunID string

	// InputHash is the content hash of the pair list.
	InputHash string

	// Groups are the connected components, sorted if Options.Sorted.
	Groups [][]ident.ID

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	group.Stats
	GroupTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	GroupsHit bool // Whether groups came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// String renders stats for log lines and the CLI summary.
func (s Stats) String() string {
	return fmt.Sprintf("%d pairs, %d nodes, %d groups (largest %d)", s.Pairs, s.Nodes, s.Groups, s.Largest)
}
