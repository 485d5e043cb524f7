package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/nodegroup/pkg/group"
	"github.com/matzehuels/nodegroup/pkg/ident"
	ngio "github.com/matzehuels/nodegroup/pkg/io"
	"github.com/matzehuels/nodegroup/pkg/render"
	"github.com/matzehuels/nodegroup/pkg/render/nodelink"
)

// Render generates output artifacts in the requested formats.
// g may be nil when no requested format draws edges (see Options.NeedsGraph).
// The DOT source and SVG are computed at most once per call and shared by
// the formats derived from them.
func Render(ctx context.Context, g *group.Graph, groups [][]ident.ID, opts Options) (map[string][]byte, error) {
	if opts.NeedsGraph() && g == nil {
		return nil, fmt.Errorf("render %v: pair graph required", opts.Formats)
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var dot string
	var svg []byte

	dotSource := func() string {
		if dot == "" {
			dot = nodelink.ToDOT(g, groups, nodelink.Options{Compact: opts.Compact, Flat: opts.Flat})
		}
		return dot
	}
	svgBytes := func() ([]byte, error) {
		if svg != nil {
			return svg, nil
		}
		var err error
		svg, err = nodelink.RenderSVG(ctx, dotSource())
		return svg, err
	}

	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var data []byte
		var err error

		switch format {
		case FormatText:
			var buf bytes.Buffer
			err = ngio.WriteGroupsText(groups, &buf)
			data = buf.Bytes()
		case FormatJSON:
			var buf bytes.Buffer
			err = ngio.WriteGroupsJSON(groups, &buf)
			data = buf.Bytes()
		case FormatDOT:
			data = []byte(dotSource())
		case FormatSVG:
			data, err = svgBytes()
		case FormatPNG:
			if data, err = svgBytes(); err == nil {
				data, err = render.ToPNG(ctx, data, opts.Scale)
			}
		case FormatPDF:
			if data, err = svgBytes(); err == nil {
				data, err = render.ToPDF(ctx, data)
			}
		default:
			return nil, ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
