package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/nodegroup/pkg/group"
	"github.com/matzehuels/nodegroup/pkg/ident"
	"github.com/matzehuels/nodegroup/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Compact labels nodes with their name only and drops cluster titles.
	// The full "type::name" stays available as the node tooltip.
	Compact bool

	// Flat draws all nodes in one space instead of one cluster per group.
	Flat bool
}

// palette cycles through fill colors for successive groups.
var palette = []string{
	"#dbeafe", "#dcfce7", "#fef9c3", "#fee2e2", "#ede9fe",
	"#cffafe", "#ffedd5", "#fce7f3", "#e0e7ff", "#f1f5f9",
}

// ToDOT converts a pair graph and its groups to Graphviz DOT format.
// Each group becomes a cluster subgraph in group order, and every pair
// becomes one undirected edge, so parallel pairs draw parallel edges and
// self-pairs draw loops. The resulting DOT string can be rendered using
// [RenderSVG], [RenderPDF], or [RenderPNG].
func ToDOT(g *group.Graph, groups [][]ident.ID, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=dot;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")

	for i, members := range groups {
		color := palette[i%len(palette)]
		buf.WriteString("\n")
		indent := "  "
		if !opts.Flat {
			fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", i)
			buf.WriteString("    style=\"rounded,filled\";\n")
			fmt.Fprintf(&buf, "    fillcolor=%q;\n", color)
			buf.WriteString("    color=\"#94a3b8\";\n")
			if !opts.Compact {
				fmt.Fprintf(&buf, "    label=%q;\n", clusterLabel(i, len(members)))
			}
			indent = "    "
		}
		for _, id := range members {
			attrs := fmtAttrs(id, opts)
			if opts.Flat {
				attrs = append(attrs, fmt.Sprintf("fillcolor=%q", color))
			}
			fmt.Fprintf(&buf, "%s%q [%s];\n", indent, id.String(), strings.Join(attrs, ", "))
		}
		if !opts.Flat {
			buf.WriteString("  }\n")
		}
	}

	if g != nil && len(g.Pairs()) > 0 {
		buf.WriteString("\n")
		for _, p := range g.Pairs() {
			fmt.Fprintf(&buf, "  %q -- %q;\n", p.First().String(), p.Second().String())
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func clusterLabel(i, size int) string {
	noun := "nodes"
	if size == 1 {
		noun = "node"
	}
	return fmt.Sprintf("group %d (%d %s)", i+1, size, noun)
}

func fmtLabel(id ident.ID, compact bool) string {
	if compact {
		return id.Name()
	}
	return id.Type() + "\n" + id.Name()
}

func fmtAttrs(id ident.ID, opts Options) []string {
	return []string{
		fmt.Sprintf("label=%q", fmtLabel(id, opts.Compact)),
		fmt.Sprintf("tooltip=%q", id.String()),
	}
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a
// unitless one so the SVG scales to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
