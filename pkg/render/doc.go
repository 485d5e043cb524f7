// Package render turns grouping results into visual artifacts.
//
// # Overview
//
// The [nodelink] subpackage draws the pair graph with Graphviz, one cluster
// per group. This package holds the format conversion shared by renderers.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	dot := nodelink.ToDOT(g, groups, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [nodelink]: github.com/matzehuels/nodegroup/pkg/render/nodelink
package render
