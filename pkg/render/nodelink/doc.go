// Package nodelink renders grouped pair graphs as node-link diagrams.
//
// # Overview
//
// Every identifier becomes a rounded box labelled with its type and name,
// every pair becomes an undirected edge, and every group is drawn as a
// filled cluster so connected components are visible at a glance.
//
// # Usage
//
// Convert a graph and its groups to DOT, then render to SVG:
//
//	g := group.New(pairs)
//	dot := nodelink.ToDOT(g, g.Components(), nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Options
//
//   - Compact: label nodes by name only and drop cluster titles
//   - Flat: skip clusters and color nodes by group instead
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
