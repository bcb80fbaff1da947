// Package render turns traced module graphs into visual output.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz, where
// modules appear as boxes connected by dependency arrows. Plugin-prefixed
// modules (stylesheets, templates) are drawn with dashed grey boxes so they
// stand apart from ordinary script modules.
//
// # Usage
//
// Convert a DAG to DOT format, then render to SVG or PNG:
//
//	dot := render.ToDOT(g, render.Options{Detailed: false})
//	svg, err := render.RenderSVG(dot)
//	png, err := render.RenderPNG(dot)
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered directly via [RenderSVG] or [RenderPNG]
//   - Saved and processed with external Graphviz tools
//   - Customized before rendering
//
// The generated DOT uses top-to-bottom layout (rankdir=TB) with rounded
// box nodes, so entry modules appear above the modules they depend on.
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: When true, node labels include metadata (plugin, resource, path)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG and
// PNG rendering. No external Graphviz installation is required.
package render
