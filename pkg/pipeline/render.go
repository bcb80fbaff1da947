package pipeline

import (
	"fmt"

	"github.com/amdtrace/amdtrace/pkg/dag"
	"github.com/amdtrace/amdtrace/pkg/graph"
	"github.com/amdtrace/amdtrace/pkg/render"
)

// Render generates output artifacts in the requested formats.
// The DOT source is generated once and shared by the dot, svg, and png
// formats.
func Render(g *dag.DAG, opts Options) (map[string][]byte, error) {
	var dot string
	if needsDOT(opts.Formats) {
		dot = render.ToDOT(g, render.Options{Detailed: opts.Detailed})
	}

	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data, err = graph.MarshalGraph(g)
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = render.RenderSVG(dot)
		case FormatPNG:
			data, err = render.RenderPNG(dot)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// needsDOT reports whether any requested format is derived from DOT source.
func needsDOT(formats []string) bool {
	for _, f := range formats {
		switch f {
		case FormatDOT, FormatSVG, FormatPNG:
			return true
		}
	}
	return false
}
