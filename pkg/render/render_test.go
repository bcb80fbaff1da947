package render

import (
	"bytes"
	"strings"
	"testing"
)

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
		{
			name: "zero dimensions",
			svg:  `<svg viewBox="0 0 0 0">content</svg>`,
			want: `<svg viewBox="0 0 0 0">content</svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeViewBox([]byte(tt.svg))
			if string(got) != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", string(got), tt.want)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	dot := `digraph G { a -> b; }`
	svg, err := RenderSVG(dot)
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}

	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output missing <svg> tag")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	dot := `not valid DOT {{{`
	_, err := RenderSVG(dot)
	if err == nil {
		t.Error("RenderSVG() should return error for invalid DOT")
	}
}

func TestRenderPNG(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping raster rendering in short mode")
	}

	dot := `digraph G { a -> b; }`
	png, err := RenderPNG(dot)
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}

	sig := []byte{0x89, 'P', 'N', 'G'}
	if !bytes.HasPrefix(png, sig) {
		t.Error("RenderPNG() output missing PNG signature")
	}
}
