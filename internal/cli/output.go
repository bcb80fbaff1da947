package cli

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/amdtrace/amdtrace/pkg/errors"
	"github.com/amdtrace/amdtrace/pkg/pipeline"
)

// artifactWriteParams bundles the inputs for writeArtifacts.
type artifactWriteParams struct {
	artifacts map[string][]byte // rendered artifacts keyed by format
	formats   []string          // formats in requested order
	input     string            // input the default base name derives from
	output    string            // explicit output path or base (may be empty)
}

// writeArtifacts writes rendered artifacts to disk and prints one line per
// file. With a single format an explicit output names the file directly;
// otherwise files are written as <base>.<format>.
func writeArtifacts(p artifactWriteParams) error {
	if p.output != "" {
		if err := errors.ValidateOutputPath(p.output); err != nil {
			return err
		}
	}
	base := basePath(p.output, p.input)

	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			continue
		}
		out := base + "." + format
		if p.output != "" && len(p.formats) == 1 {
			out = p.output
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		printFile(out)
	}
	return nil
}

// basePath derives the base output path from the output and input paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .json, etc.), it strips that extension.
// This is used when generating multiple files (e.g., graph.json, graph.svg).
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// entryBase flattens an entry module id into a file name stem for default
// artifact paths ("app/main" → "main", "text!app/header.html" → "header").
func entryBase(entry string) string {
	s := entry
	if i := strings.LastIndex(s, "!"); i >= 0 {
		s = s[i+1:]
	}
	s = path.Base(s)
	s = strings.TrimSuffix(s, path.Ext(s))
	if s == "" || s == "." || s == "/" {
		return "graph"
	}
	return s
}
