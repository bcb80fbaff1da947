// Package amd implements the module-identity model of an AMD (RequireJS
// style) loader: configuration loading, specifier resolution, path mapping,
// and static dependency extraction from module source.
//
// The package is the boundary the tracer in pkg/trace builds on. It knows
// nothing about traversal; every function here is a pure function of its
// inputs plus the loader configuration.
//
// # Module Identity
//
// A resolved module identifier is an opaque string produced by
// [Loader.Resolve]. Identifiers may carry a loader-plugin prefix separated
// by "!", e.g. "text!app/views/home.html". The full prefixed string is the
// identity: "text!app/tmpl.html" and "app/tmpl.html" are distinct modules.
//
// # Typical Use
//
//	cfg, err := amd.LoadConfig("loader.json")
//	loader := amd.NewLoader(cfg)
//	id, err := loader.Resolve("./util", "app/main") // "app/util"
//	ref := amd.ParseID(id)
//	path := loader.Path(ref) // "scripts/app/util.js"
package amd

import "strings"

// Pseudo-module specifiers handled natively by AMD loaders. They never
// correspond to files and are excluded from extraction results.
const (
	PseudoRequire = "require"
	PseudoExports = "exports"
	PseudoModule  = "module"
)

// ModuleRef is the decomposition of a resolved module identifier into its
// bare module id and optional loader-plugin prefix.
type ModuleRef struct {
	ID     string // Bare module id, empty only for a bare plugin reference like "css!"
	Plugin string // Loader-plugin prefix, empty for ordinary modules
}

// String reassembles the full resolved identifier.
func (r ModuleRef) String() string {
	if r.Plugin == "" {
		return r.ID
	}
	return r.Plugin + "!" + r.ID
}

// ParseID splits a resolved module identifier into its bare id and optional
// loader-plugin prefix. The split happens at the first "!"; everything after
// it belongs to the bare id, so plugin resources containing "!" survive.
func ParseID(id string) ModuleRef {
	if i := strings.Index(id, "!"); i >= 0 {
		return ModuleRef{ID: id[i+1:], Plugin: id[:i]}
	}
	return ModuleRef{ID: id}
}

// IsPseudo reports whether spec names one of the loader-provided
// pseudo-modules (require, exports, module).
func IsPseudo(spec string) bool {
	return spec == PseudoRequire || spec == PseudoExports || spec == PseudoModule
}
