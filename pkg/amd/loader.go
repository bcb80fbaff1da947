package amd

import (
	"path"
	"strings"

	"github.com/amdtrace/amdtrace/pkg/errors"
)

// Loader applies a Config to raw module specifiers, turning them into
// resolved module identifiers and filesystem-relative paths. A Loader is
// immutable after construction and safe for concurrent use.
type Loader struct {
	cfg *Config
}

// NewLoader builds a Loader from cfg. A nil cfg behaves like an empty
// configuration (no baseUrl, no aliases).
func NewLoader(cfg *Config) *Loader {
	if cfg == nil {
		cfg = &Config{}
	}
	return &Loader{cfg: cfg}
}

// Config returns the configuration the Loader was built from.
func (l *Loader) Config() *Config { return l.cfg }

// Resolve turns a raw module specifier into a resolved module identifier.
// context is the resolved identifier of the requesting module; it is empty
// for the entry module. Relative specifiers ("./x", "../x") resolve against
// the directory part of the context id. Map config aliases apply after
// relative normalization.
//
// A specifier of the form "plugin!resource" resolves the plugin and the
// resource independently and rejoins them; the full prefixed string is the
// module's identity.
func (l *Loader) Resolve(spec, context string) (string, error) {
	if err := errors.ValidateModuleID(spec); err != nil {
		return "", err
	}
	if i := strings.Index(spec, "!"); i >= 0 {
		plugin, resource := spec[:i], spec[i+1:]
		resolvedPlugin, err := l.resolveBare(plugin, context)
		if err != nil {
			return "", err
		}
		if resource == "" {
			return resolvedPlugin + "!", nil
		}
		return resolvedPlugin + "!" + l.applyMap(normalize(resource, context), context), nil
	}
	return l.resolveBare(spec, context)
}

func (l *Loader) resolveBare(spec, context string) (string, error) {
	if spec == "" {
		return "", errors.New(errors.ErrCodeInvalidModuleID, "module id cannot be empty")
	}
	return l.applyMap(normalize(spec, context), context), nil
}

// Path maps a decomposed module identifier to the file it is read from,
// relative to the trace base directory unless the result is absolute or a
// URL.
//
// Rules, in order:
//   - An id starting with "/", containing "://", or ending in ".js" is a
//     direct path: used verbatim, no paths aliases, no baseUrl.
//   - Otherwise the longest matching paths prefix is replaced, ".js" is
//     appended, and the result is joined under baseUrl.
//   - A plugin resource that already carries an extension keeps it
//     ("text!views/home.html" maps to "views/home.html" under baseUrl).
//   - An empty plugin resource maps to the plugin module's own file.
func (l *Loader) Path(ref ModuleRef) string {
	id := ref.ID
	skipExt := false
	if ref.Plugin != "" {
		if id == "" {
			id = ref.Plugin
		} else if path.Ext(id) != "" {
			skipExt = true
		}
	}
	if isDirectPath(id) {
		return id
	}

	p := l.applyPaths(id)
	if !skipExt && !strings.Contains(p, "?") {
		p += ".js"
	}
	if strings.HasPrefix(p, "/") || strings.Contains(p, "://") {
		return p
	}
	return path.Join(l.cfg.BaseURL, p)
}

// normalize resolves relative specifier segments against the directory part
// of the context module id. Non-relative specifiers pass through untouched.
func normalize(spec, context string) string {
	if !strings.HasPrefix(spec, "./") && !strings.HasPrefix(spec, "../") && spec != "." && spec != ".." {
		return spec
	}
	base := ""
	if context != "" {
		base = path.Dir(context)
	}
	return path.Join(base, spec)
}

// applyMap rewrites id through the map config: the longest specifier prefix
// wins, checked against the most specific requester prefix first, then the
// "*" table. Applied at most once, without recursion.
func (l *Loader) applyMap(id, context string) string {
	if len(l.cfg.Map) == 0 || id == "" {
		return id
	}
	var contextPrefixes []string
	if context != "" {
		contextPrefixes = segmentPrefixes(context)
	}
	for _, sp := range segmentPrefixes(id) {
		for _, cp := range contextPrefixes {
			if table, ok := l.cfg.Map[cp]; ok {
				if target, ok := table[sp]; ok {
					return target + id[len(sp):]
				}
			}
		}
		if table, ok := l.cfg.Map["*"]; ok {
			// A star alias mapping a prefix to itself would loop forever
			// in a real loader; skip it like RequireJS does.
			if target, ok := table[sp]; ok && target != sp {
				return target + id[len(sp):]
			}
		}
	}
	return id
}

// applyPaths rewrites the longest matching paths prefix of id.
func (l *Loader) applyPaths(id string) string {
	if len(l.cfg.Paths) == 0 {
		return id
	}
	for _, prefix := range segmentPrefixes(id) {
		if target, ok := l.cfg.Paths[prefix]; ok {
			return target + id[len(prefix):]
		}
	}
	return id
}

// segmentPrefixes returns every whole-segment prefix of id, longest first:
// "a/b/c" yields ["a/b/c", "a/b", "a"].
func segmentPrefixes(id string) []string {
	prefixes := []string{id}
	for i := strings.LastIndex(id, "/"); i > 0; i = strings.LastIndex(id[:i], "/") {
		prefixes = append(prefixes, id[:i])
	}
	return prefixes
}

// isDirectPath reports whether id names a file directly rather than a
// module id subject to paths and baseUrl mapping.
func isDirectPath(id string) bool {
	return strings.HasPrefix(id, "/") ||
		strings.HasSuffix(id, ".js") ||
		strings.Contains(id, "://")
}
