package amd

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"sort"
	"strings"

	"github.com/amdtrace/amdtrace/pkg/errors"
)

// Config holds the subset of an AMD loader configuration that affects module
// identity and file location. It is typically loaded from the same JSON file
// a RequireJS build would consume; unrelated fields (shim, waitSeconds, ...)
// are ignored.
type Config struct {
	// BaseURL is the directory all module paths are relative to, itself
	// relative to the trace base directory. Empty means the base directory.
	BaseURL string `json:"baseUrl,omitempty"`

	// Paths maps module id prefixes to replacement path prefixes. The
	// longest matching prefix wins. Applied at path-mapping time only; it
	// never changes a module's identity.
	Paths map[string]string `json:"paths,omitempty"`

	// Map maps a requesting-module prefix (or "*" for any requester) to a
	// table of specifier-prefix aliases. Applied during resolution, after
	// relative normalization, so it does change identity.
	Map map[string]map[string]string `json:"map,omitempty"`
}

// LoadConfig reads and validates a loader configuration from a JSON file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "cannot read loader config %s", path)
	}
	return ParseConfig(data)
}

// ParseConfig parses and validates a loader configuration from JSON bytes.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "malformed loader config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values that cannot name files.
func (c *Config) Validate() error {
	if c.BaseURL != "" {
		if err := errors.ValidateConfigPath(c.BaseURL); err != nil {
			return err
		}
	}
	for alias, target := range c.Paths {
		if alias == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "paths config contains an empty alias")
		}
		if err := errors.ValidateConfigPath(target); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "paths[%q]", alias)
		}
	}
	for prefix, aliases := range c.Map {
		if prefix == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "map config contains an empty requester prefix")
		}
		for from, to := range aliases {
			if from == "" || to == "" {
				return errors.New(errors.ErrCodeInvalidConfig, "map[%q] contains an empty alias", prefix)
			}
		}
	}
	return nil
}

// Hash returns a stable hex digest of the configuration, suitable for cache
// keys. Two configs with equal effective content hash identically regardless
// of how they were loaded.
func (c *Config) Hash() string {
	var sb strings.Builder
	sb.WriteString("baseUrl=")
	sb.WriteString(c.BaseURL)

	paths := make([]string, 0, len(c.Paths))
	for alias, target := range c.Paths {
		paths = append(paths, alias+"="+target)
	}
	sort.Strings(paths)
	sb.WriteString(";paths=")
	sb.WriteString(strings.Join(paths, ","))

	mappings := make([]string, 0, len(c.Map))
	for prefix, aliases := range c.Map {
		for from, to := range aliases {
			mappings = append(mappings, prefix+":"+from+"="+to)
		}
	}
	sort.Strings(mappings)
	sb.WriteString(";map=")
	sb.WriteString(strings.Join(mappings, ","))

	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}
