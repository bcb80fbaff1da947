package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// defaultConfigFile is the tool config looked up in the working directory
// when --config-file is not given.
const defaultConfigFile = ".amdtrace.toml"

// Cache backend names accepted in the tool config.
const (
	cacheBackendFile   = "file"
	cacheBackendMemory = "memory"
	cacheBackendRedis  = "redis"
	cacheBackendNone   = "none"
)

// Archive backend names accepted in the tool config.
const (
	archiveBackendFile  = "file"
	archiveBackendMongo = "mongo"
)

// ToolConfig holds tool-level settings loaded from .amdtrace.toml.
// Command-line flags take precedence over file values. The zero value is a
// valid config selecting all defaults.
//
// Example:
//
//	base_dir = "src"
//	loader_config = "src/loader.json"
//	formats = ["json", "svg"]
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[archive]
//	backend = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
//	mongo_database = "amdtrace"
type ToolConfig struct {
	BaseDir      string   `toml:"base_dir"`      // default module tree root
	LoaderConfig string   `toml:"loader_config"` // default loader config JSON path
	Formats      []string `toml:"formats"`       // default output formats for trace

	Cache   CacheConfig   `toml:"cache"`
	Archive ArchiveConfig `toml:"archive"`
}

// CacheConfig selects the pipeline cache backend.
type CacheConfig struct {
	Backend  string `toml:"backend"`   // file (default), memory, redis, none
	RedisURL string `toml:"redis_url"` // required for the redis backend
}

// ArchiveConfig selects the run archive backend used by --save and history.
type ArchiveConfig struct {
	Backend       string `toml:"backend"`        // file (default), mongo
	MongoURI      string `toml:"mongo_uri"`      // required for the mongo backend
	MongoDatabase string `toml:"mongo_database"` // defaults to "amdtrace"
}

// loadToolConfig reads the tool config from path. An empty path falls back
// to .amdtrace.toml in the working directory, and a missing default file is
// not an error; an explicitly named file must exist.
func loadToolConfig(path string) (*ToolConfig, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}

	cfg := &ToolConfig{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if !explicit && os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}
