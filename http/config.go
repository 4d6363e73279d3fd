package http

import (
	"os"

	"github.com/factex/blocktree"
	"gopkg.in/yaml.v3"
)

// Config holds server settings, loadable from a YAML file.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `yaml:"addr"`

	// MaxBodyBytes caps request body size.
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// CacheSize is the number of responses kept in the LRU cache.
	// Zero disables response caching.
	CacheSize int `yaml:"cache_size"`

	// Debug logs every parse with input size and node count.
	Debug bool `yaml:"debug"`
}

// DefaultConfig returns the server defaults.
func DefaultConfig() Config {
	return Config{
		Addr:         ":8080",
		MaxBodyBytes: 4 << 20, // 4 MiB
		CacheSize:    256,
	}
}

// LoadConfig reads a YAML config file over the defaults. An empty path
// returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, blocktree.Errorf(blocktree.ENOTFOUND, "read config %q: %v", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, blocktree.Errorf(blocktree.EINVALID, "parse config %q: %v", path, err)
	}
	return cfg, nil
}
