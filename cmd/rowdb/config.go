package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/andreyvit/rowdb"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Backend string `mapstructure:"backend"`
	DataDir string `mapstructure:"data_dir"`
	Verbose bool   `mapstructure:"verbose"`

	Bolt struct {
		MmapSize int `mapstructure:"mmap_size"`
	} `mapstructure:"bolt"`
}

// LoadConfig merges, in increasing priority, the defaults, the YAML file at
// path (if any), ROWDB_* environment variables and the flags that were set.
func LoadConfig(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault("backend", string(rowdb.BackendBolt))
	v.SetDefault("data_dir", "rowdb-data")
	v.SetDefault("verbose", false)
	v.SetDefault("bolt.mmap_size", 0)

	v.SetEnvPrefix("ROWDB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if flags != nil {
		for key, name := range map[string]string{
			"backend":  "backend",
			"data_dir": "data-dir",
			"verbose":  "verbose",
		} {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// StoragePath returns the path handed to rowdb.Open for the configured
// backend: a file for Bolt, a directory for Pebble and Badger.
func (cfg *Config) StoragePath(backend rowdb.Backend) string {
	switch backend {
	case rowdb.BackendMem:
		return ""
	case rowdb.BackendBolt:
		return filepath.Join(cfg.DataDir, "rowdb.bolt")
	default:
		return filepath.Join(cfg.DataDir, string(backend))
	}
}
