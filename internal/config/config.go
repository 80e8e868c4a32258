// Package config loads the engine's four recognized options from a YAML
// file via viper, the way the teacher's top-level config loader did.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is the full set of keys the engine core consumes. No others are
// read.
type Config struct {
	MaxMemoryPoolPageNum int    `mapstructure:"max_memory_pool_page_num"`
	TableMetaDir         string `mapstructure:"table_meta_dir"`
	TableFileDir         string `mapstructure:"table_file_dir"`
	Port                 int    `mapstructure:"port"`
}

// defaults applied to any key the file omits.
func defaults() Config {
	return Config{
		MaxMemoryPoolPageNum: 256,
		TableMetaDir:         "./data/meta",
		TableFileDir:         "./data/tables",
		Port:                 8866,
	}
}

// Load reads path as YAML and unmarshals it over the defaults.
func Load(path string) (*Config, error) {
	cfg := defaults()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("max_memory_pool_page_num", cfg.MaxMemoryPoolPageNum)
	v.SetDefault("table_meta_dir", cfg.TableMetaDir)
	v.SetDefault("table_file_dir", cfg.TableFileDir)
	v.SetDefault("port", cfg.Port)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &cfg, nil
}
