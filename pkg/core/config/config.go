// Package config loads analyzer settings from yaml, falling back to defaults
// when the file is absent or partially filled.
package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/adalbertobrant/fundamentalistapro/pkg/core/valuation"
)

// Config is the top-level analyzer configuration.
type Config struct {
	Server    ServerConfig     `yaml:"server"`
	Valuation valuation.Config `yaml:"valuation"`
	News      NewsConfig       `yaml:"news"`
}

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// NewsConfig holds the news aggregation settings.
type NewsConfig struct {
	// Count is the number of headlines the aggregator tries to collect
	// before giving up on further providers.
	Count int `yaml:"count"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server:    ServerConfig{Addr: ":8080"},
		Valuation: valuation.DefaultConfig(),
		News:      NewsConfig{Count: 7},
	}
}

// Load reads the yaml file at path over the defaults. Missing or unreadable
// files are tolerated: the analyzer must run with zero configuration.
func Load(path string) Config {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("[Config] %s not read (%v), using defaults", path, err)
		return cfg
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Printf("[Config] %s invalid (%v), using defaults", path, err)
		return Default()
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = Default().Server.Addr
	}
	if cfg.News.Count <= 0 {
		cfg.News.Count = Default().News.Count
	}
	return cfg
}
