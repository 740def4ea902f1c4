package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	Database   DatabaseConfig   `yaml:"database"`
	Data       DataConfig       `yaml:"data"`
	Platforms  PlatformsConfig  `yaml:"platforms"`
	Normalize  NormalizeConfig  `yaml:"normalize"`
	Attributes AttributesConfig `yaml:"attributes"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Output     OutputConfig     `yaml:"output"`
	Research   ResearchConfig   `yaml:"research"`
	Server     ServerConfig     `yaml:"server"`
}

// DatabaseConfig configures SQLite storage.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// DataConfig locates the platform export files.
type DataConfig struct {
	Dir string `yaml:"dir"`
}

// PlatformsConfig holds the per-platform load settings.
type PlatformsConfig struct {
	Spotify PlatformConfig `yaml:"spotify"`
	YouTube PlatformConfig `yaml:"youtube"`
	Amazon  PlatformConfig `yaml:"amazon"`
	Apple   PlatformConfig `yaml:"apple"`
	IHeart  PlatformConfig `yaml:"iheart"`
}

// PlatformConfig is one platform's file and unit settings. Multiplier is the
// explicit unit-reconciliation coefficient applied once before aggregation
// (1.0 = the platform's figures are already in the target market's unit).
type PlatformConfig struct {
	Enabled    bool    `yaml:"enabled"`
	File       string  `yaml:"file"`
	Multiplier float64 `yaml:"multiplier"`
}

// NormalizeConfig selects the title normalization variant ("basic" or
// "strict"). One variant is used everywhere; see pkg/normalize.
type NormalizeConfig struct {
	Variant string `yaml:"variant"`
}

// AttributesConfig lists the researched/derived lookup tables in priority
// order (earlier wins). Platform-native values always outrank these.
type AttributesConfig struct {
	GenreTables   []TableConfig `yaml:"genre_tables"`
	CountryTables []TableConfig `yaml:"country_tables"`
}

// TableConfig names one flat attribute table.
type TableConfig struct {
	Name string `yaml:"name"`
	File string `yaml:"file"`
}

// ScoringConfig holds the composite weights.
type ScoringConfig struct {
	ConsumptionWeight   float64 `yaml:"consumption_weight"`
	ReachWeight         float64 `yaml:"reach_weight"`
	PlatformCountWeight float64 `yaml:"platform_count_weight"`
	GenreWeight         float64 `yaml:"genre_weight"`
}

// OutputConfig is where the ranked CSV lands.
type OutputConfig struct {
	Path string `yaml:"path"`
}

// ResearchConfig configures the offline feed-research helper.
type ResearchConfig struct {
	FeedsFile     string `yaml:"feeds_file"`
	GenreOutput   string `yaml:"genre_output"`
	CountryOutput string `yaml:"country_output"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "./podrank.db"},
		Data:     DataConfig{Dir: "./data"},
		Platforms: PlatformsConfig{
			Spotify: PlatformConfig{Enabled: true, File: "spotify.csv", Multiplier: 1.0},
			// YouTube views are global; 7.5% approximates the US-equivalent
			// share after the engagement discount.
			YouTube: PlatformConfig{Enabled: true, File: "youtube.csv", Multiplier: 0.075},
			// Amazon plays are global; 65% approximates the US share.
			Amazon: PlatformConfig{Enabled: true, File: "amazon.csv", Multiplier: 0.65},
			Apple:  PlatformConfig{Enabled: true, File: "apple.csv", Multiplier: 1.0},
			IHeart: PlatformConfig{Enabled: true, File: "iheart_platform_nominations.csv", Multiplier: 1.0},
		},
		Normalize: NormalizeConfig{Variant: "strict"},
		Attributes: AttributesConfig{
			GenreTables: []TableConfig{
				{Name: "researched", File: "genre_mapping.csv"},
				{Name: "derived", File: "derived_genres.csv"},
			},
			CountryTables: []TableConfig{
				{Name: "researched", File: "country_mapping.csv"},
			},
		},
		Scoring: ScoringConfig{
			ConsumptionWeight:   0.65,
			ReachWeight:         0.20,
			PlatformCountWeight: 0.05,
			GenreWeight:         0.10,
		},
		Output: OutputConfig{Path: "./podcast_rankings.csv"},
		Research: ResearchConfig{
			FeedsFile:     "feeds.csv",
			GenreOutput:   "researched_genres.csv",
			CountryOutput: "researched_countries.csv",
		},
		Server: ServerConfig{Port: 8080},
	}
}

// Load reads configuration from a YAML file and applies env var overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// DataPath resolves a file name against the data directory. Absolute names
// pass through unchanged.
func (c *Config) DataPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Data.Dir, name)
}

// applyEnvOverrides overrides config values with environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PODRANK_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("PODRANK_DATA_DIR"); v != "" {
		cfg.Data.Dir = v
	}
	if v := os.Getenv("PODRANK_OUTPUT"); v != "" {
		cfg.Output.Path = v
	}
}
