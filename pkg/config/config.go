package config

import (
	"context"
	"time"

	"github.com/compozy/licensegen/engine/autoload"
)

// Config holds every setting of a licensegen run.
type Config struct {
	Catalog CatalogConfig `koanf:"catalog" json:"catalog" yaml:"catalog" mapstructure:"catalog"`
	Render  RenderConfig  `koanf:"render" json:"render" yaml:"render" mapstructure:"render"`
	Runtime RuntimeConfig `koanf:"runtime" json:"runtime" yaml:"runtime" mapstructure:"runtime"`
	CLI     CLIConfig     `koanf:"cli" json:"cli" yaml:"cli" mapstructure:"cli"`
}

// CatalogConfig locates the catalog files.
type CatalogConfig struct {
	Root          string   `koanf:"root" json:"root" env:"LICENSEGEN_CATALOG_ROOT" flag:"catalog-root" validate:"required"`
	Include       []string `koanf:"include" json:"include" env:"LICENSEGEN_CATALOG_INCLUDE" validate:"min=1,dive,required,glob_pattern"`
	Exclude       []string `koanf:"exclude" json:"exclude" env:"LICENSEGEN_CATALOG_EXCLUDE" validate:"dive,required"`
	PackagePrefix string   `koanf:"package_prefix" json:"package_prefix" env:"LICENSEGEN_CATALOG_PACKAGE_PREFIX" flag:"package-prefix" validate:"omitempty,import_path"`
}

// RenderConfig controls the generated tree.
type RenderConfig struct {
	OutDir     string `koanf:"out_dir" json:"out_dir" env:"LICENSEGEN_RENDER_OUT_DIR" flag:"out" validate:"required"`
	ModulePath string `koanf:"module_path" json:"module_path" env:"LICENSEGEN_RENDER_MODULE_PATH" flag:"module-path" validate:"omitempty,import_path"`
	Readme     bool   `koanf:"readme" json:"readme" env:"LICENSEGEN_RENDER_README" flag:"readme"`
	Prune      bool   `koanf:"prune" json:"prune" env:"LICENSEGEN_RENDER_PRUNE" flag:"prune"`
}

// RuntimeConfig holds logging and concurrency settings.
type RuntimeConfig struct {
	LogLevel    string `koanf:"log_level" json:"log_level" env:"LICENSEGEN_LOG_LEVEL" flag:"log-level" validate:"oneof=debug info warn error disabled"`
	LogJSON     bool   `koanf:"log_json" json:"log_json" env:"LICENSEGEN_LOG_JSON" flag:"log-json"`
	LogSource   bool   `koanf:"log_source" json:"log_source" env:"LICENSEGEN_LOG_SOURCE" flag:"log-source"`
	Concurrency int    `koanf:"concurrency" json:"concurrency" env:"LICENSEGEN_CONCURRENCY" flag:"concurrency" validate:"min=0"`
}

// CLIConfig holds command presentation settings.
type CLIConfig struct {
	Format        string        `koanf:"format" json:"format" env:"LICENSEGEN_FORMAT" flag:"format" validate:"oneof=auto json table"`
	WatchDebounce time.Duration `koanf:"watch_debounce" json:"watch_debounce" env:"LICENSEGEN_WATCH_DEBOUNCE" flag:"debounce" validate:"min=0"`
}

// Service loads and validates configuration.
type Service interface {
	// Load applies defaults, the given sources in order, then the environment.
	// CLI sources are applied last regardless of their position.
	Load(ctx context.Context, sources ...Source) (*Config, error)
	Validate(config *Config) error
	// GetSource returns which source provided a configuration key.
	GetSource(key string) SourceType
}

// Source defines the interface for configuration sources.
type Source interface {
	Load() (map[string]any, error)
	Type() SourceType
}

// SourceType identifies the type of configuration source.
type SourceType string

const (
	SourceCLI     SourceType = "cli"
	SourceYAML    SourceType = "yaml"
	SourceEnv     SourceType = "env"
	SourceDefault SourceType = "default"
)

// Metadata contains metadata about configuration sources.
type Metadata struct {
	Sources  map[string]SourceType `json:"sources"`
	LoadedAt time.Time             `json:"loaded_at"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Root:    ".",
			Include: append([]string(nil), autoload.DefaultIncludes...),
			Exclude: []string{},
		},
		Render: RenderConfig{
			OutDir: "generated",
			Readme: true,
		},
		Runtime: RuntimeConfig{
			LogLevel: "info",
		},
		CLI: CLIConfig{
			Format:        "auto",
			WatchDebounce: autoload.DefaultDebounce,
		},
	}
}

// AutoloadConfig converts the catalog section for the loader.
func (c *Config) AutoloadConfig() *autoload.Config {
	return &autoload.Config{
		Root:          c.Catalog.Root,
		Include:       append([]string(nil), c.Catalog.Include...),
		Exclude:       append([]string(nil), c.Catalog.Exclude...),
		PackagePrefix: c.Catalog.PackagePrefix,
	}
}
