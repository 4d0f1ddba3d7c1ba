package autoload

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultIncludes matches the catalog files shipped under licenses/.
var DefaultIncludes = []string{
	"licenses/**/*.json",
	"licenses/**/*.yaml",
	"licenses/**/*.yml",
}

// DefaultExcludes contains patterns for common temporary/backup files that should be ignored
var DefaultExcludes = []string{
	"**/.#*",   // Emacs lock files
	"**/*~",    // Backup files
	"**/*.bak", // Backup files
	"**/*.swp", // Vim swap files
	"**/*.tmp", // Temporary files
	"**/._*",   // macOS resource forks
}

// Config describes where catalog files live and how missing packages are derived.
type Config struct {
	Root          string   `json:"root"                     yaml:"root"                     mapstructure:"root"`
	Include       []string `json:"include"                  yaml:"include"                  mapstructure:"include"`
	Exclude       []string `json:"exclude,omitempty"        yaml:"exclude,omitempty"        mapstructure:"exclude"`
	PackagePrefix string   `json:"package_prefix,omitempty" yaml:"package_prefix,omitempty" mapstructure:"package_prefix"`
}

// NewConfig creates a Config with defaults
func NewConfig() *Config {
	return &Config{
		Root:    ".",
		Include: append([]string(nil), DefaultIncludes...),
		Exclude: []string{},
	}
}

// Validate validates the catalog source configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Root) == "" {
		return errors.New("catalog.root is required")
	}
	if len(c.Include) == 0 {
		return errors.New("catalog.include patterns are required")
	}
	for _, pattern := range c.Include {
		if pattern == "" {
			return fmt.Errorf("empty include pattern is not allowed")
		}
	}
	for _, pattern := range c.Exclude {
		if pattern == "" {
			return fmt.Errorf("empty exclude pattern is not allowed")
		}
	}
	return nil
}

// GetAllExcludes returns the combined list of default and user-defined excludes
func (c *Config) GetAllExcludes() []string {
	all := make([]string, 0, len(DefaultExcludes)+len(c.Exclude))
	all = append(all, DefaultExcludes...)
	return append(all, c.Exclude...)
}
