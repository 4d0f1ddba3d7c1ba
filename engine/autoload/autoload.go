// Package autoload discovers catalog files, parses them into raw license
// tuples and builds the catalog from them.
package autoload

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/afero"

	"github.com/compozy/licensegen/engine/license"
	"github.com/compozy/licensegen/pkg/logger"
)

// Loader reads catalog files from a filesystem.
type Loader struct {
	fs         afero.Fs
	config     *Config
	discoverer FileDiscoverer
}

// New creates a Loader for the catalog described by config.
func New(fs afero.Fs, config *Config) *Loader {
	if config == nil {
		config = NewConfig()
	}
	return &Loader{
		fs:         rootedFs(fs, config.Root),
		config:     config,
		discoverer: NewFileDiscoverer(fs, config.Root),
	}
}

// LoadResult contains the results of the loading operation
type LoadResult struct {
	Files   []string
	Records []Record
}

// FileError ties a parse or entry failure to its source.
type FileError struct {
	File   string
	Origin *Origin
	Err    error
}

func (e *FileError) Error() string {
	if e.Origin != nil {
		return fmt.Sprintf("%s: %v", e.Origin, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Config returns the loader configuration
func (l *Loader) Config() *Config {
	return l.config
}

// Discover returns the list of files that would be loaded
func (l *Loader) Discover(_ context.Context) ([]string, error) {
	return l.discoverer.Discover(l.config.Include, l.config.GetAllExcludes())
}

// Load discovers and parses every catalog file, returning records in file
// order and, within a file, in declaration order.
func (l *Loader) Load(ctx context.Context) (*LoadResult, error) {
	log := logger.FromContext(ctx)
	if err := l.config.Validate(); err != nil {
		return nil, err
	}
	files, err := l.Discover(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog discovery failed: %w", err)
	}
	result := &LoadResult{Files: files}
	if len(files) == 0 {
		log.Warn("No catalog files found matching patterns", "root", l.config.Root, "include", l.config.Include)
		return result, nil
	}
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		records, err := l.loadFile(file)
		if err != nil {
			return result, err
		}
		log.Debug("Loaded catalog file", "file", file, "licenses", len(records))
		result.Records = append(result.Records, records...)
	}
	log.Info("Catalog files loaded", "files", len(files), "licenses", len(result.Records))
	return result, nil
}

func (l *Loader) loadFile(file string) ([]Record, error) {
	data, err := afero.ReadFile(l.fs, file)
	if err != nil {
		return nil, &FileError{File: file, Err: err}
	}
	cfgs, err := parseFile(file, data)
	if err != nil {
		return nil, &FileError{File: file, Err: err}
	}
	records := make([]Record, len(cfgs))
	for i, cfg := range cfgs {
		origin := Origin{File: file, Index: i}
		derived, err := derivePackage(cfg, l.config.PackagePrefix)
		if err != nil {
			return nil, &FileError{File: file, Origin: &origin, Err: err}
		}
		records[i] = Record{Config: derived, Origin: origin}
	}
	return records, nil
}

// LoadCatalog loads every record and builds the catalog from them.
// Entry failures are reported as *FileError; catalog invariant violations
// keep their *license.ValidationErrors type under the wrap.
func (l *Loader) LoadCatalog(ctx context.Context) (*license.Catalog, *LoadResult, error) {
	result, err := l.Load(ctx)
	if err != nil {
		return nil, result, err
	}
	entries := make([]*license.Entry, len(result.Records))
	for i, record := range result.Records {
		entry, err := license.NewEntry(record.Config)
		if err != nil {
			origin := record.Origin
			return nil, result, &FileError{File: origin.File, Origin: &origin, Err: err}
		}
		entries[i] = entry
	}
	catalog, err := license.Build(entries)
	if err != nil {
		logConflicts(ctx, err, result.Records)
		return nil, result, fmt.Errorf("build catalog: %w", err)
	}
	return catalog, result, nil
}

func logConflicts(ctx context.Context, err error, records []Record) {
	var agg *license.ValidationErrors
	if !errors.As(err, &agg) {
		return
	}
	log := logger.FromContext(ctx)
	for _, verr := range agg.Errors {
		origins := make([]string, 0, len(verr.Entries))
		for _, ref := range verr.Entries {
			if ref.Index >= 0 && ref.Index < len(records) {
				origins = append(origins, records[ref.Index].Origin.String())
			}
		}
		log.Error("Catalog conflict", "field", verr.Field, "value", verr.Value, "reason", verr.Reason, "sources", origins)
	}
}
