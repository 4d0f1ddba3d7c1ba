package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/compozy/licensegen/engine/codegen"
	"github.com/compozy/licensegen/pkg/logger"
)

// Renderer writes generated files below Options.OutDir on fs.
type Renderer struct {
	fs   afero.Fs
	opts Options
}

func New(fs afero.Fs, opts Options) *Renderer {
	if opts.OutDir == "" {
		opts.OutDir = "."
	}
	return &Renderer{fs: fs, opts: opts}
}

type packageGroup struct {
	importPath string
	dir        string
	reqs       []codegen.Request
}

// Plan lays out every request and renders the file contents. Requests are
// grouped by target package in first-appearance order; a package README
// follows the package's sources when enabled.
func (r *Renderer) Plan(ctx context.Context, reqs []codegen.Request) (*Plan, error) {
	groups, err := r.group(reqs)
	if err != nil {
		return nil, err
	}
	var files []File
	for _, g := range groups {
		for _, req := range g.reqs {
			files = append(files, File{Path: path.Join(g.dir, req.FileStem+".go"), Package: g.importPath})
		}
		if r.opts.Readme {
			files = append(files, File{Path: path.Join(g.dir, readmeName), Package: g.importPath})
		}
	}
	if err := r.renderContents(ctx, groups, files); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Debug("Render plan ready", "packages", len(groups), "files", len(files))
	return &Plan{Files: files}, nil
}

func (r *Renderer) group(reqs []codegen.Request) ([]*packageGroup, error) {
	var groups []*packageGroup
	byPackage := make(map[string]*packageGroup)
	byDir := make(map[string]*packageGroup)
	idents := make(map[string]map[string]string)
	stems := make(map[string]map[string]string)
	for _, req := range reqs {
		if req.Source == nil {
			return nil, fmt.Errorf("request %s has no source entry", req.ArtifactName)
		}
		g, ok := byPackage[req.TargetPackage]
		if !ok {
			dir, err := r.packageDir(req.TargetPackage)
			if err != nil {
				return nil, err
			}
			if other, taken := byDir[dir]; taken {
				return nil, &CollisionError{
					Package: req.TargetPackage,
					Kind:    "directory",
					Value:   dir,
					First:   other.importPath,
					Second:  req.TargetPackage,
				}
			}
			g = &packageGroup{importPath: req.TargetPackage, dir: dir}
			byPackage[req.TargetPackage] = g
			byDir[dir] = g
			groups = append(groups, g)
			idents[dir] = make(map[string]string)
			stems[dir] = make(map[string]string)
		}
		name := req.Source.Name()
		for _, ident := range req.Identifiers() {
			if owner, taken := idents[g.dir][ident]; taken {
				return nil, &CollisionError{Package: req.TargetPackage, Kind: "identifier", Value: ident, First: owner, Second: name}
			}
			idents[g.dir][ident] = name
		}
		file := req.FileStem + ".go"
		if owner, taken := stems[g.dir][file]; taken {
			return nil, &CollisionError{Package: req.TargetPackage, Kind: "file", Value: file, First: owner, Second: name}
		}
		stems[g.dir][file] = name
		g.reqs = append(g.reqs, req)
	}
	return groups, nil
}

// packageDir maps an import path to its directory below OutDir, dropping the
// module path when the package lives inside it.
func (r *Renderer) packageDir(importPath string) (string, error) {
	dir := importPath
	if mod := strings.TrimSuffix(r.opts.ModulePath, "/"); mod != "" {
		switch {
		case importPath == mod:
			dir = "."
		case strings.HasPrefix(importPath, mod+"/"):
			dir = strings.TrimPrefix(importPath, mod+"/")
		}
	}
	dir = path.Clean(dir)
	if path.IsAbs(dir) || dir == ".." || strings.HasPrefix(dir, "../") {
		return "", fmt.Errorf("package %s maps outside the output directory", importPath)
	}
	return dir, nil
}

func (r *Renderer) renderContents(ctx context.Context, groups []*packageGroup, files []File) error {
	limit := r.opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	group, _ := errgroup.WithContext(ctx)
	group.SetLimit(limit)
	idx := 0
	for _, g := range groups {
		for _, req := range g.reqs {
			slot := &files[idx]
			idx++
			group.Go(func() error {
				content, err := renderSource(req)
				if err != nil {
					return err
				}
				slot.Content = content
				return nil
			})
		}
		if r.opts.Readme {
			slot := &files[idx]
			idx++
			group.Go(func() error {
				content, err := renderReadme(g.importPath, g.reqs)
				if err != nil {
					return err
				}
				slot.Content = content
				return nil
			})
		}
	}
	return group.Wait()
}

func (r *Renderer) fullPath(rel string) string {
	return filepath.Join(r.opts.OutDir, filepath.FromSlash(rel))
}

// Apply writes every planned file whose content differs from disk and,
// when pruning, removes generated files the plan no longer contains.
func (r *Renderer) Apply(ctx context.Context, plan *Plan) (*Result, error) {
	log := logger.FromContext(ctx)
	result, err := r.diff(plan)
	if err != nil {
		return nil, err
	}
	contents := make(map[string][]byte, len(plan.Files))
	for _, file := range plan.Files {
		contents[file.Path] = file.Content
	}
	for _, change := range result.Changes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		full := r.fullPath(change.Path)
		switch change.Status {
		case StatusCreate, StatusUpdate:
			if err := r.fs.MkdirAll(filepath.Dir(full), 0o755); err != nil {
				return nil, fmt.Errorf("failed to create directory for %s: %w", change.Path, err)
			}
			if err := afero.WriteFile(r.fs, full, contents[change.Path], 0o644); err != nil {
				return nil, fmt.Errorf("failed to write %s: %w", change.Path, err)
			}
			log.Debug("Wrote generated file", "file", change.Path, "status", change.Status)
		case StatusRemove:
			if err := r.fs.Remove(full); err != nil {
				return nil, fmt.Errorf("failed to remove %s: %w", change.Path, err)
			}
			log.Debug("Removed stale generated file", "file", change.Path)
		}
	}
	log.Info("Generated files written",
		"created", result.Count(StatusCreate),
		"updated", result.Count(StatusUpdate),
		"unchanged", result.Count(StatusUnchanged),
		"removed", result.Count(StatusRemove))
	return result, nil
}

// Check compares the plan with disk without writing. Any difference is
// reported as a *DriftError alongside the full result.
func (r *Renderer) Check(_ context.Context, plan *Plan) (*Result, error) {
	result, err := r.diff(plan)
	if err != nil {
		return nil, err
	}
	var drift []Change
	for _, c := range result.Changes {
		if c.Status != StatusUnchanged {
			drift = append(drift, c)
		}
	}
	if len(drift) > 0 {
		return result, &DriftError{Changes: drift}
	}
	return result, nil
}

func (r *Renderer) diff(plan *Plan) (*Result, error) {
	result := &Result{}
	planned := make(map[string]bool, len(plan.Files))
	for _, file := range plan.Files {
		planned[file.Path] = true
		existing, err := afero.ReadFile(r.fs, r.fullPath(file.Path))
		switch {
		case errors.Is(err, os.ErrNotExist):
			result.Changes = append(result.Changes, Change{Path: file.Path, Status: StatusCreate})
		case err != nil:
			return nil, fmt.Errorf("failed to read %s: %w", file.Path, err)
		case bytes.Equal(existing, file.Content):
			result.Changes = append(result.Changes, Change{Path: file.Path, Status: StatusUnchanged})
		default:
			result.Changes = append(result.Changes, Change{Path: file.Path, Status: StatusUpdate})
		}
	}
	if !r.opts.Prune {
		return result, nil
	}
	stale, err := r.staleFiles(planned)
	if err != nil {
		return nil, err
	}
	for _, p := range stale {
		result.Changes = append(result.Changes, Change{Path: p, Status: StatusRemove})
	}
	return result, nil
}

// staleFiles lists generated files under OutDir that are not planned.
func (r *Renderer) staleFiles(planned map[string]bool) ([]string, error) {
	var stale []string
	err := afero.Walk(r.fs, r.opts.OutDir, func(full string, info fs.FileInfo, err error) error {
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			return err
		}
		if info.IsDir() || !isGeneratedName(info.Name()) {
			return nil
		}
		rel, err := filepath.Rel(r.opts.OutDir, full)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if planned[rel] {
			return nil
		}
		generated, err := r.isGenerated(full)
		if err != nil {
			return err
		}
		if generated {
			stale = append(stale, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", r.opts.OutDir, err)
	}
	slices.Sort(stale)
	return stale, nil
}

func isGeneratedName(name string) bool {
	return strings.HasSuffix(name, ".go") || name == readmeName
}

func (r *Renderer) isGenerated(full string) (bool, error) {
	f, err := r.fs.Open(full)
	if err != nil {
		return false, err
	}
	defer f.Close()
	head := make([]byte, 256)
	n, err := f.Read(head)
	if err != nil && n == 0 {
		return false, nil
	}
	firstLine, _, _ := bytes.Cut(head[:n], []byte("\n"))
	return bytes.Contains(firstLine, []byte(GeneratedHeader)), nil
}
