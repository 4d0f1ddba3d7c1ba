// Package render turns generation requests into Go sources on a filesystem.
package render

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// GeneratedHeader opens every file the renderer owns.
	GeneratedHeader = "Code generated by licensegen. DO NOT EDIT."
	readmeName      = "README.md"
)

var (
	// ErrDrift is returned by Check when the output tree differs from the plan.
	ErrDrift = errors.New("generated files are out of date")
	// ErrCollision marks two requests that would produce the same identifier or file.
	ErrCollision = errors.New("generated output collision")
)

// Options controls where and how files are rendered.
type Options struct {
	OutDir      string
	ModulePath  string
	Readme      bool
	Prune       bool
	Concurrency int
}

// File is one planned output file. Path is slash-separated and relative to
// the output directory.
type File struct {
	Path    string
	Package string
	Content []byte
}

// Plan is the full, ordered set of files for one catalog.
type Plan struct {
	Files []File
}

// Paths returns the planned paths in plan order.
func (p *Plan) Paths() []string {
	paths := make([]string, len(p.Files))
	for i, f := range p.Files {
		paths[i] = f.Path
	}
	return paths
}

type Status string

const (
	StatusCreate    Status = "create"
	StatusUpdate    Status = "update"
	StatusUnchanged Status = "unchanged"
	StatusRemove    Status = "remove"
)

// Change is what happened, or would happen, to one path.
type Change struct {
	Path   string `json:"path"`
	Status Status `json:"status"`
}

// Result lists changes in plan order followed by removals.
type Result struct {
	Changes []Change `json:"changes"`
}

// Count returns how many changes have status s.
func (r *Result) Count(s Status) int {
	n := 0
	for _, c := range r.Changes {
		if c.Status == s {
			n++
		}
	}
	return n
}

// Dirty reports whether any path is not unchanged.
func (r *Result) Dirty() bool {
	return r.Count(StatusUnchanged) != len(r.Changes)
}

// DriftError lists the paths that differ from the plan.
type DriftError struct {
	Changes []Change
}

func (e *DriftError) Error() string {
	parts := make([]string, len(e.Changes))
	for i, c := range e.Changes {
		parts[i] = fmt.Sprintf("%s (%s)", c.Path, c.Status)
	}
	return fmt.Sprintf("%v: %s", ErrDrift, strings.Join(parts, ", "))
}

func (e *DriftError) Is(target error) bool {
	return target == ErrDrift
}

// CollisionError names the clashing value and the two licenses behind it.
type CollisionError struct {
	Package string
	Kind    string
	Value   string
	First   string
	Second  string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf(
		"%s %q in package %s is produced by both %q and %q",
		e.Kind, e.Value, e.Package, e.First, e.Second,
	)
}

func (e *CollisionError) Is(target error) bool {
	return target == ErrCollision
}
