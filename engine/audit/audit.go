// Package audit resolves batches of license strings against a catalog.
package audit

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/compozy/licensegen/engine/license"
	"github.com/compozy/licensegen/pkg/logger"
)

// Resolver is the lookup used by Run; *license.Resolver satisfies it.
type Resolver interface {
	Resolve(input string) (license.Match, error)
}

// Options tunes a batch run.
type Options struct {
	// Concurrency caps parallel resolves; zero means GOMAXPROCS.
	Concurrency int
}

// Result is the outcome for one input.
type Result struct {
	Input   string            `json:"input"`
	Matched bool              `json:"matched"`
	Via     license.MatchKind `json:"via,omitempty"`
	ID      string            `json:"id,omitempty"`
	Name    string            `json:"name,omitempty"`
	Package string            `json:"package,omitempty"`

	entry *license.Entry
}

// Entry returns the matched entry, or nil.
func (r Result) Entry() *license.Entry {
	return r.entry
}

// Report lists results in input order.
type Report struct {
	Results   []Result `json:"results"`
	Matched   int      `json:"matched"`
	Unmatched int      `json:"unmatched"`
}

// UnmatchedInputs returns the inputs that resolved to nothing, in input order.
func (r *Report) UnmatchedInputs() []string {
	var out []string
	for _, res := range r.Results {
		if !res.Matched {
			out = append(out, res.Input)
		}
	}
	return out
}

// Run resolves every input with r. Unmatched inputs are recorded in the
// report; any other resolution error aborts the run and is returned.
func Run(ctx context.Context, r Resolver, inputs []string, opts Options) (*Report, error) {
	log := logger.FromContext(ctx)
	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	results := make([]Result, len(inputs))
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(limit)
	for i, input := range inputs {
		if gctx.Err() != nil {
			break
		}
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := resolveOne(r, input)
			if err != nil {
				return fmt.Errorf("resolve %q: %w", input, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	report := &Report{Results: results}
	for _, res := range results {
		if res.Matched {
			report.Matched++
		} else {
			report.Unmatched++
		}
	}
	log.Debug("Audit finished", "inputs", len(inputs), "matched", report.Matched, "unmatched", report.Unmatched)
	return report, nil
}

func resolveOne(r Resolver, input string) (Result, error) {
	match, err := r.Resolve(input)
	if errors.Is(err, license.ErrNoMatch) {
		return Result{Input: input}, nil
	}
	if err != nil {
		return Result{}, err
	}
	return Result{
		Input:   input,
		Matched: true,
		Via:     match.Via,
		ID:      match.Entry.NormativeID(),
		Name:    match.Entry.Name(),
		Package: match.Entry.Package(),
		entry:   match.Entry,
	}, nil
}
