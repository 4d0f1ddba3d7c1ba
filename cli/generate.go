package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/compozy/licensegen/cli/helpers"
	"github.com/compozy/licensegen/pkg/logger"
	"github.com/compozy/licensegen/pkg/render"
)

// generateReport is the output of generate and check.
type generateReport struct {
	OutDir  string          `json:"out_dir"`
	Entries int             `json:"entries"`
	DryRun  bool            `json:"dry_run,omitempty"`
	Changes []render.Change `json:"changes"`
	Summary map[string]int  `json:"summary"`
}

func newGenerateReport(outDir string, entries int, result *render.Result) *generateReport {
	report := &generateReport{
		OutDir:  outDir,
		Entries: entries,
		Changes: result.Changes,
		Summary: make(map[string]int),
	}
	for _, s := range []render.Status{
		render.StatusCreate,
		render.StatusUpdate,
		render.StatusUnchanged,
		render.StatusRemove,
	} {
		report.Summary[string(s)] = result.Count(s)
	}
	return report
}

func (r *generateReport) Table() helpers.Table {
	t := helpers.Table{Header: []string{"FILE", "STATUS"}}
	for _, c := range r.Changes {
		t.Rows = append(t.Rows, []string{c.Path, string(c.Status)})
	}
	t.Rows = append(t.Rows, []string{
		fmt.Sprintf("%d entries", r.Entries),
		strconv.Itoa(len(r.Changes)) + " files",
	})
	return t
}

func addRenderFlags(cmd *cobra.Command) {
	cmd.Flags().String("out", "", "Output directory for generated packages")
	cmd.Flags().String("module-path", "", "Import path that maps to the output directory")
	cmd.Flags().Bool("readme", true, "Write a README.md per package")
	cmd.Flags().Bool("prune", false, "Remove generated files that are no longer planned")
	cmd.Flags().Int("concurrency", 0, "Parallel workers (0 = GOMAXPROCS)")
}

func generateCmd(a *app) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate Go license types from the catalog",
		Long: `Load and validate the catalog, then write one Go file per license entry.
Files whose content is already up to date are left untouched. Nothing is
written when the catalog is invalid.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			catalog, r, plan, err := a.plan(ctx)
			if err != nil {
				return err
			}
			var result *render.Result
			if dryRun {
				result, err = r.Check(ctx, plan)
				if err != nil && !errors.Is(err, render.ErrDrift) {
					return err
				}
			} else {
				result, err = r.Apply(ctx, plan)
				if err != nil {
					return err
				}
			}
			report := newGenerateReport(a.cfg.Render.OutDir, catalog.Len(), result)
			report.DryRun = dryRun
			return a.output(cmd).WriteData(report)
		},
	}
	addRenderFlags(cmd)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would change without writing")
	return cmd
}

func checkCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Fail when generated files are out of date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			catalog, r, plan, err := a.plan(ctx)
			if err != nil {
				return err
			}
			result, checkErr := r.Check(ctx, plan)
			if checkErr != nil && !errors.Is(checkErr, render.ErrDrift) {
				return checkErr
			}
			if err := a.output(cmd).WriteData(newGenerateReport(a.cfg.Render.OutDir, catalog.Len(), result)); err != nil {
				return err
			}
			if checkErr != nil {
				logger.FromContext(ctx).Warn("Generated files are out of date; run licensegen generate")
			}
			return checkErr
		},
	}
	addRenderFlags(cmd)
	return cmd
}
