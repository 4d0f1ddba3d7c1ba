package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/compozy/licensegen/cli/helpers"
	"github.com/compozy/licensegen/engine/audit"
	"github.com/compozy/licensegen/engine/license"
)

type auditReport struct {
	*audit.Report
}

func (r auditReport) Table() helpers.Table {
	t := helpers.Table{Header: []string{"INPUT", "MATCH", "VIA", "ID", "PACKAGE"}}
	for _, res := range r.Results {
		if !res.Matched {
			t.Rows = append(t.Rows, []string{res.Input, "-", "-", "-", "-"})
			continue
		}
		t.Rows = append(t.Rows, []string{res.Input, res.Name, res.Via.String(), orDash(res.ID), res.Package})
	}
	return t
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func resolveCmd(a *app) *cobra.Command {
	var (
		fromStdin bool
		strict    bool
	)
	cmd := &cobra.Command{
		Use:   "resolve [license...]",
		Short: "Resolve license strings against the catalog",
		Long: `Resolve each input by normative id, then by name, then by alias.
Inputs that match nothing are reported; with --strict they fail the command.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			inputs := append([]string(nil), args...)
			if fromStdin {
				scanner := bufio.NewScanner(cmd.InOrStdin())
				for scanner.Scan() {
					if line := scanner.Text(); strings.TrimSpace(line) != "" {
						inputs = append(inputs, line)
					}
				}
				if err := scanner.Err(); err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
			}
			if len(inputs) == 0 {
				return helpers.NewCliError(helpers.CodeInvalidArgs, "no license strings to resolve", "pass arguments or --stdin")
			}
			catalog, _, err := a.loadCatalog(ctx)
			if err != nil {
				return err
			}
			report, err := audit.Run(ctx, license.NewResolver(catalog), inputs, audit.Options{
				Concurrency: a.cfg.Runtime.Concurrency,
			})
			if err != nil {
				return err
			}
			if err := a.output(cmd).WriteData(auditReport{report}); err != nil {
				return err
			}
			if strict && report.Unmatched > 0 {
				unmatched := report.UnmatchedInputs()
				return helpers.NewCliError(
					helpers.CodeNoMatch,
					fmt.Sprintf("%d of %d inputs matched no catalog entry", len(unmatched), len(inputs)),
					strings.Join(unmatched, ", "),
				).WithContext("unmatched", unmatched)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "Also read one license string per line from stdin")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when any input matches nothing")
	cmd.Flags().Int("concurrency", 0, "Parallel resolves (0 = GOMAXPROCS)")
	return cmd
}
