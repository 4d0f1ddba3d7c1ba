package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/compozy/licensegen/cli/helpers"
	"github.com/compozy/licensegen/engine/codegen"
)

type validateReport struct {
	Valid    bool     `json:"valid"`
	Entries  int      `json:"entries"`
	Files    []string `json:"files"`
	Packages int      `json:"packages"`
	Planned  int      `json:"planned_files"`
}

func (r validateReport) Table() helpers.Table {
	return helpers.Table{
		Header: []string{"CHECK", "RESULT"},
		Rows: [][]string{
			{"catalog files", strconv.Itoa(len(r.Files))},
			{"entries", strconv.Itoa(r.Entries)},
			{"packages", strconv.Itoa(r.Packages)},
			{"planned files", strconv.Itoa(r.Planned)},
			{"valid", strconv.FormatBool(r.Valid)},
		},
	}
}

func validateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the catalog and the generated layout without writing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			catalog, loaded, err := a.loadCatalog(ctx)
			if err != nil {
				return err
			}
			plan, err := a.renderer().Plan(ctx, codegen.GenerateAll(catalog))
			if err != nil {
				return err
			}
			packages := make(map[string]bool)
			for _, f := range plan.Files {
				packages[f.Package] = true
			}
			return a.output(cmd).WriteData(validateReport{
				Valid:    true,
				Entries:  catalog.Len(),
				Files:    loaded.Files,
				Packages: len(packages),
				Planned:  len(plan.Files),
			})
		},
	}
}
