package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/compozy/licensegen/cli/helpers"
	"github.com/compozy/licensegen/engine/codegen"
)

type listItem struct {
	Name     string   `json:"name"`
	ID       string   `json:"id,omitempty"`
	Package  string   `json:"package"`
	Aliases  []string `json:"aliases,omitempty"`
	Artifact string   `json:"artifact"`
	Source   string   `json:"source"`
}

type listReport struct {
	Licenses []listItem `json:"licenses"`
}

func (r listReport) Table() helpers.Table {
	t := helpers.Table{Header: []string{"NAME", "ID", "PACKAGE", "ARTIFACT", "ALIASES"}}
	for _, item := range r.Licenses {
		t.Rows = append(t.Rows, []string{
			item.Name,
			orDash(item.ID),
			item.Package,
			item.Artifact,
			orDash(strings.Join(item.Aliases, ", ")),
		})
	}
	return t
}

func listCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalog entries in catalog order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, loaded, err := a.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			report := listReport{Licenses: make([]listItem, 0, catalog.Len())}
			for i, entry := range catalog.Entries() {
				req := codegen.Generate(entry)
				report.Licenses = append(report.Licenses, listItem{
					Name:     entry.Name(),
					ID:       entry.NormativeID(),
					Package:  entry.Package(),
					Aliases:  entry.Aliases(),
					Artifact: req.ArtifactName,
					Source:   loaded.Records[i].Origin.String(),
				})
			}
			return a.output(cmd).WriteData(report)
		},
	}
}
