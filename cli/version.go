package cli

import (
	"github.com/spf13/cobra"

	"github.com/compozy/licensegen/cli/helpers"
	"github.com/compozy/licensegen/pkg/version"
)

type versionInfo struct {
	version.Info
}

func (v versionInfo) Table() helpers.Table {
	return helpers.Table{
		Header: []string{"VERSION", "COMMIT", "BUILT"},
		Rows:   [][]string{{v.Version, v.CommitHash, v.BuildDate}},
	}
}

func versionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print build information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationSkipConfig: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.output(cmd).WriteData(versionInfo{version.Get()})
		},
	}
}
