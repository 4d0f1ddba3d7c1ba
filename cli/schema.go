package cli

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/compozy/licensegen/engine/autoload"
)

func schemaCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "schema",
		Short:       "Print the JSON schema of YAML catalog files",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationSkipConfig: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := autoload.Schema()
			if err != nil {
				return err
			}
			out, err := cmd.Flags().GetString("output")
			if err != nil {
				return err
			}
			if out == "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			if err := afero.WriteFile(a.fs, out, append(data, '\n'), 0o644); err != nil {
				return fmt.Errorf("failed to write schema to %s: %w", out, err)
			}
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "", "Write the schema to this file instead of stdout")
	return cmd
}
