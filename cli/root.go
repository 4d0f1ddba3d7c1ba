// Package cli wires the licensegen commands.
package cli

import (
	"context"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/compozy/licensegen/cli/helpers"
)

const annotationSkipConfig = "licensegen/skip-config"

// RootCmd builds the licensegen command tree on the OS filesystem.
func RootCmd() *cobra.Command {
	return newRootCmd(newApp(afero.NewOsFs()))
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "licensegen",
		Short: "Generate Go license marker types from a license catalog",
		Long: `licensegen reads a license catalog, validates it and generates one Go
marker type per license, plus type aliases for every alternative name.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	pf := root.PersistentFlags()
	pf.String("config", "", "Path to the config file (default: licensegen.yaml in the working directory)")
	pf.String("cwd", "", "Working directory")
	pf.String("env-file", ".env", "Path to a .env file loaded before reading the configuration")
	pf.String("catalog-root", "", "Directory holding the catalog files")
	pf.String("package-prefix", "", "Import path prefix for entries without a package")
	pf.String("log-level", "info", "Log level (debug, info, warn, error, disabled)")
	pf.Bool("log-json", false, "Log as JSON")
	pf.Bool("log-source", false, "Include the caller in log lines")
	pf.String("format", "auto", "Output format (auto, json, table)")

	root.AddCommand(
		generateCmd(a),
		checkCmd(a),
		resolveCmd(a),
		listCmd(a),
		validateCmd(a),
		watchCmd(a),
		configCmd(a),
		schemaCmd(a),
		versionCmd(a),
	)
	return root
}

// Execute runs the CLI with args and returns the process exit code.
// Errors are reported on stderr in the active output format.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	return execute(ctx, newApp(afero.NewOsFs()), args, stdin, stdout, stderr)
}

func execute(ctx context.Context, a *app, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	format := a.format
	if format == "" {
		flagFormat, _ := root.PersistentFlags().GetString("format")
		format = helpers.DetectFormat(flagFormat, stdout)
	}
	helpers.OutputError(stderr, err, format)
	return helpers.ExitCode(err)
}
