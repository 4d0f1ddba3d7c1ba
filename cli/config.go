package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/compozy/licensegen/cli/helpers"
	"github.com/compozy/licensegen/pkg/config"
)

type configReport struct {
	ConfigFile string                       `json:"config_file,omitempty"`
	Config     *config.Config               `json:"config"`
	Sources    map[string]config.SourceType `json:"sources,omitempty"`
	values     map[string]string
}

func (r configReport) Table() helpers.Table {
	header := []string{"KEY", "VALUE"}
	if r.Sources != nil {
		header = append(header, "SOURCE")
	}
	t := helpers.Table{Header: header}
	keys := make([]string, 0, len(r.values))
	for k := range r.values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, key := range keys {
		row := []string{key, r.values[key]}
		if r.Sources != nil {
			row = append(row, string(r.Sources[key]))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func configCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration diagnostics",
	}
	cmd.AddCommand(configShowCmd(a))
	return cmd
}

// configShowCmd shows the effective configuration with source information
func configShowCmd(a *app) *cobra.Command {
	var showSources bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration values",
		Long: `Display the effective configuration. With --sources, show which source
(cli, env, yaml or default) provided each value.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report := configReport{
				ConfigFile: a.configFile,
				Config:     a.cfg,
				values:     flattenConfig(a.cfg),
			}
			if showSources {
				report.Sources = make(map[string]config.SourceType)
				for key := range report.values {
					report.Sources[key] = a.service.GetSource(key)
				}
			}
			return a.output(cmd).WriteData(report)
		},
	}
	cmd.Flags().BoolVarP(&showSources, "sources", "s", false, "Show configuration sources")
	return cmd
}

func flattenConfig(cfg *config.Config) map[string]string {
	return map[string]string{
		"catalog.root":           cfg.Catalog.Root,
		"catalog.include":        fmt.Sprint(cfg.Catalog.Include),
		"catalog.exclude":        fmt.Sprint(cfg.Catalog.Exclude),
		"catalog.package_prefix": cfg.Catalog.PackagePrefix,
		"render.out_dir":         cfg.Render.OutDir,
		"render.module_path":     cfg.Render.ModulePath,
		"render.readme":          fmt.Sprint(cfg.Render.Readme),
		"render.prune":           fmt.Sprint(cfg.Render.Prune),
		"runtime.log_level":      cfg.Runtime.LogLevel,
		"runtime.log_json":       fmt.Sprint(cfg.Runtime.LogJSON),
		"runtime.log_source":     fmt.Sprint(cfg.Runtime.LogSource),
		"runtime.concurrency":    fmt.Sprint(cfg.Runtime.Concurrency),
		"cli.format":             cfg.CLI.Format,
		"cli.watch_debounce":     cfg.CLI.WatchDebounce.String(),
	}
}
