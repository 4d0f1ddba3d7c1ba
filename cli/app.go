package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/compozy/licensegen/cli/helpers"
	"github.com/compozy/licensegen/engine/autoload"
	"github.com/compozy/licensegen/engine/codegen"
	"github.com/compozy/licensegen/engine/license"
	"github.com/compozy/licensegen/pkg/config"
	"github.com/compozy/licensegen/pkg/logger"
	"github.com/compozy/licensegen/pkg/render"
)

// app carries the state shared by every command of one invocation.
type app struct {
	fs         afero.Fs
	service    config.Service
	cfg        *config.Config
	cwd        string
	configFile string
	format     helpers.OutputFormat
}

func newApp(fs afero.Fs) *app {
	return &app{fs: fs, service: config.NewService()}
}

// setup loads the configuration and attaches it, with the logger, to the
// command context.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if cmd.Annotations[annotationSkipConfig] == "true" {
		flagFormat, _ := cmd.Flags().GetString("format")
		a.format = helpers.DetectFormat(flagFormat, cmd.OutOrStdout())
		return nil
	}
	cwd, err := resolveCwd(cmd)
	if err != nil {
		return err
	}
	if err := loadEnvFile(cmd, cwd); err != nil {
		return err
	}
	configFile, err := resolveConfigFile(cmd, cwd)
	if err != nil {
		return err
	}
	var sources []config.Source
	if configFile != "" {
		sources = append(sources, config.NewYAMLProvider(configFile))
	}
	sources = append(sources, config.NewCLIProvider(config.FlagsFromSet(cmd.Flags())))
	ctx := cmd.Context()
	cfg, err := a.service.Load(ctx, sources...)
	if err != nil {
		if !errors.Is(err, config.ErrInvalid) {
			err = fmt.Errorf("%w: %w", config.ErrInvalid, err)
		}
		return err
	}
	cfg.Catalog.Root = absFrom(cwd, cfg.Catalog.Root)
	cfg.Render.OutDir = absFrom(cwd, cfg.Render.OutDir)
	a.cfg = cfg
	a.cwd = cwd
	a.configFile = configFile
	a.format = helpers.DetectFormat(cfg.CLI.Format, cmd.OutOrStdout())

	log := logger.SetupLogger(
		logger.LogLevel(cfg.Runtime.LogLevel),
		cfg.Runtime.LogJSON,
		cfg.Runtime.LogSource,
		cmd.ErrOrStderr(),
	)
	log.Debug("Configuration loaded", "config_file", configFile, "catalog_root", cfg.Catalog.Root)
	ctx = logger.ContextWithLogger(ctx, log)
	ctx = config.ContextWithConfig(ctx, cfg)
	cmd.SetContext(ctx)
	return nil
}

func resolveCwd(cmd *cobra.Command) (string, error) {
	cwd, err := cmd.Flags().GetString("cwd")
	if err != nil {
		return "", err
	}
	if cwd == "" {
		return os.Getwd()
	}
	abs, err := filepath.Abs(cwd)
	if err != nil {
		return "", fmt.Errorf("failed to resolve working directory: %w", err)
	}
	return abs, nil
}

// loadEnvFile exports the variables of --env-file into the process
// environment. Variables that are already set win; a missing file is ignored.
func loadEnvFile(cmd *cobra.Command, cwd string) error {
	envFile, err := cmd.Flags().GetString("env-file")
	if err != nil || envFile == "" {
		return err
	}
	path := absFrom(cwd, envFile)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat env file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return helpers.NewCliError(helpers.CodeConfigInvalid, "env file is not a regular file", path)
	}
	if err := godotenv.Load(path); err != nil {
		return helpers.NewCliError(
			helpers.CodeConfigInvalid,
			"failed to load env file",
			path,
		).WithCause(err)
	}
	return nil
}

// resolveConfigFile returns the explicit --config path, which must exist, or
// the first known config file in cwd.
func resolveConfigFile(cmd *cobra.Command, cwd string) (string, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return "", err
	}
	if path == "" {
		return config.FindConfigFile(cwd), nil
	}
	path = absFrom(cwd, path)
	if _, err := os.Stat(path); err != nil {
		return "", helpers.NewCliError(
			helpers.CodeConfigInvalid,
			"config file not found",
			path,
		).WithCause(err)
	}
	return path, nil
}

func absFrom(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

func (a *app) output(cmd *cobra.Command) *helpers.OutputWriter {
	return helpers.NewOutputWriter(cmd.OutOrStdout(), a.format)
}

func (a *app) loadCatalog(ctx context.Context) (*license.Catalog, *autoload.LoadResult, error) {
	return autoload.New(a.fs, a.cfg.AutoloadConfig()).LoadCatalog(ctx)
}

func (a *app) renderer() *render.Renderer {
	return render.New(a.fs, render.Options{
		OutDir:      a.cfg.Render.OutDir,
		ModulePath:  a.cfg.Render.ModulePath,
		Readme:      a.cfg.Render.Readme,
		Prune:       a.cfg.Render.Prune,
		Concurrency: a.cfg.Runtime.Concurrency,
	})
}

// plan loads the catalog and plans the generated tree.
func (a *app) plan(ctx context.Context) (*license.Catalog, *render.Renderer, *render.Plan, error) {
	catalog, _, err := a.loadCatalog(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	r := a.renderer()
	plan, err := r.Plan(ctx, codegen.GenerateAll(catalog))
	if err != nil {
		return nil, nil, nil, err
	}
	return catalog, r, plan, nil
}
