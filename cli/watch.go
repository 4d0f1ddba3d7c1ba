package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/compozy/licensegen/engine/autoload"
	"github.com/compozy/licensegen/pkg/logger"
)

func watchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate whenever catalog files change",
		Long: `Generate once, then watch the catalog directory and regenerate after each
burst of changes. Invalid catalogs are logged and leave the generated files
untouched. Stops on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.watch(ctx)
		},
	}
	addRenderFlags(cmd)
	cmd.Flags().Duration("debounce", autoload.DefaultDebounce, "Quiet period before regenerating")
	return cmd
}

func (a *app) watch(ctx context.Context) error {
	log := logger.FromContext(ctx)
	a.regenerate(ctx, nil)
	watcher := autoload.NewWatcher(a.cfg.AutoloadConfig(), a.cfg.CLI.WatchDebounce)
	if err := watcher.Run(ctx, a.regenerate); err != nil {
		return err
	}
	log.Info("Watch stopped")
	return nil
}

// regenerate runs one generate cycle and logs the outcome.
func (a *app) regenerate(ctx context.Context, changed []string) {
	log := logger.FromContext(ctx)
	if len(changed) > 0 {
		log.Info("Catalog changed", "files", changed)
	}
	_, r, plan, err := a.plan(ctx)
	if err != nil {
		log.Error("Generation skipped", "error", err)
		return
	}
	if _, err := r.Apply(ctx, plan); err != nil {
		log.Error("Generation failed", "error", err)
	}
}
