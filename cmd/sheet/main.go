// Package main is the entry point for the sheet command-line front end
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-sheet/internal/metrics"
)

// cli carries state shared by every command of one invocation
type cli struct {
	deps    *deps
	envFile string
	asJSON  bool
	cfg     *Config
}

func newRootCmd(d *deps) *cobra.Command {
	c := &cli{deps: d}

	rootCmd := &cobra.Command{
		Use:   "sheet",
		Short: "D&D 5e character sheet rules engine",
		Long: `sheet keeps D&D 5e character sheets: derived stats, leveling, limited-use
resources, rests and dice rolls, stored in Redis.`,
		SilenceUsage:       true,
		PersistentPreRunE:  c.setup,
		PersistentPostRunE: c.teardown,
	}

	rootCmd.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "environment file to load before reading SHEET_* variables")
	rootCmd.PersistentFlags().BoolVar(&c.asJSON, "json", false, "print results as JSON")

	rootCmd.AddCommand(
		c.rollCmd(),
		c.historyCmd(),
		c.characterCmd(),
		c.migrateCmd(),
		c.catalogCmd(),
	)
	return rootCmd
}

func main() {
	if err := newRootCmd(defaultDeps()).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(c.envFile)
	if err != nil {
		return err
	}
	c.cfg = cfg
	slog.SetDefault(newLogger(cmd.ErrOrStderr(), cfg))
	return nil
}

func (c *cli) teardown(_ *cobra.Command, _ []string) error {
	if c.cfg == nil || c.cfg.MetricsFile == "" {
		return nil
	}
	if err := metrics.WriteTextfile(c.cfg.MetricsFile); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", c.cfg.MetricsFile, err)
	}
	return nil
}

// withApp opens the store for the duration of fn
func (c *cli) withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	open := c.deps.open
	if open == nil {
		open = openApp
	}
	a, err := open(ctx, c.cfg, c.deps)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			slog.WarnContext(ctx, "Failed to close redis client", "error", err.Error())
		}
	}()

	return fn(ctx, a)
}

// output prints v as indented JSON with --json, otherwise calls text
func (c *cli) output(cmd *cobra.Command, v any, text func(w io.Writer)) error {
	w := cmd.OutOrStdout()
	if c.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}
