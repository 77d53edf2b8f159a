package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func (c *cli) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Bring stored characters to the current schema version",
		Long:  `Every command migrates the store before reading it; this one only reports what was done.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd, func(_ context.Context, a *app) error {
				result := a.migration
				return c.output(cmd, result, func(w io.Writer) {
					if result.FromVersion == result.ToVersion {
						fmt.Fprintf(w, "schema version %d is current\n", result.ToVersion)
						return
					}
					fmt.Fprintf(w, "schema version %d -> %d, %d records migrated\n",
						result.FromVersion, result.ToVersion, result.Migrated)
					if len(result.Skipped) > 0 {
						fmt.Fprintf(w, "skipped unreadable records: %s\n", strings.Join(result.Skipped, ", "))
					}
				})
			})
		},
	}
}
