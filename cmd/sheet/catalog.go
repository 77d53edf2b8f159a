package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-sheet/internal/catalog"
	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	equipmentrepo "github.com/KirkDiggler/rpg-sheet/internal/repositories/equipment"
)

func (c *cli) catalogCmd() *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage imported equipment",
	}
	catalogCmd.AddCommand(c.catalogImportCmd(), c.catalogListCmd())
	return catalogCmd
}

func (c *cli) catalogImportCmd() *cobra.Command {
	var categories []string

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import armor and weapons from the D&D 5e SRD API",
		Long: `Imported entries are stored alongside the embedded catalog and override
embedded entries with the same slug.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			importer, err := catalog.NewImporter(&catalog.ImporterConfig{BaseURL: c.cfg.APIBaseURL})
			if err != nil {
				return err
			}

			return c.withApp(cmd, func(ctx context.Context, a *app) error {
				var entries []*dnd5e.EquipmentCatalogEntry
				for _, category := range categories {
					imported, err := importer.ImportCategory(ctx, category)
					if err != nil {
						return err
					}
					entries = append(entries, imported...)
				}

				out, err := a.equipment.Update(ctx, equipmentrepo.UpdateInput{Entries: entries})
				if err != nil {
					return err
				}
				return c.output(cmd, out, func(w io.Writer) {
					fmt.Fprintf(w, "stored %d entries\n", out.Stored)
				})
			})
		},
	}

	importCmd.Flags().StringSliceVar(&categories, "category", []string{"armor", "weapon"}, "equipment categories to import")
	return importCmd
}

func (c *cli) catalogListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List imported equipment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app) error {
				out, err := a.equipment.List(ctx, equipmentrepo.ListInput{})
				if err != nil {
					return err
				}
				return c.output(cmd, out.Entries, func(w io.Writer) {
					tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
					fmt.Fprintln(tw, "SLUG\tNAME\tCATEGORY\tDETAIL")
					for _, entry := range out.Entries {
						if entry.ArmorCategory != "" {
							fmt.Fprintf(tw, "%s\t%s\t%s\tAC %d\n", entry.Slug, entry.Name, entry.ArmorCategory, entry.BaseAC)
							continue
						}
						fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", entry.Slug, entry.Name, entry.WeaponCategory, entry.Damage)
					}
					_ = tw.Flush()
				})
			})
		},
	}
}
