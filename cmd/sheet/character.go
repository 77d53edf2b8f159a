package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-sheet/internal/engine"
	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	charactersvc "github.com/KirkDiggler/rpg-sheet/internal/services/character"
)

func (c *cli) characterCmd() *cobra.Command {
	characterCmd := &cobra.Command{
		Use:     "character",
		Aliases: []string{"char"},
		Short:   "Manage character sheets",
	}

	characterCmd.AddCommand(
		c.characterImportCmd(),
		c.characterListCmd(),
		c.characterShowCmd(),
		c.characterLevelUpCmd(),
		c.characterLevelDownCmd(),
		c.characterRestCmd(),
		c.characterSpendCmd(),
		c.characterChooseCmd(),
		c.characterDeleteCmd(),
	)
	return characterCmd
}

func (c *cli) characterImportCmd() *cobra.Command {
	var (
		schemaVersion int
		overwrite     bool
	)

	importCmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Import an exported character record",
		Long:  `Records from older versions are migrated on the way in. Pass - to read standard input.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			return c.withApp(cmd, func(ctx context.Context, a *app) error {
				out, err := a.characters.ImportCharacter(ctx, &charactersvc.ImportCharacterInput{
					Data:          data,
					SchemaVersion: schemaVersion,
					Overwrite:     overwrite,
				})
				if err != nil {
					return err
				}
				return c.output(cmd, out, func(w io.Writer) {
					fmt.Fprintf(w, "imported %s (%s, level %d %s)\n",
						out.Character.ID, out.Character.Name, out.Character.Level, out.Character.Class)
					if len(out.Patched) > 0 {
						fmt.Fprintf(w, "defaulted: %s\n", strings.Join(out.Patched, ", "))
					}
				})
			})
		},
	}

	importCmd.Flags().IntVar(&schemaVersion, "schema-version", 0, "schema version the record was exported at")
	importCmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace a stored character with the same id")
	return importCmd
}

func (c *cli) characterListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored characters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app) error {
				out, err := a.characters.ListCharacters(ctx, &charactersvc.ListCharactersInput{})
				if err != nil {
					return err
				}
				return c.output(cmd, out.CharacterIDs, func(w io.Writer) {
					for _, id := range out.CharacterIDs {
						fmt.Fprintln(w, id)
					}
				})
			})
		},
	}
}

func (c *cli) characterShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a character with derived stats",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app) error {
				out, err := a.characters.GetCharacter(ctx, &charactersvc.GetCharacterInput{CharacterID: args[0]})
				if err != nil {
					return err
				}
				return c.output(cmd, out.Character, func(w io.Writer) {
					printSheet(w, out.Character, out.Stats)
				})
			})
		},
	}
}

func (c *cli) characterLevelUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "level-up <id>",
		Short: "Gain a level",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app) error {
				out, err := a.characters.LevelUp(ctx, &charactersvc.LevelUpInput{CharacterID: args[0]})
				if err != nil {
					return err
				}
				return c.output(cmd, out.Transition, func(w io.Writer) {
					printTransition(w, out.Transition)
				})
			})
		},
	}
}

func (c *cli) characterLevelDownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "level-down <id>",
		Short: "Lose a level, undoing what it granted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app) error {
				out, err := a.characters.LevelDown(ctx, &charactersvc.LevelDownInput{CharacterID: args[0]})
				if err != nil {
					return err
				}
				return c.output(cmd, out.Transition, func(w io.Writer) {
					printTransition(w, out.Transition)
				})
			})
		},
	}
}

func (c *cli) characterRestCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "rest <id> <short|long>",
		Short:     "Take a short or long rest",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"short", "long"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var trigger dnd5e.RechargeType
			switch args[1] {
			case "short", string(dnd5e.RechargeShortRest):
				trigger = dnd5e.RechargeShortRest
			case "long", string(dnd5e.RechargeLongRest):
				trigger = dnd5e.RechargeLongRest
			default:
				return errors.InvalidArgumentf("rest must be short or long, got %q", args[1])
			}

			return c.withApp(cmd, func(ctx context.Context, a *app) error {
				out, err := a.characters.Rest(ctx, &charactersvc.RestInput{
					CharacterID: args[0],
					Trigger:     trigger,
				})
				if err != nil {
					return err
				}
				return c.output(cmd, out.Rest, func(w io.Writer) {
					rest := out.Rest
					fmt.Fprintf(w, "%s: healed %d, recovered %d hit dice\n", rest.Trigger, rest.HitPointsHealed, rest.HitDiceRecovered)
					if len(rest.Recharged) > 0 {
						fmt.Fprintf(w, "recharged: %s\n", strings.Join(rest.Recharged, ", "))
					}
				})
			})
		},
	}
}

func (c *cli) characterSpendCmd() *cobra.Command {
	var uses int

	spendCmd := &cobra.Command{
		Use:   "spend <id> <resource>",
		Short: "Spend uses of a limited-use resource",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app) error {
				out, err := a.characters.SpendResource(ctx, &charactersvc.SpendResourceInput{
					CharacterID: args[0],
					ResourceID:  args[1],
					Uses:        uses,
				})
				if err != nil {
					return err
				}
				return c.output(cmd, out.Result, func(w io.Writer) {
					if !out.Result.Applied {
						fmt.Fprintf(w, "not spent: %s\n", out.Result.Reason)
						return
					}
					idx, _ := out.Result.Character.FindResource(args[1])
					tracker := out.Result.Character.Resources[idx]
					fmt.Fprintf(w, "%s: %d of %d uses left\n", tracker.Name, tracker.CurrentUses, tracker.MaxUses)
				})
			})
		},
	}

	spendCmd.Flags().IntVar(&uses, "uses", 1, "number of uses to spend")
	return spendCmd
}

func (c *cli) characterChooseCmd() *cobra.Command {
	var (
		increases []string
		subclass  string
		cantrips  []string
	)

	chooseCmd := &cobra.Command{
		Use:   "choose <id> <choice-id>",
		Short: "Resolve a choice surfaced by leveling up",
		Example: `  sheet character choose char-1 ability-score-improvement-4 --increase str=2
  sheet character choose char-1 subclass-3 --subclass champion
  sheet character choose char-1 cantrip-4 --cantrip light`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseIncreases(increases)
			if err != nil {
				return err
			}

			return c.withApp(cmd, func(ctx context.Context, a *app) error {
				out, err := a.characters.ResolveChoice(ctx, &charactersvc.ResolveChoiceInput{
					CharacterID: args[0],
					ChoiceID:    args[1],
					Increases:   parsed,
					Subclass:    subclass,
					Cantrips:    cantrips,
				})
				if err != nil {
					return err
				}
				return c.output(cmd, out.Character, func(w io.Writer) {
					fmt.Fprintf(w, "resolved %s\n", out.Choice.ID)
				})
			})
		},
	}

	chooseCmd.Flags().StringSliceVar(&increases, "increase", nil, "ability increase as ability=points, repeatable")
	chooseCmd.Flags().StringVar(&subclass, "subclass", "", "subclass to take")
	chooseCmd.Flags().StringSliceVar(&cantrips, "cantrip", nil, "cantrip to learn, repeatable")
	return chooseCmd
}

func (c *cli) characterDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a character",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app) error {
				out, err := a.characters.DeleteCharacter(ctx, &charactersvc.DeleteCharacterInput{CharacterID: args[0]})
				if err != nil {
					return err
				}
				return c.output(cmd, out, func(w io.Writer) {
					fmt.Fprintln(w, out.Message)
				})
			})
		},
	}
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, errors.Wrap(err, "failed to read standard input")
		}
		return data, nil
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path is the user's own argument
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to read "+path)
	}
	return data, nil
}

func parseIncreases(raw []string) (map[dnd5e.Ability]int, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	out := make(map[dnd5e.Ability]int, len(raw))
	for _, item := range raw {
		name, value, ok := strings.Cut(item, "=")
		if !ok {
			return nil, errors.InvalidArgumentf("increase %q must look like str=2", item)
		}
		points, err := strconv.Atoi(value)
		if err != nil {
			return nil, errors.InvalidArgumentf("increase %q has a non-numeric amount", item)
		}
		ability := dnd5e.Ability(strings.ToLower(strings.TrimSpace(name)))
		if !slices.Contains(dnd5e.Abilities, ability) {
			return nil, errors.InvalidArgumentf("unknown ability %q", name)
		}
		out[ability] += points
	}
	return out, nil
}

func printTransition(w io.Writer, t *engine.Transition) {
	if !t.Applied {
		fmt.Fprintf(w, "no change: %s\n", t.Reason)
		return
	}
	fmt.Fprintf(w, "level %d -> %d, max HP %+d\n", t.FromLevel, t.ToLevel, t.HitPointDelta)
	for _, choice := range t.NewChoices {
		fmt.Fprintf(w, "choice pending: %s\n", choice.ID)
	}
	for _, choice := range t.DroppedChoices {
		fmt.Fprintf(w, "choice dropped: %s\n", choice.ID)
	}
}

func printSheet(w io.Writer, char *dnd5e.Character, stats *engine.DerivedStats) {
	fmt.Fprintf(w, "%s  %s, level %d %s", char.ID, char.Name, char.Level, char.Class)
	if char.Subclass != "" {
		fmt.Fprintf(w, " (%s)", char.Subclass)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "HP %d/%d  AC %d  Init %+d  PB %+d  Hit dice %d/%dd%d  Passive perception %d\n",
		char.HitPoints.Current, char.HitPoints.Max, char.ArmorClass, char.Initiative, char.ProficiencyBonus,
		char.HitDice.Current, char.HitDice.Max, char.HitDice.Die, stats.PassivePerception)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ABILITY\tSCORE\tMOD\tSAVE")
	for _, ability := range dnd5e.Abilities {
		fmt.Fprintf(tw, "%s\t%d\t%+d\t%+d\n", ability, char.AbilityScores.Get(ability),
			stats.Modifiers[ability], stats.SavingThrows[ability])
	}
	_ = tw.Flush()

	if len(char.Resources) > 0 {
		fmt.Fprintln(w, "Resources:")
		for _, tracker := range char.Resources {
			fmt.Fprintf(w, "  %-22s %d/%d (%s)\n", tracker.Name, tracker.CurrentUses, tracker.MaxUses, tracker.RechargeType)
		}
	}
	if sc := char.Spellcasting; sc != nil && len(sc.Slots) > 0 {
		fmt.Fprint(w, "Spell slots:")
		for i, total := range sc.Slots {
			used := 0
			if i < len(sc.UsedSlots) {
				used = sc.UsedSlots[i]
			}
			fmt.Fprintf(w, " L%d %d/%d", i+1, total-used, total)
		}
		fmt.Fprintln(w)
	}
	for _, choice := range char.PendingChoices {
		fmt.Fprintf(w, "Pending choice: %s\n", choice.ID)
	}
}
