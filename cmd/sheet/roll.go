package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	diceorch "github.com/KirkDiggler/rpg-sheet/internal/orchestrators/dice"
)

func (c *cli) rollCmd() *cobra.Command {
	var (
		kind         string
		label        string
		modifier     int
		owner        string
		advantage    bool
		disadvantage bool
	)

	rollCmd := &cobra.Command{
		Use:   "roll [notation]",
		Short: "Roll dice",
		Long: `Roll a d20 check with --kind and --mod, or any notation such as 2d6+3,
4d6kh3 or 2d20kl1.`,
		Example: `  sheet roll --kind skill --label Stealth --mod 5 --adv
  sheet roll 2d6+3 --kind damage --label Greatsword`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if advantage && disadvantage {
				return errors.InvalidArgument("--adv and --dis cancel out, pass neither")
			}

			input := &diceorch.RollInput{
				Owner:    owner,
				Kind:     dnd5e.RollKind(kind),
				Label:    label,
				Modifier: modifier,
			}
			if len(args) == 1 {
				input.Notation = args[0]
				if kind == "" {
					input.Kind = dnd5e.RollKindCustom
				}
			} else if kind == "" {
				input.Kind = dnd5e.RollKindAbility
			}
			switch {
			case advantage:
				input.Mode = diceorch.ModeAdvantage
			case disadvantage:
				input.Mode = diceorch.ModeDisadvantage
			}

			return c.withApp(cmd, func(ctx context.Context, a *app) error {
				out, err := a.dice.Roll(ctx, input)
				if err != nil {
					return err
				}
				return c.output(cmd, out.Roll, func(w io.Writer) {
					fmt.Fprintln(w, formatRoll(out.Roll))
				})
			})
		},
	}

	rollCmd.Flags().StringVar(&kind, "kind", "", "roll kind: ability, skill, initiative, saving-throw, attack, damage, custom")
	rollCmd.Flags().StringVar(&label, "label", "", "what the roll is for")
	rollCmd.Flags().IntVar(&modifier, "mod", 0, "modifier added to a d20 roll")
	rollCmd.Flags().StringVar(&owner, "owner", "", "history the roll is recorded in (default: table)")
	rollCmd.Flags().BoolVar(&advantage, "adv", false, "roll with advantage")
	rollCmd.Flags().BoolVar(&disadvantage, "dis", false, "roll with disadvantage")

	rollCmd.AddCommand(c.rollBeginCmd(), c.rollConfirmCmd())
	return rollCmd
}

func (c *cli) rollBeginCmd() *cobra.Command {
	var kind, label, owner string

	beginCmd := &cobra.Command{
		Use:   "begin <notation>",
		Short: "Start a roll made with physical dice",
		Long:  `Stores the roll and prints a predicted result. Confirm it with the real dice before it expires.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app) error {
				out, err := a.dice.BeginRoll(ctx, &diceorch.BeginRollInput{
					Owner:    owner,
					Kind:     dnd5e.RollKind(kind),
					Label:    label,
					Notation: args[0],
				})
				if err != nil {
					return err
				}
				return c.output(cmd, out, func(w io.Writer) {
					fmt.Fprintf(w, "pending %s (expires %s)\n", out.Pending.ID, out.Pending.ExpiresAt.Format("15:04:05"))
					fmt.Fprintf(w, "predicted: %s\n", formatRoll(out.Preview))
				})
			})
		},
	}

	beginCmd.Flags().StringVar(&kind, "kind", "", "roll kind (default: custom)")
	beginCmd.Flags().StringVar(&label, "label", "", "what the roll is for")
	beginCmd.Flags().StringVar(&owner, "owner", "", "history the roll is recorded in (default: table)")
	return beginCmd
}

func (c *cli) rollConfirmCmd() *cobra.Command {
	var owner string

	confirmCmd := &cobra.Command{
		Use:   "confirm <id> [die...]",
		Short: "Resolve a pending roll with the physical results",
		Long:  `Without die values the predicted result is accepted.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := parseDice(args[1:])
			if err != nil {
				return err
			}

			return c.withApp(cmd, func(ctx context.Context, a *app) error {
				out, err := a.dice.ConfirmRoll(ctx, &diceorch.ConfirmRollInput{
					Owner:   owner,
					ID:      args[0],
					Results: results,
				})
				if err != nil {
					return err
				}
				return c.output(cmd, out.Roll, func(w io.Writer) {
					fmt.Fprintln(w, formatRoll(out.Roll))
				})
			})
		},
	}

	confirmCmd.Flags().StringVar(&owner, "owner", "", "owner the roll was started for")
	return confirmCmd
}

func (c *cli) historyCmd() *cobra.Command {
	var (
		owner        string
		clearHistory bool
	)

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent rolls, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd, func(ctx context.Context, a *app) error {
				if clearHistory {
					out, err := a.dice.ClearHistory(ctx, &diceorch.ClearHistoryInput{Owner: owner})
					if err != nil {
						return err
					}
					return c.output(cmd, out, func(w io.Writer) {
						fmt.Fprintf(w, "cleared %d rolls\n", out.Removed)
					})
				}

				out, err := a.dice.History(ctx, &diceorch.HistoryInput{Owner: owner})
				if err != nil {
					return err
				}
				return c.output(cmd, out.Rolls, func(w io.Writer) {
					if len(out.Rolls) == 0 {
						fmt.Fprintln(w, "no rolls yet")
						return
					}
					for _, roll := range out.Rolls {
						fmt.Fprintf(w, "%s  %s\n", roll.Timestamp.Format("15:04:05"), formatRoll(roll))
					}
				})
			})
		},
	}

	historyCmd.Flags().StringVar(&owner, "owner", "", "history to show (default: table)")
	historyCmd.Flags().BoolVar(&clearHistory, "clear", false, "empty the history instead of showing it")
	return historyCmd
}

func parseDice(args []string) ([]int, error) {
	if len(args) == 0 {
		return nil, nil
	}
	out := make([]int, 0, len(args))
	for _, arg := range args {
		v, err := strconv.Atoi(arg)
		if err != nil {
			return nil, errors.InvalidArgumentf("die value %q is not a number", arg)
		}
		out = append(out, v)
	}
	return out, nil
}

// formatRoll renders a roll as "Stealth (skill) 2d20kh1+3: [5 18] -> [18] +3 = 21"
func formatRoll(roll *dnd5e.DiceRoll) string {
	var b strings.Builder

	if roll.Label != "" {
		fmt.Fprintf(&b, "%s (%s) ", roll.Label, roll.Kind)
	} else {
		fmt.Fprintf(&b, "%s ", roll.Kind)
	}
	fmt.Fprintf(&b, "%s: ", roll.Notation)

	if roll.Pool != nil {
		fmt.Fprintf(&b, "%v -> ", roll.Pool.Rolled)
	}
	fmt.Fprintf(&b, "%v", roll.DiceResults)
	if roll.Modifier != 0 {
		fmt.Fprintf(&b, " %+d", roll.Modifier)
	}
	fmt.Fprintf(&b, " = %d", roll.Total)

	switch roll.Critical {
	case dnd5e.CriticalSuccess:
		b.WriteString(" CRITICAL SUCCESS")
	case dnd5e.CriticalFailure:
		b.WriteString(" CRITICAL FAILURE")
	}
	return b.String()
}
