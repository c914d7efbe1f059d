package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/mcoot/dominoes-go/internal/model"
	"github.com/mcoot/dominoes-go/internal/services/rules"
	"github.com/mcoot/dominoes-go/internal/services/viewport"
)

func newRoundCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "round",
		Short: "Round commands",
	}

	cmd.AddCommand(newRoundShowCmd())
	cmd.AddCommand(newRoundHandCmd())
	cmd.AddCommand(newRoundPlayableCmd())
	cmd.AddCommand(newRoundViewportCmd())
	cmd.AddCommand(newRoundPlayCmd())
	cmd.AddCommand(newRoundPassCmd())

	return cmd
}

func roundPath(id, suffix string) string {
	if suffix == "" {
		return "/api/v1/rounds/" + id
	}
	return "/api/v1/rounds/" + id + "/" + suffix
}

// newRoundGetCmd builds a read-only round command printing a T
func newRoundGetCmd[T any](use, short, suffix string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <roundId>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result T

			if err := client.Get(roundPath(args[0], suffix), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newRoundShowCmd() *cobra.Command {
	return newRoundGetCmd[*model.Round]("show", "Show a round", "")
}

func newRoundHandCmd() *cobra.Command {
	return newRoundGetCmd[*model.Hand]("hand", "Show your hand", "hand")
}

func newRoundPlayableCmd() *cobra.Command {
	return newRoundGetCmd[[]rules.TileOption]("playable", "Show where each tile in your hand can go", "playable")
}

func newRoundViewportCmd() *cobra.Command {
	return newRoundGetCmd[viewport.Window]("viewport", "Show the visible part of the board", "viewport")
}

func newRoundPlayCmd() *cobra.Command {
	var placement string

	cmd := &cobra.Command{
		Use:   "play <roundId> <tile>",
		Short: "Play a tile, e.g. 'round play r1 64 --placement front'",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := model.ParseTile(args[1]); err != nil {
				return fmt.Errorf("tile must be two pips from 0 to 6, e.g. 64")
			}
			if _, err := model.ParsePlacement(placement); err != nil {
				return fmt.Errorf("--placement must be front or back")
			}

			body := map[string]string{"tile": args[1]}
			if placement != "" {
				body["placement"] = placement
			}
			return runCommand(http.MethodPost, roundPath(args[0], "play"), body, &PlayResult{})
		},
	}

	cmd.Flags().StringVar(&placement, "placement", "", "Board end for tiles that fit both: front, back")

	return cmd
}

func newRoundPassCmd() *cobra.Command {
	var next string

	cmd := &cobra.Command{
		Use:   "pass <roundId>",
		Short: "Pass your turn when no tile fits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var body any
			if next != "" {
				body = map[string]string{"nextPlayerId": next}
			}
			return runCommand(http.MethodPost, roundPath(args[0], "pass"), body, &PlayResult{})
		},
	}

	cmd.Flags().StringVar(&next, "next", "", "Expected next player (optional cross-check)")

	return cmd
}
