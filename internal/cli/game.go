package cli

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/dominoes-go/internal/model"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGameCreateCmd())
	cmd.AddCommand(newGameJoinCmd())
	cmd.AddCommand(newGameShowCmd())
	cmd.AddCommand(newGameTeammateCmd())
	cmd.AddCommand(newGameBotCmd())
	cmd.AddCommand(newGameStartCmd())
	cmd.AddCommand(newGameCancelCmd())
	cmd.AddCommand(newGameKickCmd())
	cmd.AddCommand(newGameRoundsCmd())
	cmd.AddCommand(newGameDealCmd())

	return cmd
}

func gamePath(id string, parts ...string) string {
	return "/api/v1/games/" + strings.Join(append([]string{id}, parts...), "/")
}

// runCommand sends a command request and prints its result
func runCommand(method, path string, body, data any) error {
	var result CommandResult
	if err := client.Do(method, path, body, &result); err != nil {
		return err
	}
	NewOutput(cfg.Output).PrintCommand(result, data)
	return nil
}

func newGameCreateCmd() *cobra.Command {
	var gameType string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new game",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch model.GameType(strings.ToUpper(gameType)) {
			case model.GameTypePublic, model.GameTypePrivate:
			default:
				return fmt.Errorf("--type must be public or private")
			}

			var game *model.Game
			return runCommand(http.MethodPost, "/api/v1/games", map[string]string{"type": gameType}, &game)
		},
	}

	cmd.Flags().StringVar(&gameType, "type", "private", "Game type: public, private")

	return cmd
}

func newGameJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join [token]",
		Short: "Join a private game by token, or any open public game",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var body any
			if len(args) == 1 {
				body = map[string]string{"token": args[0]}
			}

			var game *model.Game
			return runCommand(http.MethodPost, "/api/v1/games/join", body, &game)
		},
	}
}

func newGameShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <gameId>",
		Short: "Show a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result *model.Game

			if err := client.Get(gamePath(args[0]), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newGameTeammateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "teammate <gameId> <playerId>",
		Short: "Choose your teammate (admin only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var game *model.Game
			return runCommand(http.MethodPost, gamePath(args[0], "teammate"), map[string]string{"playerId": args[1]}, &game)
		},
	}
}

func newGameBotCmd() *cobra.Command {
	var strategy string

	cmd := &cobra.Command{
		Use:   "bot <gameId>",
		Short: "Seat a bot player (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(http.MethodPost, gamePath(args[0], "bots"), map[string]string{"strategy": strategy}, &BotSeat{})
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", model.BotStrategyFirst, "Bot strategy: "+strings.Join(model.ValidBotStrategies(), ", "))

	return cmd
}

func newGameStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <gameId>",
		Short: "Start a full game (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(http.MethodPost, gamePath(args[0], "start"), nil, &StartResult{})
		},
	}
}

func newGameCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <gameId>",
		Short: "Cancel a game (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(http.MethodDelete, gamePath(args[0]), nil, nil)
		},
	}
}

func newGameKickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kick <gameId> <playerId>",
		Short: "Remove a player from an idle game",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var game *model.Game
			return runCommand(http.MethodDelete, gamePath(args[0], "players", args[1]), nil, &game)
		},
	}
}

func newGameRoundsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rounds <gameId>",
		Short: "List the rounds of a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []*model.Round

			if err := client.Get(gamePath(args[0], "rounds"), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newGameDealCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deal <gameId>",
		Short: "Deal the next round once the current one is scored",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var round *model.Round
			return runCommand(http.MethodPost, gamePath(args[0], "rounds"), nil, &round)
		},
	}
}
