package redis

import (
	"fmt"

	"github.com/mcoot/dominoes-go/internal/model"
)

// keys builds every Redis key under one prefix
type keys struct {
	prefix string
}

func (k keys) player(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", k.prefix, id)
}

func (k keys) registeredPlayer(username string) string {
	return fmt.Sprintf("%s:registered_player:%s", k.prefix, username)
}

func (k keys) session(token string) string {
	return fmt.Sprintf("%s:session:%s", k.prefix, token)
}

func (k keys) game(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", k.prefix, id)
}

// gameTokenIndex maps a private game token to its game id
func (k keys) gameTokenIndex(token string) string {
	return fmt.Sprintf("%s:idx:game_token:%s", k.prefix, token)
}

// joinableGamesIndex is the SET of public games still accepting players
func (k keys) joinableGamesIndex() string {
	return fmt.Sprintf("%s:idx:joinable_games", k.prefix)
}

func (k keys) round(id model.RoundID) string {
	return fmt.Sprintf("%s:round:%s", k.prefix, id)
}

// roundsForGameIndex is the SET of round keys belonging to a game
func (k keys) roundsForGameIndex(gameID model.GameID) string {
	return fmt.Sprintf("%s:idx:rounds_for_game:%s", k.prefix, gameID)
}

func (k keys) hand(roundID model.RoundID, playerID model.PlayerID) string {
	return fmt.Sprintf("%s:hand:%s:%s", k.prefix, roundID, playerID)
}

// handsForRoundIndex is the SET of hand keys dealt in a round
func (k keys) handsForRoundIndex(roundID model.RoundID) string {
	return fmt.Sprintf("%s:idx:hands_for_round:%s", k.prefix, roundID)
}

// handsForGameIndex is the SET of hand keys dealt in any round of a game
func (k keys) handsForGameIndex(gameID model.GameID) string {
	return fmt.Sprintf("%s:idx:hands_for_game:%s", k.prefix, gameID)
}
