package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrNotBot         = errors.New("player is not a bot")

	ErrInvalidBotStrategy = errors.New("unknown bot strategy")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")

	// Game errors
	ErrGameNotFound        = errors.New("game not found")
	ErrInvalidToken        = errors.New("invalid token")
	ErrNoGamesAvailable    = errors.New("no games available")
	ErrGameFull            = errors.New("game is full")
	ErrAlreadyInGame       = errors.New("player is already in another game")
	ErrNotInGame           = errors.New("player is not in game")
	ErrNotAdmin            = errors.New("player is not the game admin")
	ErrGameNotIdle         = errors.New("game has already started")
	ErrGameNotPlaying      = errors.New("game is not in progress")
	ErrGameFinished        = errors.New("game is already finished")
	ErrInsufficientPlayers = errors.New("a game needs exactly 4 players")
	ErrTeamsIncomplete     = errors.New("a game needs two teams of two")
	ErrTeammateIsSelf      = errors.New("cannot choose yourself as teammate")
	ErrCannotRemoveAdmin   = errors.New("the admin cannot leave, cancel the game instead")
	ErrInvalidGameType     = errors.New("invalid game type")

	// Round errors
	ErrRoundNotFound        = errors.New("round not found")
	ErrRoundInProgress      = errors.New("current round is still in progress")
	ErrRoundFinished        = errors.New("round is already finished")
	ErrNotPlayerTurn        = errors.New("not this player's turn")
	ErrUnexpectedNextPlayer = errors.New("next player does not match turn order")

	// Hand and tile errors
	ErrHandNotFound     = errors.New("hand not found")
	ErrInvalidTile      = errors.New("invalid tile")
	ErrTileNotInHand    = errors.New("tile is not in hand")
	ErrIllegalPlay      = errors.New("tile cannot be played there")
	ErrMustPlay         = errors.New("cannot pass while holding a playable tile")
	ErrInvalidPlacement = errors.New("invalid placement")
)
