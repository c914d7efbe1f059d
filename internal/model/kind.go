package model

import "errors"

// ErrorKind classifies command failures at the command boundary
type ErrorKind string

const (
	KindInvalidCommand     ErrorKind = "invalid_command"
	KindNotFound           ErrorKind = "not_found"
	KindPreconditionFailed ErrorKind = "precondition_failed"
	KindStaleCommand       ErrorKind = "stale_command"
	KindInternal           ErrorKind = "internal"
)

var errorKinds = []struct {
	kind ErrorKind
	errs []error
}{
	{KindStaleCommand, []error{ErrRoundFinished, ErrGameFinished}},
	{KindNotFound, []error{
		ErrPlayerNotFound, ErrSessionNotFound, ErrGameNotFound, ErrRoundNotFound,
		ErrHandNotFound, ErrInvalidToken, ErrNoGamesAvailable,
	}},
	{KindPreconditionFailed, []error{
		ErrInsufficientPlayers, ErrTeamsIncomplete, ErrGameFull, ErrGameNotIdle,
		ErrGameNotPlaying, ErrRoundInProgress, ErrAlreadyInGame,
	}},
	{KindInvalidCommand, []error{
		ErrNotPlayerTurn, ErrUnexpectedNextPlayer, ErrInvalidTile, ErrTileNotInHand,
		ErrIllegalPlay, ErrMustPlay, ErrInvalidPlacement, ErrNotAdmin, ErrNotInGame,
		ErrTeammateIsSelf, ErrCannotRemoveAdmin, ErrInvalidGameType, ErrNotBot,
		ErrInvalidBotStrategy,
	}},
}

// KindOf classifies an error. Unknown errors are internal.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	for _, group := range errorKinds {
		for _, target := range group.errs {
			if errors.Is(err, target) {
				return group.kind
			}
		}
	}
	return KindInternal
}
