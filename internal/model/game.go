package model

import (
	"slices"
	"time"
)

// GameID uniquely identifies a game
type GameID string

// GameStatus represents the lifecycle phase of a game
type GameStatus string

const (
	GameStatusIdle     GameStatus = "IDLE"     // Gathering players
	GameStatusPlaying  GameStatus = "PLAYING"  // Rounds in progress
	GameStatusFinished GameStatus = "FINISHED" // A team reached the target score
)

// GameType controls how players find the game
type GameType string

const (
	GameTypePublic  GameType = "PUBLIC"
	GameTypePrivate GameType = "PRIVATE" // Joined by token only
)

// Team identifies one of the two partnerships. TeamNone marks a drawn round
// or an undecided game.
type Team int

const (
	TeamNone Team = 0
	TeamOne  Team = 1
	TeamTwo  Team = 2
)

// Opponent returns the other team
func (t Team) Opponent() Team {
	switch t {
	case TeamOne:
		return TeamTwo
	case TeamTwo:
		return TeamOne
	default:
		return TeamNone
	}
}

// PlayersPerGame is fixed: two teams of two
const PlayersPerGame = 4

// Game is the top-level aggregate: roster, teams, scores and round history
type Game struct {
	ID     GameID     `json:"id"`
	Status GameStatus `json:"status"`
	Type   GameType   `json:"type"`
	Admin  PlayerID   `json:"admin"`
	Token  string     `json:"token,omitempty"`

	// Players is the roster. Once PLAYING it is kept in turn order with the
	// current round's starting player in slot 0.
	Players        []PlayerID `json:"players"`
	TeamOnePlayers []PlayerID `json:"teamOnePlayers"`
	TeamTwoPlayers []PlayerID `json:"teamTwoPlayers"`

	TeamOneScore int       `json:"teamOneScore"`
	TeamTwoScore int       `json:"teamTwoScore"`
	Rounds       []RoundID `json:"rounds"`
	Score        []Team    `json:"score"` // winning team per completed round

	LastRoundWinner PlayerID   `json:"lastRoundWinner,omitempty"`
	WinningTeam     Team       `json:"winningTeam,omitempty"`
	Winners         []PlayerID `json:"winners,omitempty"`

	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasPlayer reports whether the player is on the roster
func (g *Game) HasPlayer(id PlayerID) bool {
	return slices.Contains(g.Players, id)
}

// IsFull reports whether the roster has all four players
func (g *Game) IsFull() bool {
	return len(g.Players) >= PlayersPerGame
}

// IsJoinable reports whether a new player may join
func (g *Game) IsJoinable() bool {
	return g.Status == GameStatusIdle && !g.IsFull()
}

// TeamOf returns the team the player belongs to, or TeamNone
func (g *Game) TeamOf(id PlayerID) Team {
	switch {
	case slices.Contains(g.TeamOnePlayers, id):
		return TeamOne
	case slices.Contains(g.TeamTwoPlayers, id):
		return TeamTwo
	default:
		return TeamNone
	}
}

// TeamPlayers returns the members of a team
func (g *Game) TeamPlayers(t Team) []PlayerID {
	switch t {
	case TeamOne:
		return g.TeamOnePlayers
	case TeamTwo:
		return g.TeamTwoPlayers
	default:
		return nil
	}
}

// TeamScore returns a team's cumulative score
func (g *Game) TeamScore(t Team) int {
	switch t {
	case TeamOne:
		return g.TeamOneScore
	case TeamTwo:
		return g.TeamTwoScore
	default:
		return 0
	}
}

// AddPoints credits points to a team
func (g *Game) AddPoints(t Team, points int) {
	switch t {
	case TeamOne:
		g.TeamOneScore += points
	case TeamTwo:
		g.TeamTwoScore += points
	}
}

// TeamsComplete reports whether the roster is split into two teams of two
// covering every player exactly once
func (g *Game) TeamsComplete() bool {
	if len(g.Players) != PlayersPerGame || len(g.TeamOnePlayers) != 2 || len(g.TeamTwoPlayers) != 2 {
		return false
	}
	seen := make(map[PlayerID]bool, PlayersPerGame)
	for _, id := range append(slices.Clone(g.TeamOnePlayers), g.TeamTwoPlayers...) {
		if seen[id] || !g.HasPlayer(id) {
			return false
		}
		seen[id] = true
	}
	return true
}

// TurnOrder returns [team1[0], team2[0], team1[1], team2[1]] so that
// consecutive turns alternate teams
func (g *Game) TurnOrder() ([]PlayerID, error) {
	if !g.TeamsComplete() {
		return nil, ErrTeamsIncomplete
	}
	return []PlayerID{
		g.TeamOnePlayers[0],
		g.TeamTwoPlayers[0],
		g.TeamOnePlayers[1],
		g.TeamTwoPlayers[1],
	}, nil
}

// CurrentRound returns the most recent round id, or empty
func (g *Game) CurrentRound() RoundID {
	if len(g.Rounds) == 0 {
		return ""
	}
	return g.Rounds[len(g.Rounds)-1]
}

// RemovePlayer drops the player from the roster and both teams
func (g *Game) RemovePlayer(id PlayerID) {
	without := func(ids []PlayerID) []PlayerID {
		return slices.DeleteFunc(slices.Clone(ids), func(p PlayerID) bool { return p == id })
	}
	g.Players = without(g.Players)
	g.TeamOnePlayers = without(g.TeamOnePlayers)
	g.TeamTwoPlayers = without(g.TeamTwoPlayers)
}

// RotateTo rotates order so that the given player is in slot 0. Cyclic
// order is preserved, so teams keep alternating.
func RotateTo(order []PlayerID, first PlayerID) []PlayerID {
	idx := slices.Index(order, first)
	if idx <= 0 {
		return slices.Clone(order)
	}
	return append(slices.Clone(order[idx:]), order[:idx]...)
}
