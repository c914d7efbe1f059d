package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mcoot/dominoes-go/internal/api/response"
	"github.com/mcoot/dominoes-go/internal/model"
	"github.com/mcoot/dominoes-go/internal/services/bot"
	"github.com/mcoot/dominoes-go/internal/services/rules"
	"github.com/mcoot/dominoes-go/internal/services/viewport"
	"github.com/mcoot/dominoes-go/internal/snapshot"
)

const (
	OutputText = "text"
	OutputJSON = "json"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to stdout
func NewOutput(format string) *Output {
	return &Output{format: format, w: os.Stdout}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == OutputJSON {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == OutputJSON {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

// PrintCommand outputs a command result. In text mode the decoded data,
// if any, is printed after the result message.
func (o *Output) PrintCommand(res CommandResult, data any) {
	if o.format == OutputJSON {
		o.printJSON(res)
		return
	}
	o.printCommandResult(res)
	if data != nil && len(res.Data) > 0 && string(res.Data) != "null" {
		if err := json.Unmarshal(res.Data, data); err == nil {
			_, _ = fmt.Fprintln(o.w)
			o.printText(deref(data))
		}
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Player:
		o.printPlayer(v)
	case response.AuthResponse:
		o.printAuthResult(v)
	case *model.Game:
		o.printGame(v)
	case []*model.Round:
		o.printRounds(v)
	case *model.Round:
		o.printRound(v)
	case *model.Hand:
		o.printHand(v)
	case []rules.TileOption:
		o.printOptions(v)
	case viewport.Window:
		o.printWindow(v)
	case CommandResult:
		o.printCommandResult(v)
	case StartResult:
		o.printGame(v.Game)
		if v.Round != nil {
			_, _ = fmt.Fprintln(o.w)
			o.printRound(v.Round)
		}
	case BotSeat:
		if v.Player != nil {
			o.printPlayer(response.PlayerFromModel(v.Player))
			_, _ = fmt.Fprintln(o.w)
		}
		o.printGame(v.Game)
	case PlayResult:
		o.printPlayResult(v)
	case snapshot.State:
		o.printState(v)
	case HealthResult:
		_, _ = fmt.Fprintf(o.w, "Server: %s\nStatus: %s\nLatency: %dms\n", v.Server, v.Status, v.LatencyMS)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// CommandResult mirrors the API's command response with the data left raw
type CommandResult struct {
	Success    bool            `json:"success"`
	Status     string          `json:"status"`
	Ignored    bool            `json:"ignored,omitempty"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data,omitempty"`
	BotActions []bot.BotAction `json:"botActions,omitempty"`
}

// StartResult is the data of a game start
type StartResult struct {
	Game  *model.Game  `json:"game"`
	Round *model.Round `json:"round"`
}

// BotSeat is the data of an added bot
type BotSeat struct {
	Player *model.Player `json:"player"`
	Game   *model.Game   `json:"game"`
}

// PlayResult is the data of a play or pass
type PlayResult struct {
	Round      *model.Round      `json:"round"`
	Hand       *model.Hand       `json:"hand,omitempty"`
	Pending    bool              `json:"pending"`
	Placements []model.Placement `json:"placements,omitempty"`
	AutoPassed []model.PlayerID  `json:"autoPassed,omitempty"`
	Game       *model.Game       `json:"game,omitempty"`
	NextRound  *model.Round      `json:"nextRound,omitempty"`

	ScoringPending bool `json:"scoringPending,omitempty"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`

	// Filled in client side
	Server    string `json:"server,omitempty"`
	LatencyMS int64  `json:"latencyMs"`
}

func deref(data any) any {
	switch v := data.(type) {
	case *StartResult:
		return *v
	case *BotSeat:
		return *v
	case *PlayResult:
		return *v
	case **model.Game:
		return *v
	case **model.Round:
		return *v
	}
	return data
}

func (o *Output) printPlayer(p response.Player) {
	kind := "registered"
	switch {
	case p.IsBot:
		kind = "bot"
	case p.IsGuest:
		kind = "guest"
	}
	_, _ = fmt.Fprintf(o.w, "Player: %s (%s)\n", p.DisplayName, p.ID)
	_, _ = fmt.Fprintf(o.w, "Kind: %s\n", kind)
	if p.CurrentGame != "" {
		_, _ = fmt.Fprintf(o.w, "Current Game: %s\n", p.CurrentGame)
	}
}

func (o *Output) printAuthResult(a response.AuthResponse) {
	o.printPlayer(a.Player)
	_, _ = fmt.Fprintf(o.w, "Token: %s\n", a.SessionToken)
}

func (o *Output) printGame(g *model.Game) {
	if g == nil {
		return
	}
	_, _ = fmt.Fprintf(o.w, "Game: %s\n", g.ID)
	_, _ = fmt.Fprintf(o.w, "Status: %s\n", g.Status)
	_, _ = fmt.Fprintf(o.w, "Type: %s\n", g.Type)
	if g.Token != "" {
		_, _ = fmt.Fprintf(o.w, "Token: %s\n", g.Token)
	}
	_, _ = fmt.Fprintf(o.w, "Admin: %s\n", g.Admin)
	_, _ = fmt.Fprintf(o.w, "Players (%d/%d): %s\n", len(g.Players), model.PlayersPerGame, joinIDs(g.Players))
	if len(g.TeamOnePlayers) > 0 || len(g.TeamTwoPlayers) > 0 {
		_, _ = fmt.Fprintf(o.w, "Team 1: %s (%d)\n", joinIDs(g.TeamOnePlayers), g.TeamOneScore)
		_, _ = fmt.Fprintf(o.w, "Team 2: %s (%d)\n", joinIDs(g.TeamTwoPlayers), g.TeamTwoScore)
	}
	if len(g.Rounds) > 0 {
		_, _ = fmt.Fprintf(o.w, "Rounds: %d (current %s)\n", len(g.Rounds), g.Rounds[len(g.Rounds)-1])
	}
	if len(g.Winners) > 0 {
		_, _ = fmt.Fprintf(o.w, "Winners: %s (team %d)\n", joinIDs(g.Winners), g.WinningTeam)
	}
}

func (o *Output) printRounds(rounds []*model.Round) {
	if len(rounds) == 0 {
		_, _ = fmt.Fprintln(o.w, "No rounds yet")
		return
	}
	for _, r := range rounds {
		line := fmt.Sprintf("#%d %s %s", r.Number, r.ID, r.Status)
		if r.IsTerminal() {
			line += fmt.Sprintf(" winner=%s team=%d points=%d", orDash(string(r.Winner)), r.WinningTeam, r.PointsWon)
		}
		_, _ = fmt.Fprintln(o.w, line)
	}
}

func (o *Output) printRound(r *model.Round) {
	if r == nil {
		return
	}
	_, _ = fmt.Fprintf(o.w, "Round: %s (#%d)\n", r.ID, r.Number)
	_, _ = fmt.Fprintf(o.w, "Status: %s\n", r.Status)
	_, _ = fmt.Fprintf(o.w, "Order: %s\n", joinIDs(r.Players))
	if r.Status == model.RoundStatusPlaying {
		_, _ = fmt.Fprintf(o.w, "Turn: %s\n", r.Turn)
		if r.PassCount > 0 {
			_, _ = fmt.Fprintf(o.w, "Passes: %d\n", r.PassCount)
		}
	}
	_, _ = fmt.Fprintf(o.w, "Board: %s\n", formatTiles(r.Board))
	if r.IsTerminal() {
		_, _ = fmt.Fprintf(o.w, "Winner: %s (team %d, %d points)\n", orDash(string(r.Winner)), r.WinningTeam, r.PointsWon)
	}
}

func (o *Output) printHand(h *model.Hand) {
	if h == nil {
		return
	}
	_, _ = fmt.Fprintf(o.w, "Hand: %s\n", formatTiles(h.Tiles))
}

func (o *Output) printOptions(options []rules.TileOption) {
	for _, opt := range options {
		switch {
		case opt.Evaluation.Ambiguous:
			_, _ = fmt.Fprintf(o.w, "%s  front or back\n", formatTile(opt.Tile))
		case opt.Evaluation.Legal:
			_, _ = fmt.Fprintf(o.w, "%s  %s\n", formatTile(opt.Tile), opt.Evaluation.Placement)
		default:
			_, _ = fmt.Fprintf(o.w, "%s  -\n", formatTile(opt.Tile))
		}
	}
}

func (o *Output) printWindow(w viewport.Window) {
	var b strings.Builder
	if w.HiddenFront > 0 {
		fmt.Fprintf(&b, "(+%d) ", w.HiddenFront)
	}
	b.WriteString(formatTiles(w.Tiles))
	if w.HiddenBack > 0 {
		fmt.Fprintf(&b, " (+%d)", w.HiddenBack)
	}
	_, _ = fmt.Fprintln(o.w, b.String())
}

func (o *Output) printCommandResult(res CommandResult) {
	_, _ = fmt.Fprintf(o.w, "%s [%s]\n", res.Message, res.Status)
	for _, action := range res.BotActions {
		if action.Type == bot.ActionPlay && action.Tile != nil {
			_, _ = fmt.Fprintf(o.w, "  bot %s played %s %s\n", action.PlayerID, formatTile(*action.Tile), action.Placement)
		} else {
			_, _ = fmt.Fprintf(o.w, "  bot %s passed\n", action.PlayerID)
		}
	}
}

func (o *Output) printPlayResult(p PlayResult) {
	if p.Pending {
		_, _ = fmt.Fprintf(o.w, "Choose a placement: %s\n", joinPlacements(p.Placements))
		return
	}
	if len(p.AutoPassed) > 0 {
		_, _ = fmt.Fprintf(o.w, "Auto-passed: %s\n", joinIDs(p.AutoPassed))
	}
	o.printRound(p.Round)
	if p.Hand != nil {
		o.printHand(p.Hand)
	}
	if p.Game != nil {
		_, _ = fmt.Fprintln(o.w)
		o.printGame(p.Game)
	}
	if p.ScoringPending {
		_, _ = fmt.Fprintln(o.w, "Round over. Scoring failed and runs again on the next round.")
	}
}

func (o *Output) printState(s snapshot.State) {
	if s.Cancelled {
		_, _ = fmt.Fprintln(o.w, "Game cancelled")
		return
	}
	o.printGame(s.Game)
	if s.Round != nil {
		o.printRound(s.Round)
	}
	if s.Hand != nil {
		o.printHand(s.Hand)
	}
}

// formatTile renders a tile the way it lies on the table
func formatTile(t model.Tile) string {
	return fmt.Sprintf("[%d|%d]", t.Left, t.Right)
}

func formatTiles(tiles []model.Tile) string {
	if len(tiles) == 0 {
		return "(empty)"
	}
	parts := make([]string, len(tiles))
	for i, t := range tiles {
		parts[i] = formatTile(t)
	}
	return strings.Join(parts, "")
}

func joinIDs(ids []model.PlayerID) string {
	if len(ids) == 0 {
		return "-"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ", ")
}

func joinPlacements(placements []model.Placement) string {
	parts := make([]string, len(placements))
	for i, p := range placements {
		parts[i] = string(p)
	}
	return strings.Join(parts, " or ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
