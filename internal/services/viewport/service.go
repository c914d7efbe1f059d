package viewport

import (
	"github.com/mcoot/dominoes-go/internal/model"
)

// DefaultHalfWidth is how many tiles the layout renders on each side of
// the anchor
const DefaultHalfWidth = 13

// Window is the slice of the board a fixed-size layout renders
type Window struct {
	Anchor int          `json:"anchor"`
	Start  int          `json:"start"` // inclusive board index
	End    int          `json:"end"`   // exclusive board index
	Tiles  []model.Tile `json:"tiles"`
	// Hidden tile counts beyond each edge of the window
	HiddenFront int `json:"hiddenFront"`
	HiddenBack  int `json:"hiddenBack"`
}

// Service keeps the board anchor balanced inside the layout
type Service struct {
	halfWidth int
}

// New creates a viewport service. A non-positive half-width uses the default.
func New(halfWidth int) *Service {
	if halfWidth <= 0 {
		halfWidth = DefaultHalfWidth
	}
	return &Service{halfWidth: halfWidth}
}

// HalfWidth returns the configured half-width
func (s *Service) HalfWidth() int {
	return s.halfWidth
}

// Recenter moves the anchor at most one tile toward the side that has
// outgrown the half-width. A step is skipped when it would only push the
// overflow to the other side, so a board too long for the layout keeps
// its anchor instead of oscillating.
func (s *Service) Recenter(length, anchor int) int {
	if length <= 0 {
		return 0
	}
	anchor = clamp(anchor, 0, length-1)

	before := anchor
	after := length - 1 - anchor

	switch {
	case before > s.halfWidth && after < s.halfWidth:
		return anchor - 1
	case after > s.halfWidth && before < s.halfWidth:
		return anchor + 1
	default:
		return anchor
	}
}

// Rebalance recenters the round's starting domino after a play and reports
// whether it moved
func (s *Service) Rebalance(round *model.Round) bool {
	idx := round.AnchorIndex()
	if idx < 0 {
		return false
	}
	next := s.Recenter(len(round.Board), idx)
	if next == idx {
		return false
	}
	anchor := round.Board[next]
	round.StartingDomino = &anchor
	return true
}

// Window returns the tiles visible around the round's anchor
func (s *Service) Window(round *model.Round) Window {
	if len(round.Board) == 0 {
		return Window{Tiles: []model.Tile{}}
	}
	anchor := round.AnchorIndex()
	if anchor < 0 {
		anchor = 0
	}
	start := max(anchor-s.halfWidth, 0)
	end := min(anchor+s.halfWidth+1, len(round.Board))
	return Window{
		Anchor:      anchor,
		Start:       start,
		End:         end,
		Tiles:       append([]model.Tile(nil), round.Board[start:end]...),
		HiddenFront: start,
		HiddenBack:  len(round.Board) - end,
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
