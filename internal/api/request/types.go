package request

// CreateGuestRequest is the request body for creating a guest player
type CreateGuestRequest struct {
	DisplayName string `json:"displayName"`
}

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateGameRequest is the request body for creating a game
type CreateGameRequest struct {
	// Type is PUBLIC or PRIVATE; empty means PRIVATE
	Type string `json:"type,omitempty"`
}

// JoinGameRequest is the request body for joining a game. Without a token
// the oldest public game with a free seat is joined.
type JoinGameRequest struct {
	Token string `json:"token,omitempty"`
}

// ChooseTeammateRequest is the request body for choosing a teammate
type ChooseTeammateRequest struct {
	PlayerID string `json:"playerId"`
}

// AddBotRequest is the request body for adding a bot to a game
type AddBotRequest struct {
	Strategy string `json:"strategy,omitempty"`
}

// PlayTileRequest is the request body for playing a tile
type PlayTileRequest struct {
	Tile      string `json:"tile"`
	Placement string `json:"placement,omitempty"`
}

// PassRequest is the request body for passing
type PassRequest struct {
	NextPlayerID string `json:"nextPlayerId,omitempty"`
}
