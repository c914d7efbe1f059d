package model

// Bot strategy constants
const (
	BotStrategyFirst  = "first"  // heaviest legal tile
	BotStrategyRandom = "random" // any legal tile
)

// BotStrategyDisplayName returns a human-readable label for a strategy
func BotStrategyDisplayName(strategy string) string {
	switch strategy {
	case BotStrategyFirst:
		return "Heavy Hitter"
	case BotStrategyRandom:
		return "Random"
	default:
		return strategy
	}
}

// ValidBotStrategies returns all valid bot strategy names
func ValidBotStrategies() []string {
	return []string{BotStrategyFirst, BotStrategyRandom}
}
