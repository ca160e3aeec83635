package game

// TurnRecord is one finished turn in a player's history.
type TurnRecord struct {
	Round    int    `json:"round" yaml:"round"`
	Score    int    `json:"score" yaml:"score"`
	Category string `json:"category" yaml:"category"`
	// Total is the player's cumulative score after this turn.
	Total int   `json:"total" yaml:"total"`
	Dice  []int `json:"dice" yaml:"dice"`
	Rolls int   `json:"rolls" yaml:"rolls"`
}

// SumScores adds up the score of every record.
func SumScores(history []TurnRecord) int {
	sum := 0
	for _, r := range history {
		sum += r.Score
	}
	return sum
}
