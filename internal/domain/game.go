package domain

import "time"

// GameType - тип игры
type GameType string

const (
	GameTypeMontyHall GameType = "monty_hall"
)

// GameResult - результат раунда
type GameResult string

const (
	GameResultWin  GameResult = "win"
	GameResultLose GameResult = "lose"
)

// Strategy is the decision taken after the goat door is revealed.
type Strategy string

const (
	StrategySwitch Strategy = "switch"
	StrategyStay   Strategy = "stay"
	// StrategyRandom is only used by the simulator.
	StrategyRandom Strategy = "random"
)

// ParseStrategy accepts the simulator spellings as well.
func ParseStrategy(v string) (Strategy, bool) {
	switch Strategy(v) {
	case StrategySwitch, StrategyStay, StrategyRandom:
		return Strategy(v), true
	}
	return "", false
}

// RoundRecord describes one completed round. It is only emitted, never stored.
type RoundRecord struct {
	SessionID    string     `json:"session_id,omitempty"`
	GameType     GameType   `json:"game_type"`
	Strategy     Strategy   `json:"strategy"`
	Result       GameResult `json:"result"`
	SelectedDoor int        `json:"selected_door"`
	RevealedDoor int        `json:"revealed_door"`
	FinalDoor    int        `json:"final_door"`
	WinningDoor  int        `json:"winning_door"`
	FinishedAt   time.Time  `json:"finished_at"`
}

// Won reports whether the round ended with the car.
func (r RoundRecord) Won() bool {
	return r.Result == GameResultWin
}
