package game

import "montyhall/internal/domain"

// Simulate plays rounds complete rounds on e. The first pick of every round
// and the StrategyRandom decision are drawn from pick. It returns the
// statistics accumulated during this run only.
func Simulate(e *Engine, pick RandomSource, strategy domain.Strategy, rounds int) Statistics {
	before := e.Stats()
	for range rounds {
		e.Reset()
		e.SelectDoor(pick.Intn(DoorCount))

		s := strategy
		if s == domain.StrategyRandom {
			s = domain.StrategyStay
			if pick.Intn(2) == 1 {
				s = domain.StrategySwitch
			}
		}
		if s == domain.StrategySwitch {
			e.ChooseSwitch()
		} else {
			e.ChooseStay()
		}
	}
	return e.Stats().Sub(before)
}

// TheoreticalWinRate returns the expected win probability of a strategy.
func TheoreticalWinRate(s domain.Strategy) float64 {
	switch s {
	case domain.StrategySwitch:
		return 2.0 / 3.0
	case domain.StrategyStay:
		return 1.0 / 3.0
	case domain.StrategyRandom:
		return 0.5
	}
	return 0
}
