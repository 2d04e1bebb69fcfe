package game

import (
	"math"
	"testing"

	"montyhall/internal/domain"
)

func TestSimulateConvergence(t *testing.T) {
	const rounds = 10000
	const tolerance = 0.03

	cases := []struct {
		strategy domain.Strategy
		seed     uint64
	}{
		{domain.StrategySwitch, 11},
		{domain.StrategyStay, 12},
	}

	for _, tc := range cases {
		e := New(WithSource(NewSeededSource(tc.seed)))
		stats := Simulate(e, NewSeededSource(tc.seed+100), tc.strategy, rounds)

		var wins, attempts int64
		switch tc.strategy {
		case domain.StrategySwitch:
			wins, attempts = stats.SwitchedWins, stats.SwitchedAttempts
			if stats.StayedAttempts != 0 {
				t.Fatalf("switch run recorded %d stay attempts", stats.StayedAttempts)
			}
		case domain.StrategyStay:
			wins, attempts = stats.StayedWins, stats.StayedAttempts
			if stats.SwitchedAttempts != 0 {
				t.Fatalf("stay run recorded %d switch attempts", stats.SwitchedAttempts)
			}
		}

		if attempts != rounds {
			t.Fatalf("%s: attempts = %d; want %d", tc.strategy, attempts, rounds)
		}
		rate := float64(wins) / float64(attempts)
		want := TheoreticalWinRate(tc.strategy)
		if math.Abs(rate-want) > tolerance {
			t.Fatalf("%s: win rate %.4f, want %.4f ±%.2f", tc.strategy, rate, want, tolerance)
		}
	}
}

func TestSimulateRandomSplitsStrategies(t *testing.T) {
	e := New(WithSource(NewSeededSource(21)))
	stats := Simulate(e, NewSeededSource(22), domain.StrategyRandom, 2000)

	if stats.Total() != 2000 {
		t.Fatalf("total = %d; want 2000", stats.Total())
	}
	if stats.SwitchedAttempts == 0 || stats.StayedAttempts == 0 {
		t.Fatalf("random strategy never mixed: %+v", stats)
	}
}

func TestSimulateReturnsDeltaOnly(t *testing.T) {
	e := New(WithSource(NewSeededSource(31)))
	Simulate(e, NewSeededSource(32), domain.StrategyStay, 10)

	stats := Simulate(e, NewSeededSource(33), domain.StrategySwitch, 5)
	if stats.Total() != 5 || stats.StayedAttempts != 0 {
		t.Fatalf("delta = %+v; want 5 switch rounds", stats)
	}
	if e.Stats().Total() != 15 {
		t.Fatalf("engine total = %d; want 15", e.Stats().Total())
	}
}

func TestCryptoSourceRange(t *testing.T) {
	var src CryptoSource
	seen := make(map[int]bool)
	for i := 0; i < 300; i++ {
		v := src.Intn(DoorCount)
		if v < 0 || v >= DoorCount {
			t.Fatalf("Intn(%d) = %d", DoorCount, v)
		}
		seen[v] = true
	}
	if len(seen) != DoorCount {
		t.Fatalf("only saw %v in 300 draws", seen)
	}
}
