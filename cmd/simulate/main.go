package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"montyhall/internal/domain"
	"montyhall/internal/game"
	"montyhall/internal/logger"
)

func main() {
	rounds := flag.Int("rounds", 10000, "rounds to play per strategy")
	strategy := flag.String("strategy", "both", "switch|stay|random|both")
	seed := flag.Uint64("seed", 0, "random seed (0 = time based)")
	flag.Parse()

	logger.Init(os.Getenv("LOG_LEVEL"), false)

	if *rounds <= 0 {
		logger.Fatal("rounds must be positive", "rounds", *rounds)
	}

	var strategies []domain.Strategy
	if *strategy == "both" {
		strategies = []domain.Strategy{domain.StrategySwitch, domain.StrategyStay}
	} else {
		s, ok := domain.ParseStrategy(*strategy)
		if !ok {
			fmt.Fprintf(os.Stderr, "unknown strategy %q\n", *strategy)
			flag.Usage()
			os.Exit(2)
		}
		strategies = []domain.Strategy{s}
	}

	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}
	logger.Debug("simulation started", "rounds", *rounds, "strategy", *strategy, "seed", *seed)

	fmt.Printf("Monty Hall simulation: %d rounds, seed %d\n\n", *rounds, *seed)
	fmt.Printf("%-8s %10s %10s %10s %10s\n", "STRATEGY", "ROUNDS", "WINS", "WIN %", "EXPECTED")

	for i, s := range strategies {
		src := game.NewSeededSource(*seed + uint64(i))
		e := game.New(game.WithSource(src))
		stats := game.Simulate(e, src, s, *rounds)

		wins := stats.SwitchedWins + stats.StayedWins
		rate := 0.0
		if total := stats.Total(); total > 0 {
			rate = float64(wins) / float64(total) * 100
		}
		fmt.Printf("%-8s %10d %10d %9.2f%% %9.2f%%\n",
			s, stats.Total(), wins, rate, game.TheoreticalWinRate(s)*100)
	}
}
