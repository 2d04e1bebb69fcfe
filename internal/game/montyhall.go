package game

import (
	"math"
	"time"

	"montyhall/internal/domain"
)

// DoorCount is fixed: the reveal loop relies on exactly one door besides
// the selected and winning ones being available.
const DoorCount = 3

// noDoor marks an unset door index.
const noDoor = -1

// maxRevealDraws bounds the goat-door resampling loop.
const maxRevealDraws = 32

const (
	ResultWon  = "You won the car! 🎉"
	ResultLost = "You got a goat. 🐐 Better luck next time!"
)

// Content is what the view may show behind a door.
type Content string

const (
	ContentEmpty Content = "empty"
	ContentGoat  Content = "goat"
	ContentCar   Content = "car"
)

// Phase is the stage of the current round.
type Phase string

const (
	PhaseStart  Phase = "start"
	PhaseReveal Phase = "reveal"
	PhaseEnd    Phase = "end"
)

// Statistics accumulates per-strategy results for the lifetime of an Engine.
type Statistics struct {
	SwitchedAttempts int64 `json:"switched_attempts"`
	SwitchedWins     int64 `json:"switched_wins"`
	StayedAttempts   int64 `json:"stayed_attempts"`
	StayedWins       int64 `json:"stayed_wins"`
}

// SwitchWinRate returns the switch win percentage, 0 with no attempts.
func (s Statistics) SwitchWinRate() float64 {
	return percent(s.SwitchedWins, s.SwitchedAttempts)
}

// StayWinRate returns the stay win percentage, 0 with no attempts.
func (s Statistics) StayWinRate() float64 {
	return percent(s.StayedWins, s.StayedAttempts)
}

// Total returns the number of completed rounds.
func (s Statistics) Total() int64 {
	return s.SwitchedAttempts + s.StayedAttempts
}

// Sub returns the counters accumulated since prev.
func (s Statistics) Sub(prev Statistics) Statistics {
	return Statistics{
		SwitchedAttempts: s.SwitchedAttempts - prev.SwitchedAttempts,
		SwitchedWins:     s.SwitchedWins - prev.SwitchedWins,
		StayedAttempts:   s.StayedAttempts - prev.StayedAttempts,
		StayedWins:       s.StayedWins - prev.StayedWins,
	}
}

func percent(wins, attempts int64) float64 {
	if attempts == 0 {
		return 0
	}
	// Round to 2 decimal places
	return math.Round(float64(wins)/float64(attempts)*10000) / 100
}

// StatsView is the serialized form of Statistics.
type StatsView struct {
	Statistics
	SwitchWinRate float64 `json:"switch_win_rate"`
	StayWinRate   float64 `json:"stay_win_rate"`
}

// Snapshot is a copy of the engine state taken after an operation.
// FinalDoor, WinningDoor, Switched and Won are only set in PhaseEnd.
type Snapshot struct {
	Doors        [DoorCount]Content `json:"doors"`
	SelectedDoor *int               `json:"selected_door"`
	RevealedDoor *int               `json:"revealed_door"`
	FinalDoor    *int               `json:"final_door,omitempty"`
	WinningDoor  *int               `json:"winning_door,omitempty"`
	Phase        Phase              `json:"phase"`
	Result       string             `json:"result"`
	Switched     *bool              `json:"switched,omitempty"`
	Won          *bool              `json:"won,omitempty"`
	Stats        StatsView          `json:"stats"`
}

// Selectable reports whether door i can be picked in this state.
func (s Snapshot) Selectable(i int) bool {
	return s.Phase == PhaseStart && i >= 0 && i < DoorCount
}

// Engine is the Monty Hall round state machine:
//
//	start --SelectDoor--> reveal --ChooseSwitch|ChooseStay--> end --Reset--> start
//
// Operations outside their phase are ignored. An Engine is not safe for
// concurrent use; callers serialize access.
type Engine struct {
	src RandomSource

	doors    [DoorCount]Content
	winning  int
	selected int
	revealed int
	final    int
	switched bool
	won      bool
	phase    Phase
	result   string
	stats    Statistics

	observers map[int]func(Snapshot)
	nextObs   int
	onRound   func(domain.RoundRecord)
}

// Option configures an Engine.
type Option func(*Engine)

// WithSource replaces the default crypto/rand source.
func WithSource(src RandomSource) Option {
	return func(e *Engine) {
		if src != nil {
			e.src = src
		}
	}
}

// WithObserver registers fn before the first round is drawn.
func WithObserver(fn func(Snapshot)) Option {
	return func(e *Engine) {
		e.Subscribe(fn)
	}
}

// WithRoundHook registers fn to receive every completed round.
func WithRoundHook(fn func(domain.RoundRecord)) Option {
	return func(e *Engine) {
		e.onRound = fn
	}
}

// New creates an engine with a freshly drawn round.
func New(opts ...Option) *Engine {
	e := &Engine{
		src:       CryptoSource{},
		observers: make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.Reset()
	return e
}

// Subscribe registers fn to be called with a snapshot after every operation.
// The returned func removes it.
func (e *Engine) Subscribe(fn func(Snapshot)) func() {
	if fn == nil {
		return func() {}
	}
	id := e.nextObs
	e.nextObs++
	e.observers[id] = fn
	return func() { delete(e.observers, id) }
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase {
	return e.phase
}

// Stats returns the accumulated statistics.
func (e *Engine) Stats() Statistics {
	return e.stats
}

// Reset starts a new round. Statistics are kept.
func (e *Engine) Reset() {
	e.winning = e.src.Intn(DoorCount)
	e.doors = [DoorCount]Content{ContentEmpty, ContentEmpty, ContentEmpty}
	e.selected = noDoor
	e.revealed = noDoor
	e.final = noDoor
	e.switched = false
	e.won = false
	e.phase = PhaseStart
	e.result = ""
	e.notify()
}

// SelectDoor picks door i and reveals a goat behind one of the others.
func (e *Engine) SelectDoor(i int) {
	if e.phase != PhaseStart || i < 0 || i >= DoorCount {
		return
	}
	e.selected = i
	e.revealed = e.pickGoatDoor()
	e.doors[e.revealed] = ContentGoat
	e.phase = PhaseReveal
	e.notify()
}

// pickGoatDoor draws until it hits a door that is neither selected nor
// winning. With three doors at least one such door always exists.
func (e *Engine) pickGoatDoor() int {
	for range maxRevealDraws {
		d := e.src.Intn(DoorCount)
		if d != e.selected && d != e.winning {
			return d
		}
	}
	for d := range DoorCount {
		if d != e.selected && d != e.winning {
			return d
		}
	}
	panic("game: no goat door available")
}

// ChooseSwitch resolves the round with the remaining closed door.
func (e *Engine) ChooseSwitch() {
	if e.phase != PhaseReveal {
		return
	}
	e.resolveRound(e.remainingDoor(), true)
}

// ChooseStay resolves the round with the originally selected door.
func (e *Engine) ChooseStay() {
	if e.phase != PhaseReveal {
		return
	}
	e.resolveRound(e.selected, false)
}

func (e *Engine) remainingDoor() int {
	for d := range DoorCount {
		if d != e.selected && d != e.revealed {
			return d
		}
	}
	return noDoor
}

func (e *Engine) resolveRound(final int, switched bool) {
	e.doors[e.winning] = ContentCar
	e.final = final
	e.switched = switched
	e.won = final == e.winning

	if switched {
		e.stats.SwitchedAttempts++
		if e.won {
			e.stats.SwitchedWins++
		}
	} else {
		e.stats.StayedAttempts++
		if e.won {
			e.stats.StayedWins++
		}
	}

	if e.won {
		e.result = ResultWon
	} else {
		e.result = ResultLost
	}
	e.phase = PhaseEnd

	if e.onRound != nil {
		e.onRound(e.record())
	}
	e.notify()
}

func (e *Engine) record() domain.RoundRecord {
	r := domain.RoundRecord{
		GameType:     domain.GameTypeMontyHall,
		Strategy:     domain.StrategyStay,
		Result:       domain.GameResultLose,
		SelectedDoor: e.selected,
		RevealedDoor: e.revealed,
		FinalDoor:    e.final,
		WinningDoor:  e.winning,
		FinishedAt:   time.Now(),
	}
	if e.switched {
		r.Strategy = domain.StrategySwitch
	}
	if e.won {
		r.Result = domain.GameResultWin
	}
	return r
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Doors:        e.doors,
		SelectedDoor: doorPtr(e.selected),
		RevealedDoor: doorPtr(e.revealed),
		Phase:        e.phase,
		Result:       e.result,
		Stats: StatsView{
			Statistics:    e.stats,
			SwitchWinRate: e.stats.SwitchWinRate(),
			StayWinRate:   e.stats.StayWinRate(),
		},
	}
	if e.phase == PhaseEnd {
		s.FinalDoor = doorPtr(e.final)
		s.WinningDoor = doorPtr(e.winning)
		switched, won := e.switched, e.won
		s.Switched = &switched
		s.Won = &won
	}
	return s
}

func (e *Engine) notify() {
	if len(e.observers) == 0 {
		return
	}
	s := e.Snapshot()
	for _, fn := range e.observers {
		fn(s)
	}
}

func doorPtr(d int) *int {
	if d == noDoor {
		return nil
	}
	return &d
}
