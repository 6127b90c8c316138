package game

import (
	"fmt"
	"sync"
	"time"
)

const (
	// RouletteStraightPayout is the multiplier credited for a direct hit
	// on the winning number. The stake is not returned separately; the
	// ledger credit is exactly wager x 35.
	RouletteStraightPayout = 35

	rouletteSpinDuration = 4 * time.Second
	rouletteSettle       = 500 * time.Millisecond
	rouletteFrameStep    = 50 * time.Millisecond
	rouletteMinRotations = 5
	rouletteRotationSpan = 3
)

// ChipValues are the selectable bet amounts on the bet slip.
var ChipValues = []int{5, 10, 25, 50}

// BetTarget is a bet-slip bucket: a pocket number 0-36, or one of the
// aggregate buckets. Aggregate buckets accept wagers but are never
// evaluated against the drawn number.
type BetTarget int

const (
	TargetRed     BetTarget = -1
	TargetBlack   BetTarget = -2
	TargetEvenOdd BetTarget = -3
)

// Valid reports whether t is a pocket number or an aggregate bucket.
func (t BetTarget) Valid() bool {
	return (t >= 0 && t <= 36) || t == TargetRed || t == TargetBlack || t == TargetEvenOdd
}

// RouletteBetRequest places the currently selected chip on a target.
type RouletteBetRequest struct {
	Target BetTarget `json:"target"`
}

// RouletteChipRequest selects a chip value.
type RouletteChipRequest struct {
	Value int `json:"value"`
}

// RouletteResponse reports whether a bet-slip action was accepted. For
// an accepted spin, SpinStarted tells the session to close the bet-slip
// overlay so the wheel animation is visible.
type RouletteResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message,omitempty"`
	TotalBet    int    `json:"total_bet"`
	Balance     int    `json:"balance"`
	SpinStarted bool   `json:"spin_started,omitempty"`
}

// RouletteEngine collects bets from the bet-slip overlay and sequences
// the wheel spin. Unlike the other engines it lives for the whole
// session: the spin's payout timer deliberately outlives the overlay,
// which closes the moment the wheel starts so the animation is visible.
type RouletteEngine struct {
	mu           sync.Mutex
	wallet       Wallet
	emit         Emitter
	rand         Source
	bets         map[BetTarget]int
	selectedChip int
	spinning     bool
	anim         *animation
	settle       *animation
}

// NewRoulette builds the session's roulette engine with the smallest
// chip preselected and an empty bet slip.
func NewRoulette(deps Deps) Engine {
	return &RouletteEngine{
		wallet:       deps.Wallet,
		emit:         deps.Emit,
		rand:         deps.Rand,
		bets:         make(map[BetTarget]int),
		selectedChip: ChipValues[0],
	}
}

func (e *RouletteEngine) Kind() Kind { return KindRoulette }

func (e *RouletteEngine) Controls() ControlSurface {
	e.mu.Lock()
	defer e.mu.Unlock()
	return RouletteControls{
		Spinning:     e.spinning,
		ChipValues:   ChipValues,
		SelectedChip: e.selectedChip,
		TotalBet:     e.totalBetLocked(),
	}
}

func (e *RouletteEngine) ProcessAction(action string, req any) (any, error) {
	switch action {
	case ActionPlaceBet:
		r, ok := req.(RouletteBetRequest)
		if !ok {
			return nil, fmt.Errorf("roulette: place_bet wants RouletteBetRequest, got %T", req)
		}
		return e.placeBet(r.Target), nil
	case ActionSetChip:
		r, ok := req.(RouletteChipRequest)
		if !ok {
			return nil, fmt.Errorf("roulette: set_chip wants RouletteChipRequest, got %T", req)
		}
		return e.setChip(r.Value), nil
	case ActionClearBets:
		return e.clearBets(), nil
	case ActionSpinWheel:
		return e.spin(), nil
	default:
		return nil, fmt.Errorf("roulette: unknown action %q", action)
	}
}

// placeBet debits the selected chip and stacks it onto the target.
// Repeated bets on the same target accumulate.
func (e *RouletteEngine) placeBet(target BetTarget) RouletteResponse {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !target.Valid() {
		return e.rejectLocked("unknown bet target")
	}
	if e.spinning {
		return e.rejectLocked("wheel is spinning")
	}
	if !e.wallet.HasEnoughCoins(e.selectedChip) {
		return e.rejectLocked("insufficient coins")
	}

	e.wallet.RemoveCoins(e.selectedChip)
	e.bets[target] += e.selectedChip

	e.emit(Message{Type: "roulette_bet_placed", Data: map[string]any{
		"target":    target,
		"amount":    e.bets[target],
		"total_bet": e.totalBetLocked(),
	}})
	return e.acceptLocked()
}

func (e *RouletteEngine) setChip(value int) RouletteResponse {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, v := range ChipValues {
		if v == value {
			e.selectedChip = value
			return e.acceptLocked()
		}
	}
	return e.rejectLocked("chip must be 5, 10, 25 or 50")
}

// clearBets zeroes the bet slip. Stakes already debited are not
// refunded, matching the observed Clear Bets behavior.
func (e *RouletteEngine) clearBets() RouletteResponse {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.spinning {
		return e.rejectLocked("wheel is spinning")
	}
	e.bets = make(map[BetTarget]int)
	return e.acceptLocked()
}

// spin draws the winning number, starts the wheel animation and
// schedules the payout for when the ball settles. A spin with an empty
// slip, or while a previous spin's timer is still pending, is a no-op.
func (e *RouletteEngine) spin() RouletteResponse {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.spinning {
		return e.rejectLocked("spin already in flight")
	}
	if len(e.bets) == 0 {
		return e.rejectLocked("no bets placed")
	}

	winning := WheelOrder[e.rand.DrawInt(len(WheelOrder))]
	rotations := rouletteMinRotations + e.rand.DrawFloat()*rouletteRotationSpan
	e.spinning = true

	e.emit(Message{Type: "roulette_spin", Data: map[string]any{
		"winning":     winning,
		"rotations":   rotations,
		"duration_ms": rouletteSpinDuration.Milliseconds(),
	}})

	e.anim = startAnimation(rouletteSpinDuration, rouletteFrameStep,
		func(p float64) {
			e.emit(Message{Type: "roulette_frame", Data: PoseAt(rotations, winning, p)})
		},
		func() { e.scheduleSettle(winning) },
	)

	resp := e.acceptLocked()
	resp.SpinStarted = true
	return resp
}

func (e *RouletteEngine) scheduleSettle(winning int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.spinning {
		return
	}
	e.settle = startTimer(rouletteSettle, func() { e.resolve(winning) })
}

// resolve credits a direct bet on the winning number at 35x and clears
// the slip. Aggregate buckets are never evaluated.
func (e *RouletteEngine) resolve(winning int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.spinning {
		return
	}

	payout := 0
	if stake, ok := e.bets[BetTarget(winning)]; ok {
		payout = stake * RouletteStraightPayout
		e.wallet.AddCoins(payout)
	}
	e.bets = make(map[BetTarget]int)
	e.spinning = false

	e.emit(Message{Type: "roulette_result", Data: map[string]any{
		"winning": winning,
		"color":   PocketColor(winning),
		"payout":  payout,
		"balance": e.wallet.Balance(),
	}})
}

// Close cancels the wheel animation and any pending payout timer. Bets
// already staked are discarded with the session.
func (e *RouletteEngine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.anim != nil {
		e.anim.cancel()
	}
	if e.settle != nil {
		e.settle.cancel()
	}
	e.spinning = false
}

func (e *RouletteEngine) totalBetLocked() int {
	total := 0
	for _, amount := range e.bets {
		total += amount
	}
	return total
}

func (e *RouletteEngine) acceptLocked() RouletteResponse {
	return RouletteResponse{
		Success:  true,
		TotalBet: e.totalBetLocked(),
		Balance:  e.wallet.Balance(),
	}
}

func (e *RouletteEngine) rejectLocked(msg string) RouletteResponse {
	return RouletteResponse{
		Message:  msg,
		TotalBet: e.totalBetLocked(),
		Balance:  e.wallet.Balance(),
	}
}
