package game

import (
	"fmt"
	"sync"
	"time"
)

const (
	// SlotWager is debited per spin.
	SlotWager = 5
	// SlotWinPayout is the flat credit for any winning grid, regardless
	// of wager.
	SlotWinPayout = 10

	slotSpinDuration = 2000 * time.Millisecond
	slotCycleStep    = 100 * time.Millisecond
)

// Symbol is one of the five reel symbols.
type Symbol string

var slotSymbols = [5]Symbol{"CHERRY", "LEMON", "GRAPE", "ORANGE", "WATERMELON"}

// Grid is the 3x3 symbol layout shown on the machine.
type Grid [3][3]Symbol

func starterGrid() Grid {
	return Grid{
		{"CHERRY", "LEMON", "GRAPE"},
		{"ORANGE", "WATERMELON", "CHERRY"},
		{"LEMON", "GRAPE", "WATERMELON"},
	}
}

// SlotSpinResponse reports whether a spin was accepted.
type SlotSpinResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Balance int    `json:"balance"`
}

// SlotEngine is the slot machine state machine:
// Ready -> Spinning -> Finished -> (Ready on next spin).
// The outcome grid is drawn when the cycling animation ends; the flat
// payout is credited at the same moment Finished is entered.
type SlotEngine struct {
	mu      sync.Mutex
	wallet  Wallet
	emit    Emitter
	rand    Source
	phase   Phase
	grid    Grid
	outcome *Outcome
	spin    *animation
	closed  bool
}

// NewSlot builds a fresh slot machine session.
func NewSlot(deps Deps) Engine {
	return &SlotEngine{
		wallet: deps.Wallet,
		emit:   deps.Emit,
		rand:   deps.Rand,
		phase:  PhaseReady,
		grid:   starterGrid(),
	}
}

func (e *SlotEngine) Kind() Kind { return KindSlot }

func (e *SlotEngine) Controls() ControlSurface {
	e.mu.Lock()
	defer e.mu.Unlock()
	return SlotControls{Spinning: e.phase == PhaseSpinning}
}

func (e *SlotEngine) ProcessAction(action string, _ any) (any, error) {
	switch action {
	case ActionSpin:
		return e.startSpin(), nil
	default:
		return nil, fmt.Errorf("slot: unknown action %q", action)
	}
}

func (e *SlotEngine) startSpin() SlotSpinResponse {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return SlotSpinResponse{Message: "machine closed", Balance: e.wallet.Balance()}
	}
	if e.phase == PhaseSpinning {
		return SlotSpinResponse{Message: "spin already in flight", Balance: e.wallet.Balance()}
	}
	if !e.wallet.HasEnoughCoins(SlotWager) {
		return SlotSpinResponse{Message: "insufficient coins", Balance: e.wallet.Balance()}
	}

	e.wallet.RemoveCoins(SlotWager)
	e.phase = PhaseSpinning
	e.outcome = nil
	e.spin = startAnimation(slotSpinDuration, slotCycleStep, e.cycleFrame, e.resolve)

	e.emit(Message{Type: "slot_spinning", Data: SlotControls{Spinning: true}})
	return SlotSpinResponse{Success: true, Balance: e.wallet.Balance()}
}

// cycleFrame shows a fresh random grid every step while the reels spin.
// The preview grids are decorative; only the grid drawn in resolve
// counts.
func (e *SlotEngine) cycleFrame(_ float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.phase != PhaseSpinning {
		return
	}
	e.grid = e.randomGrid()
	e.emit(Message{Type: "slot_preview", Data: map[string]any{"grid": e.grid}})
}

func (e *SlotEngine) resolve() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.phase != PhaseSpinning {
		return
	}

	e.grid = e.randomGrid()
	result := ClassifyGrid(e.grid)

	payout := 0
	if result == ResultWin {
		payout = SlotWinPayout
		e.wallet.AddCoins(payout)
	}
	e.outcome = &Outcome{Result: result, Payout: payout}
	e.phase = PhaseFinished

	e.emit(Message{Type: "slot_result", Data: map[string]any{
		"grid":    e.grid,
		"result":  result,
		"payout":  payout,
		"balance": e.wallet.Balance(),
	}})
}

func (e *SlotEngine) randomGrid() Grid {
	var g Grid
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			g[row][col] = slotSymbols[e.rand.DrawInt(len(slotSymbols))]
		}
	}
	return g
}

// Close abandons an in-flight spin. The wager is not refunded and no
// payout will fire: resolve checks the closed flag, so a stale tick
// that slips past the animation's cancel still credits nothing.
func (e *SlotEngine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	if e.spin != nil {
		e.spin.cancel()
	}
}

// ClassifyGrid reports WIN when any full row, full column or either
// diagonal carries three identical symbols.
func ClassifyGrid(g Grid) Result {
	for row := 0; row < 3; row++ {
		if g[row][0] == g[row][1] && g[row][1] == g[row][2] {
			return ResultWin
		}
	}
	for col := 0; col < 3; col++ {
		if g[0][col] == g[1][col] && g[1][col] == g[2][col] {
			return ResultWin
		}
	}
	if g[0][0] == g[1][1] && g[1][1] == g[2][2] {
		return ResultWin
	}
	if g[0][2] == g[1][1] && g[1][1] == g[2][0] {
		return ResultWin
	}
	return ResultLose
}
