package game

import (
	"fmt"
	"math"
	"sync"
	"time"
)

const (
	// PlinkoWager is debited per drop.
	PlinkoWager = 5
	// PlinkoTrackHalfWidth bounds the ball's horizontal position.
	PlinkoTrackHalfWidth = 1.1
	// PlinkoPayoutRate converts the landing position into coins:
	// payout = floor((finalX + PlinkoTrackHalfWidth) * PlinkoPayoutRate).
	PlinkoPayoutRate = 50

	plinkoTick       = 50 * time.Millisecond
	plinkoJitterSpan = 0.1
	plinkoDropStep   = 0.03
	plinkoStartY     = 1.3
	plinkoFloorY     = -1.1
)

// PlinkoDropResponse reports whether a drop or reset was accepted.
type PlinkoDropResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Balance int    `json:"balance"`
}

// PlinkoEngine runs the ball-drop state machine:
// Ready -> Playing -> Finished. The payout is a deterministic function
// of where the random walk lands, which makes the walk itself the house
// edge.
type PlinkoEngine struct {
	mu      sync.Mutex
	wallet  Wallet
	emit    Emitter
	rand    Source
	phase   Phase
	x, y    float64
	outcome *Outcome
	run     *animation
	closed  bool
}

// NewPlinko builds a fresh plinko session.
func NewPlinko(deps Deps) Engine {
	return &PlinkoEngine{
		wallet: deps.Wallet,
		emit:   deps.Emit,
		rand:   deps.Rand,
		phase:  PhaseReady,
		y:      plinkoStartY,
	}
}

func (e *PlinkoEngine) Kind() Kind { return KindPlinko }

func (e *PlinkoEngine) Controls() ControlSurface {
	e.mu.Lock()
	defer e.mu.Unlock()
	return PlinkoControls{Playing: e.phase == PhasePlaying}
}

func (e *PlinkoEngine) ProcessAction(action string, _ any) (any, error) {
	switch action {
	case ActionDrop:
		return e.drop(), nil
	case ActionReset:
		return e.reset(), nil
	default:
		return nil, fmt.Errorf("plinko: unknown action %q", action)
	}
}

func (e *PlinkoEngine) drop() PlinkoDropResponse {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return PlinkoDropResponse{Message: "game closed", Balance: e.wallet.Balance()}
	}
	if e.phase == PhasePlaying {
		return PlinkoDropResponse{Message: "ball already falling", Balance: e.wallet.Balance()}
	}
	if !e.wallet.HasEnoughCoins(PlinkoWager) {
		return PlinkoDropResponse{Message: "insufficient coins", Balance: e.wallet.Balance()}
	}

	e.wallet.RemoveCoins(PlinkoWager)
	e.phase = PhasePlaying
	e.x, e.y = 0, plinkoStartY
	e.outcome = nil
	e.run = e.startFall()

	return PlinkoDropResponse{Success: true, Balance: e.wallet.Balance()}
}

// reset returns to Ready without refunding the wager or crediting
// anything. Resetting mid-fall abandons the ball.
func (e *PlinkoEngine) reset() PlinkoDropResponse {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.run != nil {
		e.run.cancel()
		e.run = nil
	}
	e.phase = PhaseReady
	e.x, e.y = 0, plinkoStartY
	e.outcome = nil

	return PlinkoDropResponse{Success: true, Balance: e.wallet.Balance()}
}

// startFall ticks the ball on a fixed interval until it crosses the
// floor. The fall has no fixed duration, so it runs its own clock
// instead of a progress animation.
func (e *PlinkoEngine) startFall() *animation {
	a := &animation{stop: make(chan struct{})}

	go func() {
		ticker := time.NewTicker(plinkoTick)
		defer ticker.Stop()
		for {
			select {
			case <-a.stop:
				return
			case <-ticker.C:
				if e.step() {
					return
				}
			}
		}
	}()

	return a
}

// step advances the ball one tick, reporting whether it landed.
func (e *PlinkoEngine) step() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.phase != PhasePlaying {
		return true
	}

	jitter := (e.rand.DrawFloat() - 0.5) * plinkoJitterSpan
	e.x = clampTrack(e.x + jitter)
	e.y -= plinkoDropStep

	if e.y <= plinkoFloorY {
		payout := PlinkoPayout(e.x)
		result := ResultLose
		if payout > 0 {
			e.wallet.AddCoins(payout)
			result = ResultWin
		}
		e.outcome = &Outcome{Result: result, Payout: payout}
		e.phase = PhaseFinished
		e.emit(Message{Type: "plinko_landed", Data: map[string]any{
			"x":       e.x,
			"payout":  payout,
			"balance": e.wallet.Balance(),
		}})
		return true
	}

	e.emit(Message{Type: "plinko_ball", Data: map[string]any{"x": e.x, "y": e.y}})
	return false
}

// Close abandons an in-flight drop without refund. step checks the
// closed flag, so a stale tick that slips past the ticker's cancel
// still credits nothing.
func (e *PlinkoEngine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	if e.run != nil {
		e.run.cancel()
		e.run = nil
	}
}

// PlinkoPayout maps a final horizontal landing position to coins. It
// depends only on where the ball ends up, not on the path taken.
func PlinkoPayout(finalX float64) int {
	return int(math.Floor((clampTrack(finalX) + PlinkoTrackHalfWidth) * PlinkoPayoutRate))
}

func clampTrack(x float64) float64 {
	if x > PlinkoTrackHalfWidth {
		return PlinkoTrackHalfWidth
	}
	if x < -PlinkoTrackHalfWidth {
		return -PlinkoTrackHalfWidth
	}
	return x
}
