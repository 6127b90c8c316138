package game

import (
	"fmt"
	"math"
	"sync"
	"time"
)

// Coin-flip wagers are one of exactly two values.
const (
	CoinFlipBetLow  = 10
	CoinFlipBetHigh = 20

	coinHalfTurn    = 150 * time.Millisecond
	coinSettle      = 500 * time.Millisecond
	coinFrameStep   = 50 * time.Millisecond
	coinMinFlips    = 5
	coinExtraFlips  = 3 // flips drawn from [coinMinFlips, coinMinFlips+coinExtraFlips)
	coinRestHeight  = 0.3
	coinPeakHeight  = 1.3
)

// CoinSide is a coin face.
type CoinSide string

const (
	Heads CoinSide = "HEADS"
	Tails CoinSide = "TAILS"
)

// CoinFlipResponse reports whether a choice, bet selection or flip was
// accepted.
type CoinFlipResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Choice  string `json:"choice,omitempty"`
	Bet     int    `json:"bet,omitempty"`
	Balance int    `json:"balance"`
}

// CoinChoiceRequest selects heads or tails.
type CoinChoiceRequest struct {
	Side CoinSide `json:"side"`
}

// CoinBetRequest selects one of the two wager amounts.
type CoinBetRequest struct {
	Amount int `json:"amount"`
}

// CoinFlipEngine runs the coin-flip state machine: choice and bet are
// selectable in any order with no debit; the wager is debited and the
// outcome drawn at flip start; the payout lands only when the reveal
// animation finishes. Choice and bet persist across rounds.
type CoinFlipEngine struct {
	mu      sync.Mutex
	wallet  Wallet
	emit    Emitter
	rand    Source
	phase   Phase
	choice  CoinSide
	bet     int
	drawn   CoinSide
	outcome *Outcome
	flip    *animation
	closed  bool
}

// NewCoinFlip builds a fresh coin-flip session with the low wager
// preselected and no choice made.
func NewCoinFlip(deps Deps) Engine {
	return &CoinFlipEngine{
		wallet: deps.Wallet,
		emit:   deps.Emit,
		rand:   deps.Rand,
		phase:  PhaseReady,
		bet:    CoinFlipBetLow,
	}
}

func (e *CoinFlipEngine) Kind() Kind { return KindCoinFlip }

func (e *CoinFlipEngine) Controls() ControlSurface {
	e.mu.Lock()
	defer e.mu.Unlock()
	return CoinFlipControls{
		Flipping: e.phase == PhaseFlipping,
		Choice:   string(e.choice),
		Bet:      e.bet,
	}
}

func (e *CoinFlipEngine) ProcessAction(action string, req any) (any, error) {
	switch action {
	case ActionChoose:
		r, ok := req.(CoinChoiceRequest)
		if !ok {
			return nil, fmt.Errorf("coinflip: choose wants CoinChoiceRequest, got %T", req)
		}
		return e.choose(r.Side), nil
	case ActionSetBet:
		r, ok := req.(CoinBetRequest)
		if !ok {
			return nil, fmt.Errorf("coinflip: set_bet wants CoinBetRequest, got %T", req)
		}
		return e.setBet(r.Amount), nil
	case ActionFlip:
		return e.startFlip(), nil
	default:
		return nil, fmt.Errorf("coinflip: unknown action %q", action)
	}
}

func (e *CoinFlipEngine) choose(side CoinSide) CoinFlipResponse {
	e.mu.Lock()
	defer e.mu.Unlock()

	if side != Heads && side != Tails {
		return e.rejectLocked("unknown side")
	}
	if e.phase == PhaseFlipping {
		return e.rejectLocked("flip in flight")
	}
	e.choice = side
	return e.acceptLocked()
}

func (e *CoinFlipEngine) setBet(amount int) CoinFlipResponse {
	e.mu.Lock()
	defer e.mu.Unlock()

	if amount != CoinFlipBetLow && amount != CoinFlipBetHigh {
		return e.rejectLocked("bet must be 10 or 20")
	}
	if e.phase == PhaseFlipping {
		return e.rejectLocked("flip in flight")
	}
	e.bet = amount
	return e.acceptLocked()
}

func (e *CoinFlipEngine) startFlip() CoinFlipResponse {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return e.rejectLocked("game closed")
	}
	if e.phase == PhaseFlipping {
		return e.rejectLocked("flip in flight")
	}
	if e.choice == "" {
		return e.rejectLocked("choose heads or tails first")
	}
	if !e.wallet.HasEnoughCoins(e.bet) {
		return e.rejectLocked("insufficient coins")
	}

	e.wallet.RemoveCoins(e.bet)
	e.phase = PhaseFlipping
	e.outcome = nil

	// Outcome is drawn now; the animation only delays the reveal.
	if e.rand.DrawInt(2) == 0 {
		e.drawn = Heads
	} else {
		e.drawn = Tails
	}

	flips := coinMinFlips + e.rand.DrawInt(coinExtraFlips)
	duration := time.Duration(flips)*coinHalfTurn + coinSettle

	e.emit(Message{Type: "coin_flipping", Data: map[string]any{
		"flips":       flips,
		"duration_ms": duration.Milliseconds(),
	}})

	drawn := e.drawn
	e.flip = startAnimation(duration, coinFrameStep,
		func(p float64) { e.frame(flips, drawn, p) },
		e.resolve,
	)

	return e.acceptLocked()
}

// frame emits the coin pose for the render layer: accumulated half
// rotations plus the parabolic arc, settling onto the drawn face.
func (e *CoinFlipEngine) frame(flips int, drawn CoinSide, p float64) {
	rotation, height := CoinPose(flips, drawn, p)
	e.emit(Message{Type: "coin_frame", Data: map[string]any{
		"rotation": rotation,
		"height":   height,
	}})
}

func (e *CoinFlipEngine) resolve() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.phase != PhaseFlipping {
		return
	}

	result := ResultLose
	payout := 0
	if e.drawn == e.choice {
		result = ResultWin
		payout = e.bet * 2
		e.wallet.AddCoins(payout)
	}
	e.outcome = &Outcome{Result: result, Payout: payout}
	e.phase = PhaseFinished

	e.emit(Message{Type: "coin_result", Data: map[string]any{
		"side":    e.drawn,
		"result":  result,
		"payout":  payout,
		"balance": e.wallet.Balance(),
	}})
}

// Close abandons an in-flight flip. The wager is not refunded and no
// payout will fire: resolve checks the closed flag, so a stale tick
// that slips past the animation's cancel still credits nothing.
func (e *CoinFlipEngine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	if e.flip != nil {
		e.flip.cancel()
	}
}

func (e *CoinFlipEngine) acceptLocked() CoinFlipResponse {
	return CoinFlipResponse{
		Success: true,
		Choice:  string(e.choice),
		Bet:     e.bet,
		Balance: e.wallet.Balance(),
	}
}

func (e *CoinFlipEngine) rejectLocked(msg string) CoinFlipResponse {
	return CoinFlipResponse{
		Message: msg,
		Choice:  string(e.choice),
		Bet:     e.bet,
		Balance: e.wallet.Balance(),
	}
}

// CoinPose returns the coin's rotation (radians) and height at
// normalized progress p of a flip with the given half-turn count. The
// rotation runs through flips half-turns, then the settle window
// tweens onto the drawn face; the height follows a parabolic arc back
// to rest.
func CoinPose(flips int, drawn CoinSide, p float64) (rotation, height float64) {
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}

	final := 0.0
	if drawn == Tails {
		final = math.Pi
	}

	// The resting rotation must put the drawn face up regardless of the
	// half-turn count: the nearest even multiple of pi at or above the
	// turns, plus the face offset.
	turns := flips
	if turns%2 != 0 {
		turns++
	}
	rest := float64(turns)*math.Pi + final

	// The settle window at the tail of the animation tweens onto the
	// resting rotation instead of adding more turns.
	turnPortion := 1 - float64(coinSettle)/(float64(flips)*float64(coinHalfTurn)+float64(coinSettle))
	if p >= turnPortion {
		settleP := (p - turnPortion) / (1 - turnPortion)
		spun := float64(flips) * math.Pi
		rotation = spun + (rest-spun)*settleP
	} else {
		rotation = float64(flips) * math.Pi * (p / turnPortion)
	}

	height = coinRestHeight + (coinPeakHeight-coinRestHeight)*4*p*(1-p)
	return rotation, height
}
