package game

// Kind identifies one of the four mini-games.
type Kind string

const (
	KindSlot     Kind = "slot"
	KindPlinko   Kind = "plinko"
	KindCoinFlip Kind = "coinflip"
	KindRoulette Kind = "roulette"
)

// Phase is a mini-game's state-machine phase.
type Phase string

const (
	PhaseReady    Phase = "ready"
	PhaseSpinning Phase = "spinning"
	PhasePlaying  Phase = "playing"
	PhaseFlipping Phase = "flipping"
	PhaseFinished Phase = "finished"
)

// Result is a round's win/lose classification.
type Result string

const (
	ResultWin  Result = "WIN"
	ResultLose Result = "LOSE"
)

// Outcome is set exactly once per round, at the moment the reveal
// animation completes. Payout is what the ledger was credited, zero on
// a loss.
type Outcome struct {
	Result Result `json:"result"`
	Payout int    `json:"payout"`
}

// Message is the typed envelope the core emits to the render layer and
// receives back from it.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Emitter delivers a message to the render collaborator. The core never
// assumes the render layer has finished drawing anything.
type Emitter func(msg Message)

// Wallet is the currency ledger surface the engines mutate. All
// mutation is check-then-act: engines verify HasEnoughCoins before
// RemoveCoins, never relying on the clamp.
type Wallet interface {
	AddCoins(amount int)
	RemoveCoins(amount int)
	HasEnoughCoins(amount int) bool
	Balance() int
}

// ControlSurface describes which controls the HUD layer should render
// for the open mini-game, one typed variant per game.
type ControlSurface interface {
	Game() Kind
}

// SlotControls exposes a single spin button.
type SlotControls struct {
	Spinning bool `json:"spinning"`
}

func (SlotControls) Game() Kind { return KindSlot }

// PlinkoControls exposes drop and reset buttons.
type PlinkoControls struct {
	Playing bool `json:"playing"`
}

func (PlinkoControls) Game() Kind { return KindPlinko }

// CoinFlipControls exposes heads/tails choice, the two wager buttons and
// a flip button, along with the currently selected choice and bet.
type CoinFlipControls struct {
	Flipping bool   `json:"flipping"`
	Choice   string `json:"choice,omitempty"`
	Bet      int    `json:"bet"`
}

func (CoinFlipControls) Game() Kind { return KindCoinFlip }

// RouletteControls exposes the bet-slip surface: chip values, selected
// chip, total staked and whether a spin is in flight.
type RouletteControls struct {
	Spinning     bool  `json:"spinning"`
	ChipValues   []int `json:"chip_values"`
	SelectedChip int   `json:"selected_chip"`
	TotalBet     int   `json:"total_bet"`
}

func (RouletteControls) Game() Kind { return KindRoulette }
