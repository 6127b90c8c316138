package game

// Engine is a single mini-game's wager/outcome/payout state machine.
//
// ProcessAction returns a response value for the render layer. Rejected
// actions (insufficient funds, wrong phase, missing choice) are not
// errors: they come back as a response with Success=false and the state
// machine untouched. An error means the request itself was malformed.
//
// Close cancels every pending timer and animation the engine owns.
// Closing an engine that already finished, or closing twice, is a no-op.
type Engine interface {
	Kind() Kind
	Controls() ControlSurface
	ProcessAction(action string, req any) (any, error)
	Close()
}

// Actions understood by the engines.
const (
	ActionSpin      = "spin"       // slot
	ActionDrop      = "drop"       // plinko
	ActionReset     = "reset"      // plinko
	ActionChoose    = "choose"     // coinflip
	ActionSetBet    = "set_bet"    // coinflip
	ActionFlip      = "flip"       // coinflip
	ActionPlaceBet  = "place_bet"  // roulette
	ActionSetChip   = "set_chip"   // roulette
	ActionClearBets = "clear_bets" // roulette
	ActionSpinWheel = "spin_wheel" // roulette
)

// Deps is what every engine needs: the session ledger, the channel back
// to the render layer, and the outcome randomness. Engines hold direct
// references instead of reaching for globals.
type Deps struct {
	Wallet Wallet
	Emit   Emitter
	Rand   Source
}

// Constructor builds a fresh engine instance for one mini-game session.
type Constructor func(deps Deps) Engine

// Registry maps game kinds to constructors. The session asks it for a
// fresh engine each time a mini-game opens.
type Registry struct {
	constructors map[Kind]Constructor
}

func NewRegistry() *Registry {
	return &Registry{constructors: make(map[Kind]Constructor)}
}

func (r *Registry) Register(kind Kind, c Constructor) {
	r.constructors[kind] = c
}

// New builds an engine of the given kind, reporting whether the kind is
// registered.
func (r *Registry) New(kind Kind, deps Deps) (Engine, bool) {
	c, ok := r.constructors[kind]
	if !ok {
		return nil, false
	}
	return c(deps), true
}

// DefaultRegistry returns a registry with all four mini-games wired.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(KindSlot, NewSlot)
	r.Register(KindPlinko, NewPlinko)
	r.Register(KindCoinFlip, NewCoinFlip)
	r.Register(KindRoulette, NewRoulette)
	return r
}
