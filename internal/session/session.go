package session

import (
	"log"
	"sync"

	"github.com/google/uuid"

	"casinoverse/internal/game"
	"casinoverse/internal/ledger"
)

// Targets a prop click can carry. Three slot-machine props open the
// three cabinet mini-games; the roulette table and the ATM open their
// overlays.
const (
	TargetSlot0    = "slot-0"
	TargetSlot1    = "slot-1"
	TargetSlot2    = "slot-2"
	TargetRoulette = "roulette"
	TargetATM      = "atm"
)

// Config carries the session's construction options.
type Config struct {
	// OrbitMode selects the degraded camera fallback for platforms
	// without pointer lock. Fixed for the session's lifetime.
	OrbitMode bool
	// Rand is the outcome randomness shared by every engine the
	// session opens. Nil gets a fresh seeded source.
	Rand game.Source
}

// Session is one tab's worth of casino: a fresh ledger, a focus
// controller, and the engines the player opens. It dies with its
// connection and nothing persists.
//
// All inbound events go through the session mutex, which restores the
// single event loop the engines assume between their own timers.
type Session struct {
	mu       sync.Mutex
	id       string
	emit     game.Emitter
	wallet   *ledger.Ledger
	registry *game.Registry
	rand     game.Source
	focus    *FocusController

	// active is the open cabinet mini-game, nil when none is open.
	// roulette lives for the whole session: its payout timer
	// deliberately outlives the bet-slip overlay.
	active   game.Engine
	roulette game.Engine
	closed   bool
}

// New builds a session around an emitter to the render layer. The
// starting balance, the engine registry and the roulette engine are all
// fixed here; everything else opens on demand.
func New(emit game.Emitter, cfg Config) *Session {
	if cfg.Rand == nil {
		cfg.Rand = game.NewSource()
	}

	s := &Session{
		id:       uuid.New().String(),
		emit:     emit,
		wallet:   ledger.New(),
		registry: game.DefaultRegistry(),
		rand:     cfg.Rand,
		focus:    NewFocus(emit, cfg.OrbitMode),
	}

	s.wallet.OnChange(func(balance int) {
		emit(game.Message{Type: "balance", Data: map[string]any{"balance": balance}})
	})

	s.roulette, _ = s.registry.New(game.KindRoulette, s.deps())

	emit(game.Message{Type: "session_ready", Data: map[string]any{
		"session_id": s.id,
		"balance":    s.wallet.Balance(),
		"orbit_mode": cfg.OrbitMode,
	}})
	return s
}

// ID returns the session's identifier.
func (s *Session) ID() string { return s.id }

// Balance returns the current coin balance.
func (s *Session) Balance() int { return s.wallet.Balance() }

// Focus reports the current focus state.
func (s *Session) Focus() FocusState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focus.State()
}

func (s *Session) deps() game.Deps {
	return game.Deps{Wallet: s.wallet, Emit: s.emit, Rand: s.rand}
}

// SelectTarget handles a prop click. While any surface is open the
// click is swallowed: first writer wins, so two surfaces can never open
// at once. Unknown targets are ignored.
func (s *Session) SelectTarget(target string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.focus.Surface() != SurfaceNone {
		return
	}

	switch target {
	case TargetSlot0:
		s.openMiniGameLocked(SurfaceSlot, game.KindSlot)
	case TargetSlot1:
		s.openMiniGameLocked(SurfacePlinko, game.KindPlinko)
	case TargetSlot2:
		s.openMiniGameLocked(SurfaceCoinFlip, game.KindCoinFlip)
	case TargetRoulette:
		s.openSurfaceLocked(SurfaceRouletteBetSlip, s.roulette.Controls())
	case TargetATM:
		s.openSurfaceLocked(SurfaceATM, nil)
	default:
		log.Printf("[SESSION] %s ignoring unknown target %q", s.id, target)
	}
}

// openMiniGameLocked builds a fresh engine for the cabinet game. Each
// open starts from Ready: nothing about a previous visit survives
// except the ledger.
func (s *Session) openMiniGameLocked(surface Surface, kind game.Kind) {
	engine, ok := s.registry.New(kind, s.deps())
	if !ok {
		log.Printf("[SESSION] %s no engine registered for %s", s.id, kind)
		return
	}
	s.active = engine
	s.openSurfaceLocked(surface, engine.Controls())
}

// openSurfaceLocked runs the shared open transition: focus shift, the
// scoped Enter-key binding, and the HUD notification of which controls
// to draw.
func (s *Session) openSurfaceLocked(surface Surface, controls game.ControlSurface) {
	s.focus.surfaceOpened(surface)
	s.emit(game.Message{Type: "bind_close_key", Data: map[string]any{"key": "Enter"}})
	s.emit(game.Message{Type: "surface_opened", Data: map[string]any{
		"surface":  surface,
		"controls": controls,
	}})
}

// CloseSurface closes whatever is open. Closing with nothing open is a
// no-op, and closing twice is safe.
func (s *Session) CloseSurface() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeSurfaceLocked()
}

func (s *Session) closeSurfaceLocked() {
	surface := s.focus.Surface()
	if surface == SurfaceNone {
		return
	}

	// Cabinet engines are torn down with their surface, abandoning any
	// in-flight reveal. The roulette engine stays: its wheel spin and
	// payout run on after the bet slip closes.
	if s.active != nil {
		s.active.Close()
		s.active = nil
	}

	s.focus.surfaceClosed()
	s.emit(game.Message{Type: "unbind_close_key", Data: map[string]any{"key": "Enter"}})
	s.emit(game.Message{Type: "surface_closed", Data: map[string]any{"surface": surface}})
}

// HandleKey handles a keydown from the render layer. Enter closes the
// open surface; the binding only exists while one is open, so a stray
// Enter on the bare scene does nothing.
func (s *Session) HandleKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if key == "Enter" {
		s.closeSurfaceLocked()
	}
}

// RequestLock handles the user's click on the bare scene.
func (s *Session) RequestLock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.focus.RequestLock()
}

// PointerLockChanged is the platform's asynchronous lock grant or
// revocation report.
func (s *Session) PointerLockChanged(locked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.focus.HandleLockChange(locked)
}

// GameAction routes an action to the engine behind the open surface.
// With no compatible surface open the action is swallowed, mirroring a
// click on a button that is not on screen.
func (s *Session) GameAction(action string, req any) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, nil
	}

	var engine game.Engine
	switch {
	case s.focus.Surface() == SurfaceRouletteBetSlip:
		engine = s.roulette
	case s.focus.Surface().isMiniGame():
		engine = s.active
	default:
		return nil, nil
	}

	resp, err := engine.ProcessAction(action, req)
	if err != nil {
		return nil, err
	}

	// An accepted roulette spin closes the bet slip immediately so the
	// wheel animation is visible.
	if r, ok := resp.(game.RouletteResponse); ok && r.SpinStarted {
		s.closeSurfaceLocked()
	}
	return resp, nil
}

// Close tears the session down: the open engine and the roulette engine
// are closed, cancelling every pending animation and payout timer.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true

	if s.active != nil {
		s.active.Close()
		s.active = nil
	}
	s.roulette.Close()
	s.focus.surfaceClosed()
	log.Printf("[SESSION] %s closed with balance %d", s.id, s.wallet.Balance())
}
