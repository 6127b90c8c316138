package session

import "casinoverse/internal/game"

// FocusState is where the player's input currently goes: first-person
// look, free cursor, or one open surface layered over the scene.
type FocusState string

const (
	FocusLocked   FocusState = "locked"
	FocusUnlocked FocusState = "unlocked"
	FocusOverlay  FocusState = "overlay"
	FocusMiniGame FocusState = "minigame"
)

// Surface is an openable layer over the 3D scene. Overlays (ATM, the
// roulette bet slip) and enlarged mini-games are mutually exclusive: at
// most one surface is open at a time.
type Surface string

const (
	SurfaceNone            Surface = ""
	SurfaceATM             Surface = "atm"
	SurfaceRouletteBetSlip Surface = "roulette_bet_slip"
	SurfaceSlot            Surface = "slot"
	SurfacePlinko          Surface = "plinko"
	SurfaceCoinFlip        Surface = "coinflip"
)

func (s Surface) isMiniGame() bool {
	return s == SurfaceSlot || s == SurfacePlinko || s == SurfaceCoinFlip
}

// FocusController mediates between the platform's pointer lock and the
// open surface. It emits acquire_lock and release_lock commands; the
// render layer reports the platform's actual grants and revocations
// back through HandleLockChange, which can race with a surface opening.
//
// The controller is not safe for concurrent use on its own; the owning
// Session serializes every call.
type FocusController struct {
	emit    game.Emitter
	orbit   bool
	locked  bool
	surface Surface
}

// NewFocus builds the controller. orbit selects the fallback camera
// mode for platforms without a pointer lock API: chosen once here and
// fixed for the session, every lock transition is a no-op in it.
func NewFocus(emit game.Emitter, orbit bool) *FocusController {
	return &FocusController{emit: emit, orbit: orbit}
}

// State reports the current focus state.
func (f *FocusController) State() FocusState {
	switch {
	case f.surface.isMiniGame():
		return FocusMiniGame
	case f.surface != SurfaceNone:
		return FocusOverlay
	case f.locked:
		return FocusLocked
	default:
		return FocusUnlocked
	}
}

// Surface reports the open surface, SurfaceNone when the scene is bare.
func (f *FocusController) Surface() Surface {
	return f.surface
}

// RequestLock handles the user's click on the bare scene. Lock requests
// are refused while any surface is open; in orbit mode they are ignored
// entirely.
func (f *FocusController) RequestLock() {
	if f.orbit || f.locked || f.surface != SurfaceNone {
		return
	}
	f.emit(game.Message{Type: "acquire_lock"})
}

// HandleLockChange is the platform's asynchronous report of a lock
// grant or revocation. Lock acquisition can race with a surface
// opening: a grant that lands while a surface is open is released
// immediately rather than accepted.
func (f *FocusController) HandleLockChange(locked bool) {
	if f.orbit {
		return
	}
	if locked && f.surface != SurfaceNone {
		f.emit(game.Message{Type: "release_lock"})
		return
	}
	f.locked = locked
}

// surfaceOpened records the newly open surface, forcing an unlock if
// the player was in first-person look.
func (f *FocusController) surfaceOpened(s Surface) {
	if f.locked {
		f.locked = false
		if !f.orbit {
			f.emit(game.Message{Type: "release_lock"})
		}
	}
	f.surface = s
}

// surfaceClosed returns to the idle unlocked state. The controller
// never relocks on its own: re-entering first-person look takes a new
// user gesture.
func (f *FocusController) surfaceClosed() {
	f.surface = SurfaceNone
}
