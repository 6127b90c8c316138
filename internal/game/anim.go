package game

import (
	"sync"
	"time"
)

// animation drives a reveal sequence as a fixed-step clock: frame is
// called with normalized progress in (0,1] on every step, complete is
// called exactly once when progress reaches 1. Cancel stops both; a
// cancelled animation never fires complete, which is what keeps a stale
// payout from landing after the player has closed the game.
type animation struct {
	stop     chan struct{}
	stopOnce sync.Once
}

// startAnimation begins a duration-long sequence ticking every step.
// frame may be nil for pure delay timers.
func startAnimation(duration, step time.Duration, frame func(progress float64), complete func()) *animation {
	a := &animation{stop: make(chan struct{})}

	total := int(duration / step)
	if total < 1 {
		total = 1
	}

	go func() {
		ticker := time.NewTicker(step)
		defer ticker.Stop()

		for i := 1; ; i++ {
			select {
			case <-a.stop:
				return
			case <-ticker.C:
				// A closed stop channel and a due tick can be ready
				// together, and select picks either. Re-check before
				// running callbacks so cancel wins that race.
				select {
				case <-a.stop:
					return
				default:
				}
				p := float64(i) / float64(total)
				if frame != nil {
					frame(p)
				}
				if i >= total {
					complete()
					return
				}
			}
		}
	}()

	return a
}

// startTimer schedules fn after d, cancellable through the returned
// animation handle.
func startTimer(d time.Duration, fn func()) *animation {
	return startAnimation(d, d, nil, fn)
}

// cancel stops the sequence. Safe to call more than once, and safe to
// call after the sequence completed on its own.
func (a *animation) cancel() {
	a.stopOnce.Do(func() { close(a.stop) })
}
