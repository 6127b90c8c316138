package game

import (
	"sync"
	"testing"

	"casinoverse/internal/ledger"
)

// scriptedSource replays fixed draws so tests can force outcomes. When
// the script runs out it falls back to zero ints and 0.5 floats.
type scriptedSource struct {
	ints   []int
	floats []float64
	i, f   int
}

func (s *scriptedSource) DrawInt(n int) int {
	if s.i < len(s.ints) {
		v := s.ints[s.i]
		s.i++
		if v >= n {
			v = n - 1
		}
		return v
	}
	return 0
}

func (s *scriptedSource) DrawFloat() float64 {
	if s.f < len(s.floats) {
		v := s.floats[s.f]
		s.f++
		return v
	}
	return 0.5
}

// messageLog is a thread-safe emitter for tests; engine animations emit
// from their own goroutines.
type messageLog struct {
	mu   sync.Mutex
	msgs []Message
}

func (m *messageLog) emit(msg Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = append(m.msgs, msg)
}

func (m *messageLog) types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.msgs))
	for i, msg := range m.msgs {
		out[i] = msg.Type
	}
	return out
}

func (m *messageLog) hasType(t string) bool {
	for _, typ := range m.types() {
		if typ == t {
			return true
		}
	}
	return false
}

func testDeps(t *testing.T, balance int, src Source) (Deps, *ledger.Ledger, *messageLog) {
	t.Helper()
	wallet := ledger.NewWithBalance(balance)
	log := &messageLog{}
	if src == nil {
		src = &scriptedSource{}
	}
	return Deps{Wallet: wallet, Emit: log.emit, Rand: src}, wallet, log
}
