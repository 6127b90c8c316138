package ledger

import (
	"sync"
)

// StartingBalance is the fixed number of coins every session begins with.
const StartingBalance = 100

// Ledger holds a session's coin balance. It is the only piece of state
// shared between the mini-games and the HUD, so every mutation is
// serialized through a single mutex and pushed to subscribers immediately.
//
// The balance never goes negative: callers check HasEnoughCoins before
// debiting, and RemoveCoins clamps at zero.
type Ledger struct {
	mu          sync.Mutex
	balance     int
	subscribers []func(balance int)
}

// New creates a ledger at the starting balance.
func New() *Ledger {
	return &Ledger{balance: StartingBalance}
}

// NewWithBalance creates a ledger at an arbitrary balance. Used by tests.
func NewWithBalance(balance int) *Ledger {
	if balance < 0 {
		balance = 0
	}
	return &Ledger{balance: balance}
}

// OnChange registers a subscriber invoked after every mutation with the
// new balance. Subscribers are called synchronously while the ledger
// lock is held, so they must not call back into the ledger.
func (l *Ledger) OnChange(fn func(balance int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.subscribers = append(l.subscribers, fn)
}

// AddCoins credits amount to the balance. There is no upper bound.
func (l *Ledger) AddCoins(amount int) {
	if amount <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balance += amount
	l.notify()
}

// RemoveCoins debits amount from the balance, clamping at zero.
func (l *Ledger) RemoveCoins(amount int) {
	if amount <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balance -= amount
	if l.balance < 0 {
		l.balance = 0
	}
	l.notify()
}

// HasEnoughCoins reports whether the balance covers amount.
func (l *Ledger) HasEnoughCoins(amount int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance >= amount
}

// Balance returns the current balance.
func (l *Ledger) Balance() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance
}

func (l *Ledger) notify() {
	for _, fn := range l.subscribers {
		fn(l.balance)
	}
}
