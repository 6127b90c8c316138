package ledger

import (
	"sync"
	"testing"
)

func TestLedger_StartingBalance(t *testing.T) {
	l := New()
	if l.Balance() != StartingBalance {
		t.Errorf("expected starting balance %d, got %d", StartingBalance, l.Balance())
	}
}

func TestLedger_AddCoins(t *testing.T) {
	l := NewWithBalance(100)

	t.Run("credits amount", func(t *testing.T) {
		l.AddCoins(50)
		if l.Balance() != 150 {
			t.Errorf("expected 150, got %d", l.Balance())
		}
	})

	t.Run("ignores non-positive amounts", func(t *testing.T) {
		l.AddCoins(0)
		l.AddCoins(-10)
		if l.Balance() != 150 {
			t.Errorf("expected 150, got %d", l.Balance())
		}
	})
}

func TestLedger_RemoveCoins(t *testing.T) {
	t.Run("debits amount", func(t *testing.T) {
		l := NewWithBalance(100)
		l.RemoveCoins(30)
		if l.Balance() != 70 {
			t.Errorf("expected 70, got %d", l.Balance())
		}
	})

	t.Run("clamps at zero", func(t *testing.T) {
		l := NewWithBalance(10)
		l.RemoveCoins(25)
		if l.Balance() != 0 {
			t.Errorf("expected 0, got %d", l.Balance())
		}
	})

	t.Run("ignores non-positive amounts", func(t *testing.T) {
		l := NewWithBalance(10)
		l.RemoveCoins(-5)
		if l.Balance() != 10 {
			t.Errorf("expected 10, got %d", l.Balance())
		}
	})
}

func TestLedger_HasEnoughCoins(t *testing.T) {
	l := NewWithBalance(20)

	if !l.HasEnoughCoins(20) {
		t.Error("balance of 20 should cover 20")
	}
	if l.HasEnoughCoins(21) {
		t.Error("balance of 20 should not cover 21")
	}
}

func TestLedger_NonNegativeUnderAnySequence(t *testing.T) {
	l := NewWithBalance(5)
	ops := []func(){
		func() { l.RemoveCoins(3) },
		func() { l.RemoveCoins(10) },
		func() { l.AddCoins(7) },
		func() { l.RemoveCoins(100) },
		func() { l.AddCoins(1) },
		func() { l.RemoveCoins(2) },
	}
	for i, op := range ops {
		op()
		if l.Balance() < 0 {
			t.Fatalf("balance went negative after op %d", i)
		}
	}
}

func TestLedger_OnChange(t *testing.T) {
	l := NewWithBalance(100)

	var seen []int
	l.OnChange(func(balance int) {
		seen = append(seen, balance)
	})

	l.AddCoins(10)
	l.RemoveCoins(40)
	l.RemoveCoins(-1) // rejected, no notification

	want := []int{110, 70}
	if len(seen) != len(want) {
		t.Fatalf("expected %d notifications, got %d", len(want), len(seen))
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("notification %d: expected %d, got %d", i, want[i], seen[i])
		}
	}
}

func TestLedger_ConcurrentMutation(t *testing.T) {
	l := NewWithBalance(0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.AddCoins(2)
			l.RemoveCoins(1)
		}()
	}
	wg.Wait()

	if l.Balance() != 50 {
		t.Errorf("expected 50 after concurrent ops, got %d", l.Balance())
	}
}
