package game

import "testing"

func TestSeededSource_Deterministic(t *testing.T) {
	a := NewSeededSource("server", "client")
	b := NewSeededSource("server", "client")

	for i := 0; i < 20; i++ {
		if a.DrawFloat() != b.DrawFloat() {
			t.Fatal("identical seeds should replay identical draws")
		}
	}
}

func TestSeededSource_DifferentSeeds(t *testing.T) {
	a := NewSeededSource("server-1", "client")
	b := NewSeededSource("server-2", "client")

	same := true
	for i := 0; i < 10; i++ {
		if a.DrawFloat() != b.DrawFloat() {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds should diverge")
	}
}

func TestSource_DrawIntBounds(t *testing.T) {
	s := NewSource()
	for _, n := range []int{1, 2, 5, 37} {
		for i := 0; i < 100; i++ {
			v := s.DrawInt(n)
			if v < 0 || v >= n {
				t.Fatalf("DrawInt(%d) returned %d", n, v)
			}
		}
	}

	t.Run("non-positive n", func(t *testing.T) {
		if s.DrawInt(0) != 0 || s.DrawInt(-3) != 0 {
			t.Error("DrawInt with non-positive n should return 0")
		}
	})
}

func TestSource_DrawFloatRange(t *testing.T) {
	s := NewSource()
	for i := 0; i < 200; i++ {
		v := s.DrawFloat()
		if v < 0 || v >= 1 {
			t.Fatalf("DrawFloat returned %v", v)
		}
	}
}

func TestGenerateSeed(t *testing.T) {
	a, b := GenerateSeed(), GenerateSeed()
	if len(a) != 64 {
		t.Errorf("expected 64 hex characters, got %d", len(a))
	}
	if a == b {
		t.Error("consecutive seeds should differ")
	}
}
