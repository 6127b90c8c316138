package game

import (
	"testing"
)

func TestRegistry(t *testing.T) {
	t.Run("register and build", func(t *testing.T) {
		deps, _, _ := testDeps(t, 100, nil)
		r := NewRegistry()
		r.Register(KindSlot, NewSlot)

		engine, ok := r.New(KindSlot, deps)
		if !ok {
			t.Fatal("slot engine should be registered")
		}
		if engine.Kind() != KindSlot {
			t.Errorf("built engine reports kind %v", engine.Kind())
		}
	})

	t.Run("unknown kind", func(t *testing.T) {
		deps, _, _ := testDeps(t, 100, nil)
		r := NewRegistry()
		if _, ok := r.New(KindSlot, deps); ok {
			t.Error("empty registry should not build anything")
		}
	})

	t.Run("fresh instance per New", func(t *testing.T) {
		deps, _, _ := testDeps(t, 100, nil)
		r := DefaultRegistry()
		a, _ := r.New(KindPlinko, deps)
		b, _ := r.New(KindPlinko, deps)
		if a == b {
			t.Error("each open should get its own engine")
		}
	})
}

func TestDefaultRegistry(t *testing.T) {
	deps, _, _ := testDeps(t, 100, nil)
	r := DefaultRegistry()

	for _, kind := range []Kind{KindSlot, KindPlinko, KindCoinFlip, KindRoulette} {
		engine, ok := r.New(kind, deps)
		if !ok {
			t.Errorf("%v should be registered by default", kind)
			continue
		}
		if engine.Kind() != kind {
			t.Errorf("engine for %v reports kind %v", kind, engine.Kind())
		}
		if engine.Controls().Game() != kind {
			t.Errorf("control surface for %v reports game %v", kind, engine.Controls().Game())
		}
		engine.Close()
	}
}
