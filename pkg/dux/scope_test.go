package dux

import "testing"

type Profile struct {
	Name string
}

func (Profile) Init() Profile { return Profile{Name: "anonymous"} }

func TestGetOrInitReturnsSameContext(t *testing.T) {
	WithScope(NewScope(), func() {
		a := GetOrInit[Counter]()
		b := GetOrInit[Counter]()
		if a != b {
			t.Fatal("expected one Context per type per scope")
		}

		a.Reduce(func(c *Counter) { c.N = 3 })
		if b.Get().N != 3 {
			t.Errorf("mutation via one handle must be visible via the other, got %d", b.Get().N)
		}
	})
}

func TestGetOrInitUsesInitialValue(t *testing.T) {
	WithScope(NewScope(), func() {
		if got := GetOrInit[Profile]().Get().Name; got != "anonymous" {
			t.Errorf("expected Init value, got %q", got)
		}
	})
}

func TestDifferentTypesNeverShareState(t *testing.T) {
	WithScope(NewScope(), func() {
		GetOrInit[Counter]().Reduce(func(c *Counter) { c.N = 42 })

		if got := GetOrInit[Profile]().Get().Name; got != "anonymous" {
			t.Errorf("Profile context disturbed by Counter mutation: %q", got)
		}
		if got := GetOrInit[Counter]().Get().N; got != 42 {
			t.Errorf("Counter context lost its value: %d", got)
		}
	})
}

func TestGoroutinesGetIndependentScopes(t *testing.T) {
	GetOrInit[Counter]().Reduce(func(c *Counter) { c.N = 10 })

	done := make(chan int)
	go func() {
		// Fresh goroutine: fresh scope, fresh Counter.
		ctx := GetOrInit[Counter]()
		ctx.Reduce(func(c *Counter) { c.N++ })
		done <- ctx.Get().N
	}()

	if got := <-done; got != 1 {
		t.Errorf("expected independent counter in new goroutine, got %d", got)
	}
	if got := GetOrInit[Counter]().Get().N; got != 10 {
		t.Errorf("own scope must be unaffected, got %d", got)
	}
}

func TestWithScopeCarriesStateAcrossGoroutines(t *testing.T) {
	scope := NewScope()

	WithScope(scope, func() {
		GetOrInit[Counter]().Reduce(func(c *Counter) { c.N = 5 })
	})

	done := make(chan int)
	go func() {
		WithScope(scope, func() {
			done <- GetOrInit[Counter]().Get().N
		})
	}()

	if got := <-done; got != 5 {
		t.Errorf("expected scope handoff to preserve state, got %d", got)
	}
}

func TestWithScopeRestoresPrevious(t *testing.T) {
	outer := CurrentScope()
	GetOrInit[Counter]().Reduce(func(c *Counter) { c.N = 1 })

	WithScope(NewScope(), func() {
		if CurrentScope() == outer {
			t.Fatal("expected a different scope inside WithScope")
		}
		if got := GetOrInit[Counter]().Get().N; got != 0 {
			t.Errorf("inner scope must start fresh, got %d", got)
		}
	})

	if CurrentScope() != outer {
		t.Fatal("expected outer scope to be restored")
	}
	if got := GetOrInit[Counter]().Get().N; got != 1 {
		t.Errorf("outer state must survive, got %d", got)
	}
}
