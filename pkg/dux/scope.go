package dux

import (
	"reflect"
	"runtime"
	"sync"
)

// Scope is one execution scope: an independent registry of Contexts,
// keyed by state type. Every goroutine lazily gets its own Scope, so
// state is never shared across goroutines. A Scope must only be entered
// by one goroutine at a time; within it, all access is serialized by
// the caller's own control flow.
type Scope struct {
	// contexts maps reflect.Type of S to *Context[S]. Entries are
	// created once and live for the remainder of the scope.
	contexts map[reflect.Type]any

	// listeners tracks init-listener registrations so each listener
	// type attaches at most once per store type. See InitListener.
	listeners map[listenerKey]SubscriberID
}

// NewScope creates an empty execution scope. Use WithScope to enter it,
// typically to carry state across a goroutine boundary or to isolate a
// test from package-level state.
func NewScope() *Scope {
	return &Scope{
		contexts:  make(map[reflect.Type]any),
		listeners: make(map[listenerKey]SubscriberID),
	}
}

// scopes stores the per-goroutine scopes. sync.Map only guards the
// association; each Scope itself is single-goroutine.
var scopes sync.Map

// getGoroutineID returns a unique identifier for the current goroutine,
// parsed from the runtime stack header ("goroutine <id> ").
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := 10; i < n; i++ { // Skip "goroutine "
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// CurrentScope returns the scope for the current goroutine, creating it
// on first use.
func CurrentScope() *Scope {
	gid := getGoroutineID()

	if s, ok := scopes.Load(gid); ok {
		return s.(*Scope)
	}

	s := NewScope()
	scopes.Store(gid, s)
	return s
}

// setCurrentScope binds s to the current goroutine, returning the
// previous binding (nil if there was none).
func setCurrentScope(s *Scope) *Scope {
	gid := getGoroutineID()

	var old *Scope
	if prev, ok := scopes.Load(gid); ok {
		old = prev.(*Scope)
	}
	if s == nil {
		scopes.Delete(gid)
	} else {
		scopes.Store(gid, s)
	}
	return old
}

// WithScope runs fn with s as the current goroutine's scope, restoring
// the previous scope on return. This is how a worker goroutine operates
// on a scope created elsewhere:
//
//	s := dux.NewScope()
//	go func() {
//	    dux.WithScope(s, func() {
//	        dux.GetOrInit[Counter]().Reduce(func(c *Counter) { c.N++ })
//	    })
//	}()
func WithScope(s *Scope, fn func()) {
	old := setCurrentScope(s)
	defer setCurrentScope(old)
	fn()
}

// GetOrInit returns the Context for state type S in the current scope,
// creating it with S's initial value on first use. Repeated calls for
// the same type return the same Context; different types never share
// state.
func GetOrInit[S Store[S]]() *Context[S] {
	return GetOrInitIn[S](CurrentScope())
}

// GetOrInitIn is GetOrInit against an explicit scope. The caller must
// be the goroutine currently entitled to s.
func GetOrInitIn[S Store[S]](s *Scope) *Context[S] {
	key := reflect.TypeOf((*S)(nil)).Elem()
	if c, ok := s.contexts[key]; ok {
		return c.(*Context[S])
	}

	c := newContext[S]()
	s.contexts[key] = c
	return c
}
