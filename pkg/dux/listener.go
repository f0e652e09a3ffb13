package dux

import "reflect"

// Listener reacts to every observed change of a store, including the
// initial value at attach time. Listeners are for long-lived,
// type-level concerns (persistence, instrumentation, fan-out), as
// opposed to Subscribe which serves individual call sites.
type Listener[S Store[S]] interface {
	OnChange(state S)
}

// listenerKey identifies one (store type, listener type) attachment
// within a scope.
type listenerKey struct {
	store    reflect.Type
	listener reflect.Type
}

// InitListener attaches l to the Context for S in the current scope.
// At most one listener of a given concrete type is attached per store
// type per scope: repeated calls with the same listener type are no-ops,
// so package-level setup paths can call it unconditionally.
func InitListener[S Store[S]](l Listener[S]) {
	scope := CurrentScope()
	key := listenerKey{
		store:    reflect.TypeOf((*S)(nil)).Elem(),
		listener: reflect.TypeOf(l),
	}
	if _, ok := scope.listeners[key]; ok {
		return
	}

	id := GetOrInitIn[S](scope).Subscribe(l.OnChange)
	scope.listeners[key] = id
}
