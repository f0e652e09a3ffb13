package dux

import "reflect"

// Store is the contract a state type satisfies to be managed by a
// Context. Init produces the initial value; it is called once, on the
// zero value of S, when the Context for S is first created, and must
// not depend on external input.
type Store[S any] interface {
	Init() S
}

// changeHook is satisfied by state types that derive additional fields
// from their own update. It must be declared on *S so the hook observes
// and can modify the post-mutation value. Changed runs exactly once per
// value-altering reduce, after the mutation and before subscribers are
// notified.
type changeHook interface {
	Changed()
}

// Equaler overrides the default change detection for a state type.
// Declare it on S (value receiver) comparing against another S.
type Equaler[S any] interface {
	Equal(other S) bool
}

// Cloner lets a state type control how the pre-mutation snapshot is
// taken. Without it, Reduce snapshots by shallow copy, which shares
// backing storage of slice and map fields; implement Clone when a
// mutation writes through such fields in place.
type Cloner[S any] interface {
	Clone() S
}

// storeEquals reports whether two state values are equal, preferring
// the type's own Equal method.
func storeEquals[S any](a, b S) bool {
	if eq, ok := any(a).(Equaler[S]); ok {
		return eq.Equal(b)
	}
	return defaultEquals(a, b)
}

// snapshot returns a copy of v safe to retain across a mutation.
func snapshot[S any](v S) S {
	if c, ok := any(v).(Cloner[S]); ok {
		return c.Clone()
	}
	return v
}

// defaultEquals provides type-appropriate equality checking.
// Uses == for common comparable types and reflect.DeepEqual for others.
func defaultEquals[S any](a, b S) bool {
	switch av := any(a).(type) {
	case int:
		return av == any(b).(int)
	case int8:
		return av == any(b).(int8)
	case int16:
		return av == any(b).(int16)
	case int32:
		return av == any(b).(int32)
	case int64:
		return av == any(b).(int64)
	case uint:
		return av == any(b).(uint)
	case uint8:
		return av == any(b).(uint8)
	case uint16:
		return av == any(b).(uint16)
	case uint32:
		return av == any(b).(uint32)
	case uint64:
		return av == any(b).(uint64)
	case float32:
		return av == any(b).(float32)
	case float64:
		return av == any(b).(float64)
	case string:
		return av == any(b).(string)
	case bool:
		return av == any(b).(bool)
	default:
		// Fall back to reflect.DeepEqual for structs, slices, maps, etc.
		return reflect.DeepEqual(a, b)
	}
}

// StoreName returns a short human-readable name for the state type,
// used as a label by middleware, persistence, and devtools.
func StoreName[S any]() string {
	t := reflect.TypeOf((*S)(nil)).Elem()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if name := t.Name(); name != "" {
		return name
	}
	return t.String()
}
