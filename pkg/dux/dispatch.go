package dux

// ReduceFunc is the shape of a reduction call as seen by middleware:
// apply the mutation, report whether the value changed.
type ReduceFunc[S Store[S]] func(mutation func(*S)) bool

// Middleware wraps a reduction. Middleware sees every Reduce, Set, and
// Apply issued through the Dispatch it is installed on, and can observe
// the changed flag on the way out:
//
//	func logged[S dux.Store[S]](next dux.ReduceFunc[S]) dux.ReduceFunc[S] {
//	    return func(mutation func(*S)) bool {
//	        changed := next(mutation)
//	        slog.Debug("reduce", "store", dux.StoreName[S](), "changed", changed)
//	        return changed
//	    }
//	}
type Middleware[S Store[S]] func(next ReduceFunc[S]) ReduceFunc[S]

// Reducer is a message-style mutation: a value that knows how to apply
// itself to the state. Useful when mutations are constructed far from
// where they are dispatched.
type Reducer[S any] interface {
	Apply(state *S)
}

// Dispatch is a convenience facade over the Context for S in the scope
// it was created in. All Dispatch values for the same type in the same
// scope operate on the same Context; a Dispatch is scope-bound and must
// not be handed to another goroutine.
type Dispatch[S Store[S]] struct {
	ctx    *Context[S]
	reduce ReduceFunc[S]
}

// DispatchOption configures a Dispatch.
type DispatchOption[S Store[S]] func(*Dispatch[S])

// WithMiddleware installs reduce middleware. The first middleware given
// is the outermost wrapper.
func WithMiddleware[S Store[S]](mw ...Middleware[S]) DispatchOption[S] {
	return func(d *Dispatch[S]) {
		for i := len(mw) - 1; i >= 0; i-- {
			d.reduce = mw[i](d.reduce)
		}
	}
}

// NewDispatch creates a Dispatch bound to the current scope's Context
// for S, creating the Context on first use.
func NewDispatch[S Store[S]](opts ...DispatchOption[S]) *Dispatch[S] {
	ctx := GetOrInit[S]()
	d := &Dispatch[S]{
		ctx:    ctx,
		reduce: ctx.Reduce,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Get returns the current state value.
func (d *Dispatch[S]) Get() S {
	return d.ctx.Get()
}

// Reduce applies a mutation through the middleware chain, reporting
// whether the value changed.
func (d *Dispatch[S]) Reduce(mutation func(*S)) bool {
	return d.reduce(mutation)
}

// Set replaces the state wholesale. Equivalent to a Reduce that
// assigns value, so an equal value produces no notification.
func (d *Dispatch[S]) Set(value S) bool {
	return d.reduce(func(s *S) { *s = value })
}

// Apply dispatches a message-style reducer.
func (d *Dispatch[S]) Apply(r Reducer[S]) bool {
	return d.reduce(r.Apply)
}

// Subscribe registers a callback on the underlying Context. The
// callback fires once immediately with the current value.
func (d *Dispatch[S]) Subscribe(onChange func(S)) SubscriberID {
	return d.ctx.Subscribe(onChange)
}

// Unsubscribe removes a subscription made through this Dispatch or
// directly on the same Context.
func (d *Dispatch[S]) Unsubscribe(id SubscriberID) {
	d.ctx.Unsubscribe(id)
}

// Context returns the underlying Context.
func (d *Dispatch[S]) Context() *Context[S] {
	return d.ctx
}
