package dux

// Context is the authoritative holder of one state value and its
// observers. A Context belongs to exactly one execution scope and must
// only be used from the goroutine (or explicit [Scope]) that owns it;
// within a scope all access is serialized, so none of its methods lock.
type Context[S Store[S]] struct {
	state S
	subs  subscriberSet[S]
}

// newContext builds a Context with the store's initial value.
func newContext[S Store[S]]() *Context[S] {
	var zero S
	return &Context[S]{state: zero.Init()}
}

// Get returns the current state value.
func (c *Context[S]) Get() S {
	return c.state
}

// Reduce applies a mutation to the state, reporting whether the value
// changed. The mutation receives a private copy; outstanding values
// handed to earlier subscribers are never written through.
//
// When the mutation leaves the value equal to its previous value, no
// hook runs and no subscriber is notified. Otherwise the state's
// Changed hook (if declared on *S) runs once, the new value is
// installed, and every subscriber is notified before Reduce returns.
func (c *Context[S]) Reduce(mutation func(*S)) bool {
	previous := c.state
	next := snapshot(c.state)

	mutation(&next)

	changed := !storeEquals(previous, next)
	if changed {
		if h, ok := any(&next).(changeHook); ok {
			h.Changed()
		}
		c.state = next
		c.NotifySubscribers()
	}

	return changed
}

// Subscribe registers a callback for future changes and returns its
// handle. The callback is first invoked once, synchronously, with the
// current value, so subscribers always start with a value.
func (c *Context[S]) Subscribe(onChange func(S)) SubscriberID {
	onChange(c.state)
	return c.subs.insert(onChange)
}

// Unsubscribe removes a subscription. Removing an unknown or
// already-removed handle is a no-op.
func (c *Context[S]) Unsubscribe(id SubscriberID) {
	c.subs.remove(id)
}

// NotifySubscribers delivers the current value to every registered
// subscriber. Delivery order is unspecified. The subscriber set is
// snapshotted before the pass begins: a Subscribe or Unsubscribe from
// within a callback takes effect for the next notification, except that
// a subscriber removed mid-pass may still receive the in-flight value.
func (c *Context[S]) NotifySubscribers() {
	for _, cb := range c.subs.collect() {
		cb(c.state)
	}
}

// Subscribers reports the number of live subscriptions.
func (c *Context[S]) Subscribers() int {
	return c.subs.len()
}
