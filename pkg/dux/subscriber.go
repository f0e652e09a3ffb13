package dux

// SubscriberID identifies a subscriber registered on a Context. It is
// the index of the subscriber's slot: stable while the subscription is
// live, and recycled for a future registration after Unsubscribe. A
// caller must not use an ID after removing it.
type SubscriberID int

// subscriberSet is a free-list-backed slot array of callbacks. Insert
// reuses the most recently freed slot; a slot index is never handed to
// two live subscribers at once.
type subscriberSet[S any] struct {
	slots []func(S) // nil entries are free
	free  []SubscriberID
}

// insert registers a callback and returns its slot index.
func (s *subscriberSet[S]) insert(cb func(S)) SubscriberID {
	if n := len(s.free); n > 0 {
		id := s.free[n-1]
		s.free = s.free[:n-1]
		s.slots[id] = cb
		return id
	}
	s.slots = append(s.slots, cb)
	return SubscriberID(len(s.slots) - 1)
}

// remove frees the slot for id. Unknown or already-freed ids are a
// no-op; removal must stay forgiving under mount/unmount churn.
func (s *subscriberSet[S]) remove(id SubscriberID) {
	if id < 0 || int(id) >= len(s.slots) || s.slots[id] == nil {
		return
	}
	s.slots[id] = nil
	s.free = append(s.free, id)
}

// len reports the number of live subscribers.
func (s *subscriberSet[S]) len() int {
	return len(s.slots) - len(s.free)
}

// collect returns the live callbacks as of now. Notification iterates
// this snapshot, so subscribers added mid-pass wait for the next change
// and subscribers removed mid-pass may still see the in-flight value.
func (s *subscriberSet[S]) collect() []func(S) {
	out := make([]func(S), 0, s.len())
	for _, cb := range s.slots {
		if cb != nil {
			out = append(out, cb)
		}
	}
	return out
}
