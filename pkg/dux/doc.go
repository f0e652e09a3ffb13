// Package dux provides a minimal observable-state container: one shared
// value per state type per goroutine, mutated through copy-on-write
// reducers, with subscribers notified exactly when the value actually
// changes.
//
// # Core Types
//
// A state type opts in by implementing [Store]:
//
//	type Counter struct {
//	    N int
//	}
//
//	func (Counter) Init() Counter { return Counter{} }
//
// [Context] holds the current value and its subscribers. Contexts are
// created lazily, one per state type per goroutine:
//
//	ctx := dux.GetOrInit[Counter]()
//	ctx.Subscribe(func(c Counter) { fmt.Println("count:", c.N) })
//	ctx.Reduce(func(c *Counter) { c.N++ })
//
// [Dispatch] is a convenience facade over the same Context, with
// support for message-style reducers and reduce middleware:
//
//	d := dux.NewDispatch[Counter]()
//	d.Reduce(func(c *Counter) { c.N++ })
//
// # Execution Scopes
//
// Each goroutine owns an independent registry of Contexts. Nothing is
// shared across goroutines, so no locking is needed on the reduce or
// notify path. To hand state to another goroutine, create a [Scope]
// explicitly and enter it with [WithScope].
//
// # Change Detection
//
// Reduce compares the value before and after the mutation. Equal values
// produce no notification and no Changed hook. Comparison uses
// (Counter).Equal when the state type provides it, and a deep-equality
// fallback otherwise.
package dux
