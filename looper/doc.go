// Package looper provides a deterministic, single-threaded task queue that
// simulates a platform main (UI) thread for tests.
//
// # Execution Model
//
// A [Looper] is either running or paused:
//   - Running: [Looper.Post] executes the task synchronously, before returning
//   - Paused: tasks are appended to an ordered backlog, which [Looper.Resume]
//     drains completely, including tasks posted by tasks during the drain
//
// Tasks are never skipped, reordered, or executed twice. Ordering is by due
// time on a virtual clock, then by submission order.
//
// # Virtual Clock
//
// Delayed tasks ([Looper.PostDelayed]) only run once the clock is advanced
// explicitly, via [Looper.AdvanceBy], [Looper.AdvanceTo],
// [Looper.AdvanceToNextPosted], [Looper.AdvanceToLastPosted],
// [Looper.RunOneTask] or [Looper.RunTasks]. These run tasks regardless of
// state, which allows a paused looper to be stepped through one task at a
// time.
//
// # Errors
//
// A panicking task is recovered into a [PanicError], returned by whichever
// call caused it to run. The drain stops there; tasks queued after it stay
// queued, and run (in order) the next time the queue is drained.
//
// # Usage
//
//	l, err := looper.New(looper.WithPaused(true))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = l.Post(func() { fmt.Println("A") })
//	_ = l.Post(func() { fmt.Println("B") })
//	if err := l.Resume(); err != nil { // prints A, then B
//	    log.Fatal(err)
//	}
package looper
