package looper

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/joeycumines/logiface"
)

// Looper is the simulated main (UI) thread task queue.
//
// Tasks are ordered by their due time on a virtual clock, then by submission
// order. While running, due tasks execute synchronously on the goroutine that
// posted them. While paused, they accumulate until Resume, or until the test
// drives them explicitly via the clock methods.
//
// Posting from within a task never nests execution: the new task is queued,
// and the drain that is already in progress runs it (if due) before the
// outermost call returns.
type Looper struct {
	// Prevent copying
	_ [0]func()

	logger *logiface.Logger[logiface.Event]

	queue taskHeap

	// drainGoroutine is the goroutine currently running tasks, 0 if none
	drainGoroutine atomic.Uint64

	// mu guards queue, now, seq and state
	mu sync.Mutex

	// runMu serializes task execution
	runMu sync.Mutex

	now   time.Duration
	seq   uint64
	state State
}

// New creates a Looper, in StateRunning unless configured otherwise.
func New(opts ...Option) (*Looper, error) {
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	l := &Looper{
		logger: cfg.logger,
	}
	if cfg.paused {
		l.state = StatePaused
	}
	return l, nil
}

// Post enqueues fn to run on the looper. If the looper is running, fn and any
// other due tasks queued before it have executed by the time Post returns.
//
// Exception: when called from within a task this looper is running, Post only
// enqueues fn and returns before it runs. The in-progress drain runs fn after
// the current task (and anything queued before fn) completes, keeping FIFO
// order. Use an inline call if fn must complete before returning.
//
// A panic in any task run by this call is returned as a [PanicError], and
// aborts the drain.
func (l *Looper) Post(fn func()) error {
	return l.PostDelayed(fn, 0)
}

// PostDelayed enqueues fn to run once the virtual clock has advanced by at
// least delay. A zero delay is equivalent to Post.
func (l *Looper) PostDelayed(fn func(), delay time.Duration) error {
	if fn == nil {
		return ErrNilTask
	}
	if delay < 0 {
		return ErrNegativeDelay
	}

	l.mu.Lock()
	l.seq++
	seq := l.seq
	l.queue.push(task{fn: fn, when: l.now + delay, seq: seq})
	state := l.state
	l.mu.Unlock()

	l.logger.Debug().
		Uint64(`seq`, seq).
		Dur(`delay`, delay).
		Stringer(`state`, state).
		Log(`looper: task posted`)

	if state != StateRunning || l.onDrainGoroutine() {
		return nil
	}
	return l.runDue()
}

// Pause stops due tasks from running automatically. It is idempotent, and
// neither runs nor discards the backlog.
func (l *Looper) Pause() {
	l.mu.Lock()
	prev := l.state
	l.state = StatePaused
	l.mu.Unlock()
	if prev != StatePaused {
		l.logger.Debug().Log(`looper: paused`)
	}
}

// Resume returns the looper to StateRunning, then runs every due task in
// order, including any posted while draining, before returning.
func (l *Looper) Resume() error {
	l.mu.Lock()
	l.state = StateRunning
	backlog := len(l.queue)
	l.mu.Unlock()

	l.logger.Debug().
		Int(`backlog`, backlog).
		Log(`looper: resumed`)

	if l.onDrainGoroutine() {
		return nil
	}
	return l.runDue()
}

// State returns the current state.
func (l *Looper) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// IsPaused is shorthand for State() == StatePaused.
func (l *Looper) IsPaused() bool {
	return l.State() == StatePaused
}

// Now returns the virtual time, as an offset from the looper's creation.
func (l *Looper) Now() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.now
}

// Size returns the number of queued tasks, due or not.
func (l *Looper) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// HasDue reports whether any queued task is due at the current time.
func (l *Looper) HasDue() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	t, ok := l.queue.peek()
	return ok && t.when <= l.now
}

// IsMainThread reports whether the caller is running on the simulated UI
// thread, i.e. inside a task being executed by this looper.
func (l *Looper) IsMainThread() bool {
	return l.onDrainGoroutine()
}

// Reset drops every queued task, rewinds the clock to zero, and returns the
// looper to StateRunning.
func (l *Looper) Reset() {
	l.mu.Lock()
	dropped := len(l.queue)
	l.queue.reset()
	l.now = 0
	l.state = StateRunning
	l.mu.Unlock()

	l.logger.Debug().
		Int(`dropped`, dropped).
		Log(`looper: reset`)
}

// AdvanceBy advances the virtual clock by d, running every task that becomes
// due, regardless of state. It reports whether any task ran.
func (l *Looper) AdvanceBy(d time.Duration) (bool, error) {
	return l.AdvanceTo(l.Now() + d)
}

// AdvanceTo advances the virtual clock to target, running every task due at
// or before target in order, regardless of state. The clock is set to each
// task's due time as it runs, and to target once done. Targets in the past
// are ignored. It reports whether any task ran.
func (l *Looper) AdvanceTo(target time.Duration) (bool, error) {
	if l.onDrainGoroutine() {
		return false, ErrReentrantAdvance
	}

	l.runMu.Lock()
	defer l.runMu.Unlock()
	l.enter()
	defer l.exit()

	var ran bool
	for {
		l.mu.Lock()
		if target < l.now {
			l.mu.Unlock()
			return ran, nil
		}
		t, ok := l.queue.popDue(target)
		if !ok {
			l.now = target
			l.mu.Unlock()
			return ran, nil
		}
		if t.when > l.now {
			l.now = t.when
		}
		l.mu.Unlock()

		ran = true
		if err := l.execute(t); err != nil {
			return ran, err
		}
	}
}

// AdvanceToNextPosted advances the clock to the earliest queued task, running
// it along with anything else due at that time.
func (l *Looper) AdvanceToNextPosted() (bool, error) {
	l.mu.Lock()
	t, ok := l.queue.peek()
	now := l.now
	l.mu.Unlock()
	if !ok {
		return false, nil
	}
	return l.AdvanceTo(max(t.when, now))
}

// AdvanceToLastPosted advances the clock to the latest queued task, running
// every queued task.
func (l *Looper) AdvanceToLastPosted() (bool, error) {
	l.mu.Lock()
	last, ok := l.queue.last()
	now := l.now
	l.mu.Unlock()
	if !ok {
		return false, nil
	}
	return l.AdvanceTo(max(last, now))
}

// RunOneTask runs the next queued task, regardless of state or due time,
// advancing the clock to its due time if necessary.
func (l *Looper) RunOneTask() (bool, error) {
	if l.onDrainGoroutine() {
		return false, ErrReentrantAdvance
	}

	l.runMu.Lock()
	defer l.runMu.Unlock()
	l.enter()
	defer l.exit()

	l.mu.Lock()
	t, ok := l.queue.peek()
	if ok {
		t, _ = l.queue.popDue(t.when)
		if t.when > l.now {
			l.now = t.when
		}
	}
	l.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, l.execute(t)
}

// RunTasks runs up to n queued tasks, per RunOneTask, returning the number
// that ran.
func (l *Looper) RunTasks(n int) (int, error) {
	var count int
	for count < n {
		ran, err := l.RunOneTask()
		if ran {
			count++
		}
		if err != nil || !ran {
			return count, err
		}
	}
	return count, nil
}

// runDue runs due tasks while the looper is in StateRunning.
func (l *Looper) runDue() error {
	l.runMu.Lock()
	defer l.runMu.Unlock()
	l.enter()
	defer l.exit()

	for {
		l.mu.Lock()
		if l.state != StateRunning {
			l.mu.Unlock()
			return nil
		}
		t, ok := l.queue.popDue(l.now)
		l.mu.Unlock()
		if !ok {
			return nil
		}
		if err := l.execute(t); err != nil {
			return err
		}
	}
}

// execute runs a task with panic recovery.
func (l *Looper) execute(t task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = PanicError{Value: r, Seq: t.seq}
			l.logger.Warning().
				Uint64(`seq`, t.seq).
				Any(`panic`, r).
				Log(`looper: task panicked`)
		}
	}()
	l.logger.Trace().
		Uint64(`seq`, t.seq).
		Dur(`when`, t.when).
		Log(`looper: running task`)
	t.fn()
	return nil
}

// enter marks the calling goroutine as the UI thread.
//
// CALLER MUST HOLD runMu.
func (l *Looper) enter() {
	l.drainGoroutine.Store(getGoroutineID())
}

// exit clears the UI thread marker.
//
// CALLER MUST HOLD runMu.
func (l *Looper) exit() {
	l.drainGoroutine.Store(0)
}

// onDrainGoroutine checks if we're on the goroutine currently running tasks.
func (l *Looper) onDrainGoroutine() bool {
	id := l.drainGoroutine.Load()
	if id == 0 {
		return false
	}
	return getGoroutineID() == id
}

// getGoroutineID returns the current goroutine's ID.
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] >= '0' && buf[i] <= '9' {
			id = id*10 + uint64(buf[i]-'0')
		} else {
			break
		}
	}
	return id
}
