package looper

// State represents whether the looper runs posted tasks automatically.
//
// State Machine:
//
//	StateRunning → StatePaused   [Pause()]
//	StatePaused  → StateRunning  [Resume(), Reset()]
//
// Both transitions are idempotent.
type State uint32

const (
	// StateRunning indicates tasks run as soon as they are due, including
	// synchronously from Post.
	StateRunning State = iota
	// StatePaused indicates due tasks are held in the backlog until Resume, or
	// until they are explicitly run via one of the clock methods.
	StatePaused
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "Running"
	case StatePaused:
		return "Paused"
	default:
		return "Unknown"
	}
}
