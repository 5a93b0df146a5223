package scheduler

import "sync/atomic"

// RunState is the lifecycle state of a Scheduler.
//
// State Machine:
//
//	StateIdle (0) → StateRunning (1)     [RunAvailable starts]
//	StateParked (2) → StateRunning (1)   [RunAvailable starts while parked]
//	StateRunning (1) → StateIdle (0)     [RunAvailable returns]
//	StateIdle (0) → StateParked (2)      [RunAsync blocks for a wake-up]
//	StateParked (2) → StateIdle (0)      [RunAsync's wait returns]
//	any → StateTerminating (3)           [Shutdown requested]
//	any → StateTerminated (4)            [RunAsync stops on ctx or waker error]
//
// Entering Running or Parked, and leaving Parked, uses TryTransition
// (CAS); Store sets Idle when RunAvailable returns, Terminating in
// Shutdown, and Terminated in RunAsync.
type RunState uint32

const (
	StateIdle RunState = iota
	StateRunning
	StateParked
	StateTerminating
	StateTerminated
)

func (s RunState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateRunning:
		return "Running"
	case StateParked:
		return "Parked"
	case StateTerminating:
		return "Terminating"
	case StateTerminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

// atomicRunState is a lock-free state cell, grounded on the teacher's
// FastState (eventloop/state.go), generalized from the event loop's
// five states to the scheduler's tick/park/terminate lifecycle.
type atomicRunState struct {
	v atomic.Uint32
}

func newAtomicRunState() *atomicRunState {
	s := &atomicRunState{}
	s.v.Store(uint32(StateIdle))
	return s
}

func (s *atomicRunState) Load() RunState { return RunState(s.v.Load()) }

func (s *atomicRunState) Store(state RunState) { s.v.Store(uint32(state)) }

func (s *atomicRunState) TryTransition(from, to RunState) bool {
	return s.v.CompareAndSwap(uint32(from), uint32(to))
}

func (s *atomicRunState) IsTerminal() bool { return s.Load() == StateTerminated }
