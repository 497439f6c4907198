package fiber

import "sync/atomic"

// stopState is the atomic cancellation flag a Task owns. StopSource and
// StopToken are non-owning handles to it, matching the C++ stop_source /
// stop_token split this library reproduces cooperatively instead of via
// OS-level interruption.
type stopState struct {
	requested atomic.Bool
}

// requestStop atomically sets the flag and reports whether this call was
// the first to succeed. Safe to call from an interrupt handler.
func (s *stopState) requestStop() bool {
	return !s.requested.Swap(true)
}

// stopRequested reports whether a stop has been requested. Safe to call
// from an interrupt handler.
func (s *stopState) stopRequested() bool {
	return s.requested.Load()
}

// A StopSource is a handle that can request cancellation on the stop_state
// it refers to. The zero value is a source for which StopPossible reports
// false.
type StopSource struct {
	state *stopState
}

// RequestStop requests cancellation, returning true only the first time it
// succeeds. A zero-value StopSource always returns false.
func (s StopSource) RequestStop() bool {
	if s.state == nil {
		return false
	}
	return s.state.requestStop()
}

// StopRequested reports whether cancellation has been requested.
func (s StopSource) StopRequested() bool {
	if s.state == nil {
		return false
	}
	return s.state.stopRequested()
}

// StopPossible reports whether s refers to real storage.
func (s StopSource) StopPossible() bool { return s.state != nil }

// Token returns the read-only StopToken handle for the same stop_state.
func (s StopSource) Token() StopToken { return StopToken{state: s.state} }

// Equal reports whether s and o refer to the same stop_state.
func (s StopSource) Equal(o StopSource) bool { return s.state == o.state }

// A StopToken is a read-only handle to a stop_state. The zero value reports
// StopPossible() == false and StopRequested() == false.
type StopToken struct {
	state *stopState
}

// StopRequested reports whether cancellation has been requested.
func (t StopToken) StopRequested() bool {
	if t.state == nil {
		return false
	}
	return t.state.stopRequested()
}

// StopPossible reports whether t refers to real storage.
func (t StopToken) StopPossible() bool { return t.state != nil }

// Equal reports whether t and o refer to the same stop_state.
func (t StopToken) Equal(o StopToken) bool { return t.state == o.state }
