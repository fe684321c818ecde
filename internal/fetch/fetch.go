// Package fetch holds the data/loading/error state of a repeatable request
// and runs the request as a bubbletea command.
package fetch

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Status is the derived state of a fetch.
type Status int

// Fetch states
const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Func performs one request.
type Func[T any] func(ctx context.Context) (T, error)

// ResultMsg carries the outcome of a Refetch back into Update.
type ResultMsg[T any] struct {
	Gen  uint64
	Data T
	Err  error
}

// State is the fetch state for one kind of request.
// It must only be touched from the bubbletea Update loop.
type State[T any] struct {
	fn      Func[T]
	gen     uint64
	data    T
	hasData bool
	loading bool
	err     error
}

// New creates a fetch state around fn.
func New[T any](fn Func[T]) *State[T] {
	return &State[T]{fn: fn}
}

// SetFunc replaces the request run by the next Refetch.
func (s *State[T]) SetFunc(fn Func[T]) {
	s.fn = fn
}

// Refetch marks the state loading and returns a command running the current
// request. Results of earlier Refetch calls are discarded once this one is issued.
// Without a request function it does nothing and returns nil.
func (s *State[T]) Refetch(ctx context.Context) tea.Cmd {
	if s.fn == nil {
		return nil
	}
	s.gen++
	s.loading = true
	s.err = nil

	gen, fn := s.gen, s.fn
	return func() tea.Msg {
		data, err := fn(ctx)
		return ResultMsg[T]{Gen: gen, Data: data, Err: err}
	}
}

// Reset clears data and error without issuing a request.
// Any in-flight response is discarded.
func (s *State[T]) Reset() {
	var zero T
	s.gen++
	s.data = zero
	s.hasData = false
	s.loading = false
	s.err = nil
}

// Resolve applies msg if it answers the latest Refetch and reports whether it did.
// A failed request keeps the previous data.
func (s *State[T]) Resolve(msg ResultMsg[T]) bool {
	if msg.Gen != s.gen || !s.loading {
		return false
	}

	s.loading = false
	if msg.Err != nil {
		s.err = msg.Err
		return true
	}

	s.data = msg.Data
	s.hasData = true
	s.err = nil
	return true
}

// Generation identifies the latest Refetch or Reset.
func (s *State[T]) Generation() uint64 { return s.gen }

// Data returns the last successful result.
func (s *State[T]) Data() T { return s.data }

// Loading reports whether a request is in flight.
func (s *State[T]) Loading() bool { return s.loading }

// Err returns the error of the last request.
func (s *State[T]) Err() error { return s.err }

// Status derives the fetch status from loading, err and data.
func (s *State[T]) Status() Status {
	switch {
	case s.loading:
		return StatusLoading
	case s.err != nil:
		return StatusError
	case s.hasData:
		return StatusSuccess
	default:
		return StatusIdle
	}
}
