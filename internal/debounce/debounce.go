// Package debounce delays committing a rapidly changing value until it has
// been stable for a fixed window.
//
// bubbletea timers cannot be stopped once scheduled, so cancellation works by
// generation: every Trigger supersedes the ticks before it and Commit only
// accepts the tick of the newest generation.
package debounce

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// CommitMsg is emitted when a debounce window elapses.
type CommitMsg struct {
	Seq   uint64
	Value string
}

// Debouncer tracks the pending commit for one input.
type Debouncer struct {
	window  time.Duration
	seq     uint64
	pending bool
}

// New creates a Debouncer with the given quiet period.
func New(window time.Duration) *Debouncer {
	return &Debouncer{window: window}
}

// Window returns the quiet period.
func (d *Debouncer) Window() time.Duration {
	return d.window
}

// Trigger (re)starts the window for value and returns the timer command.
func (d *Debouncer) Trigger(value string) tea.Cmd {
	d.seq++
	d.pending = true
	msg := CommitMsg{Seq: d.seq, Value: value}

	if d.window <= 0 {
		return func() tea.Msg { return msg }
	}

	return tea.Tick(d.window, func(time.Time) tea.Msg {
		return msg
	})
}

// Commit reports whether msg belongs to the latest Trigger and, if so,
// returns its value. Superseded or cancelled ticks return false.
func (d *Debouncer) Commit(msg CommitMsg) (string, bool) {
	if !d.pending || msg.Seq != d.seq {
		return "", false
	}
	d.pending = false
	return msg.Value, true
}

// Cancel drops the pending commit, if any.
func (d *Debouncer) Cancel() {
	d.seq++
	d.pending = false
}

// Pending reports whether a commit is outstanding.
func (d *Debouncer) Pending() bool {
	return d.pending
}
