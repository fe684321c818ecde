package debounce

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fire(t *testing.T, d *Debouncer, value string) CommitMsg {
	t.Helper()
	cmd := d.Trigger(value)
	require.NotNil(t, cmd)
	msg, ok := cmd().(CommitMsg)
	require.True(t, ok, "expected CommitMsg")
	return msg
}

func TestCommitAfterWindow(t *testing.T) {
	t.Parallel()

	d := New(5 * time.Millisecond)
	start := time.Now()
	msg := fire(t, d, "bat")

	assert.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)
	assert.True(t, d.Pending())

	value, ok := d.Commit(msg)
	assert.True(t, ok)
	assert.Equal(t, "bat", value)
	assert.False(t, d.Pending())
}

func TestLaterTriggerSupersedes(t *testing.T) {
	t.Parallel()

	d := New(0)
	first := fire(t, d, "b")
	second := fire(t, d, "ba")
	third := fire(t, d, "bat")

	_, ok := d.Commit(first)
	assert.False(t, ok)
	_, ok = d.Commit(second)
	assert.False(t, ok)

	value, ok := d.Commit(third)
	assert.True(t, ok)
	assert.Equal(t, "bat", value)
}

func TestCommitOnlyOnce(t *testing.T) {
	t.Parallel()

	d := New(0)
	msg := fire(t, d, "bat")

	_, ok := d.Commit(msg)
	require.True(t, ok)
	_, ok = d.Commit(msg)
	assert.False(t, ok)
}

func TestCancelDropsPending(t *testing.T) {
	t.Parallel()

	d := New(0)
	msg := fire(t, d, "bat")
	d.Cancel()

	assert.False(t, d.Pending())
	_, ok := d.Commit(msg)
	assert.False(t, ok)
}

func TestEmptyValueCommits(t *testing.T) {
	t.Parallel()

	d := New(0)
	fire(t, d, "bat")
	msg := fire(t, d, "")

	value, ok := d.Commit(msg)
	assert.True(t, ok)
	assert.Empty(t, value)
	assert.Equal(t, time.Duration(0), d.Window())
}
