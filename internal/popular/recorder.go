// Package popular reports settled search terms and their top result to the
// search-count store.
package popular

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/sebastiantruijens/movie-tui/internal/movies"
)

// Counter persists search terms.
type Counter interface {
	UpdateSearchCount(ctx context.Context, query string, top movies.Movie) error
}

// RecordedMsg is emitted after a report attempt.
type RecordedMsg struct {
	Query string
	Err   error
}

// Recorder reports each settled query at most once.
type Recorder struct {
	counter  Counter
	logger   *zap.Logger
	timeout  time.Duration
	reported map[uint64]bool
}

// NewRecorder creates a Recorder. A nil counter disables reporting.
func NewRecorder(counter Counter, logger *zap.Logger, timeout time.Duration) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{
		counter:  counter,
		logger:   logger,
		timeout:  timeout,
		reported: make(map[uint64]bool),
	}
}

// Observe returns a command reporting (query, list[0]) when gen, the fetch
// generation that produced list, has not been reported yet. It returns nil
// when there is nothing to report.
func (r *Recorder) Observe(query string, gen uint64, list []movies.Movie) tea.Cmd {
	query = strings.TrimSpace(query)
	if r.counter == nil || query == "" || len(list) == 0 || r.reported[gen] {
		return nil
	}
	r.reported[gen] = true

	top := list[0]
	return func() tea.Msg {
		ctx := context.Background()
		if r.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, r.timeout)
			defer cancel()
		}

		err := r.counter.UpdateSearchCount(ctx, query, top)
		if err != nil {
			r.logger.Warn("Failed to update search count",
				zap.String("query", query),
				zap.Int("movie_id", top.ID),
				zap.Error(err))
		} else {
			r.logger.Debug("Search count updated", zap.String("query", query))
		}
		return RecordedMsg{Query: query, Err: err}
	}
}
