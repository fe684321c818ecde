// Package ui implements the movie search screen as a bubbletea model.
package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/sebastiantruijens/movie-tui/internal/config"
	"github.com/sebastiantruijens/movie-tui/internal/debounce"
	"github.com/sebastiantruijens/movie-tui/internal/fetch"
	"github.com/sebastiantruijens/movie-tui/internal/movies"
	"github.com/sebastiantruijens/movie-tui/internal/popular"
)

// Grid layout
const gridColumns = 3

// Application states
const (
	stateSearch = iota
	stateLoadingDetails
	stateMovieDetails
)

type moviesResultMsg = fetch.ResultMsg[[]movies.Movie]

// Options wires the screen to its collaborators.
type Options struct {
	Client   movies.Client
	Recorder *popular.Recorder
	Debounce time.Duration
	Logger   *zap.Logger
	// OpenURL opens a movie page; defaults to movies.OpenBrowser.
	OpenURL func(url string) error
}

// Model represents the search screen state
type Model struct {
	ctx       context.Context
	state     int
	client    movies.Client
	debouncer *debounce.Debouncer
	movies    *fetch.State[[]movies.Movie]
	recorder  *popular.Recorder
	logger    *zap.Logger
	openURL   func(string) error

	textInput   textinput.Model
	spinner     spinner.Model
	viewport    viewport.Model
	debounced   string
	gridFocused bool
	cursor      int
	selected    *movies.Movie
	detailsGen  uint64
	notice      string
	width       int
	height      int
}

// NewModel creates the search screen. ctx bounds every fetch it issues.
func NewModel(ctx context.Context, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Recorder == nil {
		opts.Recorder = popular.NewRecorder(nil, opts.Logger, 0)
	}
	if opts.OpenURL == nil {
		opts.OpenURL = movies.OpenBrowser
	}
	if opts.Debounce == 0 {
		opts.Debounce = config.DefaultDebounce
	}

	ti := textinput.New()
	ti.Placeholder = "Search movies ..."
	ti.Prompt = "🔍 "
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 40

	// Option+Backspace deletes a word
	ti.KeyMap.DeleteWordBackward = key.NewBinding(
		key.WithKeys("alt+backspace", "ctrl+w"),
	)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(primaryColor)

	vp := viewport.New(80, 20)

	return Model{
		ctx:       ctx,
		state:     stateSearch,
		client:    opts.Client,
		debouncer: debounce.New(opts.Debounce),
		// Bound to a query on the first commit
		movies:    fetch.New[[]movies.Movie](nil),
		recorder:  opts.Recorder,
		logger:    opts.Logger,
		openURL:   opts.OpenURL,
		textInput: ti,
		spinner:   sp,
		viewport:  vp,
		width:     80,
		height:    24,
	}
}

// Init initializes the screen
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and user input
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.debouncer.Cancel()
			return m, tea.Quit
		}

		switch m.state {
		case stateLoadingDetails:
			return m.updateLoadingDetails(msg)
		case stateMovieDetails:
			return m.updateDetails(msg)
		}
		if m.gridFocused {
			return m.updateGrid(msg)
		}
		return m.updateInput(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = max(20, min(60, msg.Width-12))
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 6
		if m.state == stateMovieDetails && m.selected != nil {
			m.viewport.SetContent(renderDetails(*m.selected, m.viewport.Width))
		}

	case debounce.CommitMsg:
		value, ok := m.debouncer.Commit(msg)
		if !ok {
			return m, nil
		}
		m.debounced = value
		m.cursor = 0

		query := strings.TrimSpace(value)
		if query == "" {
			m.movies.Reset()
			m.gridFocused = false
			return m, nil
		}

		client := m.client
		m.movies.SetFunc(func(ctx context.Context) ([]movies.Movie, error) {
			return client.Search(ctx, query)
		})
		m.logger.Debug("Searching movies", zap.String("query", query))
		cmds = append(cmds, m.movies.Refetch(m.ctx), m.spinner.Tick)

	case moviesResultMsg:
		if !m.movies.Resolve(msg) {
			m.logger.Debug("Discarded stale movie response", zap.Uint64("gen", msg.Gen))
			return m, nil
		}
		if msg.Err != nil {
			m.logger.Warn("Movie search failed",
				zap.String("query", m.debounced),
				zap.Error(msg.Err))
			return m, nil
		}

		list := m.movies.Data()
		m.cursor = min(m.cursor, max(0, len(list)-1))
		if len(list) == 0 {
			m.gridFocused = false
		}
		cmds = append(cmds, m.recorder.Observe(m.debounced, msg.Gen, list))

	case detailsLoadedMsg:
		if msg.gen != m.detailsGen || m.state != stateLoadingDetails {
			return m, nil
		}
		if msg.err != nil {
			m.notice = "Could not load details: " + msg.err.Error()
			m.logger.Warn("Failed to load movie details",
				zap.String("url", msg.movie.URL),
				zap.Error(msg.err))
		}
		m.showDetails(msg.movie)

	case popular.RecordedMsg:
		// Reported or logged by the recorder, never surfaced.

	case browserOpenedMsg:
		if msg.err != nil {
			m.notice = "Could not open browser: " + msg.err.Error()
			m.logger.Warn("Failed to open browser", zap.Error(msg.err))
		}

	case spinner.TickMsg:
		if m.movies.Loading() || m.state == stateLoadingDetails {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	default:
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down", "enter":
		if len(m.movies.Data()) > 0 {
			m.gridFocused = true
			m.textInput.Blur()
			return m, nil
		}
		if msg.String() == "enter" {
			return m, nil
		}
	case "esc":
		if m.textInput.Value() != "" {
			m.textInput.SetValue("")
			return m, m.debouncer.Trigger("")
		}
		return m, nil
	}

	before := m.textInput.Value()

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	cmds := []tea.Cmd{cmd}

	if m.textInput.Value() != before {
		m.notice = ""
		cmds = append(cmds, m.debouncer.Trigger(m.textInput.Value()))
	}

	return m, tea.Batch(cmds...)
}

func (m Model) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	list := m.movies.Data()
	if len(list) == 0 {
		m.gridFocused = false
		m.textInput.Focus()
		return m, textinput.Blink
	}

	switch msg.String() {
	case "left", "h":
		if m.cursor > 0 {
			m.cursor--
		}
	case "right", "l":
		if m.cursor < len(list)-1 {
			m.cursor++
		}
	case "down", "j":
		if m.cursor+gridColumns < len(list) {
			m.cursor += gridColumns
		}
	case "up", "k":
		if m.cursor-gridColumns >= 0 {
			m.cursor -= gridColumns
			break
		}
		fallthrough
	case "tab", "esc", "/":
		m.gridFocused = false
		m.textInput.Focus()
		return m, textinput.Blink
	case "enter":
		movie := list[m.cursor]
		detailer, ok := m.client.(movies.Detailer)
		if !ok || movie.URL == "" {
			m.showDetails(movie)
			return m, nil
		}

		m.selected = &movie
		m.state = stateLoadingDetails
		m.detailsGen++
		ctx, gen := m.ctx, m.detailsGen
		return m, tea.Batch(
			m.spinner.Tick,
			func() tea.Msg {
				detailed, err := detailer.Details(ctx, movie)
				return detailsLoadedMsg{gen: gen, movie: detailed, err: err}
			},
		)
	case "q":
		m.debouncer.Cancel()
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) showDetails(movie movies.Movie) {
	m.selected = &movie
	m.state = stateMovieDetails
	m.viewport.SetContent(renderDetails(movie, m.viewport.Width))
	m.viewport.GotoTop()
}

func (m Model) updateLoadingDetails(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace":
		// The pending response is dropped by the state check
		m.state = stateSearch
		m.selected = nil
		return m, nil
	case "q":
		m.debouncer.Cancel()
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateDetails(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace":
		m.state = stateSearch
		m.selected = nil
		m.notice = ""
		return m, nil
	case "o", "enter":
		if m.selected != nil && m.selected.URL != "" {
			openURL, url := m.openURL, m.selected.URL
			return m, func() tea.Msg {
				return browserOpenedMsg{err: openURL(url)}
			}
		}
		return m, nil
	case "q":
		m.debouncer.Cancel()
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// Query returns the raw input text.
func (m Model) Query() string { return m.textInput.Value() }

// DebouncedQuery returns the last committed query.
func (m Model) DebouncedQuery() string { return m.debounced }

// Movies returns the current result list.
func (m Model) Movies() []movies.Movie { return m.movies.Data() }

// Status returns the fetch status of the result list.
func (m Model) Status() fetch.Status { return m.movies.Status() }

// Err returns the last fetch error.
func (m Model) Err() error { return m.movies.Err() }

type browserOpenedMsg struct {
	err error
}

type detailsLoadedMsg struct {
	gen   uint64
	movie movies.Movie
	err   error
}
