package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/sebastiantruijens/movie-tui/internal/fetch"
	"github.com/sebastiantruijens/movie-tui/internal/movies"
)

const (
	minCardWidth = 16
	maxCardWidth = 32
	cardGap      = 2
	cardHeight   = 5 // border + three lines
	headerHeight = 10
)

// screen is everything the search screen renders from.
type screen struct {
	input       string
	query       string
	debounced   string
	movies      []movies.Movie
	status      fetch.Status
	err         error
	spinner     string
	cursor      int
	gridFocused bool
	notice      string
	width       int
	height      int
}

// View renders the current UI
func (m Model) View() string {
	var body string
	switch m.state {
	case stateLoadingDetails:
		title := ""
		if m.selected != nil {
			title = m.selected.Title
		}
		body = logoStyle.Render("🎬 Movie Search") + "\n\n" +
			m.spinner.View() + " " + mutedTextStyle.Render("Loading details for "+title+"...") + "\n\n" +
			helpStyle.Render("Esc: Back • ctrl+c: Quit")
	case stateMovieDetails:
		body = m.viewport.View() + "\n" +
			helpStyle.Render("↑/↓: Scroll • o: Open in browser • Esc: Back • ctrl+c: Quit")
		if m.notice != "" {
			body += "\n" + errorStyle.Render(m.notice)
		}
	default:
		body = render(screen{
			input:       m.textInput.View(),
			query:       m.textInput.Value(),
			debounced:   m.debounced,
			movies:      m.movies.Data(),
			status:      m.movies.Status(),
			err:         m.movies.Err(),
			spinner:     m.spinner.View(),
			cursor:      m.cursor,
			gridFocused: m.gridFocused,
			notice:      m.notice,
			width:       m.width,
			height:      m.height,
		})
	}

	return lipgloss.NewStyle().
		Width(m.width).
		AlignHorizontal(lipgloss.Center).
		MaxHeight(m.height).
		Render(body)
}

// render draws the search screen; it depends on s alone.
func render(s screen) string {
	var sb strings.Builder

	sb.WriteString(logoStyle.Render("🎬 Movie Search"))
	sb.WriteString("\n")
	sb.WriteString(inputStyle.Render(s.input))
	sb.WriteString("\n")

	if s.status == fetch.StatusError && s.err != nil {
		sb.WriteString(errorStyle.Render("Error: " + s.err.Error()))
		sb.WriteString("\n")
	}

	if s.status != fetch.StatusError && strings.TrimSpace(s.debounced) != "" {
		sb.WriteString(subtitleStyle.Render("Search result for:") + " " + accentStyle.Render(s.debounced))
		sb.WriteString("\n")
	}

	if s.status == fetch.StatusLoading {
		sb.WriteString(s.spinner + " " + mutedTextStyle.Render("Loading movies..."))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")

	switch {
	case len(s.movies) > 0:
		sb.WriteString(renderGrid(s))
	case s.status != fetch.StatusLoading && s.status != fetch.StatusError:
		if strings.TrimSpace(s.query) != "" {
			sb.WriteString(mutedTextStyle.Render("No movies found"))
		} else {
			sb.WriteString(mutedTextStyle.Render("Search for a movie"))
		}
	}

	if s.notice != "" {
		sb.WriteString("\n")
		sb.WriteString(errorStyle.Render(s.notice))
	}

	help := "Type to search • Tab: Results • Esc: Clear • ctrl+c: Quit"
	if s.gridFocused {
		help = "←/→/↑/↓: Navigate • Enter: Details • Tab: Search • q: Quit"
	}
	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render(help))

	return sb.String()
}

// cardWidth fits three cards and their gaps into the terminal width.
func cardWidth(width int) int {
	w := (width - 4 - (gridColumns-1)*cardGap) / gridColumns
	return max(minCardWidth, min(maxCardWidth, w))
}

func renderGrid(s screen) string {
	w := cardWidth(s.width)
	gap := strings.Repeat(" ", cardGap)

	rows := (len(s.movies) + gridColumns - 1) / gridColumns
	visible := rows
	if s.height > 0 {
		visible = max(1, (s.height-headerHeight)/cardHeight)
	}

	// Keep the cursor row on screen
	first := 0
	if cursorRow := s.cursor / gridColumns; cursorRow >= visible {
		first = cursorRow - visible + 1
	}
	last := min(rows, first+visible)

	lines := make([]string, 0, last-first+1)
	for row := first; row < last; row++ {
		cells := make([]string, 0, gridColumns*2)
		for col := 0; col < gridColumns; col++ {
			i := row*gridColumns + col
			if i >= len(s.movies) {
				break
			}
			if col > 0 {
				cells = append(cells, gap)
			}
			cells = append(cells, renderCard(s.movies[i], w, s.gridFocused && i == s.cursor))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	if last < rows {
		lines = append(lines, mutedTextStyle.Render(fmt.Sprintf("… %d more", len(s.movies)-last*gridColumns)))
	}

	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func renderCard(movie movies.Movie, width int, selected bool) string {
	style := cardStyle
	if selected {
		style = selectedCardStyle
	}
	inner := width - 4 // border and padding

	title := runewidth.Truncate(movie.Title, inner, "…")
	meta := runewidth.Truncate(movie.Year()+" • "+movie.Rating(), inner, "…")

	overview := runewidth.Truncate(strings.Join(strings.Fields(movie.Overview), " "), inner, "…")

	content := cardTitleStyle.Render(title) + "\n" +
		mutedTextStyle.Render(meta) + "\n" +
		mutedTextStyle.Render(overview)

	return style.Width(width - 2).Render(content)
}

// renderDetails formats a movie as markdown for the detail viewport.
func renderDetails(movie movies.Movie, width int) string {
	var md strings.Builder
	fmt.Fprintf(&md, "# %s (%s)\n\n", movie.Title, movie.Year())
	fmt.Fprintf(&md, "**Rating:** %s\n\n", movie.Rating())
	if movie.CriticScore != "" {
		fmt.Fprintf(&md, "**Tomatometer:** %s%%\n\n", movie.CriticScore)
	}
	if movie.AudienceScore != "" {
		fmt.Fprintf(&md, "**Audience Score:** %s%%\n\n", movie.AudienceScore)
	}
	if movie.ReleaseDate != "" {
		fmt.Fprintf(&md, "**Released:** %s\n\n", movie.ReleaseDate)
	}
	if movie.Overview != "" {
		md.WriteString(movie.Overview + "\n\n")
	} else {
		md.WriteString("_No overview available._\n\n")
	}
	if movie.URL != "" {
		fmt.Fprintf(&md, "More info: %s\n", movie.URL)
	}

	wrap := width - 8
	if wrap < 20 {
		wrap = 60
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return md.String()
	}

	out, err := renderer.Render(md.String())
	if err != nil {
		return md.String()
	}
	return out
}
