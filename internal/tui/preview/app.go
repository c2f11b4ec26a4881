// Package preview is a small bubbletea app for trying out prompt styles.
// It renders the configured prompt line for a snapshot and lets the user
// toggle each status flag to see the indicators and colors in place.
package preview

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cbrewster/jj-prompt/internal/render"
	"github.com/cbrewster/jj-prompt/internal/status"
	"github.com/cbrewster/jj-prompt/internal/style"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Model is the bubbletea model for the preview TUI.
type Model struct {
	state    status.RepoState
	cfg      style.Config
	keys     KeyMap
	renderer *lipgloss.Renderer
	width    int
}

// NewModel creates a preview over the given snapshot, or over a sample
// snapshot when run outside a workspace.
func NewModel(cfg style.Config, state *status.RepoState) Model {
	if state == nil {
		state = sampleState()
	}
	return Model{
		state:    *state,
		cfg:      cfg,
		keys:     DefaultKeyMap(),
		renderer: lipgloss.DefaultRenderer(),
	}
}

func sampleState() *status.RepoState {
	return &status.RepoState{
		RepoRoot:          "/home/user/repo",
		ChangeID:          "kxqpzmso",
		ChangeIDPrefixLen: 4,
		Bookmarks:         []status.BookmarkRef{{Name: "main", Distance: 0}},
		Description:       "add feature",
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles key presses by toggling the corresponding status flag.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.ToggleEmpty):
			m.state.Empty = !m.state.Empty
		case key.Matches(msg, m.keys.ToggleConflict):
			m.state.Conflict = !m.state.Conflict
		case key.Matches(msg, m.keys.ToggleDivergent):
			m.state.Divergent = !m.state.Divergent
		case key.Matches(msg, m.keys.ToggleHidden):
			m.state.Hidden = !m.state.Hidden
		case key.Matches(msg, m.keys.ToggleImmutable):
			m.state.Immutable = !m.state.Immutable
		}
	}

	return m, nil
}

// View renders the prompt line with the current flags and a help footer.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("jj-prompt preview"))
	sb.WriteString("\n\n")
	sb.WriteString(render.Format(&m.state, m.cfg, m.renderer))
	sb.WriteString("\n\n")

	help := []string{
		m.keys.ToggleEmpty.Help().Key + " " + m.keys.ToggleEmpty.Help().Desc,
		m.keys.ToggleConflict.Help().Key + " " + m.keys.ToggleConflict.Help().Desc,
		m.keys.ToggleDivergent.Help().Key + " " + m.keys.ToggleDivergent.Help().Desc,
		m.keys.ToggleHidden.Help().Key + " " + m.keys.ToggleHidden.Help().Desc,
		m.keys.ToggleImmutable.Help().Key + " " + m.keys.ToggleImmutable.Help().Desc,
		m.keys.Quit.Help().Key + " " + m.keys.Quit.Help().Desc,
	}
	sb.WriteString(helpStyle.Render(strings.Join(help, " · ")))
	sb.WriteString("\n")

	return sb.String()
}
