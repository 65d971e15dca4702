// Package tui renders the first-run welcome overlay.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"parityshell/internal/firstrun"
)

var (
	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2).
			MaxWidth(65)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f7c0af")).
			Bold(true).
			Align(lipgloss.Center).
			Width(55).
			MarginBottom(1)

	bodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Align(lipgloss.Center).
			Width(55)

	probeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Align(lipgloss.Center).
			Width(55).
			MarginTop(1)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			Align(lipgloss.Center).
			Width(55).
			MarginTop(1)
)

type visibilityMsg bool

type probeDoneMsg struct{}

// Model drives the welcome overlay. It subscribes to the first-run store and
// leaves the screen as soon as the store reports the overlay hidden.
type Model struct {
	store   *firstrun.Store
	updates <-chan bool
	probe   <-chan struct{}

	spin     spinner.Model
	checking bool
	width    int
	height   int
}

// NewModel builds the overlay model. probe may be nil when no
// account-presence check is running.
func NewModel(ctx context.Context, store *firstrun.Store, probe <-chan struct{}) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#3ccad7"))

	return &Model{
		store:    store,
		updates:  store.Subscribe(ctx),
		probe:    probe,
		spin:     sp,
		checking: probe != nil,
	}
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.waitForUpdate()}
	if m.checking {
		cmds = append(cmds, m.spin.Tick, m.waitForProbe())
	}
	return tea.Batch(cmds...)
}

func (m *Model) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		visible, ok := <-m.updates
		if !ok {
			return visibilityMsg(false)
		}
		return visibilityMsg(visible)
	}
}

func (m *Model) waitForProbe() tea.Cmd {
	return func() tea.Msg {
		<-m.probe
		return probeDoneMsg{}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			// Dismiss for good.
			m.store.Toggle(false)
			return m, tea.Quit
		case "q", "esc", "ctrl+c":
			// Leave without recording a dismissal.
			return m, tea.Quit
		}
		return m, nil

	case visibilityMsg:
		if !bool(msg) {
			return m, tea.Quit
		}
		return m, m.waitForUpdate()

	case probeDoneMsg:
		m.checking = false
		return m, nil

	case spinner.TickMsg:
		if !m.checking {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) View() string {
	var content []string

	content = append(content, titleStyle.Render("Welcome to Parity Shell"))
	content = append(content, bodyStyle.Render(
		"It looks like this is your first run. Create an account or a vault\n"+
			"with your wallet daemon and this screen will stay out of your way."))

	if m.checking {
		content = append(content, probeStyle.Render(m.spin.View()+" Checking the daemon for existing accounts…"))
	}

	content = append(content, footerStyle.Render("enter: don't show again • q: close"))

	overlay := overlayStyle.Render(strings.Join(content, "\n"))
	if m.width == 0 || m.height == 0 {
		return overlay
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, overlay)
}

// Run shows the overlay until it is dismissed or the user leaves.
func Run(ctx context.Context, store *firstrun.Store, probe <-chan struct{}) error {
	program := tea.NewProgram(NewModel(ctx, store, probe), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
