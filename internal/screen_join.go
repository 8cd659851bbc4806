package internal

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/fogwraith/uplink-client/internal/style"
)

// joinKeyMap defines the keybindings for the join screen
type joinKeyMap struct {
	Tab   key.Binding
	Enter key.Binding
	Quit  key.Binding
}

func (k joinKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Enter, k.Quit}
}

func (k joinKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Tab, k.Enter, k.Quit}}
}

func newJoinKeyMap() joinKeyMap {
	return joinKeyMap{
		Tab:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
		Enter: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "log in")),
		Quit:  key.NewBinding(key.WithKeys("ctrl+q"), key.WithHelp("ctrl+q", "quit")),
	}
}

var errFieldRequired = errors.New("required")

// JoinSubmittedMsg is sent to the parent model when the login form is
// submitted.
type JoinSubmittedMsg struct {
	URL    string
	Handle string
}

// JoinScreen is the login form shown before a game session exists.
type JoinScreen struct {
	form          *huh.Form
	width, height int
	model         *Model
	help          help.Model
	keys          joinKeyMap

	// Form field values (bound to form inputs)
	server string
	handle string
}

// joinSubmitsKeyMap creates a keymap where Enter submits the form
// immediately instead of tabbing through fields.
func joinSubmitsKeyMap() *huh.KeyMap {
	km := huh.NewDefaultKeyMap()
	km.Input.Next = key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next"))
	km.Input.Submit = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "log in"))
	return km
}

func buildJoinForm(server, handle *string) *huh.Form {
	group := huh.NewGroup(
		huh.NewInput().
			Key("server").
			Title("Uplink Server").
			Placeholder("ws://host:port/ws").
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errFieldRequired
				}
				return nil
			}).
			Value(server),

		huh.NewInput().
			Key("handle").
			Title("Agent Handle").
			Placeholder("handle").
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errFieldRequired
				}
				return nil
			}).
			Value(handle),
	)

	return huh.NewForm(group).
		WithWidth(50).
		WithShowHelp(false).
		WithShowErrors(true).
		WithKeyMap(joinSubmitsKeyMap())
}

// NewJoinScreen creates the login form pre-populated from settings.
func NewJoinScreen(m *Model) *JoinScreen {
	screen := &JoinScreen{
		width:  m.width,
		height: m.height,
		model:  m,
		help:   help.New(),
		keys:   newJoinKeyMap(),
		server: m.prefs.ServerURL,
		handle: m.prefs.Handle,
	}
	screen.form = buildJoinForm(&screen.server, &screen.handle)
	return screen
}

// Init implements tea.Model
func (s *JoinScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements ScreenModel
func (s *JoinScreen) Update(msg tea.Msg) (ScreenModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "enter" {
		// First update the form to commit the current field's value
		form, _ := s.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			s.form = f
		}
		s.form.NextGroup()
		if s.form.State == huh.StateCompleted {
			return s, s.handleSubmit()
		}
		return s, nil
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		return s, s.handleSubmit()
	}

	return s, cmd
}

func (s *JoinScreen) handleSubmit() tea.Cmd {
	url := strings.TrimSpace(s.server)
	handle := strings.TrimSpace(s.handle)
	return func() tea.Msg {
		return JoinSubmittedMsg{URL: url, Handle: handle}
	}
}

// View implements tea.Model
func (s *JoinScreen) View() string {
	banner := style.BoldGradient("UPLINK", style.GradientGreen, style.GradientCyan)

	var footer string
	if s.model.notice != "" {
		footer = style.WarningStyle.Render(s.model.notice)
	} else {
		footer = s.help.View(s.keys)
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		banner,
		style.DimStyle.Render("TRUST IS A WEAKNESS"),
		"",
		s.form.View(),
		"",
		footer,
	)

	return style.RenderSubscreen(s.width, s.height, "Agent Login", content)
}

// SetSize updates the screen dimensions
func (s *JoinScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
}
