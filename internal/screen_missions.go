package internal

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/fogwraith/uplink-client/internal/style"
)

// missionsKeyMap defines the keybindings for the missions screen
type missionsKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Accept key.Binding
	Close  key.Binding
}

func (k missionsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Accept, k.Close}
}

func (k missionsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Accept, k.Close}}
}

func newMissionsKeyMap() missionsKeyMap {
	return missionsKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Accept: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "accept")),
		Close:  key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc/q", "close")),
	}
}

// MissionsClosedMsg is sent to the parent model when the mission board
// is dismissed.
type MissionsClosedMsg struct{}

// MissionsScreen shows the mission board. Accepting fires the action
// and nothing else; the board only changes when the server pushes a
// missions update.
type MissionsScreen struct {
	model         *Model
	width, height int
	help          help.Model
	keys          missionsKeyMap

	cursor   int
	accepted map[int]bool

	unsubscribe func()
}

func NewMissionsScreen(m *Model) *MissionsScreen {
	s := &MissionsScreen{
		model:    m,
		width:    m.width,
		height:   m.height,
		help:     help.New(),
		keys:     newMissionsKeyMap(),
		accepted: make(map[int]bool),
	}
	s.unsubscribe = m.store.Subscribe(MissionsUpdated, s.syncBoard)
	return s
}

// Close releases the store subscription. The screen must not be used
// afterwards.
func (s *MissionsScreen) Close() {
	s.unsubscribe()
}

// syncBoard reconciles local state with a pushed board: the cursor is
// clamped and accept marks for missions no longer listed are dropped,
// so a reused id starts fresh.
func (s *MissionsScreen) syncBoard() {
	available := s.model.store.AvailableMissions()
	listed := make(map[int]bool, len(available))
	for _, m := range available {
		listed[m.ID] = true
	}
	for id := range s.accepted {
		if !listed[id] {
			delete(s.accepted, id)
		}
	}
	if s.cursor >= len(available) {
		s.cursor = len(available) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

// Update implements ScreenModel
func (s *MissionsScreen) Update(msg tea.Msg) (ScreenModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	available := s.model.store.AvailableMissions()
	switch keyMsg.String() {
	case "esc", "q":
		return s, func() tea.Msg { return MissionsClosedMsg{} }
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(available)-1 {
			s.cursor++
		}
	case "enter":
		if len(available) == 0 {
			return s, nil
		}
		mission := available[s.cursor]
		if s.accepted[mission.ID] {
			return s, nil
		}
		s.accepted[mission.ID] = true
		s.model.actions.Send(ActionAcceptMission, map[string]any{"mission_id": mission.ID})
	}
	return s, nil
}

// View implements tea.Model
func (s *MissionsScreen) View() string {
	available := s.model.store.AvailableMissions()
	active := s.model.store.ActiveMissions()

	var rows []string
	rows = append(rows, style.SubTitleStyle.Render("AVAILABLE"))
	if len(available) == 0 {
		rows = append(rows, style.DimStyle.Render("  No missions on the board."))
	}
	for i, mission := range available {
		line := fmt.Sprintf("%-20s %8dc  diff %d", Neutralize(mission.Employer), mission.Payment, mission.Difficulty)
		switch {
		case s.accepted[mission.ID]:
			rows = append(rows, style.DisabledControlStyle.Render("  "+line+"  [ ACCEPTING... ]"))
		case i == s.cursor:
			rows = append(rows, style.SelectedRowStyle.Render("> "+line))
		default:
			rows = append(rows, style.ValueStyle.Render("  "+line))
		}
	}

	if len(available) > 0 && s.cursor < len(available) {
		rows = append(rows, "", style.DimStyle.Render(
			wordwrap.String(Neutralize(available[s.cursor].Description), s.descWidth())))
	}

	rows = append(rows, "", style.SubTitleStyle.Render("ACTIVE"))
	if len(active) == 0 {
		rows = append(rows, style.DimStyle.Render("  No active missions."))
	}
	for _, mission := range active {
		line := fmt.Sprintf("%-20s %8dc", Neutralize(mission.Employer), mission.Payment)
		rows = append(rows, style.SolvedStyle.Render("  "+line))
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinVertical(lipgloss.Left, rows...),
		"",
		s.help.View(s.keys),
	)
	return style.RenderSubscreen(s.width, s.height, "Mission Board", content)
}

func (s *MissionsScreen) descWidth() int {
	w := s.width - 24
	if w < 40 {
		w = 40
	}
	return w
}

// SetSize updates the screen dimensions
func (s *MissionsScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
}
