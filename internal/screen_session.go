package internal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fogwraith/uplink-client/internal/style"
)

// sessionInputMode selects which inline input, if any, owns the
// keyboard.
type sessionInputMode int

const (
	inputNone sessionInputMode = iota
	inputCommand
	inputAddHop
)

// Messages sent from SessionScreen to parent
type SessionOpenMailboxMsg struct{}
type SessionOpenMissionsMsg struct{}
type SessionDisconnectRequestedMsg struct{}
type SessionWarningMsg struct {
	Text string
}

// sessionKeyMap defines the keybindings shown in the help bar. The
// actual bindings differ between the connected and idle states.
type sessionKeyMap struct {
	Connect    key.Binding
	Disconnect key.Binding
	AddHop     key.Binding
	RemoveHop  key.Binding
	HopCursor  key.Binding
	Command    key.Binding
	Tool       key.Binding
	RunTool    key.Binding
	TaskCursor key.Binding
	StopTask   key.Binding
	Mailbox    key.Binding
	Missions   key.Binding
	Speed      key.Binding
	Quit       key.Binding
}

func newSessionKeyMap() sessionKeyMap {
	return sessionKeyMap{
		Connect:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "connect")),
		Disconnect: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "disconnect")),
		AddHop:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add hop")),
		RemoveHop:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove hop")),
		HopCursor:  key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←/→", "hop")),
		Command:    key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "command")),
		Tool:       key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "tool")),
		RunTool:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "run tool")),
		TaskCursor: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "task")),
		StopTask:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop task")),
		Mailbox:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "mail")),
		Missions:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "missions")),
		Speed:      key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "speed")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+q"), key.WithHelp("ctrl+q", "quit")),
	}
}

func (k sessionKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Connect, k.AddHop, k.RemoveHop, k.Mailbox, k.Missions, k.Speed, k.Quit}
}

func (k sessionKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Connect, k.Disconnect, k.AddHop, k.RemoveHop, k.HopCursor},
		{k.Command, k.Tool, k.RunTool, k.TaskCursor, k.StopTask},
		{k.Mailbox, k.Missions, k.Speed, k.Quit},
	}
}

func (k sessionKeyMap) connectedHelp() []key.Binding {
	return []key.Binding{k.Disconnect, k.Command, k.Tool, k.RunTool, k.StopTask, k.Speed, k.Quit}
}

// connectedShortHelp wraps the keymap so help.View shows the bindings
// that apply while connected.
type connectedShortHelp struct {
	sessionKeyMap
}

func (k connectedShortHelp) ShortHelp() []key.Binding {
	return k.connectedHelp()
}

// SessionScreen is the main in-game screen: HUD, bounce chain, remote
// panel, task bar and software toolbar.
type SessionScreen struct {
	model         *Model
	panel         *RemotePanel
	width, height int
	help          help.Model
	keys          sessionKeyMap

	taskBar progress.Model

	hopCursor  int
	toolCursor int
	taskCursor int

	// stopping remembers tasks a stop was already sent for; the row
	// stays until a push flips its active flag.
	stopping map[int]bool

	unsubscribes []func()

	inputMode sessionInputMode
	input     textinput.Model

	notice string
}

func NewSessionScreen(m *Model) *SessionScreen {
	input := textinput.New()
	input.CharLimit = 128

	s := &SessionScreen{
		model:    m,
		panel:    NewRemotePanel(m.store, m.actions, m.logger),
		width:    m.width,
		height:   m.height,
		help:     help.New(),
		keys:     newSessionKeyMap(),
		taskBar:  progress.New(progress.WithSolidFill("40"), progress.WithWidth(24)),
		input:    input,
		stopping: make(map[int]bool),
	}

	s.unsubscribes = []func(){
		m.store.Subscribe(ScreenUpdated, s.panel.Refresh),
		m.store.Subscribe(ConnectionUpdated, s.clampCursors),
		m.store.Subscribe(SoftwareUpdated, s.clampCursors),
		m.store.Subscribe(TasksUpdated, s.clampCursors),
	}
	s.panel.Refresh()
	return s
}

// Close releases the store subscriptions. The screen must not be used
// afterwards.
func (s *SessionScreen) Close() {
	for _, unsub := range s.unsubscribes {
		unsub()
	}
	s.unsubscribes = nil
}

// SetNotice sets or clears the transient footer notice.
func (s *SessionScreen) SetNotice(text string) {
	s.notice = text
}

func (s *SessionScreen) clampCursors() {
	chain := s.model.store.Connection().BounceChain
	if s.hopCursor >= len(chain) {
		s.hopCursor = len(chain) - 1
	}
	if s.hopCursor < 0 {
		s.hopCursor = 0
	}
	software := s.model.store.Software()
	if s.toolCursor >= len(software) {
		s.toolCursor = len(software) - 1
	}
	if s.toolCursor < 0 {
		s.toolCursor = 0
	}
	tasks := s.model.store.ActiveTasks()
	if s.taskCursor >= len(tasks) {
		s.taskCursor = len(tasks) - 1
	}
	if s.taskCursor < 0 {
		s.taskCursor = 0
	}
	// Drop stop marks for tasks the store no longer carries, so a
	// reused id is not born dimmed.
	known := make(map[int]bool)
	for _, t := range s.model.store.Tasks() {
		known[t.ID] = true
	}
	for id := range s.stopping {
		if !known[id] {
			delete(s.stopping, id)
		}
	}
}

// Update implements ScreenModel
func (s *SessionScreen) Update(msg tea.Msg) (ScreenModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	if s.inputMode != inputNone {
		return s.updateInput(keyMsg)
	}

	conn := s.model.store.Connection()
	if conn.IsConnected {
		return s.updateConnected(keyMsg)
	}
	return s.updateIdle(keyMsg, conn)
}

func (s *SessionScreen) updateInput(msg tea.KeyMsg) (ScreenModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.inputMode = inputNone
		s.input.Reset()
		return s, nil
	case "enter":
		value := strings.TrimSpace(s.input.Value())
		mode := s.inputMode
		s.inputMode = inputNone
		s.input.Reset()

		if value == "" {
			return s, nil
		}
		switch mode {
		case inputCommand:
			s.model.actions.Send(ActionCommand, map[string]any{"command": value})
		case inputAddHop:
			if err := s.model.bounce.AddHop(value); err != nil {
				return s, s.warn(err.Error())
			}
		}
		return s, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// updateConnected routes keys while a remote session is live. Keys the
// shell does not claim go to the remote panel.
func (s *SessionScreen) updateConnected(msg tea.KeyMsg) (ScreenModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return s, func() tea.Msg { return SessionDisconnectRequestedMsg{} }
	case ":":
		s.inputMode = inputCommand
		s.input.Placeholder = "command"
		s.input.Focus()
		return s, textinput.Blink
	case "t":
		software := s.model.store.Software()
		if len(software) > 0 {
			s.toolCursor = (s.toolCursor + 1) % len(software)
		}
		return s, nil
	case "r":
		return s, s.runSelectedTool()
	case "tab":
		s.cycleTaskCursor()
		return s, nil
	case "s":
		return s, s.stopSelectedTask()
	case "1", "2", "3", "4":
		return s, s.setSpeed(msg.String())
	}
	return s, s.panel.HandleKey(msg)
}

func (s *SessionScreen) updateIdle(msg tea.KeyMsg, conn Connection) (ScreenModel, tea.Cmd) {
	switch msg.String() {
	case "c":
		if err := s.model.bounce.Connect(); err != nil {
			return s, s.warn("Cannot connect: " + err.Error())
		}
		return s, nil
	case "a":
		s.inputMode = inputAddHop
		s.input.Placeholder = "ip address"
		s.input.Focus()
		return s, textinput.Blink
	case "x":
		if len(conn.BounceChain) == 0 {
			return s, nil
		}
		if err := s.model.bounce.RemoveHop(conn.BounceChain[s.hopCursor].Position); err != nil {
			return s, s.warn(err.Error())
		}
		return s, nil
	case "left", "h":
		if s.hopCursor > 0 {
			s.hopCursor--
		}
		return s, nil
	case "right", "l":
		if s.hopCursor < len(conn.BounceChain)-1 {
			s.hopCursor++
		}
		return s, nil
	case ":":
		return s, s.warn("Command input requires an active connection.")
	case "e":
		return s, func() tea.Msg { return SessionOpenMailboxMsg{} }
	case "m":
		return s, func() tea.Msg { return SessionOpenMissionsMsg{} }
	case "tab":
		s.cycleTaskCursor()
		return s, nil
	case "s":
		return s, s.stopSelectedTask()
	case "1", "2", "3", "4":
		return s, s.setSpeed(msg.String())
	}
	return s, nil
}

func (s *SessionScreen) warn(text string) tea.Cmd {
	return func() tea.Msg { return SessionWarningMsg{Text: text} }
}

var speedKeys = map[string]int{"1": 0, "2": 1, "3": 3, "4": 8}

func (s *SessionScreen) setSpeed(keyName string) tea.Cmd {
	speed, ok := speedKeys[keyName]
	if !ok {
		return nil
	}
	s.model.actions.Send(ActionSetSpeed, map[string]any{"speed": speed})
	return nil
}

func (s *SessionScreen) cycleTaskCursor() {
	tasks := s.model.store.ActiveTasks()
	if len(tasks) > 0 {
		s.taskCursor = (s.taskCursor + 1) % len(tasks)
	}
}

func (s *SessionScreen) stopSelectedTask() tea.Cmd {
	tasks := s.model.store.ActiveTasks()
	if len(tasks) == 0 {
		return nil
	}
	task := tasks[s.taskCursor]
	if s.stopping[task.ID] {
		return nil
	}
	s.stopping[task.ID] = true
	s.model.actions.Send(ActionStopTool, map[string]any{"task_id": task.ID})
	return nil
}

func (s *SessionScreen) runSelectedTool() tea.Cmd {
	software := s.model.store.Software()
	if len(software) == 0 {
		return s.warn("No software installed.")
	}
	conn := s.model.store.Connection()
	if !conn.IsConnected {
		return s.warn("No target to run against.")
	}
	tool := software[s.toolCursor]
	s.model.actions.Send(ActionRunTool, map[string]any{
		"tool_name":    tool.Name,
		"tool_version": tool.Version,
		"target_ip":    conn.TargetAddress,
		"target_data":  map[string]any{},
	})
	return nil
}

// View implements tea.Model
func (s *SessionScreen) View() string {
	conn := s.model.store.Connection()

	sections := []string{
		s.viewHUD(),
		s.viewBounceBar(conn),
	}
	if conn.TraceActive {
		sections = append(sections, s.viewTraceBar(conn))
	}
	sections = append(sections, s.viewMain(conn), s.viewFooter(conn))

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return style.AppStyle.Render(content)
}

func (s *SessionScreen) viewHUD() string {
	player := s.model.store.Player()
	gt := s.model.store.GameTime()

	parts := []string{
		style.TitleStyle.Render(" UPLINK "),
		style.ValueStyle.Render(Neutralize(player.Handle)),
		style.DimStyle.Render("balance ") + style.ValueStyle.Render(fmt.Sprintf("%dc", player.Balance)),
		style.DimStyle.Render("rating ") + style.ValueStyle.Render(fmt.Sprintf("%d", player.UplinkRating)),
		style.DimStyle.Render(gt.DateString),
		style.HotkeyStyle.Render(s.model.store.SpeedLabel()),
	}
	if unread := s.model.store.UnreadCount(); unread > 0 {
		parts = append(parts, style.UnreadStyle.Render(fmt.Sprintf("✉ %d", unread)))
	}
	return strings.Join(parts, style.DimStyle.Render(" │ "))
}

func (s *SessionScreen) viewBounceBar(conn Connection) string {
	gateway := s.model.store.Gateway()
	origin := gateway.Name
	if origin == "" {
		origin = "Gateway"
	}
	return style.DimStyle.Render(Neutralize(origin)+" ") + RenderChain(conn, s.hopCursor)
}

func (s *SessionScreen) viewTraceBar(conn Connection) string {
	return style.DangerStyle.Render("TRACE ") +
		style.TraceBar(30, clamp01(conn.TraceProgress)) +
		style.DangerStyle.Render(" "+TracePercent(conn.TraceProgress))
}

func (s *SessionScreen) viewMain(conn Connection) string {
	panelWidth := s.width * 2 / 3
	if panelWidth < 40 {
		panelWidth = 40
	}
	sideWidth := s.width - panelWidth - 4
	if sideWidth < 24 {
		sideWidth = 24
	}

	var left string
	if conn.IsConnected && s.panel.Active() {
		left = s.panel.View(panelWidth)
	} else if conn.IsConnected {
		left = style.RemotePanelStyle.Width(panelWidth).Render(
			style.DimStyle.Render("Connected to " + Neutralize(conn.TargetAddress) + "\nAwaiting screen data..."))
	} else {
		left = style.RemotePanelStyle.Width(panelWidth).Render(
			style.DimStyle.Render("NOT CONNECTED\n\nBuild a bounce chain with 'a', then press 'c' to connect."))
	}

	right := lipgloss.JoinVertical(lipgloss.Left,
		s.viewTasks(sideWidth),
		"",
		s.viewToolbar(sideWidth, conn.IsConnected),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
}

func (s *SessionScreen) viewTasks(width int) string {
	var b strings.Builder
	b.WriteString(style.ScreenTitleStyle.Render("TASKS"))
	b.WriteString("\n")

	tasks := s.model.store.ActiveTasks()
	if len(tasks) == 0 {
		b.WriteString(style.DimStyle.Render("No running tasks."))
		return style.TaskBarStyle.Width(width).Render(b.String())
	}

	for i, task := range tasks {
		if i > 0 {
			b.WriteString("\n")
		}
		marker := "  "
		if i == s.taskCursor {
			marker = "> "
		}
		label := fmt.Sprintf("%s%s → %s", marker, Neutralize(task.ToolName), Neutralize(task.TargetAddress))
		if s.stopping[task.ID] {
			b.WriteString(style.DimStyle.Render(label + " (stopping)"))
		} else {
			b.WriteString(style.TaskActiveStyle.Render(label))
		}
		b.WriteString("\n")
		b.WriteString(s.taskBar.ViewAs(clamp01(task.Progress)))
		b.WriteString("\n")
	}
	return style.TaskBarStyle.Width(width).Render(b.String())
}

func (s *SessionScreen) viewToolbar(width int, connected bool) string {
	var b strings.Builder
	b.WriteString(style.ScreenTitleStyle.Render("SOFTWARE"))
	b.WriteString("\n")

	software := s.model.store.Software()
	if len(software) == 0 {
		b.WriteString(style.DimStyle.Render("No software installed."))
		return style.TaskBarStyle.Width(width).Render(b.String())
	}

	for i, tool := range software {
		line := fmt.Sprintf("%s v%.1f", Neutralize(tool.Name), tool.Version)
		switch {
		case i == s.toolCursor && connected:
			b.WriteString(style.SelectedRowStyle.Render("> " + line))
		case i == s.toolCursor:
			b.WriteString(style.ValueStyle.Render("> " + line))
		default:
			b.WriteString(style.DimStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return style.TaskBarStyle.Width(width).Render(b.String())
}

func (s *SessionScreen) viewFooter(conn Connection) string {
	switch s.inputMode {
	case inputCommand:
		return style.HotkeyStyle.Render(":") + s.input.View()
	case inputAddHop:
		return style.HotkeyStyle.Render("add hop: ") + s.input.View()
	}
	if s.notice != "" {
		return style.WarningStyle.Render(s.notice)
	}
	if conn.IsConnected {
		return s.help.View(connectedShortHelp{s.keys})
	}
	return s.help.View(s.keys)
}

// SetSize updates the screen dimensions
func (s *SessionScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
}
