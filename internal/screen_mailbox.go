package internal

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/fogwraith/uplink-client/internal/style"
)

// mailboxKeyMap defines the keybindings for the mailbox screen
type mailboxKeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Open  key.Binding
	Back  key.Binding
	Close key.Binding
}

func (k mailboxKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.Close}
}

func (k mailboxKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Open, k.Back, k.Close}}
}

func newMailboxKeyMap() mailboxKeyMap {
	return mailboxKeyMap{
		Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "read")),
		Back:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Close: key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc/q", "close")),
	}
}

// MailboxClosedMsg is sent to the parent model when the mailbox is
// dismissed.
type MailboxClosedMsg struct{}

// MailboxScreen lists received messages and shows one at a time.
// Opening a message marks it read locally and reports the read to the
// server; the authoritative unread count arrives later as a push.
type MailboxScreen struct {
	model         *Model
	width, height int
	help          help.Model
	keys          mailboxKeyMap

	cursor   int
	readerID int // -1 while in list view
	viewport viewport.Model

	unsubscribe func()
}

func NewMailboxScreen(m *Model) *MailboxScreen {
	s := &MailboxScreen{
		model:    m,
		width:    m.width,
		height:   m.height,
		help:     help.New(),
		keys:     newMailboxKeyMap(),
		readerID: -1,
		viewport: viewport.New(60, 14),
	}
	s.unsubscribe = m.store.Subscribe(MessagesUpdated, s.clampCursor)
	return s
}

// Close releases the store subscription. The screen must not be used
// afterwards.
func (s *MailboxScreen) Close() {
	s.unsubscribe()
}

func (s *MailboxScreen) clampCursor() {
	messages := s.model.store.Messages()
	if s.cursor >= len(messages) {
		s.cursor = len(messages) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

// Update implements ScreenModel
func (s *MailboxScreen) Update(msg tea.Msg) (ScreenModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	if s.readerID >= 0 {
		switch keyMsg.String() {
		case "esc", "q":
			s.readerID = -1
			return s, nil
		}
		var cmd tea.Cmd
		s.viewport, cmd = s.viewport.Update(keyMsg)
		return s, cmd
	}

	messages := s.model.store.Messages()
	switch keyMsg.String() {
	case "esc", "q":
		return s, func() tea.Msg { return MailboxClosedMsg{} }
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(messages)-1 {
			s.cursor++
		}
	case "enter":
		if len(messages) == 0 {
			return s, nil
		}
		return s, s.openMessage(messages[s.cursor])
	}
	return s, nil
}

// openMessage switches to the reader and marks the message read. The
// local mark keeps the list consistent immediately; the server push
// with the authoritative unread count may land later.
func (s *MailboxScreen) openMessage(m Message) tea.Cmd {
	s.readerID = m.ID
	s.viewport.SetContent(wordwrap.String(Neutralize(m.Body), s.viewport.Width))
	s.viewport.GotoTop()

	if !m.IsRead {
		s.model.store.MarkMessageRead(m.ID)
		s.model.actions.Send(ActionMarkRead, map[string]any{"message_id": m.ID})
	}
	return nil
}

// View implements tea.Model
func (s *MailboxScreen) View() string {
	if s.readerID >= 0 {
		return s.viewReader()
	}
	return s.viewList()
}

func (s *MailboxScreen) viewList() string {
	messages := s.model.store.Messages()

	var rows []string
	if len(messages) == 0 {
		rows = append(rows, style.DimStyle.Render("Mailbox is empty."))
	}
	for i, m := range messages {
		marker := " "
		lineStyle := style.ReadStyle
		if !m.IsRead {
			marker = "●"
			lineStyle = style.UnreadStyle
		}
		line := fmt.Sprintf("%s %-20s %s", marker, Neutralize(m.From), Neutralize(m.Subject))
		if i == s.cursor {
			rows = append(rows, style.SelectedRowStyle.Render("> "+line))
		} else {
			rows = append(rows, lineStyle.Render("  "+line))
		}
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinVertical(lipgloss.Left, rows...),
		"",
		s.help.View(s.keys),
	)
	title := fmt.Sprintf("Mailbox (%d unread)", s.model.store.UnreadCount())
	return style.RenderSubscreen(s.width, s.height, title, content)
}

func (s *MailboxScreen) viewReader() string {
	var current *Message
	for _, m := range s.model.store.Messages() {
		if m.ID == s.readerID {
			current = &m
			break
		}
	}
	if current == nil {
		// Message vanished from the store while open.
		s.readerID = -1
		return s.viewList()
	}

	header := lipgloss.JoinVertical(
		lipgloss.Left,
		style.DimStyle.Render("FROM    ")+style.ValueStyle.Render(Neutralize(current.From)),
		style.DimStyle.Render("SUBJECT ")+style.ValueStyle.Render(Neutralize(current.Subject)),
	)
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		"",
		s.viewport.View(),
		"",
		style.DimStyle.Render("esc back"),
	)
	return style.RenderSubscreen(s.width, s.height, "Message", content)
}

// SetSize updates the screen dimensions
func (s *MailboxScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	vw := width - 20
	if vw < 40 {
		vw = 40
	}
	vh := height - 12
	if vh < 6 {
		vh = 6
	}
	s.viewport.Width = vw
	s.viewport.Height = vh
}
