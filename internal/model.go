package internal

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Screen identifies the client-side shell screens (not to be confused
// with server-pushed remote screens, which live inside the session
// screen's remote panel).
type Screen int

const (
	ScreenJoin Screen = iota
	ScreenSession
	ScreenMailbox
	ScreenMissions
	ScreenLogs
	ScreenModal
)

// ScreenModel is the interface all shell screens implement.
type ScreenModel interface {
	Update(tea.Msg) (ScreenModel, tea.Cmd)
	View() string
}

type msgHandler = func(msg tea.Msg) (tea.Model, tea.Cmd)

// clearNoticeMsg expires a footer notice; the id guards against
// clearing a newer notice with an older timer.
type clearNoticeMsg struct {
	id int
}

// Model is the top-level bubbletea model. All session state lives in
// the injected State store; the model owns only shell concerns: screen
// stack, transport lifecycle, notices.
type Model struct {
	program *tea.Program

	cfgPath     string
	prefs       *Settings
	logger      *slog.Logger
	debugBuffer *DebugBuffer
	soundPlayer *SoundPlayer

	store   *State
	actions *ActionChannel
	bounce  *BounceController

	msgHandlers map[reflect.Type]msgHandler

	screenHistory []Screen
	width         int
	height        int

	// Transport lifecycle
	transport       *Transport
	transportCancel context.CancelFunc
	leaving         bool

	// Footer notice
	notice   string
	noticeID int

	// Screens
	joinScreen     *JoinScreen
	sessionScreen  *SessionScreen
	mailboxScreen  *MailboxScreen
	missionsScreen *MissionsScreen
	logsScreen     *LogsScreen
	modalScreen    *ModalScreen
}

func NewModel(cfgPath string, logger *slog.Logger, db *DebugBuffer) *Model {
	prefs, err := readSettings(cfgPath)
	if err != nil {
		logger.Error("Unable to read config file", "path", cfgPath, "err", err)
		prefs = defaultSettings()
	}

	soundPlayer, err := NewSoundPlayer(prefs.EnableSounds)
	if err != nil {
		logger.Error("Failed to initialize sound player", "err", err)
	}

	store := NewState(logger)
	actions := NewActionChannel(logger)

	return &Model{
		cfgPath:       cfgPath,
		prefs:         prefs,
		logger:        logger,
		debugBuffer:   db,
		soundPlayer:   soundPlayer,
		store:         store,
		actions:       actions,
		bounce:        NewBounceController(store, actions),
		msgHandlers:   make(map[reflect.Type]msgHandler),
		screenHistory: []Screen{ScreenJoin},
	}
}

// CurrentScreen returns the current screen, or ScreenJoin if history is empty
func (m *Model) CurrentScreen() Screen {
	if len(m.screenHistory) == 0 {
		return ScreenJoin
	}
	return m.screenHistory[len(m.screenHistory)-1]
}

// PushScreen adds a new screen to history (modal/overlay pattern)
func (m *Model) PushScreen(screen Screen) {
	m.screenHistory = append(m.screenHistory, screen)
}

// PopScreen removes current screen and returns to previous
func (m *Model) PopScreen() Screen {
	if len(m.screenHistory) <= 1 {
		m.screenHistory = []Screen{ScreenJoin}
		return ScreenJoin
	}
	m.screenHistory = m.screenHistory[:len(m.screenHistory)-1]
	return m.screenHistory[len(m.screenHistory)-1]
}

// NavigateTo clears history and jumps to a screen (hard navigation)
func (m *Model) NavigateTo(screen Screen) {
	m.screenHistory = []Screen{screen}
}

func (m *Model) currentScreen() ScreenModel {
	switch m.CurrentScreen() {
	case ScreenJoin:
		if m.joinScreen == nil {
			return nil
		}
		return m.joinScreen
	case ScreenSession:
		if m.sessionScreen == nil {
			return nil
		}
		return m.sessionScreen
	case ScreenMailbox:
		if m.mailboxScreen == nil {
			return nil
		}
		return m.mailboxScreen
	case ScreenMissions:
		if m.missionsScreen == nil {
			return nil
		}
		return m.missionsScreen
	case ScreenLogs:
		if m.logsScreen == nil {
			return nil
		}
		return m.logsScreen
	case ScreenModal:
		if m.modalScreen == nil {
			return nil
		}
		return m.modalScreen
	}
	return nil
}

// registerHandler registers a message handler for the given message
// type. The msgType parameter should be a zero-value instance.
func (m *Model) registerHandler(msgType tea.Msg, handler msgHandler) {
	m.msgHandlers[reflect.TypeOf(msgType)] = handler
}

func (m *Model) Init() tea.Cmd {
	m.joinScreen = NewJoinScreen(m)

	m.registerHandler(tea.WindowSizeMsg{}, m.handleWindowResize)
	m.registerHandler(clearNoticeMsg{}, m.handleClearNotice)

	// Shell screen messages
	m.registerHandler(JoinSubmittedMsg{}, m.handleJoinSubmitted)
	m.registerHandler(MailboxClosedMsg{}, m.handleScreenClosed)
	m.registerHandler(MissionsClosedMsg{}, m.handleScreenClosed)
	m.registerHandler(LogsCancelledMsg{}, m.handleScreenClosed)
	m.registerHandler(ModalCancelledMsg{}, m.handleScreenClosed)
	m.registerHandler(ModalButtonClickedMsg{}, m.handleModalButtonClicked)
	m.registerHandler(SessionOpenMailboxMsg{}, m.handleOpenMailbox)
	m.registerHandler(SessionOpenMissionsMsg{}, m.handleOpenMissions)
	m.registerHandler(SessionDisconnectRequestedMsg{}, m.handleDisconnectRequested)
	m.registerHandler(SessionWarningMsg{}, m.handleSessionWarning)

	// Server push messages
	m.registerHandler(joinedMsg{}, m.handleJoined)
	m.registerHandler(screenUpdateMsg{}, m.handleScreenUpdate)
	m.registerHandler(remoteConnectedMsg{}, m.handleRemoteConnected)
	m.registerHandler(remoteDisconnectedMsg{}, m.handleRemoteDisconnected)
	m.registerHandler(bounceChainMsg{}, m.handleBounceChain)
	m.registerHandler(tasksMsg{}, m.handleTasks)
	m.registerHandler(taskCompleteMsg{}, m.handleTaskComplete)
	m.registerHandler(traceMsg{}, m.handleTrace)
	m.registerHandler(traceCompleteMsg{}, m.handleTraceComplete)
	m.registerHandler(balanceMsg{}, m.handleBalance)
	m.registerHandler(ratingMsg{}, m.handleRating)
	m.registerHandler(messageReceivedMsg{}, m.handleMessageReceived)
	m.registerHandler(messageReadMsg{}, m.handleMessageRead)
	m.registerHandler(missionsMsg{}, m.handleMissions)
	m.registerHandler(softwareMsg{}, m.handleSoftware)
	m.registerHandler(gatewayMsg{}, m.handleGateway)
	m.registerHandler(gameTimeMsg{}, m.handleGameTime)
	m.registerHandler(speedMsg{}, m.handleSpeed)
	m.registerHandler(serverNoticeMsg{}, m.handleServerNotice)
	m.registerHandler(gameOverMsg{}, m.handleGameOver)

	return m.joinScreen.Init()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.logger.Debug("Update UI", "tea.Msg", fmt.Sprintf("%T", msg), "currentScreen", m.CurrentScreen())

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "ctrl+q":
			return m, tea.Quit
		case "ctrl+l":
			if m.CurrentScreen() != ScreenLogs {
				m.logsScreen = NewLogsScreen(m.debugBuffer, m)
				m.logsScreen.SetSize(m.width, m.height)
				m.PushScreen(ScreenLogs)
				return m, nil
			}
		}
	}

	if closed, ok := msg.(socketClosedMsg); ok {
		return m, m.handleSocketClosed(closed)
	}

	if handler, ok := m.msgHandlers[reflect.TypeOf(msg)]; ok {
		return handler(msg)
	}

	if screen := m.currentScreen(); screen != nil {
		_, cmd := screen.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) View() string {
	if screen := m.currentScreen(); screen != nil {
		return screen.View()
	}
	return ""
}

func (m *Model) Start() error {
	m.program = tea.NewProgram(m, tea.WithAltScreen())
	_, err := m.program.Run()
	return err
}

// joinSession dials the game server and starts the push pump. The
// joined event carries the initial state snapshot.
func (m *Model) joinSession(url, handle string) error {
	ctx, cancel := context.WithCancel(context.Background())

	dialCtx, dialDone := context.WithTimeout(ctx, 10*time.Second)
	defer dialDone()

	transport, err := DialTransport(dialCtx, url, handle, m.actions, m.logger)
	if err != nil {
		cancel()
		return fmt.Errorf("error joining server: %w", err)
	}

	m.transport = transport
	m.transportCancel = cancel
	m.leaving = false

	transport.Run(ctx, func(msg any) {
		m.program.Send(msg)
	})
	return nil
}

// leaveSession tears down the transport and resets state, returning to
// the join screen.
func (m *Model) leaveSession() {
	m.leaving = true
	if m.transportCancel != nil {
		m.transportCancel()
		m.transportCancel = nil
	}
	if m.transport != nil {
		_ = m.transport.Close()
		m.transport = nil
	}
	m.store.Reset()
	if m.sessionScreen != nil {
		m.sessionScreen.Close()
		m.sessionScreen = nil
	}
	if m.mailboxScreen != nil {
		m.mailboxScreen.Close()
		m.mailboxScreen = nil
	}
	if m.missionsScreen != nil {
		m.missionsScreen.Close()
		m.missionsScreen = nil
	}
	m.NavigateTo(ScreenJoin)
}

// showNotice sets the transient footer notice and schedules its
// expiry.
func (m *Model) showNotice(text string) tea.Cmd {
	m.notice = text
	m.noticeID++
	if m.sessionScreen != nil {
		m.sessionScreen.SetNotice(text)
	}
	id := m.noticeID
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return clearNoticeMsg{id: id}
	})
}

func (m *Model) handleClearNotice(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg.(clearNoticeMsg).id == m.noticeID {
		m.notice = ""
		if m.sessionScreen != nil {
			m.sessionScreen.SetNotice("")
		}
	}
	return m, nil
}

func (m *Model) handleWindowResize(msg tea.Msg) (tea.Model, tea.Cmd) {
	windowMsg := msg.(tea.WindowSizeMsg)
	m.width = windowMsg.Width
	m.height = windowMsg.Height
	m.resizeAllScreens(windowMsg.Width, windowMsg.Height)
	return m, nil
}

func (m *Model) resizeAllScreens(w, h int) {
	if m.joinScreen != nil {
		m.joinScreen.SetSize(w, h)
	}
	if m.sessionScreen != nil {
		m.sessionScreen.SetSize(w, h)
	}
	if m.mailboxScreen != nil {
		m.mailboxScreen.SetSize(w, h)
	}
	if m.missionsScreen != nil {
		m.missionsScreen.SetSize(w, h)
	}
	if m.logsScreen != nil {
		m.logsScreen.SetSize(w, h)
	}
	if m.modalScreen != nil {
		m.modalScreen.SetSize(w, h)
	}
}

// ---- shell screen handlers ----

func (m *Model) handleJoinSubmitted(msg tea.Msg) (tea.Model, tea.Cmd) {
	join := msg.(JoinSubmittedMsg)

	m.prefs.ServerURL = join.URL
	m.prefs.Handle = join.Handle
	if err := m.prefs.save(m.cfgPath); err != nil {
		m.logger.Warn("Failed to save settings", "err", err)
	}

	if err := m.joinSession(join.URL, join.Handle); err != nil {
		m.logger.Error("Join failed", "err", err)
		m.joinScreen = NewJoinScreen(m)
		m.joinScreen.SetSize(m.width, m.height)
		return m, tea.Batch(m.joinScreen.Init(), m.showNotice("Connection failed: "+err.Error()))
	}

	if m.sessionScreen != nil {
		m.sessionScreen.Close()
	}
	m.sessionScreen = NewSessionScreen(m)
	m.sessionScreen.SetSize(m.width, m.height)
	m.NavigateTo(ScreenSession)
	m.soundPlayer.PlayAsync(SoundLoggedIn)
	return m, nil
}

func (m *Model) handleScreenClosed(tea.Msg) (tea.Model, tea.Cmd) {
	m.closeCurrentScreen()
	m.PopScreen()
	return m, nil
}

// closeCurrentScreen discards the current overlay screen, releasing
// any store subscriptions it holds. Screens are rebuilt on every open,
// so a dismissed instance must not stay registered.
func (m *Model) closeCurrentScreen() {
	switch m.CurrentScreen() {
	case ScreenMailbox:
		if m.mailboxScreen != nil {
			m.mailboxScreen.Close()
			m.mailboxScreen = nil
		}
	case ScreenMissions:
		if m.missionsScreen != nil {
			m.missionsScreen.Close()
			m.missionsScreen = nil
		}
	case ScreenLogs:
		m.logsScreen = nil
	case ScreenModal:
		m.modalScreen = nil
	}
}

func (m *Model) handleOpenMailbox(tea.Msg) (tea.Model, tea.Cmd) {
	if m.mailboxScreen != nil {
		m.mailboxScreen.Close()
	}
	m.mailboxScreen = NewMailboxScreen(m)
	m.mailboxScreen.SetSize(m.width, m.height)
	m.PushScreen(ScreenMailbox)
	return m, nil
}

func (m *Model) handleOpenMissions(tea.Msg) (tea.Model, tea.Cmd) {
	if m.missionsScreen != nil {
		m.missionsScreen.Close()
	}
	m.missionsScreen = NewMissionsScreen(m)
	m.missionsScreen.SetSize(m.width, m.height)
	m.PushScreen(ScreenMissions)
	return m, nil
}

func (m *Model) handleDisconnectRequested(tea.Msg) (tea.Model, tea.Cmd) {
	m.modalScreen = NewModalScreen(ModalTypeDisconnect, "Disconnect",
		"Disconnect from the remote system?", []string{"Cancel", "Disconnect"}, m)
	m.modalScreen.SetSize(m.width, m.height)
	m.PushScreen(ScreenModal)
	return m, m.modalScreen.Init()
}

func (m *Model) handleSessionWarning(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, m.showNotice(msg.(SessionWarningMsg).Text)
}

func (m *Model) handleModalButtonClicked(msg tea.Msg) (tea.Model, tea.Cmd) {
	clicked := msg.(ModalButtonClickedMsg)
	m.closeCurrentScreen()
	m.PopScreen()

	switch clicked.Type {
	case ModalTypeDisconnect:
		if clicked.ButtonClicked == "Disconnect" {
			if err := m.bounce.Disconnect(); err != nil {
				return m, m.showNotice(err.Error())
			}
		}
	case ModalTypeGameOver:
		m.leaveSession()
		m.joinScreen = NewJoinScreen(m)
		m.joinScreen.SetSize(m.width, m.height)
		return m, m.joinScreen.Init()
	}
	return m, nil
}

func (m *Model) handleSocketClosed(msg socketClosedMsg) tea.Cmd {
	wasLeaving := m.leaving
	m.leaveSession()
	m.joinScreen = NewJoinScreen(m)
	m.joinScreen.SetSize(m.width, m.height)
	if wasLeaving {
		return m.joinScreen.Init()
	}
	m.soundPlayer.PlayAsync(SoundError)
	return tea.Batch(m.joinScreen.Init(), m.showNotice("Server connection closed."))
}
