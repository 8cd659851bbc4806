package internal

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Handlers for server push events. Each one folds the event into the
// state store; screens observe the store through subscriptions and
// re-render on the next View.

func (m *Model) handleJoined(msg tea.Msg) (tea.Model, tea.Cmd) {
	joined := msg.(joinedMsg)

	if joined.Player != nil {
		m.store.UpdatePlayer(*joined.Player)
	}
	if joined.BounceChain != nil {
		m.store.SetBounceChain(joined.BounceChain)
	}
	if joined.Connection != nil {
		m.store.SetConnected(joined.Connection.IsConnected, joined.Connection.TargetIP)
	}
	if joined.Ticks != nil {
		m.store.UpdateGameTime(*joined.Ticks)
	}
	if joined.Screen != nil {
		m.store.SetScreen(joined.Screen)
	}
	return m, nil
}

func (m *Model) handleScreenUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.store.SetScreen(msg.(screenUpdateMsg).Screen)
	return m, nil
}

func (m *Model) handleRemoteConnected(msg tea.Msg) (tea.Model, tea.Cmd) {
	connected := msg.(remoteConnectedMsg)
	m.store.SetConnected(true, connected.TargetIP)
	if connected.Screen != nil {
		m.store.SetScreen(connected.Screen)
	}
	m.soundPlayer.PlayAsync(SoundConnected)
	return m, m.showNotice("Connection established: " + Neutralize(connected.TargetIP))
}

func (m *Model) handleRemoteDisconnected(msg tea.Msg) (tea.Model, tea.Cmd) {
	disconnected := msg.(remoteDisconnectedMsg)
	m.store.SetConnected(false, "")
	m.store.SetScreen(nil)
	m.soundPlayer.PlayAsync(SoundDisconnected)

	if disconnected.Traced {
		return m, m.showNotice("WARNING: Connection traced!")
	}
	if disconnected.Reason != "" {
		return m, m.showNotice("Disconnected: " + Neutralize(disconnected.Reason))
	}
	return m, m.showNotice("Disconnected.")
}

func (m *Model) handleBounceChain(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.store.SetBounceChain(msg.(bounceChainMsg).Chain)
	return m, nil
}

func (m *Model) handleTasks(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.store.UpsertTasks(msg.(tasksMsg).Tasks)
	return m, nil
}

func (m *Model) handleTaskComplete(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.store.RemoveTask(msg.(taskCompleteMsg).TaskID)
	m.soundPlayer.PlayAsync(SoundTaskDone)
	return m, nil
}

func (m *Model) handleTrace(msg tea.Msg) (tea.Model, tea.Cmd) {
	trace := msg.(traceMsg)
	m.store.SetTrace(trace.Progress, trace.Active)
	return m, nil
}

func (m *Model) handleTraceComplete(tea.Msg) (tea.Model, tea.Cmd) {
	m.store.SetTrace(1, false)
	m.soundPlayer.PlayAsync(SoundTraceWarning)
	return m, m.showNotice("TRACE COMPLETE - you have been located!")
}

func (m *Model) handleBalance(msg tea.Msg) (tea.Model, tea.Cmd) {
	balance := msg.(balanceMsg).Balance
	m.store.UpdatePlayer(PlayerDelta{Balance: &balance})
	return m, nil
}

func (m *Model) handleRating(msg tea.Msg) (tea.Model, tea.Cmd) {
	rating := msg.(ratingMsg)
	m.store.UpdatePlayer(PlayerDelta{
		UplinkRating:      &rating.UplinkRating,
		NeuromancerRating: &rating.NeuromancerRating,
	})
	return m, nil
}

func (m *Model) handleMessageReceived(msg tea.Msg) (tea.Model, tea.Cmd) {
	received := msg.(messageReceivedMsg)
	m.store.AddMessage(received.Message)
	m.soundPlayer.PlayAsync(SoundNewMessage)
	return m, m.showNotice("New message from " + Neutralize(received.Message.From))
}

func (m *Model) handleMessageRead(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.store.MarkMessageRead(msg.(messageReadMsg).MessageID)
	return m, nil
}

func (m *Model) handleMissions(msg tea.Msg) (tea.Model, tea.Cmd) {
	missions := msg.(missionsMsg)
	m.store.SetMissions(missions.Available, missions.Active)
	return m, nil
}

func (m *Model) handleSoftware(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.store.SetSoftware(msg.(softwareMsg).Software)
	return m, nil
}

func (m *Model) handleGateway(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.store.UpdateGateway(msg.(gatewayMsg).Delta)
	return m, nil
}

func (m *Model) handleGameTime(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.store.UpdateGameTime(msg.(gameTimeMsg).Ticks)
	return m, nil
}

func (m *Model) handleSpeed(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.store.SetSpeed(msg.(speedMsg).Speed)
	return m, nil
}

func (m *Model) handleServerNotice(msg tea.Msg) (tea.Model, tea.Cmd) {
	notice := msg.(serverNoticeMsg)
	m.soundPlayer.PlayAsync(SoundError)
	return m, m.showNotice(Neutralize(notice.Text))
}

func (m *Model) handleGameOver(msg tea.Msg) (tea.Model, tea.Cmd) {
	over := msg.(gameOverMsg)
	reason := Neutralize(over.Reason)
	if reason == "" {
		reason = "Your gateway has been seized. Game over."
	}
	m.modalScreen = NewModalScreen(ModalTypeGameOver, "GAME OVER", reason, []string{"OK"}, m)
	m.modalScreen.SetSize(m.width, m.height)
	m.PushScreen(ScreenModal)
	m.soundPlayer.PlayAsync(SoundError)
	return m, m.modalScreen.Init()
}
