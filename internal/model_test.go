package internal

import (
	"testing"
)

func TestScreenHistoryStack(t *testing.T) {
	m := newTestModel(t)

	m.NavigateTo(ScreenSession)
	m.PushScreen(ScreenMailbox)
	m.PushScreen(ScreenLogs)

	if m.CurrentScreen() != ScreenLogs {
		t.Errorf("expected logs on top, got %v", m.CurrentScreen())
	}
	if got := m.PopScreen(); got != ScreenMailbox {
		t.Errorf("expected mailbox after pop, got %v", got)
	}
	if got := m.PopScreen(); got != ScreenSession {
		t.Errorf("expected session after pop, got %v", got)
	}
	// Popping the last screen falls back to join.
	if got := m.PopScreen(); got != ScreenJoin {
		t.Errorf("expected join fallback, got %v", got)
	}
}

func TestJoinedPushPopulatesStore(t *testing.T) {
	m := newTestModel(t)

	handle := "neo"
	balance := int64(3000)
	ticks := int64(42)
	m.Update(joinedMsg{
		Player:      &PlayerDelta{Handle: &handle, Balance: &balance},
		BounceChain: []Hop{{Address: "198.51.100.1", Position: 0}},
		Ticks:       &ticks,
		Screen:      &ScreenDescriptor{Type: ScreenTypeMessage, Body: "Welcome."},
	})

	if m.store.Player().Handle != "neo" || m.store.Player().Balance != 3000 {
		t.Errorf("player not populated: %+v", m.store.Player())
	}
	if len(m.store.Connection().BounceChain) != 1 {
		t.Error("bounce chain not populated")
	}
	if m.store.GameTime().Ticks != 42 {
		t.Error("game time not populated")
	}
	if m.store.Screen() == nil {
		t.Error("initial screen not populated")
	}
}

func TestRemoteDisconnectedClearsScreenAndConnection(t *testing.T) {
	m := newTestModel(t)
	m.store.SetConnected(true, "203.0.113.7")
	m.store.SetScreen(&ScreenDescriptor{Type: ScreenTypeMenu})
	m.store.SetTrace(0.9, true)

	m.Update(remoteDisconnectedMsg{Reason: "connection reset"})

	conn := m.store.Connection()
	if conn.IsConnected || conn.TraceActive || conn.TraceProgress != 0 {
		t.Errorf("connection state not cleared: %+v", conn)
	}
	if m.store.Screen() != nil {
		t.Error("remote screen should clear on disconnect")
	}
}

func TestTaskCompleteRemovesTask(t *testing.T) {
	m := newTestModel(t)
	m.store.UpsertTasks([]RunningTask{{ID: 5, ToolName: "Decypher", IsActive: true}})

	m.Update(taskCompleteMsg{TaskID: 5})

	if len(m.store.Tasks()) != 0 {
		t.Error("completed task should be removed")
	}
}

func TestTraceCompleteMarksFullAndInactive(t *testing.T) {
	m := newTestModel(t)
	m.store.SetTrace(0.8, true)

	m.Update(traceCompleteMsg{})

	conn := m.store.Connection()
	if conn.TraceProgress != 1 || conn.TraceActive {
		t.Errorf("unexpected trace state after completion: %+v", conn)
	}
}

func TestMessageReceivedSetsNotice(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.Update(messageReceivedMsg{Message: Message{ID: 1, From: "ARC", Subject: "hi"}})

	if m.store.UnreadCount() != 1 {
		t.Error("message not stored")
	}
	if cmd == nil || m.notice == "" {
		t.Error("expected a footer notice for new mail")
	}
}

func TestServerNoticeIsSanitized(t *testing.T) {
	m := newTestModel(t)

	m.Update(serverNoticeMsg{Text: "denied\x1b[31m"})

	if m.notice != "denied[31m" {
		t.Errorf("notice not sanitized: %q", m.notice)
	}
}

func TestGameOverOpensModal(t *testing.T) {
	m := newTestModel(t)
	m.NavigateTo(ScreenSession)

	m.Update(gameOverMsg{Reason: "Traced to your gateway."})

	if m.CurrentScreen() != ScreenModal {
		t.Errorf("expected modal on top, got %v", m.CurrentScreen())
	}
	if m.modalScreen == nil {
		t.Fatal("modal screen not created")
	}
}

func TestDisconnectModalConfirmSendsAction(t *testing.T) {
	m := newTestModel(t)
	m.store.SetConnected(true, "203.0.113.7")
	m.NavigateTo(ScreenSession)
	m.PushScreen(ScreenModal)

	m.Update(ModalButtonClickedMsg{Type: ModalTypeDisconnect, ButtonClicked: "Disconnect"})

	if action := nextAction(t, m); action.Kind != ActionDisconnect {
		t.Errorf("expected disconnect_from, got %+v", action)
	}
	if m.CurrentScreen() != ScreenSession {
		t.Errorf("modal should pop, got %v", m.CurrentScreen())
	}
}

func TestDisconnectModalCancelSendsNothing(t *testing.T) {
	m := newTestModel(t)
	m.store.SetConnected(true, "203.0.113.7")
	m.NavigateTo(ScreenSession)
	m.PushScreen(ScreenModal)

	m.Update(ModalButtonClickedMsg{Type: ModalTypeDisconnect, ButtonClicked: "Cancel"})

	assertNoAction(t, m)
}

func TestMailboxReopenDoesNotAccumulateSubscribers(t *testing.T) {
	m := newTestModel(t)
	m.NavigateTo(ScreenSession)

	for range 5 {
		m.Update(SessionOpenMailboxMsg{})
		m.Update(MailboxClosedMsg{})
	}

	m.store.mu.RLock()
	remaining := len(m.store.subs[MessagesUpdated])
	m.store.mu.RUnlock()
	if remaining != 0 {
		t.Errorf("dismissed mailboxes left %d subscribers registered", remaining)
	}
}

func TestLeaveSessionReleasesAllSubscriptions(t *testing.T) {
	m := newTestModel(t)
	m.sessionScreen = NewSessionScreen(m)
	m.NavigateTo(ScreenSession)
	m.Update(SessionOpenMissionsMsg{})

	m.Update(socketClosedMsg{})

	m.store.mu.RLock()
	defer m.store.mu.RUnlock()
	for cat, subs := range m.store.subs {
		if len(subs) != 0 {
			t.Errorf("%s kept %d subscribers after session teardown", cat, len(subs))
		}
	}
}

func TestSocketClosedResetsToJoin(t *testing.T) {
	m := newTestModel(t)
	handle := "neo"
	m.store.UpdatePlayer(PlayerDelta{Handle: &handle})
	m.sessionScreen = NewSessionScreen(m)
	m.NavigateTo(ScreenSession)

	m.Update(socketClosedMsg{})

	if m.CurrentScreen() != ScreenJoin {
		t.Errorf("expected join screen, got %v", m.CurrentScreen())
	}
	if m.store.Player().Handle != "" {
		t.Error("store should reset on socket close")
	}
}

func TestClearNoticeIgnoresStaleTimer(t *testing.T) {
	m := newTestModel(t)

	m.showNotice("first")
	staleID := m.noticeID
	m.showNotice("second")

	m.Update(clearNoticeMsg{id: staleID})
	if m.notice != "second" {
		t.Errorf("stale timer cleared the wrong notice: %q", m.notice)
	}

	m.Update(clearNoticeMsg{id: m.noticeID})
	if m.notice != "" {
		t.Errorf("current timer should clear the notice: %q", m.notice)
	}
}
