package internal

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	db := &DebugBuffer{}
	m := NewModel(filepath.Join(t.TempDir(), "config.yaml"), testLogger(), db)
	m.Init()
	return m
}

// nextAction pops one queued outbound action, or fails the test.
func nextAction(t *testing.T, m *Model) Action {
	t.Helper()
	select {
	case a := <-m.actions.Outbound():
		return a
	default:
		t.Fatal("expected a queued action")
		return Action{}
	}
}

func assertNoAction(t *testing.T, m *Model) {
	t.Helper()
	select {
	case a := <-m.actions.Outbound():
		t.Fatalf("unexpected action queued: %+v", a)
	default:
	}
}

func runCmd(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

func TestSessionCommandInputRequiresConnection(t *testing.T) {
	m := newTestModel(t)
	s := NewSessionScreen(m)

	_, cmd := s.Update(keyPress(":"))

	warning, ok := runCmd(cmd).(SessionWarningMsg)
	if !ok {
		t.Fatal("expected a warning while disconnected")
	}
	if !strings.Contains(warning.Text, "connection") {
		t.Errorf("unexpected warning: %q", warning.Text)
	}
	assertNoAction(t, m)
}

func TestSessionCommandSendsWhileConnected(t *testing.T) {
	m := newTestModel(t)
	m.store.SetConnected(true, "203.0.113.7")
	s := NewSessionScreen(m)

	s.Update(keyPress(":"))
	for _, r := range "ls" {
		s.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	s.Update(keyPress("enter"))

	action := nextAction(t, m)
	if action.Kind != ActionCommand || action.Payload["command"] != "ls" {
		t.Errorf("unexpected command action: %+v", action)
	}
}

func TestSessionConnectWithEmptyChainWarns(t *testing.T) {
	m := newTestModel(t)
	s := NewSessionScreen(m)

	_, cmd := s.Update(keyPress("c"))

	if _, ok := runCmd(cmd).(SessionWarningMsg); !ok {
		t.Fatal("expected a warning for empty chain")
	}
	assertNoAction(t, m)
}

func TestSessionConnectSendsConnectTo(t *testing.T) {
	m := newTestModel(t)
	m.store.SetBounceChain([]Hop{{Address: "198.51.100.1", Position: 0}})
	s := NewSessionScreen(m)

	s.Update(keyPress("c"))

	if action := nextAction(t, m); action.Kind != ActionConnectTo {
		t.Errorf("expected connect_to, got %+v", action)
	}
}

func TestSessionAddHopFlow(t *testing.T) {
	m := newTestModel(t)
	s := NewSessionScreen(m)

	s.Update(keyPress("a"))
	for _, r := range "192.0.2.9" {
		s.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	s.Update(keyPress("enter"))

	action := nextAction(t, m)
	if action.Kind != ActionBounceAdd || action.Payload["ip"] != "192.0.2.9" {
		t.Errorf("unexpected action: %+v", action)
	}
}

func TestSessionRemoveHopUsesRenderedPosition(t *testing.T) {
	m := newTestModel(t)
	m.store.SetBounceChain([]Hop{
		{Address: "198.51.100.1", Position: 0},
		{Address: "198.51.100.2", Position: 1},
	})
	s := NewSessionScreen(m)

	s.Update(keyPress("right"))
	s.Update(keyPress("x"))

	action := nextAction(t, m)
	if action.Kind != ActionBounceRemove || action.Payload["position"] != 1 {
		t.Errorf("expected removal of position 1, got %+v", action)
	}
}

func TestSessionChainEditBlockedWhileConnected(t *testing.T) {
	m := newTestModel(t)
	m.store.SetBounceChain([]Hop{{Address: "198.51.100.1", Position: 0}})
	m.store.SetConnected(true, "203.0.113.7")
	s := NewSessionScreen(m)

	// While connected these keys route to the remote panel, which is
	// empty, so nothing may reach the wire.
	s.Update(keyPress("a"))
	s.Update(keyPress("x"))

	assertNoAction(t, m)
}

func TestSessionEscRequestsDisconnectWhileConnected(t *testing.T) {
	m := newTestModel(t)
	m.store.SetConnected(true, "203.0.113.7")
	s := NewSessionScreen(m)

	_, cmd := s.Update(tea.KeyMsg{Type: tea.KeyEsc})

	if _, ok := runCmd(cmd).(SessionDisconnectRequestedMsg); !ok {
		t.Error("expected a disconnect confirmation request")
	}
}

func TestSessionSpeedKeys(t *testing.T) {
	m := newTestModel(t)
	s := NewSessionScreen(m)

	cases := map[string]int{"1": 0, "2": 1, "3": 3, "4": 8}
	for keyName, want := range cases {
		s.Update(keyPress(keyName))
		action := nextAction(t, m)
		if action.Kind != ActionSetSpeed || action.Payload["speed"] != want {
			t.Errorf("key %s: got %+v, want speed %d", keyName, action, want)
		}
	}
}

func TestSessionOpensMailboxAndMissions(t *testing.T) {
	m := newTestModel(t)
	s := NewSessionScreen(m)

	_, cmd := s.Update(keyPress("e"))
	if _, ok := runCmd(cmd).(SessionOpenMailboxMsg); !ok {
		t.Error("expected mailbox open request")
	}

	_, cmd = s.Update(keyPress("m"))
	if _, ok := runCmd(cmd).(SessionOpenMissionsMsg); !ok {
		t.Error("expected missions open request")
	}
}

func TestSessionRunToolTargetsCurrentConnection(t *testing.T) {
	m := newTestModel(t)
	m.store.SetSoftware([]Software{{Name: "Password_Breaker", Version: 2.0}})
	m.store.SetConnected(true, "203.0.113.7")
	s := NewSessionScreen(m)

	s.Update(keyPress("r"))

	action := nextAction(t, m)
	if action.Kind != ActionRunTool {
		t.Fatalf("expected run_tool, got %+v", action)
	}
	if action.Payload["tool_name"] != "Password_Breaker" || action.Payload["target_ip"] != "203.0.113.7" {
		t.Errorf("unexpected payload: %+v", action.Payload)
	}
	if action.Payload["tool_version"] != 2.0 {
		t.Errorf("unexpected tool version: %v", action.Payload["tool_version"])
	}
}

func TestSessionStopTaskSendsStopToolOnce(t *testing.T) {
	m := newTestModel(t)
	m.store.UpsertTasks([]RunningTask{{ID: 7, ToolName: "Password_Breaker", IsActive: true}})
	s := NewSessionScreen(m)

	s.Update(keyPress("s"))

	action := nextAction(t, m)
	if action.Kind != ActionStopTool || action.Payload["task_id"] != 7 {
		t.Fatalf("unexpected stop action: %+v", action)
	}

	// The row stays until a push flips the flag, but repeat presses must
	// not send again.
	s.Update(keyPress("s"))
	assertNoAction(t, m)
	if !strings.Contains(s.View(), "stopping") {
		t.Error("stopped task should render as stopping")
	}
}

func TestSessionStopMarkClearsWhenTaskRemoved(t *testing.T) {
	m := newTestModel(t)
	m.store.UpsertTasks([]RunningTask{{ID: 7, ToolName: "Password_Breaker", IsActive: true}})
	s := NewSessionScreen(m)

	s.Update(keyPress("s"))
	nextAction(t, m)

	// Server finishes the task; a later task reuses the id.
	m.store.RemoveTask(7)
	m.store.UpsertTasks([]RunningTask{{ID: 7, ToolName: "Log_Deleter", IsActive: true}})

	if strings.Contains(s.View(), "stopping") {
		t.Error("reused task id must not render as stopping")
	}
	s.Update(keyPress("s"))
	action := nextAction(t, m)
	if action.Kind != ActionStopTool || action.Payload["task_id"] != 7 {
		t.Errorf("expected a fresh stop for the reused id, got %+v", action)
	}
}

func TestSessionTaskBarShowsOnlyActiveTasks(t *testing.T) {
	m := newTestModel(t)
	m.store.UpsertTasks([]RunningTask{
		{ID: 1, ToolName: "Password_Breaker", IsActive: true},
		{ID: 2, ToolName: "Log_Deleter", IsActive: false},
	})
	s := NewSessionScreen(m)
	s.SetSize(120, 40)

	out := s.View()
	if !strings.Contains(out, "Password_Breaker") {
		t.Error("active task missing from task bar")
	}
	if strings.Contains(out, "Log_Deleter") {
		t.Error("inactive task must not render")
	}
}

func TestSessionViewShowsHUDAndChain(t *testing.T) {
	m := newTestModel(t)
	handle := "neo"
	balance := int64(4500)
	m.store.UpdatePlayer(PlayerDelta{Handle: &handle, Balance: &balance})
	m.store.SetBounceChain([]Hop{{Address: "198.51.100.1", Position: 0}})
	m.store.UpdateGameTime(0)
	s := NewSessionScreen(m)
	s.SetSize(120, 40)

	out := s.View()
	for _, want := range []string{"neo", "4500c", "NORMAL", "198.51.100.1", "2010-03-24"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSessionViewShowsTraceOnlyWhenActive(t *testing.T) {
	m := newTestModel(t)
	s := NewSessionScreen(m)
	s.SetSize(120, 40)

	if strings.Contains(s.View(), "TRACE") {
		t.Error("trace bar should be hidden while inactive")
	}

	m.store.SetConnected(true, "203.0.113.7")
	m.store.SetTrace(0.5, true)
	if !strings.Contains(s.View(), "TRACE") {
		t.Error("trace bar should appear while active")
	}
}

func TestSessionPanelRefreshesOnScreenPush(t *testing.T) {
	m := newTestModel(t)
	m.store.SetConnected(true, "203.0.113.7")
	s := NewSessionScreen(m)
	s.SetSize(120, 40)

	m.store.SetScreen(&ScreenDescriptor{Type: ScreenTypeMessage, Title: "Welcome", Body: "Hello agent."})

	if out := s.View(); !strings.Contains(out, "Hello agent.") {
		t.Error("pushed screen should appear without an explicit refresh")
	}
}
