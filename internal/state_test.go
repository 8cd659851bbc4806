package internal

import (
	"io"
	"log/slog"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSubscribeNotificationOrder(t *testing.T) {
	s := NewState(testLogger())

	var order []int
	s.Subscribe(PlayerUpdated, func() { order = append(order, 1) })
	s.Subscribe(PlayerUpdated, func() { order = append(order, 2) })
	s.Subscribe(PlayerUpdated, func() { order = append(order, 3) })

	handle := "neo"
	s.UpdatePlayer(PlayerDelta{Handle: &handle})

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("handlers ran out of registration order: %v", order)
	}
}

func TestUnsubscribeRemovesHandler(t *testing.T) {
	s := NewState(testLogger())

	var order []int
	s.Subscribe(PlayerUpdated, func() { order = append(order, 1) })
	unsub := s.Subscribe(PlayerUpdated, func() { order = append(order, 2) })
	s.Subscribe(PlayerUpdated, func() { order = append(order, 3) })

	unsub()
	unsub() // repeat calls are a no-op

	handle := "neo"
	s.UpdatePlayer(PlayerDelta{Handle: &handle})

	if len(order) != 2 || order[0] != 1 || order[1] != 3 {
		t.Errorf("remaining handlers should keep registration order: %v", order)
	}
}

func TestUpdatePlayerPartialDelta(t *testing.T) {
	s := NewState(testLogger())

	handle := "neo"
	balance := int64(3000)
	s.UpdatePlayer(PlayerDelta{Handle: &handle, Balance: &balance})

	rating := 7
	s.UpdatePlayer(PlayerDelta{UplinkRating: &rating})

	p := s.Player()
	if p.Handle != "neo" || p.Balance != 3000 || p.UplinkRating != 7 {
		t.Errorf("unexpected player after partial updates: %+v", p)
	}
}

func TestUpdateGatewayPartialDelta(t *testing.T) {
	s := NewState(testLogger())

	name := "Gateway Alpha"
	cpu := 60
	s.UpdateGateway(GatewayDelta{Name: &name, CPUSpeed: &cpu})

	modem := 4
	s.UpdateGateway(GatewayDelta{ModemSpeed: &modem})

	g := s.Gateway()
	if g.Name != "Gateway Alpha" || g.CPUSpeed != 60 || g.ModemSpeed != 4 {
		t.Errorf("unexpected gateway after partial updates: %+v", g)
	}
}

func TestUpsertTasksMergesByID(t *testing.T) {
	s := NewState(testLogger())

	s.UpsertTasks([]RunningTask{
		{ID: 1, ToolName: "Password_Breaker", Progress: 0.2, IsActive: true},
		{ID: 2, ToolName: "Trace_Tracker", Progress: 0.5, IsActive: true},
	})
	s.UpsertTasks([]RunningTask{
		{ID: 1, ToolName: "Password_Breaker", Progress: 0.8, IsActive: true},
		{ID: 3, ToolName: "Decypher", Progress: 0.1, IsActive: true},
	})

	tasks := s.Tasks()
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	if tasks[0].ID != 1 || tasks[0].Progress != 0.8 {
		t.Errorf("task 1 not updated in place: %+v", tasks[0])
	}
	if tasks[2].ID != 3 {
		t.Errorf("new task should append, got order %+v", tasks)
	}
}

func TestRemoveTaskUnknownIDIsSilent(t *testing.T) {
	s := NewState(testLogger())
	s.UpsertTasks([]RunningTask{{ID: 1, IsActive: true}})

	s.RemoveTask(99)

	if len(s.Tasks()) != 1 {
		t.Errorf("unknown id removal should leave tasks alone")
	}
}

func TestActiveTasksFiltersInactive(t *testing.T) {
	s := NewState(testLogger())
	s.UpsertTasks([]RunningTask{
		{ID: 1, IsActive: true},
		{ID: 2, IsActive: false},
	})

	active := s.ActiveTasks()
	if len(active) != 1 || active[0].ID != 1 {
		t.Errorf("expected only the active task, got %+v", active)
	}
}

func TestAddMessagePrependsAndCountsUnread(t *testing.T) {
	s := NewState(testLogger())
	s.AddMessage(Message{ID: 1, Subject: "first"})
	s.AddMessage(Message{ID: 2, Subject: "second"})

	msgs := s.Messages()
	if msgs[0].ID != 2 {
		t.Errorf("newest message should be first, got %+v", msgs)
	}
	if s.UnreadCount() != 2 {
		t.Errorf("expected 2 unread, got %d", s.UnreadCount())
	}
}

func TestMarkMessageReadIdempotent(t *testing.T) {
	s := NewState(testLogger())
	s.AddMessage(Message{ID: 1})

	notifies := 0
	s.Subscribe(MessagesUpdated, func() { notifies++ })

	s.MarkMessageRead(1)
	s.MarkMessageRead(1)
	s.MarkMessageRead(42) // unknown id

	if s.UnreadCount() != 0 {
		t.Errorf("expected 0 unread, got %d", s.UnreadCount())
	}
	if notifies != 1 {
		t.Errorf("expected exactly one notification, got %d", notifies)
	}
}

func TestSetSoftwareDedupesKeepingHighestVersion(t *testing.T) {
	s := NewState(testLogger())
	s.SetSoftware([]Software{
		{Name: "Password_Breaker", Version: 1.0},
		{Name: "Password_Breaker", Version: 2.0},
		{Name: "Decypher", Version: 1.0},
	})

	sw := s.Software()
	if len(sw) != 2 {
		t.Fatalf("expected 2 tools, got %d", len(sw))
	}
	if sw[0].Name != "Password_Breaker" || sw[0].Version != 2.0 {
		t.Errorf("expected highest version kept, got %+v", sw[0])
	}
}

func TestTraceProgressStoredRaw(t *testing.T) {
	s := NewState(testLogger())
	s.SetTrace(1.7, true)

	if got := s.Connection().TraceProgress; got != 1.7 {
		t.Errorf("store must keep raw progress, got %v", got)
	}
}

func TestDisconnectClearsTrace(t *testing.T) {
	s := NewState(testLogger())
	s.SetConnected(true, "203.0.113.7")
	s.SetTrace(0.5, true)

	s.SetConnected(false, "")

	conn := s.Connection()
	if conn.TraceActive || conn.TraceProgress != 0 {
		t.Errorf("disconnect should clear trace state: %+v", conn)
	}
}

func TestConnectionSnapshotIsIsolated(t *testing.T) {
	s := NewState(testLogger())
	s.SetBounceChain([]Hop{{Address: "198.51.100.1", Position: 0}})

	snap := s.Connection()
	snap.BounceChain[0].Address = "mutated"

	if s.Connection().BounceChain[0].Address != "198.51.100.1" {
		t.Error("caller mutated store state through the snapshot")
	}
}

func TestGameTimeDerivation(t *testing.T) {
	s := NewState(testLogger())

	s.UpdateGameTime(0)
	if got := s.GameTime().DateString; got != "2010-03-24 00:00:00" {
		t.Errorf("tick 0 should be the epoch, got %q", got)
	}

	// 6 ticks at ten in-game seconds each is one minute.
	s.UpdateGameTime(6)
	if got := s.GameTime().DateString; got != "2010-03-24 00:01:00" {
		t.Errorf("unexpected time at tick 6: %q", got)
	}
}

func TestSpeedLabel(t *testing.T) {
	s := NewState(testLogger())

	cases := map[int]string{0: "PAUSED", 1: "NORMAL", 3: "FAST", 8: "MEGA", 5: "x5"}
	for speed, want := range cases {
		s.SetSpeed(speed)
		if got := s.SpeedLabel(); got != want {
			t.Errorf("speed %d: got %q, want %q", speed, got, want)
		}
	}
}

func TestResetKeepsSubscriptions(t *testing.T) {
	s := NewState(testLogger())

	notified := false
	s.Subscribe(PlayerUpdated, func() { notified = true })

	handle := "neo"
	s.UpdatePlayer(PlayerDelta{Handle: &handle})
	s.AddMessage(Message{ID: 1})
	s.Reset()

	if s.Player().Handle != "" || len(s.Messages()) != 0 || s.UnreadCount() != 0 {
		t.Error("reset did not clear state")
	}
	if s.Speed() != 1 {
		t.Errorf("reset should restore normal speed, got %d", s.Speed())
	}

	notified = false
	s.UpdatePlayer(PlayerDelta{Handle: &handle})
	if !notified {
		t.Error("subscriptions must survive a reset")
	}
}
