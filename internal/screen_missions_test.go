package internal

import (
	"strings"
	"testing"
)

func TestMissionAcceptFiresOnceAndMutatesNothing(t *testing.T) {
	m := newTestModel(t)
	m.store.SetMissions([]Mission{
		{ID: 3, Employer: "Andromeda", Description: "Destroy a mainframe.", Payment: 8000, Difficulty: 4},
	}, nil)
	s := NewMissionsScreen(m)
	s.SetSize(100, 30)

	s.Update(keyPress("enter"))
	s.Update(keyPress("enter"))

	action := nextAction(t, m)
	if action.Kind != ActionAcceptMission || action.Payload["mission_id"] != 3 {
		t.Errorf("expected accept_mission for 3, got %+v", action)
	}
	assertNoAction(t, m)

	// The board only changes on a server push.
	if len(m.store.AvailableMissions()) != 1 || len(m.store.ActiveMissions()) != 0 {
		t.Error("accepting must not mutate the mission lists locally")
	}
	if out := s.View(); !strings.Contains(out, "ACCEPTING") {
		t.Errorf("accepted row should render disabled: %q", out)
	}
}

func TestMissionBoardUpdatesOnPush(t *testing.T) {
	m := newTestModel(t)
	m.store.SetMissions([]Mission{{ID: 3, Employer: "Andromeda", Payment: 8000}}, nil)
	s := NewMissionsScreen(m)
	s.SetSize(100, 30)

	// Server accepts: mission moves lists wholesale.
	m.store.SetMissions([]Mission{}, []Mission{{ID: 3, Employer: "Andromeda", Payment: 8000}})

	out := s.View()
	if !strings.Contains(out, "No missions on the board.") {
		t.Errorf("available list should be empty after push: %q", out)
	}
	if !strings.Contains(out, "Andromeda") {
		t.Errorf("active mission missing: %q", out)
	}
}

func TestMissionAcceptMarkClearsWhenBoardDropsMission(t *testing.T) {
	m := newTestModel(t)
	m.store.SetMissions([]Mission{{ID: 3, Employer: "Andromeda", Payment: 8000}}, nil)
	s := NewMissionsScreen(m)
	s.SetSize(100, 30)

	s.Update(keyPress("enter"))
	nextAction(t, m)

	// Server drops the mission, then a later board reuses the id.
	m.store.SetMissions(nil, nil)
	m.store.SetMissions([]Mission{{ID: 3, Employer: "Proteus", Payment: 5000}}, nil)

	if out := s.View(); strings.Contains(out, "ACCEPTING") {
		t.Errorf("reused id must not render as accepted: %q", out)
	}
	s.Update(keyPress("enter"))
	action := nextAction(t, m)
	if action.Kind != ActionAcceptMission || action.Payload["mission_id"] != 3 {
		t.Errorf("expected a fresh accept for the reused id, got %+v", action)
	}
}

func TestMissionsEscCloses(t *testing.T) {
	m := newTestModel(t)
	s := NewMissionsScreen(m)

	_, cmd := s.Update(keyPress("esc"))
	if _, ok := runCmd(cmd).(MissionsClosedMsg); !ok {
		t.Error("expected close request")
	}
}

func TestMissionsEmptyBoard(t *testing.T) {
	m := newTestModel(t)
	s := NewMissionsScreen(m)
	s.SetSize(100, 30)

	if out := s.View(); !strings.Contains(out, "No missions on the board.") {
		t.Errorf("expected empty state, got %q", out)
	}
	s.Update(keyPress("enter"))
	assertNoAction(t, m)
}
