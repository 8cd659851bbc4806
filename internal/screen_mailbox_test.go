package internal

import (
	"strings"
	"testing"
)

func TestMailboxOpenMarksReadAndReports(t *testing.T) {
	m := newTestModel(t)
	m.store.AddMessage(Message{ID: 7, From: "ARC", Subject: "Work", Body: "Steal the file."})
	s := NewMailboxScreen(m)
	s.SetSize(100, 30)

	s.Update(keyPress("enter"))

	action := nextAction(t, m)
	if action.Kind != ActionMarkRead || action.Payload["message_id"] != 7 {
		t.Errorf("expected mark_read for message 7, got %+v", action)
	}
	if m.store.UnreadCount() != 0 {
		t.Errorf("local read mark should apply immediately, unread=%d", m.store.UnreadCount())
	}
}

func TestMailboxReopeningReadMessageSendsNothing(t *testing.T) {
	m := newTestModel(t)
	m.store.AddMessage(Message{ID: 7, From: "ARC", Subject: "Work", Body: "Steal the file.", IsRead: true})
	s := NewMailboxScreen(m)
	s.SetSize(100, 30)

	s.Update(keyPress("enter"))

	assertNoAction(t, m)
}

func TestMailboxReaderShowsBodyAndReturns(t *testing.T) {
	m := newTestModel(t)
	m.store.AddMessage(Message{ID: 7, From: "ARC", Subject: "Work", Body: "Steal the file."})
	s := NewMailboxScreen(m)
	s.SetSize(100, 30)

	s.Update(keyPress("enter"))
	if out := s.View(); !strings.Contains(out, "Steal the file.") {
		t.Errorf("reader missing body: %q", out)
	}

	s.Update(keyPress("esc"))
	if out := s.View(); !strings.Contains(out, "Mailbox") {
		t.Errorf("esc should return to the list: %q", out)
	}
}

func TestMailboxEscClosesFromList(t *testing.T) {
	m := newTestModel(t)
	s := NewMailboxScreen(m)

	_, cmd := s.Update(keyPress("esc"))

	if _, ok := runCmd(cmd).(MailboxClosedMsg); !ok {
		t.Error("expected close request from list view")
	}
}

func TestMailboxListShowsUnreadMarker(t *testing.T) {
	m := newTestModel(t)
	m.store.AddMessage(Message{ID: 1, From: "ARC", Subject: "Unread one"})
	s := NewMailboxScreen(m)
	s.SetSize(100, 30)

	if out := s.View(); !strings.Contains(out, "●") {
		t.Errorf("unread marker missing: %q", out)
	}
}

func TestMailboxEmptyState(t *testing.T) {
	m := newTestModel(t)
	s := NewMailboxScreen(m)
	s.SetSize(100, 30)

	if out := s.View(); !strings.Contains(out, "Mailbox is empty.") {
		t.Errorf("expected empty state, got %q", out)
	}
	s.Update(keyPress("enter"))
	assertNoAction(t, m)
}
