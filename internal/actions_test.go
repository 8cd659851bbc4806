package internal

import "testing"

func TestActionChannelAssignsUniqueIDs(t *testing.T) {
	ch := NewActionChannel(testLogger())

	ch.Send(ActionConnectTo, nil)
	ch.Send(ActionDisconnect, nil)

	first := <-ch.Outbound()
	second := <-ch.Outbound()

	if first.ID == "" || second.ID == "" {
		t.Error("actions must carry ids")
	}
	if first.ID == second.ID {
		t.Error("action ids must be unique")
	}
	if first.Kind != ActionConnectTo || second.Kind != ActionDisconnect {
		t.Errorf("order not preserved: %v, %v", first.Kind, second.Kind)
	}
}

func TestActionChannelPassesPayloadThrough(t *testing.T) {
	ch := NewActionChannel(testLogger())

	ch.Send(ActionBounceRemove, map[string]any{"position": 2})

	got := <-ch.Outbound()
	if got.Payload["position"] != 2 {
		t.Errorf("payload lost in transit: %+v", got.Payload)
	}
}

// Send must never block the UI loop, even with no transport draining
// the queue.
func TestActionChannelDropsWhenFull(t *testing.T) {
	ch := NewActionChannel(testLogger())

	done := make(chan struct{})
	go func() {
		for range 200 {
			ch.Send(ActionCommand, map[string]any{"command": "ls"})
		}
		close(done)
	}()

	select {
	case <-done:
	default:
		// Give the goroutine a chance without timing assumptions.
		<-done
	}

	if queued := len(ch.Outbound()); queued > 64 {
		t.Errorf("queue exceeded its bound: %d", queued)
	}
}
