package internal

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeTimeout      = 10 * time.Second
	heartbeatInterval = 30 * time.Second
)

// Transport owns the websocket session. It runs one reader and one
// writer goroutine; the reader converts inbound envelopes to typed
// tea.Msgs delivered through push, and the writer drains the action
// channel. Neither goroutine touches model state directly.
type Transport struct {
	conn    *websocket.Conn
	actions *ActionChannel
	logger  *slog.Logger
	handle  string
}

// DialTransport connects to the game server and announces the player
// handle with a join frame.
func DialTransport(ctx context.Context, url, handle string, actions *ActionChannel, logger *slog.Logger) (*Transport, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}

	t := &Transport{
		conn:    conn,
		actions: actions,
		logger:  logger,
		handle:  handle,
	}

	join := map[string]any{"event": "join", "data": map[string]any{"handle": handle}}
	if err := t.writeJSON(join); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return t, nil
}

// Run starts the read and write loops. push must be safe to call from
// other goroutines (tea.Program.Send is). Run returns after the read
// loop exits; a socketClosedMsg is always pushed on exit.
func (t *Transport) Run(ctx context.Context, push func(msg any)) {
	ctx, cancel := context.WithCancel(ctx)

	go t.writeLoop(ctx)

	go func() {
		defer cancel()
		err := t.readLoop(push)
		if err != nil && !errors.Is(err, context.Canceled) {
			t.logger.Error("Socket read loop ended", "err", err)
		}
		push(socketClosedMsg{Err: err})
	}()
}

func (t *Transport) readLoop(push func(msg any)) error {
	for {
		_, raw, err := t.conn.ReadMessage()
		if err != nil {
			return err
		}

		var env eventEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			t.logger.Warn("Malformed server frame", "err", err)
			continue
		}

		msg, err := decodeEvent(env)
		if err != nil {
			if errors.Is(err, errUnknownEvent) {
				t.logger.Debug("Ignoring unknown event", "event", env.Event)
			} else {
				t.logger.Warn("Bad event payload", "event", env.Event, "err", err)
			}
			continue
		}
		push(msg)
	}
}

func (t *Transport) writeLoop(ctx context.Context) {
	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case a := <-t.actions.Outbound():
			if err := t.writeJSON(a); err != nil {
				t.logger.Error("Failed to send action", "kind", a.Kind, "err", err)
				return
			}
		case <-heartbeat.C:
			ping := map[string]any{"event": "heartbeat"}
			if err := t.writeJSON(ping); err != nil {
				t.logger.Error("Heartbeat failed", "err", err)
				return
			}
		}
	}
}

func (t *Transport) writeJSON(v any) error {
	_ = t.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return t.conn.WriteJSON(v)
}

func (t *Transport) Close() error {
	return t.conn.Close()
}
