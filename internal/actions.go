package internal

import (
	"log/slog"

	"github.com/google/uuid"
)

// ActionKind names an outbound player intent.
type ActionKind string

const (
	ActionNavigate      ActionKind = "navigate"
	ActionSelectGateway ActionKind = "select_gateway"
	ActionSelectGame    ActionKind = "select_game"
	ActionEditRecord    ActionKind = "edit_record"
	ActionTransmit      ActionKind = "transmit"
	ActionCommand       ActionKind = "command"
	ActionConnectTo     ActionKind = "connect_to"
	ActionDisconnect    ActionKind = "disconnect_from"
	ActionBounceAdd     ActionKind = "bounce_add"
	ActionBounceRemove  ActionKind = "bounce_remove"
	ActionAcceptMission ActionKind = "accept_mission"
	ActionRunTool       ActionKind = "run_tool"
	ActionStopTool      ActionKind = "stop_tool"
	ActionMarkRead      ActionKind = "mark_read"
	ActionSetSpeed      ActionKind = "set_speed"
)

// Action is the outbound wire envelope. No response is ever correlated
// with the id; it exists for server-side logging.
type Action struct {
	ID      string         `json:"id"`
	Kind    ActionKind     `json:"kind"`
	Payload map[string]any `json:"payload"`
}

// ActionSender is the single outbound primitive. Fire-and-forget:
// every effect of an action arrives later as a state push, never as a
// return value.
type ActionSender interface {
	Send(kind ActionKind, payload map[string]any)
}

// ActionChannel queues actions for the transport writer. Send never
// blocks the UI loop; if the queue is full the action is dropped with a
// diagnostic, since the server push stream will resynchronize state
// regardless.
type ActionChannel struct {
	out    chan Action
	logger *slog.Logger
}

func NewActionChannel(logger *slog.Logger) *ActionChannel {
	return &ActionChannel{
		out:    make(chan Action, 64),
		logger: logger,
	}
}

func (c *ActionChannel) Send(kind ActionKind, payload map[string]any) {
	if payload == nil {
		payload = map[string]any{}
	}
	a := Action{ID: uuid.New().String(), Kind: kind, Payload: payload}
	select {
	case c.out <- a:
		c.logger.Debug("Action queued", "kind", kind)
	default:
		c.logger.Warn("Action queue full, dropping", "kind", kind)
	}
}

// Outbound exposes the queue to the transport writer.
func (c *ActionChannel) Outbound() <-chan Action {
	return c.out
}
