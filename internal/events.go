package internal

import (
	"encoding/json"
	"fmt"
)

// Typed tea.Msgs produced from inbound server events. Every effect of
// a player action arrives through one of these, never as a reply.

type joinedMsg struct {
	Player      *PlayerDelta      `json:"player"`
	BounceChain []Hop             `json:"bounce_chain"`
	Connection  *connectionDelta  `json:"connection"`
	Ticks       *int64            `json:"game_time_ticks"`
	Screen      *ScreenDescriptor `json:"screen"`
}

type connectionDelta struct {
	IsConnected bool   `json:"isConnected"`
	TargetIP    string `json:"target_ip"`
}

type screenUpdateMsg struct {
	Screen *ScreenDescriptor
}

type remoteConnectedMsg struct {
	TargetIP string            `json:"target_ip"`
	Screen   *ScreenDescriptor `json:"screen"`
}

type remoteDisconnectedMsg struct {
	Reason string `json:"reason"`
	Traced bool   `json:"traced"`
}

type bounceChainMsg struct {
	Chain []Hop `json:"bounce_chain"`
}

type tasksMsg struct {
	Tasks []RunningTask `json:"tasks"`
}

type taskCompleteMsg struct {
	TaskID int `json:"task_id"`
}

type traceMsg struct {
	Progress float64 `json:"progress"`
	Active   bool    `json:"active"`
}

type traceCompleteMsg struct{}

type balanceMsg struct {
	Balance int64 `json:"balance"`
}

type ratingMsg struct {
	UplinkRating      int `json:"uplink_rating"`
	NeuromancerRating int `json:"neuromancer_rating"`
}

type messageReceivedMsg struct {
	Message Message `json:"message"`
}

type messageReadMsg struct {
	MessageID   int `json:"message_id"`
	UnreadCount int `json:"unread_count"`
}

type missionsMsg struct {
	Available []Mission `json:"available"`
	Active    []Mission `json:"active"`
}

type softwareMsg struct {
	Software []Software `json:"software"`
}

type gatewayMsg struct {
	Delta GatewayDelta
}

type gameTimeMsg struct {
	Ticks int64 `json:"ticks"`
}

type speedMsg struct {
	Speed int `json:"speed"`
}

type serverNoticeMsg struct {
	Text string `json:"message"`
}

type gameOverMsg struct {
	Reason string `json:"reason"`
}

// socketClosedMsg fires when the websocket read loop exits for any
// reason; the model collapses back to the join screen.
type socketClosedMsg struct {
	Err error
}

// eventEnvelope is the inbound wire frame: a named event plus its raw
// payload.
type eventEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

var errUnknownEvent = fmt.Errorf("unknown event")

// decodeEvent maps an inbound envelope to its typed tea.Msg. Unknown
// events return errUnknownEvent so the caller can log and move on;
// they are never fatal.
func decodeEvent(env eventEnvelope) (any, error) {
	unmarshal := func(v any) (any, error) {
		if len(env.Data) == 0 {
			return v, nil
		}
		if err := json.Unmarshal(env.Data, v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Event, err)
		}
		return v, nil
	}

	switch env.Event {
	case "joined":
		m := &joinedMsg{}
		if _, err := unmarshal(m); err != nil {
			return nil, err
		}
		return *m, nil
	case "screen_update":
		var frame struct {
			Screen json.RawMessage `json:"screen"`
		}
		if _, err := unmarshal(&frame); err != nil {
			return nil, err
		}
		if len(frame.Screen) == 0 || string(frame.Screen) == "null" {
			return screenUpdateMsg{}, nil
		}
		desc, err := decodeScreenDescriptor(frame.Screen)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Event, err)
		}
		return screenUpdateMsg{Screen: desc}, nil
	case "connected":
		m := &remoteConnectedMsg{}
		if _, err := unmarshal(m); err != nil {
			return nil, err
		}
		return *m, nil
	case "disconnected":
		m := &remoteDisconnectedMsg{}
		if _, err := unmarshal(m); err != nil {
			return nil, err
		}
		return *m, nil
	case "bounce_chain_updated":
		m := &bounceChainMsg{}
		if _, err := unmarshal(m); err != nil {
			return nil, err
		}
		return *m, nil
	case "task_update":
		m := &tasksMsg{}
		if _, err := unmarshal(m); err != nil {
			return nil, err
		}
		return *m, nil
	case "task_complete":
		m := &taskCompleteMsg{}
		if _, err := unmarshal(m); err != nil {
			return nil, err
		}
		return *m, nil
	case "trace_update":
		m := &traceMsg{}
		if _, err := unmarshal(m); err != nil {
			return nil, err
		}
		return *m, nil
	case "trace_complete":
		return traceCompleteMsg{}, nil
	case "balance_changed":
		m := &balanceMsg{}
		if _, err := unmarshal(m); err != nil {
			return nil, err
		}
		return *m, nil
	case "rating_changed":
		m := &ratingMsg{}
		if _, err := unmarshal(m); err != nil {
			return nil, err
		}
		return *m, nil
	case "message_received":
		m := &messageReceivedMsg{}
		if _, err := unmarshal(m); err != nil {
			return nil, err
		}
		return *m, nil
	case "message_read":
		m := &messageReadMsg{}
		if _, err := unmarshal(m); err != nil {
			return nil, err
		}
		return *m, nil
	case "missions_updated":
		m := &missionsMsg{}
		if _, err := unmarshal(m); err != nil {
			return nil, err
		}
		return *m, nil
	case "software_updated":
		m := &softwareMsg{}
		if _, err := unmarshal(m); err != nil {
			return nil, err
		}
		return *m, nil
	case "gateway_updated":
		g := &GatewayDelta{}
		if _, err := unmarshal(g); err != nil {
			return nil, err
		}
		return gatewayMsg{Delta: *g}, nil
	case "game_time":
		m := &gameTimeMsg{}
		if _, err := unmarshal(m); err != nil {
			return nil, err
		}
		return *m, nil
	case "speed_changed":
		m := &speedMsg{}
		if _, err := unmarshal(m); err != nil {
			return nil, err
		}
		return *m, nil
	case "error":
		m := &serverNoticeMsg{}
		if _, err := unmarshal(m); err != nil {
			return nil, err
		}
		return *m, nil
	case "game_over":
		m := &gameOverMsg{}
		if _, err := unmarshal(m); err != nil {
			return nil, err
		}
		return *m, nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownEvent, env.Event)
	}
}
