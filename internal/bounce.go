package internal

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/fogwraith/uplink-client/internal/style"
)

var (
	// ErrEmptyChain rejects a connect attempt before any network
	// traffic happens.
	ErrEmptyChain = errors.New("bounce chain is empty")
	// ErrNotConnected rejects disconnect and remote commands while
	// there is no live connection.
	ErrNotConnected = errors.New("not connected to any system")
	// ErrChainLocked rejects chain edits while connected.
	ErrChainLocked = errors.New("chain is locked while connected")
)

// BounceController drives the route-building and connect/disconnect
// state machine over the store's connection state. Transitions into
// Connected are driven solely by server pushes; the controller only
// issues intent.
type BounceController struct {
	state   *State
	actions ActionSender
}

func NewBounceController(state *State, actions ActionSender) *BounceController {
	return &BounceController{state: state, actions: actions}
}

// Connect issues connect_to through the current chain. A connect with
// an empty chain is rejected locally: no action is sent.
func (c *BounceController) Connect() error {
	conn := c.state.Connection()
	if conn.IsConnected {
		return nil
	}
	if len(conn.BounceChain) == 0 {
		return ErrEmptyChain
	}
	c.actions.Send(ActionConnectTo, nil)
	return nil
}

// Disconnect issues disconnect_from. Valid only while connected.
func (c *BounceController) Disconnect() error {
	if !c.state.Connection().IsConnected {
		return ErrNotConnected
	}
	c.actions.Send(ActionDisconnect, nil)
	return nil
}

// AddHop requests appending an address to the chain. Only legal while
// building.
func (c *BounceController) AddHop(address string) error {
	if c.state.Connection().IsConnected {
		return ErrChainLocked
	}
	c.actions.Send(ActionBounceAdd, map[string]any{"ip": address})
	return nil
}

// RemoveHop requests removal of the hop whose position was captured at
// render time. Callers must pass the hop's own Position field, never a
// re-derived index, so a chain that mutated between render and
// keypress cannot remove the wrong hop. The server treats a vanished
// position as already satisfied.
func (c *BounceController) RemoveHop(position int) error {
	if c.state.Connection().IsConnected {
		return ErrChainLocked
	}
	c.actions.Send(ActionBounceRemove, map[string]any{"position": position})
	return nil
}

// clamp01 bounds a raw progress value for display. Store values are
// never clamped.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// TracePercent renders the advisory trace progress as a whole
// percentage.
func TracePercent(progress float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(clamp01(progress)*100)))
}

// RenderChain draws the bounce bar: hops joined by arrows, traced hops
// highlighted, the hop under the cursor marked, and remove hints only
// while the chain is still mutable.
func RenderChain(conn Connection, cursor int) string {
	if len(conn.BounceChain) == 0 {
		return style.DimStyle.Render("No route. Add bounce nodes, then connect.")
	}

	parts := make([]string, 0, len(conn.BounceChain))
	for i, hop := range conn.BounceChain {
		label := Neutralize(hop.Address)
		if hop.IsTraced {
			label = style.TracedHopStyle.Render(label)
		} else {
			label = style.HopStyle.Render(label)
		}
		if !conn.IsConnected && i == cursor {
			label = style.SelectedRowStyle.Render("[") + label + style.SelectedRowStyle.Render("]")
		}
		parts = append(parts, label)
	}

	bar := strings.Join(parts, style.DimStyle.Render(" → "))
	if conn.IsConnected {
		return bar + style.DimStyle.Render("  (locked)")
	}
	return bar + style.DimStyle.Render("  x remove")
}
