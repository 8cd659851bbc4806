package internal

import (
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fogwraith/uplink-client/internal/style"
)

// ErrUnknownScreenType is logged when a descriptor's tag has no
// registered renderer. The panel degrades to a placeholder; it never
// crashes the client.
var ErrUnknownScreenType = errors.New("unknown screen type")

// remoteVariant is one rendering variant of the remote screen. A
// variant is built fresh from each descriptor, so a replaced screen
// can leave no stale handlers or child state behind.
type remoteVariant interface {
	handleKey(msg tea.KeyMsg) tea.Cmd
	View(width int) string
}

// variantFunc builds a variant from a descriptor. The panel supplies
// itself so variants can reach the action sender.
type variantFunc func(p *RemotePanel, desc *ScreenDescriptor) remoteVariant

// screenRegistry is the pure ScreenType -> renderer lookup, populated
// at startup. Dispatch never falls through to anything but the
// placeholder.
var screenRegistry = map[ScreenType]variantFunc{
	ScreenTypeMenu:         newMenuVariant,
	ScreenTypeMessage:      newMessageVariant,
	ScreenTypeContact:      newContactVariant,
	ScreenTypeRecord:       newRecordVariant,
	ScreenTypeCypher:       newCypherVariant,
	ScreenTypeVoice:        newVoiceVariant,
	ScreenTypeVoicePhone:   newVoicePhoneVariant,
	ScreenTypeRadioTX:      newRadioTXVariant,
	ScreenTypeNearestGW:    newNearestGWVariant,
	ScreenTypeDisconnected: newDisconnectedVariant,
	ScreenTypeNuclearWar:   newNuclearWarVariant,
	ScreenTypeProtoVision:  newProtoVisionVariant,
}

// RemotePanel owns the remote-system view. It re-reads the store's
// current descriptor on every refresh; it holds no copy that could
// drift.
type RemotePanel struct {
	state   *State
	actions ActionSender
	logger  *slog.Logger

	variant remoteVariant
	active  bool
}

func NewRemotePanel(state *State, actions ActionSender, logger *slog.Logger) *RemotePanel {
	return &RemotePanel{
		state:   state,
		actions: actions,
		logger:  logger,
	}
}

// Refresh rebuilds the variant from the store's current screen. Called
// on every screen_updated notification; the previous variant is
// discarded wholesale.
func (p *RemotePanel) Refresh() {
	desc := p.state.Screen()
	if desc == nil {
		p.variant = nil
		p.active = false
		return
	}
	p.variant = p.buildVariant(desc)
	p.active = true
}

// buildVariant dispatches on the type tag. Unknown tags and renderer
// faults both degrade to the placeholder; a fault never leaves a
// half-built view and never propagates past this boundary.
func (p *RemotePanel) buildVariant(desc *ScreenDescriptor) (v remoteVariant) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Renderer fault", "type", desc.Type, "panic", fmt.Sprintf("%v", r))
			v = newPlaceholderVariant(p, desc)
		}
	}()

	build, ok := screenRegistry[desc.Type]
	if !ok {
		p.logger.Warn("Screen dispatch failed", "err", ErrUnknownScreenType, "type", desc.Type)
		return newPlaceholderVariant(p, desc)
	}
	return build(p, desc)
}

// Active reports whether a remote screen is currently displayed.
func (p *RemotePanel) Active() bool {
	return p.active && p.variant != nil
}

func (p *RemotePanel) HandleKey(msg tea.KeyMsg) tea.Cmd {
	if !p.Active() {
		return nil
	}
	return p.variant.handleKey(msg)
}

func (p *RemotePanel) View(width int) string {
	if !p.Active() {
		return ""
	}
	inner := width - 4
	if inner < 20 {
		inner = 20
	}
	return style.RemotePanelStyle.Width(width - 2).Render(p.variant.View(inner))
}

// titleOr returns the sanitized descriptor title or the variant's
// default.
func titleOr(desc *ScreenDescriptor, fallback string) string {
	if desc.Title == "" {
		return fallback
	}
	return Neutralize(desc.Title)
}
