package internal

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fogwraith/uplink-client/internal/style"
)

// ---- RadioTX ----

type radioTXVariant struct {
	panel          *RemotePanel
	title          string
	frequency      string
	signalStrength *float64
	statusMessage  string
	canTransmit    bool
	fired          bool
}

func newRadioTXVariant(p *RemotePanel, desc *ScreenDescriptor) remoteVariant {
	return &radioTXVariant{
		panel:          p,
		title:          titleOr(desc, "Radio Transmitter"),
		frequency:      Neutralize(desc.Frequency),
		signalStrength: desc.SignalStrength,
		statusMessage:  Neutralize(desc.StatusMessage),
		canTransmit:    desc.CanTransmit,
	}
}

func (v *radioTXVariant) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() != "enter" {
		return nil
	}
	if !v.canTransmit || v.fired {
		return nil
	}
	v.fired = true
	v.panel.actions.Send(ActionTransmit, nil)
	return nil
}

func (v *radioTXVariant) View(width int) string {
	var b strings.Builder
	b.WriteString(style.ScreenTitleStyle.Render(v.title) + "\n\n")

	freq := v.frequency
	if freq == "" {
		freq = "---.- MHz"
	}
	b.WriteString(style.DimStyle.Render("FREQUENCY:") + "\n")
	b.WriteString(style.SelectedRowStyle.Render(freq) + "\n\n")

	if v.signalStrength != nil {
		strength := *v.signalStrength
		if strength < 0 {
			strength = 0
		} else if strength > 100 {
			strength = 100
		}
		barWidth := 20
		filled := int(strength / 100 * float64(barWidth))
		bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
		b.WriteString(style.DimStyle.Render("SIGNAL STRENGTH:") + "\n")
		b.WriteString(style.ValueStyle.Render(bar) + fmt.Sprintf(" %d%%", int(strength)) + "\n\n")
	}

	if v.statusMessage != "" {
		b.WriteString(style.ValueStyle.Render(v.statusMessage) + "\n\n")
	}

	if v.canTransmit {
		if v.fired {
			b.WriteString(style.DisabledControlStyle.Render("[ TRANSMITTING... ]"))
		} else {
			b.WriteString(style.ControlStyle.Render("[ TRANSMIT ]"))
			b.WriteString(style.DimStyle.Render("  enter"))
		}
	}
	return b.String()
}

// ---- NearestGW ----

type gwRow struct {
	id       int
	name     string
	distance int
	fired    bool
}

type nearestGWVariant struct {
	panel  *RemotePanel
	title  string
	rows   []gwRow
	cursor int
}

func newNearestGWVariant(p *RemotePanel, desc *ScreenDescriptor) remoteVariant {
	v := &nearestGWVariant{
		panel: p,
		title: titleOr(desc, "Nearest Gateway Locations"),
	}
	for _, loc := range desc.Locations {
		name := loc.Name
		if name == "" {
			name = loc.City
		}
		if name == "" {
			name = "---"
		}
		v.rows = append(v.rows, gwRow{
			id:       loc.ID,
			name:     Neutralize(name),
			distance: loc.Distance,
		})
	}
	return v
}

func (v *nearestGWVariant) handleKey(msg tea.KeyMsg) tea.Cmd {
	if len(v.rows) == 0 {
		return nil
	}
	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(v.rows)-1 {
			v.cursor++
		}
	case "enter":
		row := &v.rows[v.cursor]
		// Per-row one-shot select.
		if row.fired {
			return nil
		}
		row.fired = true
		v.panel.actions.Send(ActionSelectGateway, map[string]any{"location_id": row.id})
	}
	return nil
}

func (v *nearestGWVariant) View(width int) string {
	var b strings.Builder
	b.WriteString(style.ScreenTitleStyle.Render(v.title) + "\n\n")

	if len(v.rows) == 0 {
		b.WriteString(style.DimStyle.Render("No gateway locations available."))
		return b.String()
	}

	b.WriteString(style.DimStyle.Render(fmt.Sprintf("%-24s %10s  %s", "LOCATION", "DISTANCE", "ACTION")) + "\n")
	for i, row := range v.rows {
		dist := "---"
		if row.distance > 0 {
			dist = fmt.Sprintf("%d km", row.distance)
		}
		action := "[ SELECT ]"
		if row.fired {
			action = "[ ... ]"
		}
		line := fmt.Sprintf("%-24s %10s  %s", row.name, dist, action)
		if i == v.cursor {
			line = style.SelectedRowStyle.Render("> " + line)
		} else {
			line = "  " + style.ValueStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// ---- Disconnected ----

type disconnectedVariant struct {
	reason string
	traced bool
}

func newDisconnectedVariant(p *RemotePanel, desc *ScreenDescriptor) remoteVariant {
	// Reason falls back through reason -> message -> generic text.
	reason := desc.Reason
	if reason == "" {
		reason = desc.Message
	}
	if reason == "" {
		reason = "Connection to remote system has been terminated."
	}
	return &disconnectedVariant{
		reason: Neutralize(reason),
		traced: desc.Traced,
	}
}

func (v *disconnectedVariant) handleKey(tea.KeyMsg) tea.Cmd { return nil }

func (v *disconnectedVariant) View(width int) string {
	var b strings.Builder
	b.WriteString(style.DangerStyle.Render("[ DISCONNECTED ]") + "\n\n")
	b.WriteString(style.ValueStyle.Render(v.reason))
	if v.traced {
		b.WriteString("\n\n" + style.DangerStyle.Render("WARNING: Your connection was traced!"))
	}
	return b.String()
}

// ---- NuclearWar ----

type nuclearWarVariant struct {
	concluded bool
	targets   []string
}

func newNuclearWarVariant(p *RemotePanel, desc *ScreenDescriptor) remoteVariant {
	v := &nuclearWarVariant{
		concluded: desc.Phase == "conclusion",
	}
	for _, t := range desc.Targets {
		v.targets = append(v.targets, Neutralize(t))
	}
	if len(v.targets) == 0 {
		v.targets = []string{"LAS VEGAS", "SEATTLE", "NEW YORK", "MOSCOW", "LONDON"}
	}
	return v
}

func (v *nuclearWarVariant) handleKey(tea.KeyMsg) tea.Cmd { return nil }

func (v *nuclearWarVariant) View(width int) string {
	var b strings.Builder
	b.WriteString(style.DangerStyle.Render("GLOBAL THERMONUCLEAR WAR") + "\n\n")

	if v.concluded {
		b.WriteString(style.ValueStyle.Render("A STRANGE GAME. THE ONLY WINNING MOVE IS NOT TO PLAY.") + "\n\n")
		b.WriteString(style.SelectedRowStyle.Render("HOW ABOUT A NICE GAME OF CHESS?"))
		return b.String()
	}

	b.WriteString(style.WarningStyle.Render("RUNNING SIMULATION...") + "\n\n")
	for _, t := range v.targets {
		b.WriteString(style.DangerStyle.Render("TARGET: "+t+" ... IMPACT") + "\n")
	}
	b.WriteString("\n" + style.DangerStyle.Render("WINNER: NONE"))
	return b.String()
}

// ---- ProtoVision ----

type protoVisionVariant struct {
	panel   *RemotePanel
	message string
	games   []string
	cursor  int
}

func newProtoVisionVariant(p *RemotePanel, desc *ScreenDescriptor) remoteVariant {
	v := &protoVisionVariant{
		panel:   p,
		message: Neutralize(desc.Message),
	}
	for _, g := range desc.Games {
		v.games = append(v.games, Neutralize(g))
	}
	if len(v.games) == 0 {
		v.games = []string{
			"CHESS", "CHECKERS", "BACKGAMMON", "POKER",
			"FIGHTER COMBAT", "GUERILLA ENGAGEMENT",
			"DESERT WARFARE", "AIR-TO-GROUND ACTIONS",
			"THEATERWIDE TACTICAL WARFARE",
			"THEATERWIDE BIOTOXIC AND CHEMICAL WARFARE",
			"GLOBAL THERMONUCLEAR WAR",
		}
	}
	return v
}

func (v *protoVisionVariant) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(v.games)-1 {
			v.cursor++
		}
	case "enter":
		v.panel.actions.Send(ActionSelectGame, map[string]any{"game": v.games[v.cursor]})
	}
	return nil
}

func (v *protoVisionVariant) View(width int) string {
	var b strings.Builder
	b.WriteString(style.ValueStyle.Render("GREETINGS PROFESSOR FALKEN.") + "\n\n")

	subtitle := v.message
	if subtitle == "" {
		subtitle = "SHALL WE PLAY A GAME?"
	}
	b.WriteString(style.DimStyle.Render(subtitle) + "\n\n")

	for i, g := range v.games {
		if i == v.cursor {
			b.WriteString(style.SelectedRowStyle.Render("> "+g) + "\n")
		} else {
			b.WriteString("  " + style.ValueStyle.Render(g) + "\n")
		}
	}
	return b.String()
}

// ---- Placeholder ----

// placeholderVariant is the degraded "no data" view used for unknown
// screen types and renderer faults.
type placeholderVariant struct {
	typeTag string
}

func newPlaceholderVariant(p *RemotePanel, desc *ScreenDescriptor) remoteVariant {
	return &placeholderVariant{typeTag: Neutralize(string(desc.Type))}
}

func (v *placeholderVariant) handleKey(tea.KeyMsg) tea.Cmd { return nil }

func (v *placeholderVariant) View(width int) string {
	var b strings.Builder
	b.WriteString(style.DimStyle.Render("No data available for this screen."))
	if v.typeTag != "" {
		b.WriteString("\n" + style.DimStyle.Render("(type: "+v.typeTag+")"))
	}
	return b.String()
}
