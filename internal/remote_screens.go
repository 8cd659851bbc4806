package internal

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	"github.com/fogwraith/uplink-client/internal/style"
)

// The menu, message, contact and record variants. Security and novelty
// variants live in their own files.

// ---- Menu ----

type menuEntry struct {
	label    string
	nextPage *int
}

type menuVariant struct {
	panel  *RemotePanel
	title  string
	items  []menuEntry
	cursor int
}

func newMenuVariant(p *RemotePanel, desc *ScreenDescriptor) remoteVariant {
	v := &menuVariant{
		panel: p,
		title: titleOr(desc, "Main Menu"),
	}
	for _, item := range desc.Items {
		label := item.Label
		if label == "" {
			label = "Unknown"
		}
		v.items = append(v.items, menuEntry{
			label:    Neutralize(label),
			nextPage: item.NextPage,
		})
	}
	return v
}

func (v *menuVariant) handleKey(msg tea.KeyMsg) tea.Cmd {
	if len(v.items) == 0 {
		return nil
	}
	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(v.items)-1 {
			v.cursor++
		}
	case "enter", " ":
		item := v.items[v.cursor]
		v.panel.actions.Send(ActionNavigate, map[string]any{"next_page": item.nextPage})
	}
	return nil
}

func (v *menuVariant) View(width int) string {
	var b strings.Builder
	b.WriteString(style.ScreenTitleStyle.Render(v.title) + "\n\n")

	if len(v.items) == 0 {
		b.WriteString(style.DimStyle.Render("No menu options available."))
		return b.String()
	}

	for i, item := range v.items {
		line := fmt.Sprintf("%d. %s", i+1, item.label)
		if i == v.cursor {
			line = style.SelectedRowStyle.Render("> " + line)
		} else {
			line = "  " + style.ValueStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + style.DimStyle.Render("enter/space select"))
	return b.String()
}

// ---- Message ----

type messageVariant struct {
	panel       *RemotePanel
	title       string
	body        string
	buttonLabel string
	nextPage    *int
	fired       bool
}

func newMessageVariant(p *RemotePanel, desc *ScreenDescriptor) remoteVariant {
	return &messageVariant{
		panel:       p,
		title:       titleOr(desc, "Message"),
		body:        Neutralize(desc.Body),
		buttonLabel: Neutralize(desc.ButtonLabel),
		nextPage:    desc.NextPage,
	}
}

func (v *messageVariant) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() != "enter" {
		return nil
	}
	// One-shot: the control disables itself on first use, and a button
	// with no next_page never navigates.
	if v.buttonLabel == "" || v.nextPage == nil || v.fired {
		return nil
	}
	v.fired = true
	v.panel.actions.Send(ActionNavigate, map[string]any{"next_page": *v.nextPage})
	return nil
}

func (v *messageVariant) View(width int) string {
	var b strings.Builder
	b.WriteString(style.ScreenTitleStyle.Render(v.title) + "\n\n")
	b.WriteString(style.ValueStyle.Render(wordwrap.String(v.body, width)))

	if v.buttonLabel != "" {
		b.WriteString("\n\n")
		if v.fired {
			b.WriteString(style.DisabledControlStyle.Render("[ " + v.buttonLabel + " ]"))
		} else {
			b.WriteString(style.ControlStyle.Render("[ " + v.buttonLabel + " ]"))
			b.WriteString(style.DimStyle.Render("  enter"))
		}
	}
	return b.String()
}

// ---- Contact ----

type labeledValue struct {
	label string
	value string
}

type contactVariant struct {
	title  string
	fields []labeledValue
}

func newContactVariant(p *RemotePanel, desc *ScreenDescriptor) remoteVariant {
	v := &contactVariant{title: titleOr(desc, "Contact Information")}

	var c ContactInfo
	if desc.Contact != nil {
		c = *desc.Contact
	}
	v.fields = filterPairs([]labeledValue{
		{"NAME", formatValue(c.Name)},
		{"AGE", formatValue(c.Age)},
		{"ADDRESS", formatValue(c.Address)},
		{"PHONE", formatValue(c.Phone)},
		{"STATUS", formatValue(c.Status)},
	})
	return v
}

func (v *contactVariant) handleKey(tea.KeyMsg) tea.Cmd { return nil }

func (v *contactVariant) View(width int) string {
	var b strings.Builder
	b.WriteString(style.ScreenTitleStyle.Render(v.title) + "\n\n")
	if len(v.fields) == 0 {
		b.WriteString(style.DimStyle.Render("No contact data available."))
		return b.String()
	}
	b.WriteString(renderPairs(v.fields))
	return b.String()
}

// ---- Record ----

type recordVariant struct {
	panel    *RemotePanel
	title    string
	fields   []labeledValue
	editable bool
	recordID int
	fired    bool
}

func newRecordVariant(p *RemotePanel, desc *ScreenDescriptor) remoteVariant {
	v := &recordVariant{
		panel:    p,
		title:    titleOr(desc, "Record"),
		editable: desc.Editable,
		recordID: desc.RecordID,
	}
	var pairs []labeledValue
	for _, f := range desc.Fields {
		label := f.Label
		if label == "" {
			label = "FIELD"
		}
		pairs = append(pairs, labeledValue{
			label: strings.ToUpper(Neutralize(label)),
			value: formatValue(f.Value),
		})
	}
	v.fields = filterPairs(pairs)
	return v
}

func (v *recordVariant) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() != "e" {
		return nil
	}
	if !v.editable || v.fired {
		return nil
	}
	v.fired = true
	v.panel.actions.Send(ActionEditRecord, map[string]any{"record_id": v.recordID})
	return nil
}

func (v *recordVariant) View(width int) string {
	var b strings.Builder
	b.WriteString(style.ScreenTitleStyle.Render(v.title) + "\n\n")
	if len(v.fields) == 0 {
		b.WriteString(style.DimStyle.Render("No record data available."))
		return b.String()
	}
	b.WriteString(renderPairs(v.fields))

	if v.editable {
		b.WriteString("\n")
		if v.fired {
			b.WriteString(style.DisabledControlStyle.Render("[ EDIT RECORD ]"))
		} else {
			b.WriteString(style.ControlStyle.Render("[ EDIT RECORD ]"))
			b.WriteString(style.DimStyle.Render("  e"))
		}
	}
	return b.String()
}

// ---- shared helpers ----

// formatValue renders a loosely typed descriptor value, sanitized.
// Nil and empty values collapse to "" so filterPairs drops them.
func formatValue(v any) string {
	if v == nil {
		return ""
	}
	switch x := v.(type) {
	case string:
		return Neutralize(x)
	case float64:
		if x == float64(int64(x)) {
			return fmt.Sprintf("%d", int64(x))
		}
		return fmt.Sprintf("%g", x)
	default:
		return Neutralize(fmt.Sprint(x))
	}
}

func filterPairs(pairs []labeledValue) []labeledValue {
	var kept []labeledValue
	for _, p := range pairs {
		if p.value != "" {
			kept = append(kept, p)
		}
	}
	return kept
}

func renderPairs(pairs []labeledValue) string {
	var b strings.Builder
	for _, p := range pairs {
		b.WriteString(fmt.Sprintf("%s %s\n",
			style.DimStyle.Render(fmt.Sprintf("%-12s", p.label+":")),
			style.ValueStyle.Render(p.value)))
	}
	return b.String()
}
