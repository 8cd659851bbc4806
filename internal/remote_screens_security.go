package internal

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	"github.com/fogwraith/uplink-client/internal/style"
)

// Security-barrier variants: cypher, voice print and voice phone.
// These display externally driven solve state and never perform any
// decryption or analysis themselves.

type cypherVariant struct {
	title         string
	cipherText    string
	statusMessage string
	solved        bool
}

func newCypherVariant(p *RemotePanel, desc *ScreenDescriptor) remoteVariant {
	return &cypherVariant{
		title:         titleOr(desc, "Elliptic-Curve Encryption"),
		cipherText:    Neutralize(desc.CipherText),
		statusMessage: Neutralize(desc.StatusMessage),
		solved:        desc.Solved,
	}
}

func (v *cypherVariant) handleKey(tea.KeyMsg) tea.Cmd { return nil }

func (v *cypherVariant) View(width int) string {
	var b strings.Builder
	b.WriteString(style.ScreenTitleStyle.Render(v.title) + "\n\n")

	if v.cipherText != "" {
		b.WriteString(style.DimStyle.Render("ENCRYPTED DATA:") + "\n")
		b.WriteString(style.WarningStyle.Render(wordwrap.String(v.cipherText, width)) + "\n\n")
	}
	if v.statusMessage != "" {
		b.WriteString(style.ValueStyle.Render(v.statusMessage) + "\n\n")
	}

	if v.solved {
		b.WriteString(style.SolvedStyle.Render("ENCRYPTION BYPASSED"))
	} else {
		b.WriteString(style.DimStyle.Render("Use Decypher tool to crack this encryption."))
	}
	return b.String()
}

type voiceVariant struct {
	title         string
	statusMessage string
	matched       bool
}

func newVoiceVariant(p *RemotePanel, desc *ScreenDescriptor) remoteVariant {
	return &voiceVariant{
		title:         titleOr(desc, "Voice Print Authentication"),
		statusMessage: Neutralize(desc.StatusMessage),
		matched:       desc.Status == "matched" || desc.Solved,
	}
}

func (v *voiceVariant) handleKey(tea.KeyMsg) tea.Cmd { return nil }

func (v *voiceVariant) View(width int) string {
	var b strings.Builder
	b.WriteString(style.ScreenTitleStyle.Render(v.title) + "\n\n")
	b.WriteString(style.DimStyle.Render(`~\/\/\/\/\/~ VOICE PRINT REQUIRED ~\/\/\/\/\/~`) + "\n\n")

	if v.matched {
		b.WriteString(style.SolvedStyle.Render("VOICE PRINT MATCHED - ACCESS GRANTED"))
		return b.String()
	}
	prompt := v.statusMessage
	if prompt == "" {
		prompt = "Use Voice Analyser tool to bypass authentication."
	}
	b.WriteString(style.WarningStyle.Render(prompt))
	return b.String()
}

type voicePhoneVariant struct {
	title         string
	phoneNumber   string
	status        string
	statusMessage string
	solved        bool
}

func newVoicePhoneVariant(p *RemotePanel, desc *ScreenDescriptor) remoteVariant {
	return &voicePhoneVariant{
		title:         titleOr(desc, "Voice Phone Verification"),
		phoneNumber:   Neutralize(desc.PhoneNumber),
		status:        desc.Status,
		statusMessage: Neutralize(desc.StatusMessage),
		solved:        desc.Solved,
	}
}

func (v *voicePhoneVariant) handleKey(tea.KeyMsg) tea.Cmd { return nil }

func (v *voicePhoneVariant) View(width int) string {
	var b strings.Builder
	b.WriteString(style.ScreenTitleStyle.Render(v.title) + "\n\n")

	if v.phoneNumber != "" {
		b.WriteString(style.SelectedRowStyle.Render(v.phoneNumber) + "\n\n")
	}

	switch {
	case v.status == "verified" || v.solved:
		b.WriteString(style.SolvedStyle.Render("VOICE VERIFIED - ACCESS GRANTED"))
	case v.status == "dialing":
		b.WriteString(style.WarningStyle.Render("DIALING..."))
	default:
		prompt := v.statusMessage
		if prompt == "" {
			prompt = "Awaiting voice verification. Use Voice Analyser."
		}
		b.WriteString(style.ValueStyle.Render(prompt))
	}
	return b.String()
}
