package internal

import "encoding/json"

// ScreenType tags a server-pushed screen descriptor with its rendering
// variant.
type ScreenType string

const (
	ScreenTypeMenu         ScreenType = "menu"
	ScreenTypeMessage      ScreenType = "message"
	ScreenTypeContact      ScreenType = "contact"
	ScreenTypeRecord       ScreenType = "record"
	ScreenTypeCypher       ScreenType = "cypher"
	ScreenTypeVoice        ScreenType = "voice"
	ScreenTypeVoicePhone   ScreenType = "voicephone"
	ScreenTypeRadioTX      ScreenType = "radiotx"
	ScreenTypeNearestGW    ScreenType = "nearestgw"
	ScreenTypeDisconnected ScreenType = "disconnected"
	ScreenTypeNuclearWar   ScreenType = "nuclearwar"
	ScreenTypeProtoVision  ScreenType = "protovision"
)

// MenuItem is one navigable entry on a menu screen.
type MenuItem struct {
	Label    string `json:"label"`
	NextPage *int   `json:"next_page"`
}

// ContactInfo carries the person fields a contact screen displays.
// Values are loosely typed; the renderer filters empties and formats
// the rest.
type ContactInfo struct {
	Name    string `json:"name"`
	Age     any    `json:"age"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Status  string `json:"status"`
}

// RecordField is a label/value pair on a record screen. Value may be a
// string, number, or null.
type RecordField struct {
	Label string `json:"label"`
	Value any    `json:"value"`
}

// GatewayLocation is one selectable row on the nearest-gateway screen.
type GatewayLocation struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	City     string `json:"city"`
	Distance int    `json:"distance"`
}

// ScreenDescriptor is the server's semi-structured description of the
// remote system view. It is immutable once received; a new descriptor
// fully replaces the previous render. Unknown fields are ignored and
// missing optional fields fall back to per-variant defaults.
type ScreenDescriptor struct {
	Type  ScreenType `json:"type"`
	Title string     `json:"title"`

	// menu
	Items []MenuItem `json:"items"`

	// message
	Body        string `json:"body"`
	ButtonLabel string `json:"button_label"`
	NextPage    *int   `json:"next_page"`

	// contact
	Contact *ContactInfo `json:"contact"`

	// record
	Fields   []RecordField `json:"fields"`
	Editable bool          `json:"editable"`
	RecordID int           `json:"record_id"`

	// cypher / voice / voicephone
	CipherText    string `json:"cipher_text"`
	Solved        bool   `json:"solved"`
	StatusMessage string `json:"status_message"`
	Status        string `json:"status"`
	PhoneNumber   string `json:"phone_number"`

	// radiotx
	Frequency      string   `json:"frequency"`
	SignalStrength *float64 `json:"signal_strength"`
	CanTransmit    bool     `json:"can_transmit"`

	// nearestgw
	Locations []GatewayLocation `json:"locations"`

	// disconnected
	Reason  string `json:"reason"`
	Message string `json:"message"`
	Traced  bool   `json:"traced"`

	// nuclearwar
	Phase   string   `json:"phase"`
	Targets []string `json:"targets"`

	// protovision
	Games []string `json:"games"`
}

// decodeScreenDescriptor parses a raw descriptor push. encoding/json
// drops unknown fields, which is exactly the forward-compatibility the
// protocol wants.
func decodeScreenDescriptor(raw []byte) (*ScreenDescriptor, error) {
	var d ScreenDescriptor
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	return &d, nil
}
