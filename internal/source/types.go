package source

import (
	"bytes"
	"encoding/json"

	"github.com/theirongolddev/blossom/internal/intake"
)

// RawGift is one line of a gift export. Amount may be a JSON string or number.
type RawGift struct {
	Type      string          `json:"type,omitempty"`
	ID        string          `json:"id,omitempty"`
	Donor     string          `json:"donor"`
	Amount    json.RawMessage `json:"amount"`
	Frequency string          `json:"frequency,omitempty"`
	FocusArea string          `json:"focusArea,omitempty"`
	Date      string          `json:"date,omitempty"`
	Note      string          `json:"note,omitempty"`
}

// Fields converts the line into intake form values.
func (g RawGift) Fields() intake.Fields {
	return intake.Fields{
		Donor:     g.Donor,
		Amount:    rawAmount(g.Amount),
		Frequency: g.Frequency,
		FocusArea: g.FocusArea,
		Date:      g.Date,
		Note:      g.Note,
	}
}

func rawAmount(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if raw[0] == '"' && json.Unmarshal(raw, &s) == nil {
		return s
	}
	return string(raw)
}

// Entry is a parsed gift with where it came from.
type Entry struct {
	Line   int
	ID     string
	Fields intake.Fields
}

// DiscoveredFile is an export file found during scanning.
type DiscoveredFile struct {
	Path string
	Name string // base name without extension
}
