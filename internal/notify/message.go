package notify

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/theirongolddev/blossom/internal/model"
)

// TypeGiftAdded is the message type for a newly recorded gift.
const TypeGiftAdded = "gift_added"

// Gift is a recorded gift as it travels on the wire.
type Gift struct {
	ID        string `json:"id"`
	Donor     string `json:"donor"`
	Amount    string `json:"amount"`
	Frequency string `json:"frequency"`
	FocusArea string `json:"focusArea"`
	Date      string `json:"date"`
	Note      string `json:"note,omitempty"`
}

// Totals summarizes the ledger after the gift landed.
type Totals struct {
	TotalRaised    string `json:"totalRaised"`
	GiftCount      int    `json:"giftCount"`
	RecurringCount int    `json:"recurringCount"`
	TopFocusArea   string `json:"topFocusArea"`
}

// Message is the body published for each gift.
type Message struct {
	Type   string    `json:"type"`
	SentAt time.Time `json:"sentAt"`
	Gift   Gift      `json:"gift"`
	Totals *Totals   `json:"totals,omitempty"`
}

// NewGiftMessage builds the message for r. m may be nil.
func NewGiftMessage(r model.DonationRecord, m *model.Metrics, now time.Time) Message {
	msg := Message{
		Type:   TypeGiftAdded,
		SentAt: now.UTC(),
		Gift: Gift{
			ID:        r.ID,
			Donor:     r.Donor,
			Amount:    r.Amount.String(),
			Frequency: string(r.Frequency),
			FocusArea: string(r.FocusArea),
			Date:      r.DateText(),
			Note:      r.Note,
		},
	}
	if m != nil {
		msg.Totals = &Totals{
			TotalRaised:    m.TotalRaised.StringFixed(2),
			GiftCount:      m.GiftCount,
			RecurringCount: m.RecurringCount,
			TopFocusArea:   string(m.TopFocusArea),
		}
	}
	return msg
}

// ToJSON encodes the message.
func (m Message) ToJSON() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal gift message: %w", err)
	}
	return data, nil
}

// MessageFromJSON decodes a published message.
func MessageFromJSON(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, fmt.Errorf("unmarshal gift message: %w", err)
	}
	return m, nil
}
