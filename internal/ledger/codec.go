package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/theirongolddev/blossom/internal/model"

	"github.com/shopspring/decimal"
)

// wireRecord is the persisted shape of a gift.
type wireRecord struct {
	ID        string      `json:"id"`
	Donor     string      `json:"donor"`
	Amount    json.Number `json:"amount"`
	Frequency string      `json:"frequency"`
	FocusArea string      `json:"focusArea"`
	Date      string      `json:"date"`
	Note      string      `json:"note,omitempty"`
}

var errNotArray = errors.New("persisted ledger is not an array")

// Encode serializes records as a JSON array.
func Encode(records []model.DonationRecord) ([]byte, error) {
	out := make([]wireRecord, len(records))
	for i, r := range records {
		out[i] = wireRecord{
			ID:        r.ID,
			Donor:     r.Donor,
			Amount:    json.Number(r.Amount.String()),
			Frequency: string(r.Frequency),
			FocusArea: string(r.FocusArea),
			Date:      r.DateText(),
			Note:      r.Note,
		}
	}
	return json.Marshal(out)
}

// Decode parses a JSON array of gifts. Only the array shape and numeric
// amounts are checked. A date that is not YYYY-MM-DD leaves the record with a
// zero Date and its text in RawDate, so it re-encodes unchanged.
func Decode(data []byte) ([]model.DonationRecord, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing ledger: %w", err)
	}
	if len(raw) == 0 || raw[0] != '[' {
		return nil, errNotArray
	}

	var in []wireRecord
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("parsing ledger: %w", err)
	}

	records := make([]model.DonationRecord, len(in))
	for i, w := range in {
		amount := decimal.Zero
		if w.Amount != "" {
			a, err := decimal.NewFromString(w.Amount.String())
			if err != nil {
				return nil, fmt.Errorf("parsing amount of %s: %w", w.ID, err)
			}
			amount = a
		}
		var rawDate string
		date, err := model.ParseDate(w.Date)
		if err != nil {
			date, rawDate = time.Time{}, w.Date
		}
		records[i] = model.DonationRecord{
			ID:        w.ID,
			Donor:     w.Donor,
			Amount:    amount,
			Frequency: model.Frequency(w.Frequency),
			FocusArea: model.FocusArea(w.FocusArea),
			Date:      date,
			RawDate:   rawDate,
			Note:      w.Note,
		}
	}
	return records, nil
}
