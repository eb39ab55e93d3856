// Package intake turns raw form input into recorded gifts.
package intake

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/theirongolddev/blossom/internal/ledger"
	"github.com/theirongolddev/blossom/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Validation errors returned by Validate.
var (
	ErrDonorRequired     = errors.New("donor is required")
	ErrAmountRequired    = errors.New("amount is required")
	ErrAmountInvalid     = errors.New("amount is not a number")
	ErrAmountNotPositive = errors.New("amount must be greater than zero")
	ErrFrequencyInvalid  = errors.New("unknown frequency")
	ErrFocusAreaInvalid  = errors.New("unknown focus area")
	ErrDateInvalid       = errors.New("date must be YYYY-MM-DD")
)

// Fields holds the raw values of the gift form.
type Fields struct {
	Donor     string `json:"donor"`
	Amount    string `json:"amount"`
	Frequency string `json:"frequency"`
	FocusArea string `json:"focusArea"`
	Date      string `json:"date"`
	Note      string `json:"note"`
}

// Observer is told about every recorded gift.
type Observer func(model.DonationRecord)

// Observers fans a gift out to every non-nil observer in order.
func Observers(obs ...Observer) Observer {
	return func(r model.DonationRecord) {
		for _, o := range obs {
			if o != nil {
				o(r)
			}
		}
	}
}

// Handler validates submissions and appends them to a ledger store.
type Handler struct {
	store    *ledger.Store
	logger   *slog.Logger
	observer Observer
	newID    func() string

	mu    sync.Mutex
	draft Fields
}

// Option configures a Handler.
type Option func(*Handler)

// WithObserver sets the callback run after each recorded gift.
func WithObserver(o Observer) Option {
	return func(h *Handler) { h.observer = o }
}

// WithLogger sets the handler's logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l.With("component", "intake")
		}
	}
}

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(fn func() string) Option {
	return func(h *Handler) { h.newID = fn }
}

// WithDefaults sets the initial frequency, focus area and date of the draft.
func WithDefaults(f model.Frequency, a model.FocusArea, date time.Time) Option {
	return func(h *Handler) {
		h.draft.Frequency = string(f)
		h.draft.FocusArea = string(a)
		h.draft.Date = date.Format(model.DateLayout)
	}
}

// NewHandler returns a handler writing to store. The draft starts as a
// monthly Community Nourishment gift dated today.
func NewHandler(store *ledger.Store, opts ...Option) *Handler {
	h := &Handler{
		store:  store,
		logger: slog.New(slog.DiscardHandler),
		newID:  uuid.NewString,
		draft: Fields{
			Frequency: string(model.Monthly),
			FocusArea: string(model.CommunityNourishment),
			Date:      model.Today(time.Now()).Format(model.DateLayout),
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Draft returns the form values to show for the next entry.
func (h *Handler) Draft() Fields {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.draft
}

// Submit records in as a new gift. ok is false when the submission was
// dropped for failing validation; the ledger is then untouched and the
// draft keeps what was typed. On success the draft keeps frequency, focus
// area and date and clears the rest. err only reports a failed save; the
// gift is in the ledger either way.
func (h *Handler) Submit(ctx context.Context, in Fields) (model.DonationRecord, bool, error) {
	rec, err := Normalize(in)
	if err != nil {
		h.mu.Lock()
		h.draft = in
		h.mu.Unlock()
		h.logger.Debug("submission dropped", "reason", err)
		return model.DonationRecord{}, false, nil
	}

	h.mu.Lock()
	rec.ID = h.newID()
	_, saveErr := h.store.Add(ctx, rec)
	h.draft = Fields{
		Frequency: in.Frequency,
		FocusArea: in.FocusArea,
		Date:      in.Date,
	}
	h.mu.Unlock()

	h.logger.Info("gift recorded", "id", rec.ID, "amount", rec.Amount.String(), "focus", rec.FocusArea)
	if h.observer != nil {
		h.observer(rec)
	}
	return rec, true, saveErr
}

// Validate reports the first problem with in, or nil.
func Validate(in Fields) error {
	_, err := Normalize(in)
	return err
}

// Normalize validates in and builds the record it describes, without an ID.
func Normalize(in Fields) (model.DonationRecord, error) {
	donor := strings.TrimSpace(in.Donor)
	if donor == "" {
		return model.DonationRecord{}, ErrDonorRequired
	}

	amount, err := ParseAmount(in.Amount)
	if err != nil {
		return model.DonationRecord{}, err
	}

	freq, err := model.ParseFrequency(in.Frequency)
	if err != nil {
		return model.DonationRecord{}, ErrFrequencyInvalid
	}
	area, err := model.ParseFocusArea(in.FocusArea)
	if err != nil {
		return model.DonationRecord{}, ErrFocusAreaInvalid
	}
	date, err := model.ParseDate(in.Date)
	if err != nil {
		return model.DonationRecord{}, ErrDateInvalid
	}

	return model.DonationRecord{
		Donor:     donor,
		Amount:    amount,
		Frequency: freq,
		FocusArea: area,
		Date:      date,
		Note:      strings.TrimSpace(in.Note),
	}, nil
}

// ParseAmount parses a gift amount such as "400", "$1,250.50" or "25".
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrAmountRequired
	}
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")

	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, ErrAmountInvalid
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrAmountNotPositive
	}
	return d, nil
}
