package intake

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/theirongolddev/blossom/internal/ledger"
	"github.com/theirongolddev/blossom/internal/model"
	"github.com/theirongolddev/blossom/internal/pipeline"
	"github.com/theirongolddev/blossom/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler(t *testing.T, opts ...Option) (*Handler, *ledger.Store, store.KV) {
	t.Helper()
	kv := store.NewMemory()
	st := ledger.NewStore(kv, nil)
	st.Load(context.Background())
	return NewHandler(st, opts...), st, kv
}

func testFund() Fields {
	return Fields{
		Donor:     "Test Fund",
		Amount:    "400",
		Frequency: "one-time",
		FocusArea: "healing-arts",
		Date:      "2024-05-01",
	}
}

func TestSubmitEmptyDonorIsDropped(t *testing.T) {
	calls := 0
	h, st, kv := newHandler(t, WithObserver(func(model.DonationRecord) { calls++ }))

	in := Fields{Donor: "   ", Amount: "100", Frequency: "Monthly", FocusArea: "Healing Arts", Date: "2024-05-01"}
	_, ok, err := h.Submit(context.Background(), in)

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 4, st.Current().Len())
	assert.Equal(t, 0, calls)
	assert.Equal(t, in, h.Draft(), "dropped submission keeps typed values")

	_, getErr := kv.Get(context.Background(), ledger.StorageKey)
	assert.True(t, errors.Is(getErr, store.ErrNotFound), "nothing persisted")
}

func TestSubmitTestFund(t *testing.T) {
	var seen []model.DonationRecord
	h, st, kv := newHandler(t,
		WithObserver(func(r model.DonationRecord) { seen = append(seen, r) }),
		WithIDGenerator(func() string { return "gift-1" }),
	)
	now := time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC)
	before := pipeline.Aggregate(st.Current(), now)

	rec, ok, err := h.Submit(context.Background(), testFund())
	require.NoError(t, err)
	require.True(t, ok)

	snap := st.Current()
	assert.Equal(t, 5, snap.Len())
	assert.Equal(t, "gift-1", snap.At(0).ID)
	assert.True(t, rec.Equal(snap.At(0)))
	assert.False(t, rec.HasNote())

	after := pipeline.Aggregate(snap, now)
	gain := after.ByFocusArea[model.HealingArts].Sub(before.ByFocusArea[model.HealingArts])
	assert.True(t, gain.Equal(decimal.NewFromInt(400)), "healing arts gain = %s", gain)
	assert.Equal(t, before.RecurringCount, after.RecurringCount)

	require.Len(t, seen, 1)
	assert.Equal(t, "gift-1", seen[0].ID)

	reloaded := ledger.NewStore(kv, nil).Load(context.Background())
	assert.Equal(t, 5, reloaded.Len())
}

func TestSubmitResetsDraft(t *testing.T) {
	h, _, _ := newHandler(t)
	in := testFund()
	in.Note = "  in memory of June  "

	rec, ok, err := h.Submit(context.Background(), in)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "in memory of June", rec.Note)

	draft := h.Draft()
	assert.Empty(t, draft.Donor)
	assert.Empty(t, draft.Amount)
	assert.Empty(t, draft.Note)
	assert.Equal(t, in.Frequency, draft.Frequency)
	assert.Equal(t, in.FocusArea, draft.FocusArea)
	assert.Equal(t, in.Date, draft.Date)
}

func TestSubmitUniqueIDs(t *testing.T) {
	h, st, _ := newHandler(t)
	ids := map[string]bool{}
	for i := 0; i < 20; i++ {
		rec, ok, err := h.Submit(context.Background(), testFund())
		require.NoError(t, err)
		require.True(t, ok)
		assert.False(t, ids[rec.ID], "duplicate id %s", rec.ID)
		ids[rec.ID] = true
	}
	assert.Equal(t, 24, st.Current().Len())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Fields)
		want   error
	}{
		{"ok", func(*Fields) {}, nil},
		{"blank donor", func(f *Fields) { f.Donor = "" }, ErrDonorRequired},
		{"blank amount", func(f *Fields) { f.Amount = " " }, ErrAmountRequired},
		{"text amount", func(f *Fields) { f.Amount = "lots" }, ErrAmountInvalid},
		{"zero amount", func(f *Fields) { f.Amount = "0" }, ErrAmountNotPositive},
		{"negative amount", func(f *Fields) { f.Amount = "-25" }, ErrAmountNotPositive},
		{"currency amount", func(f *Fields) { f.Amount = "$1,250.50" }, nil},
		{"label frequency", func(f *Fields) { f.Frequency = "Quarterly" }, nil},
		{"bad frequency", func(f *Fields) { f.Frequency = "weekly" }, ErrFrequencyInvalid},
		{"bad focus", func(f *Fields) { f.FocusArea = "parks" }, ErrFocusAreaInvalid},
		{"bad date", func(f *Fields) { f.Date = "05/01/2024" }, ErrDateInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := testFund()
			tt.mutate(&in)
			err := Validate(in)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseAmount(t *testing.T) {
	d, err := ParseAmount(" $1,250.50 ")
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("1250.5")))
}

func TestObserversFanOut(t *testing.T) {
	var order []string
	obs := Observers(
		func(model.DonationRecord) { order = append(order, "a") },
		nil,
		func(model.DonationRecord) { order = append(order, "b") },
	)
	obs(model.DonationRecord{})
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestDefaultDraft(t *testing.T) {
	h, _, _ := newHandler(t, WithDefaults(model.Quarterly, model.SafeHarborHousing,
		time.Date(2024, time.July, 4, 0, 0, 0, 0, time.UTC)))
	d := h.Draft()
	assert.Equal(t, "Quarterly", d.Frequency)
	assert.Equal(t, "Safe Harbor Housing", d.FocusArea)
	assert.Equal(t, "2024-07-04", d.Date)
}
