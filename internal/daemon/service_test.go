package daemon

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/blossom/internal/ledger"
	"github.com/theirongolddev/blossom/internal/model"
	"github.com/theirongolddev/blossom/internal/store"

	"github.com/shopspring/decimal"
)

var fixedNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, kv store.KV, opts ...Option) *Service {
	t.Helper()
	st := ledger.NewStore(kv, nil)
	st.Load(context.Background())
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return New(Config{EventsBuffer: 10, Storage: store.BackendMemory}, st, opts...)
}

func lastEvent(t *testing.T, s *Service) Event {
	t.Helper()
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.events) == 0 {
		t.Fatal("no events published")
	}
	return s.events[len(s.events)-1]
}

func TestDiffSnapshots(t *testing.T) {
	prev := Snapshot{
		Gifts:          4,
		RecurringGifts: 3,
		TotalRaised:    decimal.NewFromInt(9350),
	}
	curr := Snapshot{
		Gifts:          5,
		RecurringGifts: 4,
		TotalRaised:    decimal.RequireFromString("9475.50"),
	}

	delta := diffSnapshots(prev, curr)
	if delta.Gifts != 1 {
		t.Fatalf("Gifts delta = %d, want 1", delta.Gifts)
	}
	if delta.RecurringGifts != 1 {
		t.Fatalf("RecurringGifts delta = %d, want 1", delta.RecurringGifts)
	}
	if !delta.TotalRaised.Equal(decimal.RequireFromString("125.5")) {
		t.Fatalf("TotalRaised delta = %s, want 125.5", delta.TotalRaised)
	}
	if delta.isZero() {
		t.Fatal("delta unexpectedly reported as zero")
	}
	if !diffSnapshots(curr, curr).isZero() {
		t.Fatal("self delta should be zero")
	}
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := newTestService(t, store.NewMemory())
	s.cfg.EventsBuffer = 2

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestFirstPollPublishesSnapshot(t *testing.T) {
	s := newTestService(t, store.NewMemory())
	s.pollOnce(context.Background())

	ev := lastEvent(t, s)
	if ev.Type != EventSnapshot {
		t.Fatalf("event type = %q, want %q", ev.Type, EventSnapshot)
	}
	if ev.Snapshot.Gifts != 4 {
		t.Fatalf("snapshot gifts = %d, want 4", ev.Snapshot.Gifts)
	}
	if !ev.Snapshot.TotalRaised.Equal(decimal.NewFromInt(9350)) {
		t.Fatalf("snapshot total = %s, want 9350", ev.Snapshot.TotalRaised)
	}
	if ev.Snapshot.TopFocusArea != string(model.SafeHarborHousing) {
		t.Fatalf("top focus = %q, want %q", ev.Snapshot.TopFocusArea, model.SafeHarborHousing)
	}

	s.pollOnce(context.Background())
	if got := lastEvent(t, s).ID; got != ev.ID {
		t.Fatalf("unchanged poll published event %d", got)
	}
}

func TestPostGift(t *testing.T) {
	var observed []model.DonationRecord
	s := newTestService(t, store.NewMemory(), WithObserver(func(r model.DonationRecord) {
		observed = append(observed, r)
	}))
	s.pollOnce(context.Background())

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	body := `{"donor":"  Rivera Family ","amount":"$125.50","frequency":"monthly","focusArea":"healing-arts","date":"2024-03-14"}`
	resp, err := http.Post(srv.URL+"/v1/gifts", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /v1/gifts: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	var out addGiftResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if out.Gift == nil || out.Gift.Donor != "Rivera Family" || out.Gift.Amount != "125.5" {
		t.Fatalf("gift = %+v", out.Gift)
	}
	if !out.Persisted {
		t.Fatal("gift was not persisted")
	}

	if n := s.store.Current().Len(); n != 5 {
		t.Fatalf("ledger len = %d, want 5", n)
	}
	if len(observed) != 1 || observed[0].ID != out.Gift.ID {
		t.Fatalf("observer saw %d gifts", len(observed))
	}

	ev := lastEvent(t, s)
	if ev.Type != EventGiftAdded {
		t.Fatalf("event type = %q, want %q", ev.Type, EventGiftAdded)
	}
	if ev.Gift == nil || ev.Gift.ID != out.Gift.ID {
		t.Fatalf("event gift = %+v", ev.Gift)
	}
	if ev.Delta.Gifts != 1 || ev.Delta.RecurringGifts != 1 {
		t.Fatalf("delta = %+v, want one new recurring gift", ev.Delta)
	}
}

func TestPostGiftDefaultsFromDraft(t *testing.T) {
	s := newTestService(t, store.NewMemory(),
		WithIntakeDefaults(model.Quarterly, model.SafeHarborHousing))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/gifts", strings.NewReader(`{"donor":"Ana","amount":"40"}`))
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body)
	}
	got := s.store.Current().At(0)
	if got.Frequency != model.Quarterly || got.FocusArea != model.SafeHarborHousing {
		t.Fatalf("gift = %s / %s, want draft defaults", got.Frequency, got.FocusArea)
	}
	if got.Date.Format(model.DateLayout) != "2024-03-15" {
		t.Fatalf("date = %s, want today", got.Date.Format(model.DateLayout))
	}
}

func TestPostGiftRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
		want string
	}{
		{"blank donor", `{"donor":"  ","amount":"10"}`, http.StatusUnprocessableEntity, "donor is required"},
		{"zero amount", `{"donor":"A","amount":"0"}`, http.StatusUnprocessableEntity, "amount must be greater than zero"},
		{"bad focus", `{"donor":"A","amount":"5","focusArea":"Space"}`, http.StatusUnprocessableEntity, "unknown focus area"},
		{"not json", `{`, http.StatusBadRequest, "invalid JSON body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestService(t, store.NewMemory())

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/v1/gifts", strings.NewReader(tt.body))
			s.Handler().ServeHTTP(rec, req)

			if rec.Code != tt.code {
				t.Fatalf("status = %d, want %d", rec.Code, tt.code)
			}
			if !strings.Contains(rec.Body.String(), tt.want) {
				t.Fatalf("body = %s, want %q", rec.Body, tt.want)
			}
			if n := s.store.Current().Len(); n != 4 {
				t.Fatalf("ledger len = %d, want 4", n)
			}
		})
	}
}

func TestPollPicksUpOtherProcess(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	s := newTestService(t, kv)
	s.pollOnce(ctx)

	other := ledger.NewStore(kv, nil)
	other.Load(ctx)
	if _, err := other.Add(ctx, model.DonationRecord{
		ID:        "cli-1",
		Donor:     "Walk-in",
		Amount:    decimal.NewFromInt(60),
		Frequency: model.OneTime,
		FocusArea: model.CommunityNourishment,
		Date:      fixedNow,
	}); err != nil {
		t.Fatalf("other.Add: %v", err)
	}

	s.pollOnce(ctx)
	ev := lastEvent(t, s)
	if ev.Type != EventLedgerDelta {
		t.Fatalf("event type = %q, want %q", ev.Type, EventLedgerDelta)
	}
	if ev.Delta.Gifts != 1 || !ev.Delta.TotalRaised.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("delta = %+v", ev.Delta)
	}
	if !ev.Snapshot.ThisMonth.Equal(decimal.NewFromInt(3210)) {
		t.Fatalf("this month = %s, want 3210", ev.Snapshot.ThisMonth)
	}
}

func TestStatusGiftsAndMetricsEndpoints(t *testing.T) {
	s := newTestService(t, store.NewMemory())
	s.pollOnce(context.Background())

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	get := func(path string) string {
		t.Helper()
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s status = %d", path, resp.StatusCode)
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatalf("reading %s: %v", path, err)
		}
		return string(data)
	}

	if got := get("/healthz"); got != "ok\n" {
		t.Fatalf("healthz = %q", got)
	}

	var st Status
	if err := json.Unmarshal([]byte(get("/v1/status")), &st); err != nil {
		t.Fatalf("decoding status: %v", err)
	}
	if st.Summary.Gifts != 4 || st.PollCount != 1 || st.Storage != store.BackendMemory {
		t.Fatalf("status = %+v", st)
	}

	var gifts []Gift
	if err := json.Unmarshal([]byte(get("/v1/gifts")), &gifts); err != nil {
		t.Fatalf("decoding gifts: %v", err)
	}
	if len(gifts) != 4 || gifts[0].ID != "seed-1" || gifts[2].Amount != "5000" {
		t.Fatalf("gifts = %+v", gifts)
	}

	metrics := get("/metrics")
	for _, want := range []string{
		"blossom_gifts 4",
		"blossom_total_raised_dollars 9350",
		`blossom_focus_area_dollars{focus_area="community-nourishment"} 3150`,
		`blossom_events_total{type="snapshot"} 1`,
	} {
		if !strings.Contains(metrics, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}
