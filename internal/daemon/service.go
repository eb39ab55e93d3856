// Package daemon provides the long-running local ledger service.
package daemon

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/theirongolddev/blossom/internal/intake"
	"github.com/theirongolddev/blossom/internal/ledger"
	"github.com/theirongolddev/blossom/internal/model"
	"github.com/theirongolddev/blossom/internal/pipeline"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Event types.
const (
	EventSnapshot    = "snapshot"
	EventLedgerDelta = "ledger_delta"
	EventGiftAdded   = "gift_added"
)

// Config controls the daemon runtime behavior.
type Config struct {
	Addr         string
	Interval     time.Duration
	EventsBuffer int
	DataDir      string
	Storage      string
}

// Snapshot is a compact ledger state for status and event payloads.
type Snapshot struct {
	At             time.Time                  `json:"at"`
	Gifts          int                        `json:"gifts"`
	RecurringGifts int                        `json:"recurring_gifts"`
	TotalRaised    decimal.Decimal            `json:"total_raised"`
	ThisMonth      decimal.Decimal            `json:"this_month"`
	AverageGift    decimal.Decimal            `json:"average_gift"`
	ByFocusArea    map[string]decimal.Decimal `json:"by_focus_area"`
	TopFocusArea   string                     `json:"top_focus_area"`
}

// Delta captures snapshot deltas between polls.
type Delta struct {
	Gifts          int             `json:"gifts"`
	RecurringGifts int             `json:"recurring_gifts"`
	TotalRaised    decimal.Decimal `json:"total_raised"`
}

func (d Delta) isZero() bool {
	return d.Gifts == 0 &&
		d.RecurringGifts == 0 &&
		d.TotalRaised.IsZero()
}

// Gift is a ledger record as served over HTTP.
type Gift struct {
	ID        string `json:"id"`
	Donor     string `json:"donor"`
	Amount    string `json:"amount"`
	Frequency string `json:"frequency"`
	FocusArea string `json:"focusArea"`
	Date      string `json:"date"`
	Note      string `json:"note,omitempty"`
}

func giftFromRecord(r model.DonationRecord) Gift {
	return Gift{
		ID:        r.ID,
		Donor:     r.Donor,
		Amount:    r.Amount.String(),
		Frequency: string(r.Frequency),
		FocusArea: string(r.FocusArea),
		Date:      r.DateText(),
		Note:      r.Note,
	}
}

// Event is emitted whenever the ledger changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
	Gift      *Gift     `json:"gift,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	DataDir         string    `json:"data_dir"`
	Storage         string    `json:"storage"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg Config

	store    *ledger.Store
	intake   *intake.Handler
	observer intake.Observer
	memo     pipeline.Memo
	logger   *slog.Logger
	now      func() time.Time

	defaultFreq model.Frequency
	defaultArea model.FocusArea

	registry *prometheus.Registry
	metrics  *collectors

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l.With("component", "daemon")
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithObserver adds a callback run for every gift recorded over HTTP,
// after the service has published its own event.
func WithObserver(o intake.Observer) Option {
	return func(s *Service) { s.observer = o }
}

// WithIntakeDefaults sets the draft defaults of the HTTP intake handler.
func WithIntakeDefaults(f model.Frequency, a model.FocusArea) Option {
	return func(s *Service) {
		s.defaultFreq, s.defaultArea = f, a
	}
}

// New returns a daemon serving store.
func New(cfg Config, store *ledger.Store, opts ...Option) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 15 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8788"
	}

	s := &Service{
		cfg:         cfg,
		store:       store,
		logger:      slog.New(slog.DiscardHandler),
		now:         time.Now,
		registry:    prometheus.NewRegistry(),
		defaultFreq: model.Monthly,
		defaultArea: model.CommunityNourishment,
		startedAt:   time.Now(),
		subs:        make(map[int]chan Event),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.metrics = newCollectors(s.registry)
	s.intake = intake.NewHandler(store,
		intake.WithLogger(s.logger),
		intake.WithDefaults(s.defaultFreq, s.defaultArea, model.Today(s.now())),
		intake.WithObserver(intake.Observers(s.onGift, s.observer)),
	)
	return s
}

// Handler returns the daemon's HTTP routes.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("GET /v1/gifts", s.handleListGifts)
	mux.HandleFunc("POST /v1/gifts", s.handleAddGift)
	mux.HandleFunc("GET /v1/events", s.handleEvents)
	mux.HandleFunc("GET /v1/stream", s.handleStream)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return mux
}

// Run starts HTTP endpoints and polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Seed initial snapshot so status is useful immediately.
	s.pollOnce(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("daemon http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				s.pollOnce(gctx)
			}
		}
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// pollOnce picks up gifts other processes wrote to the slot.
func (s *Service) pollOnce(ctx context.Context) {
	snap, _, err := s.store.Sync(ctx)
	now := s.now()

	s.mu.Lock()
	s.lastPollAt = now
	s.pollCount++
	if err != nil {
		s.lastError = err.Error()
	} else {
		s.lastError = ""
	}
	s.mu.Unlock()
	s.metrics.polls.Inc()

	if err != nil {
		s.metrics.pollErrors.Inc()
		s.logger.Warn("poll failed", "err", err)
	}
	s.observe(snap, now, EventLedgerDelta, nil)
}

// onGift runs synchronously inside intake for each gift posted over HTTP.
func (s *Service) onGift(r model.DonationRecord) {
	g := giftFromRecord(r)
	s.metrics.intakeAccepted.Inc()
	s.observe(s.store.Current(), s.now(), EventGiftAdded, &g)
}

// observe updates the cached snapshot and publishes an event when it moved.
func (s *Service) observe(snap *ledger.Snapshot, now time.Time, kind string, gift *Gift) {
	curr := snapshotFromMetrics(s.memo.Metrics(snap, now), now)
	s.metrics.set(curr)

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot
	s.hasSnapshot = true
	s.snapshot = curr

	switch {
	case !prevExists:
		s.nextEventID++
		ev = Event{ID: s.nextEventID, Type: EventSnapshot, Timestamp: now, Snapshot: curr}
		publish = true
	default:
		delta := diffSnapshots(prev, curr)
		if !delta.isZero() || gift != nil {
			s.nextEventID++
			ev = Event{ID: s.nextEventID, Type: kind, Timestamp: now, Snapshot: curr, Delta: delta, Gift: gift}
			publish = true
		}
	}
	s.mu.Unlock()

	if publish {
		s.publishEvent(ev)
	}
}

func snapshotFromMetrics(m model.Metrics, at time.Time) Snapshot {
	byArea := make(map[string]decimal.Decimal, len(m.ByFocusArea))
	for _, a := range model.FocusAreas() {
		byArea[a.Slug()] = m.ByFocusArea[a]
	}
	return Snapshot{
		At:             at,
		Gifts:          m.GiftCount,
		RecurringGifts: m.RecurringCount,
		TotalRaised:    m.TotalRaised,
		ThisMonth:      m.ThisMonthTotal,
		AverageGift:    m.AverageGift,
		ByFocusArea:    byArea,
		TopFocusArea:   string(m.TopFocusArea),
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Gifts:          curr.Gifts - prev.Gifts,
		RecurringGifts: curr.RecurringGifts - prev.RecurringGifts,
		TotalRaised:    curr.TotalRaised.Sub(prev.TotalRaised),
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
	s.metrics.events.WithLabelValues(ev.Type).Inc()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		DataDir:         s.cfg.DataDir,
		Storage:         s.cfg.Storage,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleListGifts(w http.ResponseWriter, _ *http.Request) {
	records := s.store.Current().Records()
	gifts := make([]Gift, len(records))
	for i, r := range records {
		gifts[i] = giftFromRecord(r)
	}
	writeJSON(w, http.StatusOK, gifts)
}

type addGiftResponse struct {
	Gift      *Gift  `json:"gift,omitempty"`
	Persisted bool   `json:"persisted"`
	Error     string `json:"error,omitempty"`
}

func (s *Service) handleAddGift(w http.ResponseWriter, r *http.Request) {
	var in intake.Fields
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10))
	if err := dec.Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, addGiftResponse{Error: "invalid JSON body"})
		return
	}
	draft := s.intake.Draft()
	in.Frequency = cmp.Or(in.Frequency, draft.Frequency)
	in.FocusArea = cmp.Or(in.FocusArea, draft.FocusArea)
	in.Date = cmp.Or(in.Date, model.Today(s.now()).Format(model.DateLayout))

	if err := intake.Validate(in); err != nil {
		s.metrics.intakeRejected.Inc()
		writeJSON(w, http.StatusUnprocessableEntity, addGiftResponse{Error: err.Error()})
		return
	}

	rec, ok, err := s.intake.Submit(r.Context(), in)
	if !ok {
		s.metrics.intakeRejected.Inc()
		writeJSON(w, http.StatusUnprocessableEntity, addGiftResponse{Error: "submission rejected"})
		return
	}
	g := giftFromRecord(rec)
	resp := addGiftResponse{Gift: &g, Persisted: err == nil}
	if err != nil {
		resp.Error = err.Error()
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	current := Event{
		Type:      EventSnapshot,
		Timestamp: s.now(),
		Snapshot:  s.snapshotStatus().Summary,
	}
	writeSSE(w, current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
