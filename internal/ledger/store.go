package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/theirongolddev/blossom/internal/model"
	"github.com/theirongolddev/blossom/internal/store"
)

// StorageKey is the slot that holds the persisted ledger.
const StorageKey = "orangeblossomalliance-donations"

// Store owns the current ledger snapshot and its persistence.
type Store struct {
	kv     store.KV
	logger *slog.Logger

	writeMu sync.Mutex // serializes Add so persists land in order

	mu      sync.RWMutex
	current *Snapshot
}

// NewStore returns a store over kv. Call Load before use.
func NewStore(kv store.KV, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		kv:      kv,
		logger:  logger.With("component", "ledger"),
		current: Seed(),
	}
}

// Load reads the persisted ledger and makes it current. Missing, empty,
// non-array or unparseable data falls back to the seed ledger; records with
// odd field values are kept as-is. Read failures are logged and
// never returned. Load does not write.
func (s *Store) Load(ctx context.Context) *Snapshot {
	snap := s.read(ctx)

	s.mu.Lock()
	s.current = snap
	s.mu.Unlock()
	return snap
}

func (s *Store) read(ctx context.Context) *Snapshot {
	snap, err := s.readSlot(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, errEmpty):
		return Seed()
	case err != nil:
		s.logger.Warn("unable to load saved donations, using seed", "err", err)
		return Seed()
	}
	s.logger.Debug("loaded donations", "count", snap.Len())
	return snap
}

var errEmpty = errors.New("persisted ledger is empty")

func (s *Store) readSlot(ctx context.Context) (*Snapshot, error) {
	data, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		return nil, err
	}
	records, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errEmpty
	}
	return &Snapshot{records: records}, nil
}

// Sync re-reads the slot and makes it current when another writer has
// changed it. Unreadable or missing data leaves the current snapshot alone.
// changed reports whether the current snapshot was replaced.
func (s *Store) Sync(ctx context.Context) (snap *Snapshot, changed bool, err error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	disk, err := s.readSlot(ctx)
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, errEmpty) {
		return s.Current(), false, nil
	}
	if err != nil {
		return s.Current(), false, fmt.Errorf("reading ledger: %w", err)
	}

	cur := s.Current()
	if sameRecords(cur, disk) {
		return cur, false, nil
	}
	s.Replace(disk)
	return disk, true, nil
}

func sameRecords(a, b *Snapshot) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		if !a.At(i).Equal(b.At(i)) {
			return false
		}
	}
	return true
}

// Current returns the latest snapshot.
func (s *Store) Current() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Replace makes snap current without persisting it.
func (s *Store) Replace(snap *Snapshot) {
	s.mu.Lock()
	s.current = snap
	s.mu.Unlock()
}

// Persist writes the full snapshot to the slot, replacing what was there.
func (s *Store) Persist(ctx context.Context, snap *Snapshot) error {
	data, err := Encode(snap.Records())
	if err != nil {
		return fmt.Errorf("encoding ledger: %w", err)
	}
	if err := s.kv.Set(ctx, StorageKey, data); err != nil {
		return fmt.Errorf("saving ledger: %w", err)
	}
	return nil
}

// Add prepends r, makes the result current and persists it. The returned
// snapshot is current even when the error reports a failed write.
func (s *Store) Add(ctx context.Context, r model.DonationRecord) (*Snapshot, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	next := Append(s.current, r)
	s.current = next
	s.mu.Unlock()

	if err := s.Persist(ctx, next); err != nil {
		s.logger.Warn("unable to save donations", "err", err, "id", r.ID)
		return next, err
	}
	return next, nil
}
