// Package ledger holds the donation ledger: an append-only, newest-first
// sequence of gifts persisted to a single key-value slot.
package ledger

import "github.com/theirongolddev/blossom/internal/model"

// Snapshot is an immutable view of the ledger at one point in time.
// Distinct snapshots are distinct pointers, which makes the pointer a
// cheap identity for memoized aggregation.
type Snapshot struct {
	records []model.DonationRecord
}

// NewSnapshot copies records into a snapshot. records[0] is the newest gift.
func NewSnapshot(records []model.DonationRecord) *Snapshot {
	cp := make([]model.DonationRecord, len(records))
	copy(cp, records)
	return &Snapshot{records: cp}
}

// Len returns the number of gifts.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.records)
}

// At returns the i-th newest gift.
func (s *Snapshot) At(i int) model.DonationRecord {
	return s.records[i]
}

// Records returns a copy of the gifts, newest first.
func (s *Snapshot) Records() []model.DonationRecord {
	if s == nil {
		return nil
	}
	out := make([]model.DonationRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Append returns a new snapshot with r in front of every gift in s.
// s is left untouched.
func Append(s *Snapshot, r model.DonationRecord) *Snapshot {
	next := make([]model.DonationRecord, 0, s.Len()+1)
	next = append(next, r)
	if s != nil {
		next = append(next, s.records...)
	}
	return &Snapshot{records: next}
}
