package pipeline

import (
	"sync"
	"time"

	"github.com/theirongolddev/blossom/internal/ledger"
	"github.com/theirongolddev/blossom/internal/model"
)

// Memo caches the metrics of the most recent snapshot. A new snapshot, or
// a new UTC month, forces recomputation.
type Memo struct {
	mu      sync.Mutex
	snap    *ledger.Snapshot
	year    int
	month   time.Month
	metrics model.Metrics
	valid   bool
}

// Metrics returns Aggregate(snap, now), reusing the cached value when snap
// is the same pointer as last time and now falls in the same UTC month.
// The returned ByFocusArea map is shared and must not be modified.
func (m *Memo) Metrics(snap *ledger.Snapshot, now time.Time) model.Metrics {
	y, mo, _ := now.UTC().Date()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.valid && m.snap == snap && m.year == y && m.month == mo {
		return m.metrics
	}

	m.metrics = Aggregate(snap, now)
	m.snap, m.year, m.month, m.valid = snap, y, mo, true
	return m.metrics
}
