// Package pipeline derives dashboard metrics from ledger snapshots.
package pipeline

import (
	"time"

	"github.com/theirongolddev/blossom/internal/ledger"
	"github.com/theirongolddev/blossom/internal/model"

	"github.com/shopspring/decimal"
)

// Aggregate computes the ledger-wide metrics for snap. "This month" is the
// UTC calendar month containing now.
// Records with an unknown focus area count toward TotalRaised but no
// ByFocusArea bucket, so ByFocusArea.Sum() can fall short of TotalRaised.
func Aggregate(snap *ledger.Snapshot, now time.Time) model.Metrics {
	m := model.Metrics{
		TotalRaised:    decimal.Zero,
		ThisMonthTotal: decimal.Zero,
		AverageGift:    decimal.Zero,
		ByFocusArea:    model.NewFocusTotals(),
	}

	year, month, _ := now.UTC().Date()

	for i := 0; i < snap.Len(); i++ {
		r := snap.At(i)
		m.GiftCount++
		m.TotalRaised = m.TotalRaised.Add(r.Amount)

		if r.Frequency != model.OneTime {
			m.RecurringCount++
		}

		ry, rm, _ := r.Date.UTC().Date()
		if ry == year && rm == month {
			m.ThisMonthTotal = m.ThisMonthTotal.Add(r.Amount)
		}

		// Unknown areas from hand-edited data count toward the total only.
		if cur, ok := m.ByFocusArea[r.FocusArea]; ok {
			m.ByFocusArea[r.FocusArea] = cur.Add(r.Amount)
		}
	}

	if m.GiftCount > 0 {
		m.AverageGift = m.TotalRaised.Div(decimal.NewFromInt(int64(m.GiftCount)))
	}
	m.TopFocusArea = TopFocusArea(m.ByFocusArea)

	return m
}

// TopFocusArea returns the area with the strictly greatest total. Ties go
// to the area declared first.
func TopFocusArea(totals model.FocusTotals) model.FocusArea {
	areas := model.FocusAreas()
	top := areas[0]
	for _, a := range areas[1:] {
		if totals[a].GreaterThan(totals[top]) {
			top = a
		}
	}
	return top
}

// AggregateMonths returns totals for the n UTC calendar months ending with
// the month containing now, oldest first. Months without gifts are zero.
func AggregateMonths(snap *ledger.Snapshot, now time.Time, n int) []model.MonthlyTotal {
	if n <= 0 {
		return nil
	}

	y, mo, _ := now.UTC().Date()
	last := time.Date(y, mo, 1, 0, 0, 0, 0, time.UTC)
	first := last.AddDate(0, -(n - 1), 0)

	months := make([]model.MonthlyTotal, n)
	for i := range months {
		months[i] = model.MonthlyTotal{Month: first.AddDate(0, i, 0), Total: decimal.Zero}
	}

	for i := 0; i < snap.Len(); i++ {
		r := snap.At(i)
		ry, rm, _ := r.Date.UTC().Date()
		idx := (ry-first.Year())*12 + int(rm) - int(first.Month())
		if idx < 0 || idx >= n {
			continue
		}
		months[idx].Gifts++
		months[idx].Total = months[idx].Total.Add(r.Amount)
	}
	return months
}

// AggregateFrequencies returns count and total per frequency in declaration
// order. Every frequency is present.
func AggregateFrequencies(snap *ledger.Snapshot) []model.FrequencyStats {
	freqs := model.Frequencies()
	out := make([]model.FrequencyStats, len(freqs))
	idx := make(map[model.Frequency]int, len(freqs))
	for i, f := range freqs {
		out[i] = model.FrequencyStats{Frequency: f, Total: decimal.Zero}
		idx[f] = i
	}

	for i := 0; i < snap.Len(); i++ {
		r := snap.At(i)
		j, ok := idx[r.Frequency]
		if !ok {
			continue
		}
		out[j].Gifts++
		out[j].Total = out[j].Total.Add(r.Amount)
	}
	return out
}
