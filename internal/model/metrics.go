package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// FocusTotals maps every focus area to a summed amount.
type FocusTotals map[FocusArea]decimal.Decimal

// NewFocusTotals returns totals with every focus area present at zero.
func NewFocusTotals() FocusTotals {
	t := make(FocusTotals, len(FocusAreas()))
	for _, a := range FocusAreas() {
		t[a] = decimal.Zero
	}
	return t
}

// Sum adds up every focus area.
func (t FocusTotals) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, a := range FocusAreas() {
		sum = sum.Add(t[a])
	}
	return sum
}

// Metrics holds the ledger-wide aggregate.
type Metrics struct {
	TotalRaised    decimal.Decimal
	GiftCount      int
	RecurringCount int
	ThisMonthTotal decimal.Decimal
	AverageGift    decimal.Decimal
	ByFocusArea    FocusTotals
	TopFocusArea   FocusArea
}

// MonthlyTotal holds gifts dated in one UTC calendar month.
type MonthlyTotal struct {
	Month time.Time // first day of month, UTC
	Gifts int
	Total decimal.Decimal
}

// FrequencyStats holds count and sum for one frequency.
type FrequencyStats struct {
	Frequency Frequency
	Gifts     int
	Total     decimal.Decimal
}
