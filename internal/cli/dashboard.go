package cli

import (
	"fmt"

	"github.com/theirongolddev/blossom/internal/model"

	"github.com/charmbracelet/lipgloss"
)

// EmptyLedger is shown when there are no gifts to list.
const EmptyLedger = "Start logging gifts to build your Orange Blossom story."

// Tile is one headline metric.
type Tile struct {
	Label  string
	Value  string
	Helper string
}

// MetricTiles returns the three ledger tiles shown above the gift list.
func MetricTiles(m model.Metrics) []Tile {
	return []Tile{
		{Label: "Lifetime impact", Value: FormatMoney(m.TotalRaised), Helper: "Across all tracked gifts"},
		{Label: "Average gift", Value: FormatWholeMoney(m.AverageGift), Helper: "Mean contribution value"},
		{Label: "Focus momentum", Value: string(m.TopFocusArea), Helper: "Top funded program"},
	}
}

// HeaderPills returns the "this month" and "recurring allies" pills.
func HeaderPills(m model.Metrics) []string {
	return []string{
		FormatMoney(m.ThisMonthTotal) + " this month",
		fmt.Sprintf("%d recurring allies", m.RecurringCount),
	}
}

// GiftRow formats a gift for the ledger table:
// Donor, Focus, Amount, Frequency, Date, Notes.
func GiftRow(r model.DonationRecord) []string {
	return []string{
		r.Donor,
		string(r.FocusArea),
		FormatMoney(r.Amount),
		string(r.Frequency),
		FormatDate(r.Date),
		FormatNote(r.Note),
	}
}

// GiftHeaders are the ledger table columns.
var GiftHeaders = []string{"Donor", "Focus", "Amount", "Frequency", "Date", "Notes"}

// FocusColor is the chart color of a focus area.
func FocusColor(a model.FocusArea) lipgloss.Color {
	switch a {
	case model.CommunityNourishment:
		return ColorAccent
	case model.HealingArts:
		return ColorDeep
	case model.SafeHarborHousing:
		return ColorGreen
	}
	return ColorTextMuted
}
