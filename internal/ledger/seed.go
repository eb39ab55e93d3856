package ledger

import (
	"time"

	"github.com/theirongolddev/blossom/internal/model"

	"github.com/shopspring/decimal"
)

// Seed returns the sample ledger used when nothing has been saved yet.
func Seed() *Snapshot {
	return &Snapshot{records: []model.DonationRecord{
		{
			ID:        "seed-1",
			Donor:     "Azalea Cooperative",
			Amount:    decimal.NewFromInt(2500),
			Frequency: model.Monthly,
			FocusArea: model.CommunityNourishment,
			Date:      day(2024, time.March, 2),
			Note:      "Supports mobile market activation.",
		},
		{
			ID:        "seed-2",
			Donor:     "Harper & Luna",
			Amount:    decimal.NewFromInt(1200),
			Frequency: model.Quarterly,
			FocusArea: model.HealingArts,
			Date:      day(2024, time.February, 16),
		},
		{
			ID:        "seed-3",
			Donor:     "Sunrise Credit Union",
			Amount:    decimal.NewFromInt(5000),
			Frequency: model.OneTime,
			FocusArea: model.SafeHarborHousing,
			Date:      day(2024, time.January, 28),
			Note:      "Emergency relocation fund.",
		},
		{
			ID:        "seed-4",
			Donor:     "Gardenia Circle Giving",
			Amount:    decimal.NewFromInt(650),
			Frequency: model.Monthly,
			FocusArea: model.CommunityNourishment,
			Date:      day(2024, time.March, 10),
		},
	}}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
