package pipeline

import (
	"math"

	"github.com/theirongolddev/blossom/internal/model"
)

// AllocationShares annotates each slice with its size as a percent of the
// largest slice. All percents are 0 when the largest slice is 0.
func AllocationShares(slices []model.AllocationSlice) []model.AllocationShare {
	peak := 0.0
	for _, s := range slices {
		if s.Value > peak {
			peak = s.Value
		}
	}

	out := make([]model.AllocationShare, len(slices))
	for i, s := range slices {
		out[i] = model.AllocationShare{AllocationSlice: s}
		if peak > 0 {
			out[i].Percent = roundHalfUp(s.Value / peak * 100)
		}
	}
	return out
}

// CampaignProgress returns how far a campaign is toward its goal, capped at 100.
func CampaignProgress(c model.CampaignGoal) int {
	if c.Goal <= 0 {
		return 0
	}
	pct := roundHalfUp(c.Raised / c.Goal * 100)
	if pct > 100 {
		return 100
	}
	return pct
}

func roundHalfUp(f float64) int {
	return int(math.Floor(f + 0.5))
}
