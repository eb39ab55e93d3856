package pipeline

import (
	"testing"

	"github.com/theirongolddev/blossom/internal/model"
)

func TestAllocationShares(t *testing.T) {
	shares := AllocationShares([]model.AllocationSlice{
		{Label: "Community Nourishment", Value: 212400},
		{Label: "Healing Arts", Value: 138900},
		{Label: "Safe Harbor Housing", Value: 131040},
	})

	want := []int{100, 65, 62}
	for i, w := range want {
		if shares[i].Percent != w {
			t.Fatalf("shares[%d].Percent = %d, want %d", i, shares[i].Percent, w)
		}
	}
}

func TestAllocationSharesAllZero(t *testing.T) {
	shares := AllocationShares([]model.AllocationSlice{{Label: "a"}, {Label: "b"}})
	for i, s := range shares {
		if s.Percent != 0 {
			t.Fatalf("shares[%d].Percent = %d, want 0", i, s.Percent)
		}
	}
}

func TestCampaignProgress(t *testing.T) {
	tests := []struct {
		goal, raised float64
		want         int
	}{
		{180000, 146800, 82},
		{120000, 82450, 69},
		{210000, 164930, 79},
		{100, 250, 100},
		{0, 50, 0},
	}
	for _, tt := range tests {
		got := CampaignProgress(model.CampaignGoal{Goal: tt.goal, Raised: tt.raised})
		if got != tt.want {
			t.Fatalf("CampaignProgress(%v/%v) = %d, want %d", tt.raised, tt.goal, got, tt.want)
		}
	}
}
