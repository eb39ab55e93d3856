// Package content holds the dashboard's editorial content: hero metrics,
// campaigns, allocation and field stories.
package content

import (
	"errors"
	"fmt"
	"os"

	"github.com/theirongolddev/blossom/internal/model"

	"github.com/BurntSushi/toml"
)

// Content is everything the dashboard shows besides the ledger.
type Content struct {
	Summary    []model.SummaryMetric   `toml:"summary"`
	Campaigns  []model.CampaignGoal    `toml:"campaigns"`
	Allocation []model.AllocationSlice `toml:"allocation"`
	Highlights []model.FieldHighlight  `toml:"highlights"`
}

// Load returns the built-in content with any sections present in the TOML
// file at path replacing their defaults. A missing file is not an error.
func Load(path string) (Content, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	//nolint:gosec // content path is configured by the local user
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return c, fmt.Errorf("reading content: %w", err)
	}

	var override Content
	if _, err := toml.Decode(string(data), &override); err != nil {
		return c, fmt.Errorf("parsing content: %w", err)
	}

	if len(override.Summary) > 0 {
		c.Summary = override.Summary
	}
	if len(override.Campaigns) > 0 {
		c.Campaigns = override.Campaigns
	}
	if len(override.Allocation) > 0 {
		c.Allocation = override.Allocation
	}
	if len(override.Highlights) > 0 {
		c.Highlights = override.Highlights
	}
	return c, nil
}

func trend(v float64) *float64 { return &v }

// Default returns the built-in content.
func Default() Content {
	return Content{
		Summary: []model.SummaryMetric{
			{
				Title:      "Raised in 2024",
				Value:      "$482,340",
				Sublabel:   "Fueling 37 neighborhood activations",
				Trend:      trend(18.6),
				TrendLabel: "vs last cycle",
			},
			{
				Title:      "Active allies",
				Value:      "428 supporters",
				Sublabel:   "62% are recurring givers",
				Trend:      trend(12.2),
				TrendLabel: "new in March",
			},
			{
				Title:    "Impact delivered",
				Value:    "58,320 meals",
				Sublabel: "Alongside 1,840 nights of safe housing",
			},
			{
				Title:      "Story touchpoints",
				Value:      "96 engagements",
				Sublabel:   "From volunteer labs to art residencies",
				Trend:      trend(9.4),
				TrendLabel: "community resonance",
			},
		},
		Campaigns: []model.CampaignGoal{
			{
				ID:            "sprouting-kitchens",
				Name:          "Sprouting Kitchens Expansion Fund",
				Description:   "Activate two additional community kitchens with seed capital, culinary mentors, and mobile pantry routes.",
				Goal:          180_000,
				Raised:        146_800,
				Supporters:    213,
				Focus:         "Community Nourishment",
				DeadlineLabel: "Q2 field launch",
				Highlights:    []string{"24 apprentices placed", "84% culturally rooted menus", "New partnership: Bloom High"},
			},
			{
				ID:            "healing-neighborhoods",
				Name:          "Neighborhood Healing Studios",
				Description:   "Bring pop-up healing arts studios to neighborhoods experiencing displacement and climate stress.",
				Goal:          120_000,
				Raised:        82_450,
				Supporters:    147,
				Focus:         "Healing Arts",
				DeadlineLabel: "Summer 2024 residency series",
				Highlights:    []string{"Therapist cohort funded", "24% BIPOC-led residencies", "Story archive in progress"},
			},
			{
				ID:            "harbor-homes",
				Name:          "Harbor Homes Stabilization Grants",
				Description:   "Provide rapid rehousing stipends and on-site advocates for survivor-led families seeking safe housing.",
				Goal:          210_000,
				Raised:        164_930,
				Supporters:    189,
				Focus:         "Safe Harbor Housing",
				DeadlineLabel: "Emergency response ready",
				Highlights:    []string{"16 safety audits scheduled", "Partnership: Sun County Legal", "Housing mentors recruited"},
			},
		},
		Allocation: []model.AllocationSlice{
			{
				ID:         "nourishment",
				Label:      "Community Nourishment",
				Value:      212_400,
				Descriptor: "Mobile markets, garden stipends, and youth culinary labs.",
				Color:      "#f97316",
			},
			{
				ID:         "healing",
				Label:      "Healing Arts",
				Value:      138_900,
				Descriptor: "Therapy scholarships, creative residencies, and wellbeing kits.",
				Color:      "#ea580c",
			},
			{
				ID:         "housing",
				Label:      "Safe Harbor Housing",
				Value:      131_040,
				Descriptor: "Rapid rehousing grants and survivor navigation.",
				Color:      "#10b981",
			},
		},
		Highlights: []model.FieldHighlight{
			{
				Title:      "Citrus Grove resilience hub opens its doors",
				Summary:    "Donor dollars transformed an unused auditorium into an overnight warming and resource hub co-designed with survivor advocates.",
				Location:   "Eastbrook • Safe Harbor Housing",
				Timeframe:  "Launched March 5",
				Categories: []string{"Housing justice", "Survivor-led"},
			},
			{
				Title:      "Healing studio residency graduates first cohort",
				Summary:    "Twelve artists-in-healing paired trauma-informed therapy with storytelling circles, reaching 380 community members in five weeks.",
				Location:   "Riverside Commons • Healing Arts",
				Timeframe:  "Cohort 01 complete",
				Categories: []string{"Therapeutics", "Storytelling"},
			},
			{
				Title:      "Mobile produce markets hit climate frontline blocks",
				Summary:    "Fresh Citrus Vans now reach four additional neighborhoods weekly, co-led by youth kitchen fellows and neighborhood elders.",
				Location:   "Sunset District • Nourishment",
				Timeframe:  "Route expanded",
				Categories: []string{"Food sovereignty", "Youth leadership"},
			},
		},
	}
}
