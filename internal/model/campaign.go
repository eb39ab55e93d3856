package model

// SummaryMetric is a headline tile on the dashboard hero.
type SummaryMetric struct {
	Title      string   `toml:"title"`
	Value      string   `toml:"value"`
	Sublabel   string   `toml:"sublabel"`
	Trend      *float64 `toml:"trend,omitempty"` // percent change
	TrendLabel string   `toml:"trend_label,omitempty"`
}

// CampaignGoal is a fundraising campaign with a target.
type CampaignGoal struct {
	ID            string   `toml:"id"`
	Name          string   `toml:"name"`
	Description   string   `toml:"description"`
	Goal          float64  `toml:"goal"`
	Raised        float64  `toml:"raised"`
	Supporters    int      `toml:"supporters"`
	Focus         string   `toml:"focus"`
	DeadlineLabel string   `toml:"deadline_label"`
	Highlights    []string `toml:"highlights"`
}

// AllocationSlice is funding directed to one program.
type AllocationSlice struct {
	ID         string  `toml:"id"`
	Label      string  `toml:"label"`
	Value      float64 `toml:"value"`
	Descriptor string  `toml:"descriptor"`
	Color      string  `toml:"color"`
}

// AllocationShare is a slice annotated with its percent of the largest slice.
type AllocationShare struct {
	AllocationSlice
	Percent int
}

// FieldHighlight is a story from the field.
type FieldHighlight struct {
	Title      string   `toml:"title"`
	Summary    string   `toml:"summary"`
	Location   string   `toml:"location"`
	Timeframe  string   `toml:"timeframe"`
	Categories []string `toml:"categories"`
}
