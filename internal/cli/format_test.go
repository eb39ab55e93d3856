package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/blossom/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/shopspring/decimal"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0"},
		{"25", "$25"},
		{"1250", "$1,250"},
		{"40.5", "$40.50"},
		{"1234567.891", "$1,234,567.89"},
		{"-650", "-$650"},
	}
	for _, tt := range tests {
		got := FormatMoney(decimal.RequireFromString(tt.in))
		if got != tt.want {
			t.Errorf("FormatMoney(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatWholeMoney(t *testing.T) {
	if got := FormatWholeMoney(decimal.RequireFromString("2337.5")); got != "$2,338" {
		t.Fatalf("FormatWholeMoney = %q, want %q", got, "$2,338")
	}
}

func TestFormatNumber(t *testing.T) {
	tests := map[int64]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		146800:   "146,800",
		-1234567: "-1,234,567",
	}
	for in, want := range tests {
		if got := FormatNumber(in); got != want {
			t.Errorf("FormatNumber(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatTrend(t *testing.T) {
	up, down := 12.4, -3.0
	if got := FormatTrend(&up); got != "▲ 12.4%" {
		t.Errorf("FormatTrend(12.4) = %q", got)
	}
	if got := FormatTrend(&down); got != "▼ 3.0%" {
		t.Errorf("FormatTrend(-3) = %q", got)
	}
	if got := FormatTrend(nil); got != "" {
		t.Errorf("FormatTrend(nil) = %q, want empty", got)
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	if got := FormatDate(d); got != "Mar 2, 2024" {
		t.Fatalf("FormatDate = %q, want %q", got, "Mar 2, 2024")
	}
	if got := FormatMonth(d); got != "Mar '24" {
		t.Fatalf("FormatMonth = %q, want %q", got, "Mar '24")
	}
	if got := FormatDate(time.Time{}); got != "unknown date" {
		t.Fatalf("FormatDate(zero) = %q, want %q", got, "unknown date")
	}
}

func TestFormatNote(t *testing.T) {
	if got := FormatNote(""); got != NoNote {
		t.Errorf("FormatNote(\"\") = %q, want %q", got, NoNote)
	}
	if got := FormatNote("Emergency relocation fund."); got != "Emergency relocation fund." {
		t.Errorf("FormatNote kept = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("Sunrise Credit Union", 8); got != "Sunrise…" {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate("Azalea", 10); got != "Azalea" {
		t.Errorf("Truncate short = %q", got)
	}
}

func TestRenderTableAlignsColumns(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	out := RenderTable(Table{
		Headers: []string{"Donor", "Amount"},
		Rows: [][]string{
			{"Azalea Cooperative", "$2,500"},
			SeparatorRow,
			{"Total", "$9,350"},
		},
		Align: []Align{AlignLeft, AlignRight},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("lines = %d, want 7\n%s", len(lines), out)
	}
	if !strings.Contains(lines[3], "│ Azalea Cooperative │ $2,500 │") {
		t.Fatalf("row = %q", lines[3])
	}
	if !strings.HasPrefix(lines[4], "├") {
		t.Fatalf("separator = %q", lines[4])
	}
	w := len([]rune(lines[0]))
	for i, l := range lines {
		if got := len([]rune(l)); got != w {
			t.Errorf("line %d width = %d, want %d", i, got, w)
		}
	}
}

func TestRenderProgressBarClamps(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	if got := RenderProgressBar(150, 10); got != "██████████ 100%" {
		t.Errorf("RenderProgressBar(150) = %q", got)
	}
	if got := RenderProgressBar(50, 10); got != "█████░░░░░  50%" {
		t.Errorf("RenderProgressBar(50) = %q", got)
	}
}

func TestRenderSparkline(t *testing.T) {
	if got := RenderSparkline([]float64{0, 0, 0}); got != "▁▁▁" {
		t.Errorf("flat sparkline = %q", got)
	}
	if got := RenderSparkline([]float64{0, 7}); got != "▁█" {
		t.Errorf("sparkline = %q", got)
	}
}

func TestMetricTilesAndPills(t *testing.T) {
	m := model.Metrics{
		TotalRaised:    decimal.NewFromInt(9350),
		GiftCount:      4,
		RecurringCount: 3,
		ThisMonthTotal: decimal.NewFromInt(3150),
		AverageGift:    decimal.RequireFromString("2337.5"),
		TopFocusArea:   model.SafeHarborHousing,
	}

	tiles := MetricTiles(m)
	want := []string{"$9,350", "$2,338", "Safe Harbor Housing"}
	for i, w := range want {
		if tiles[i].Value != w {
			t.Errorf("tile %q = %q, want %q", tiles[i].Label, tiles[i].Value, w)
		}
	}

	pills := HeaderPills(m)
	if pills[0] != "$3,150 this month" || pills[1] != "3 recurring allies" {
		t.Errorf("pills = %q", pills)
	}
}

func TestGiftRow(t *testing.T) {
	r := model.DonationRecord{
		Donor:     "Harper & Luna",
		Amount:    decimal.NewFromInt(1200),
		Frequency: model.Quarterly,
		FocusArea: model.HealingArts,
		Date:      time.Date(2024, 2, 16, 0, 0, 0, 0, time.UTC),
	}
	got := GiftRow(r)
	want := []string{"Harper & Luna", "Healing Arts", "$1,200", "Quarterly", "Feb 16, 2024", NoNote}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("GiftRow[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
