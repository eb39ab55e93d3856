package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestFormatChartLabel(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{500, "$500"},
		{1000, "$1k"},
		{1500, "$1.5k"},
		{12000, "$12k"},
		{2_000_000, "$2M"},
	}
	for _, tt := range tests {
		if got := formatChartLabel(tt.in); got != tt.want {
			t.Errorf("formatChartLabel(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestChartTickStep(t *testing.T) {
	tests := []struct {
		peak, want float64
	}{
		{0, 1},
		{5000, 1000},
		{9000, 2000},
		{20000, 5000},
	}
	for _, tt := range tests {
		if got := chartTickStep(tt.peak); got != tt.want {
			t.Errorf("chartTickStep(%v) = %v, want %v", tt.peak, got, tt.want)
		}
	}
}

func TestBarChartFallsBackToSparkline(t *testing.T) {
	got := BarChart([]float64{1, 2, 3}, nil, 10, 8)
	if lipgloss.Width(got) != 3 || lipgloss.Height(got) != 1 {
		t.Fatalf("narrow chart = %q, want a 3-wide sparkline", got)
	}
}

func TestBarChartLabels(t *testing.T) {
	labels := []string{"Jan", "Feb", "Mar"}
	got := BarChart([]float64{0, 1200, 3210}, labels, 40, 6)
	last := strings.Split(got, "\n")
	if !strings.Contains(last[len(last)-1], "Mar") {
		t.Fatalf("x labels missing: %q", last[len(last)-1])
	}
	if !strings.Contains(got, "$0") {
		t.Fatal("y axis should start at $0")
	}
}

func TestTabVisualWidth(t *testing.T) {
	in := Tab{Name: "Gifts", Key: 'g', KeyPos: 0}
	out := Tab{Name: "Settings", Key: 'x', KeyPos: -1}
	if got := TabVisualWidth(in, false); got != 7 {
		t.Errorf("TabVisualWidth(Gifts) = %d, want 7", got)
	}
	if got := TabVisualWidth(out, false); got != 13 {
		t.Errorf("TabVisualWidth(Settings inactive) = %d, want 13", got)
	}
	if got := TabVisualWidth(out, true); got != 10 {
		t.Errorf("TabVisualWidth(Settings active) = %d, want 10", got)
	}
}

func TestRenderTabBarFillsWidth(t *testing.T) {
	bar := RenderTabBar(1, 100)
	if w := lipgloss.Width(bar); w != 100 {
		t.Fatalf("tab bar width = %d, want 100", w)
	}
	if idx := TabIdxByKey('p'); idx != 3 {
		t.Fatalf("TabIdxByKey('p') = %d, want 3", idx)
	}
}
