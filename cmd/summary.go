package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/blossom/internal/cli"
	"github.com/theirongolddev/blossom/internal/model"
	"github.com/theirongolddev/blossom/internal/pipeline"

	"github.com/spf13/cobra"
)

var flagSummaryMonths int

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Fundraising summary: totals, focus areas and momentum",
	RunE:  runSummary,
}

func init() {
	summaryCmd.Flags().IntVar(&flagSummaryMonths, "months", 6, "Months shown in the trend line")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	now := time.Now()
	snap := e.ledger.Current()
	m := pipeline.Aggregate(snap, now)
	c := e.loadContent()

	fmt.Println()
	fmt.Println(cli.RenderTitle("ORANGE BLOSSOM ALLIANCE  Impact"))
	fmt.Println()
	fmt.Println(cli.RenderPills(cli.HeaderPills(m)...))
	fmt.Println()

	rows := make([][]string, 0, 8)
	for _, tile := range cli.MetricTiles(m) {
		rows = append(rows, []string{tile.Label, tile.Value, tile.Helper})
	}
	rows = append(rows, cli.SeparatorRow)
	rows = append(rows, []string{"Gifts logged", cli.FormatNumber(int64(m.GiftCount)), ""})
	rows = append(rows, []string{"Recurring allies", cli.FormatNumber(int64(m.RecurringCount)), "Monthly and quarterly"})
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Gift pipeline",
		Headers: []string{"Metric", "Value", ""},
		Rows:    rows,
		Align:   []cli.Align{cli.AlignLeft, cli.AlignRight, cli.AlignLeft},
	}))
	fmt.Println()

	renderFocusBreakdown(m)
	renderMonthlyTrend(pipeline.AggregateMonths(snap, now, flagSummaryMonths))

	if len(c.Summary) > 0 {
		hero := make([][]string, 0, len(c.Summary))
		for _, sm := range c.Summary {
			trend := cli.FormatTrend(sm.Trend)
			if trend != "" && sm.TrendLabel != "" {
				trend += " " + sm.TrendLabel
			}
			hero = append(hero, []string{sm.Title, sm.Value, sm.Sublabel, trend})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Community reach",
			Headers: []string{"Metric", "Value", "Detail", "Trend"},
			Rows:    hero,
			Align:   []cli.Align{cli.AlignLeft, cli.AlignRight},
		}))
	}
	return nil
}

func renderFocusBreakdown(m model.Metrics) {
	peak := 0.0
	for _, a := range model.FocusAreas() {
		peak = max(peak, m.ByFocusArea[a].InexactFloat64())
	}

	fmt.Println("  " + cli.RenderHeader("By focus area"))
	for _, a := range model.FocusAreas() {
		v := m.ByFocusArea[a]
		label := fmt.Sprintf("%-22s %s", a, cli.FormatMoney(v))
		fmt.Println(cli.RenderHorizontalBar(label, v.InexactFloat64(), peak, 24, cli.FocusColor(a)))
	}
	fmt.Println()
}

func renderMonthlyTrend(months []model.MonthlyTotal) {
	if len(months) == 0 {
		return
	}
	values := make([]float64, len(months))
	for i, mt := range months {
		values[i] = mt.Total.InexactFloat64()
	}
	first, last := months[0], months[len(months)-1]
	fmt.Printf("  %s  %s  %s .. %s (%s this month)\n\n",
		cli.RenderHeader("Monthly giving"),
		cli.RenderSparkline(values),
		cli.FormatMonth(first.Month),
		cli.FormatMonth(last.Month),
		cli.FormatMoney(last.Total),
	)
}
