package cmd

import (
	"fmt"

	"github.com/theirongolddev/blossom/internal/cli"
	"github.com/theirongolddev/blossom/internal/model"
	"github.com/theirongolddev/blossom/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	flagGiftsLimit int
	flagGiftsFocus string
)

var giftsCmd = &cobra.Command{
	Use:   "gifts",
	Short: "List recorded gifts, newest first",
	RunE:  runGifts,
}

func init() {
	giftsCmd.Flags().IntVarP(&flagGiftsLimit, "limit", "l", 20, "Max gifts to show (0 for all)")
	giftsCmd.Flags().StringVar(&flagGiftsFocus, "focus", "", "Only show one focus area")
	rootCmd.AddCommand(giftsCmd)
}

func runGifts(cmd *cobra.Command, _ []string) error {
	var focus model.FocusArea
	if flagGiftsFocus != "" {
		a, err := model.ParseFocusArea(flagGiftsFocus)
		if err != nil {
			return err
		}
		focus = a
	}

	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	snap := e.ledger.Current()
	rows := make([][]string, 0, snap.Len())
	for _, r := range snap.Records() {
		if focus != "" && r.FocusArea != focus {
			continue
		}
		if flagGiftsLimit > 0 && len(rows) == flagGiftsLimit {
			break
		}
		rows = append(rows, cli.GiftRow(r))
	}

	fmt.Println()
	if len(rows) == 0 {
		fmt.Println("  " + cli.EmptyLedger)
		return nil
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("Gifts  (%d of %d)", len(rows), snap.Len()),
		Headers: cli.GiftHeaders,
		Rows:    rows,
		Align:   []cli.Align{cli.AlignLeft, cli.AlignLeft, cli.AlignRight},
	}))

	fmt.Println()
	freq := make([][]string, 0, 3)
	for _, fs := range pipeline.AggregateFrequencies(snap) {
		freq = append(freq, []string{string(fs.Frequency), cli.FormatNumber(int64(fs.Gifts)), cli.FormatMoney(fs.Total)})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "By frequency",
		Headers: []string{"Frequency", "Gifts", "Total"},
		Rows:    freq,
		Align:   []cli.Align{cli.AlignLeft, cli.AlignRight, cli.AlignRight},
	}))
	return nil
}
