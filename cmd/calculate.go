package cmd

import (
	"fmt"

	"github.com/theirongolddev/blossom/internal/cli"
	"github.com/theirongolddev/blossom/internal/impact"

	"github.com/spf13/cobra"
)

var (
	flagCalcAmount    int
	flagCalcFrequency string
	flagCalcProgram   string
)

var calculateCmd = &cobra.Command{
	Use:     "calculate",
	Aliases: []string{"calc"},
	Short:   "Project the yearly impact of a pledge",
	Example: "  blossom calculate --amount 100 --frequency one-time --program healing",
	RunE:    runCalculate,
}

func init() {
	calculateCmd.Flags().IntVar(&flagCalcAmount, "amount", impact.DefaultAmount,
		fmt.Sprintf("Pledge amount, %d-%d in steps of %d", impact.MinAmount, impact.MaxAmount, impact.AmountStep))
	calculateCmd.Flags().StringVar(&flagCalcFrequency, "frequency", string(impact.CadenceMonthly), "monthly or one-time")
	calculateCmd.Flags().StringVar(&flagCalcProgram, "program", "", "nourishment, healing or shelter (default: all)")
	rootCmd.AddCommand(calculateCmd)
}

func runCalculate(_ *cobra.Command, _ []string) error {
	cadence, err := impact.ParseCadence(flagCalcFrequency)
	if err != nil {
		return err
	}
	programs := impact.Programs()
	if flagCalcProgram != "" {
		p, err := impact.ProgramByKey(flagCalcProgram)
		if err != nil {
			return err
		}
		programs = []impact.Program{p}
	}

	amount := impact.Clamp(flagCalcAmount)
	fmt.Println()
	if amount != flagCalcAmount {
		fmt.Printf("  %s\n\n", cli.RenderMuted(fmt.Sprintf("Amount adjusted to %s", cli.FormatDollars(float64(amount)))))
	}

	for _, p := range programs {
		proj := impact.Project(p, amount, cadence)
		fmt.Println(cli.RenderTitle(p.Name))
		fmt.Printf("  %s\n\n", cli.RenderMuted(p.Description))
		fmt.Print(cli.RenderTable(cli.Table{
			Headers: []string{"Outcome", "Per year"},
			Rows: [][]string{
				{"Pledge", fmt.Sprintf("%s %s", cli.FormatDollars(float64(proj.Amount)), proj.Cadence)},
				{"Given over a year", cli.FormatDollars(float64(proj.AnnualAmount))},
				cli.SeparatorRow,
				{proj.Headline.Unit, cli.FormatNumber(int64(proj.Headline.Count))},
				{proj.Secondary.Unit, cli.FormatNumber(int64(proj.Secondary.Count))},
				{proj.Tertiary.Unit, cli.FormatNumber(int64(proj.Tertiary.Count))},
			},
			Align: []cli.Align{cli.AlignLeft, cli.AlignRight},
		}))
		fmt.Println()
	}
	return nil
}
