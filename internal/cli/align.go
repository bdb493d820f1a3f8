package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pkarpov/structgate/internal/evidence"
	"github.com/pkarpov/structgate/internal/gate"
	"github.com/pkarpov/structgate/internal/model"
	"github.com/pkarpov/structgate/internal/reaction"
)

var (
	alignRSMI     string
	alignConfig   string
	alignMaxLines int
	alignEveryK   int
	alignOutCSV   string
	alignSummary  string
)

func init() {
	rootCmd.AddCommand(alignCmd)
	alignCmd.Flags().StringVar(&alignRSMI, "rsmi", "", "Path to .rsmi reaction file (required)")
	alignCmd.Flags().StringVar(&alignConfig, "config", "", "Path to gate config YAML")
	alignCmd.Flags().IntVar(&alignMaxLines, "max-lines", 200000, "Process at most N lines (0 = no limit)")
	alignCmd.Flags().IntVar(&alignEveryK, "every-k", 20, "Sample one evidence row per K lines")
	alignCmd.Flags().StringVar(&alignOutCSV, "out-csv", "", "Write sampled evidence CSV to this path")
	alignCmd.Flags().StringVar(&alignSummary, "out-summary", "", "Write confusion summary CSV to this path")
	alignCmd.MarkFlagRequired("rsmi")
}

var alignCmd = &cobra.Command{
	Use:   "align",
	Short: "Check the gate against reaction SMILES records",
	Long: "Streams a .rsmi file, derives structural observables from each\n" +
		"record, and compares gate verdicts against record-derived labels.\n" +
		"A magnitude-only complexity baseline runs alongside to show what\n" +
		"the structural gate adds. Deterministic and offline; malformed\n" +
		"lines are skipped and counted.",
	RunE: runAlign,
}

func runAlign(cmd *cobra.Command, args []string) error {
	p, err := gate.LoadParams(alignConfig)
	if err != nil {
		return err
	}

	f, err := os.Open(alignRSMI)
	if err != nil {
		return fmt.Errorf("open rsmi file: %w", err)
	}
	defer f.Close()

	sum, rows, err := reaction.Align(f, p, reaction.AlignOptions{
		MaxLines: alignMaxLines,
		EveryK:   alignEveryK,
	})
	if err != nil {
		return err
	}

	fmt.Println("External alignment (reaction SMILES)")
	fmt.Printf("Input: %s\n", alignRSMI)
	fmt.Printf("Gate: tau=%.3f band=%.3f\n", p.Tau, p.Band)
	fmt.Printf("Processed: total=%d parsed=%d skipped=%d sampled=%d\n\n",
		sum.Total, sum.Parsed, sum.Skipped, sum.Sampled)

	fmt.Println("Gate vs label counts:")
	fmt.Printf("  ALLOW:   real=%d not=%d\n", sum.Gate.Real[model.Allow], sum.Gate.Not[model.Allow])
	fmt.Printf("  ABSTAIN: real=%d not=%d\n", sum.Gate.Real[model.Abstain], sum.Gate.Not[model.Abstain])
	fmt.Printf("  DENY:    real=%d not=%d\n\n", sum.Gate.Real[model.Deny], sum.Gate.Not[model.Deny])

	fmt.Println("Baseline vs label counts:")
	fmt.Printf("  HIGH: real=%d not=%d\n", sum.Baseline.HighReal, sum.Baseline.HighNot)
	fmt.Printf("  LOW:  real=%d not=%d\n", sum.Baseline.LowReal, sum.Baseline.LowNot)

	if alignOutCSV != "" {
		out, err := os.Create(alignOutCSV)
		if err != nil {
			return fmt.Errorf("create %s: %w", alignOutCSV, err)
		}
		defer out.Close()
		if err := evidence.WriteAlignCSV(out, rows); err != nil {
			return fmt.Errorf("write evidence csv: %w", err)
		}
		fmt.Printf("\nWrote evidence CSV: %s\n", alignOutCSV)
	}

	if alignSummary != "" {
		out, err := os.Create(alignSummary)
		if err != nil {
			return fmt.Errorf("create %s: %w", alignSummary, err)
		}
		defer out.Close()
		if err := evidence.WriteAlignSummaryCSV(out, alignRSMI, sum); err != nil {
			return fmt.Errorf("write summary csv: %w", err)
		}
		fmt.Printf("Wrote summary CSV: %s\n", alignSummary)
	}

	return nil
}
