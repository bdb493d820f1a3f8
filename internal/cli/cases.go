package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pkarpov/structgate/internal/evidence"
	"github.com/pkarpov/structgate/internal/gate"
	"github.com/pkarpov/structgate/internal/model"
	"github.com/pkarpov/structgate/internal/scenario"
)

var (
	casesConfig    string
	casesNormalize bool
	casesOutCSV    string
)

func init() {
	rootCmd.AddCommand(casesCmd)
	casesCmd.Flags().StringVar(&casesConfig, "config", "", "Path to gate config YAML")
	casesCmd.Flags().BoolVar(&casesNormalize, "normalize-weights", false, "Scale weights to sum to 1.0 before evaluating")
	casesCmd.Flags().StringVar(&casesOutCSV, "out-csv", "", "Write evidence CSV to this path")
}

var casesCmd = &cobra.Command{
	Use:   "cases",
	Short: "Run the canonical case series",
	Long: "Runs the canonical case pairs (symmetry barrier, nucleation,\n" +
		"access enablement, excitation without commitment, pathway\n" +
		"dependence). Each pair holds energy fixed and varies one structural\n" +
		"observable.",
	RunE: runCases,
}

func runCases(cmd *cobra.Command, args []string) error {
	s, err := scenario.LoadSuite("canonical")
	if err != nil {
		return err
	}

	p, err := gate.LoadParams(casesConfig)
	if err != nil {
		return err
	}
	if casesNormalize {
		p, err = p.Normalized()
		if err != nil {
			return err
		}
	}

	rr, err := scenario.Run(s, p)
	if err != nil {
		return err
	}

	counts := map[model.Status]int{}
	fmt.Printf("Canonical cases (tau=%.3f band=%.3f)\n\n", p.Tau, p.Band)
	for _, c := range rr.Cases {
		counts[c.Result.Status]++
		fmt.Printf("%-28s %-22s g=%.2f a=%.2f c=%.2f  f=%.4f  %s\n",
			c.ID, c.Label, c.Input.G, c.Input.A, c.Input.C,
			c.Result.Score, c.Result.Status)
	}
	fmt.Printf("\nTotals: deny=%d abstain=%d allow=%d\n",
		counts[model.Deny], counts[model.Abstain], counts[model.Allow])

	if casesOutCSV != "" {
		f, err := os.Create(casesOutCSV)
		if err != nil {
			return fmt.Errorf("create %s: %w", casesOutCSV, err)
		}
		defer f.Close()
		if err := evidence.WriteScenarioCSV(f, rr); err != nil {
			return fmt.Errorf("write evidence csv: %w", err)
		}
		fmt.Printf("Wrote evidence CSV: %s\n", casesOutCSV)
	}

	if rr.Failed > 0 {
		fmt.Printf("%d of %d cases deviated from expectations.\n", rr.Failed, rr.Total)
		os.Exit(1)
	}
	return nil
}
