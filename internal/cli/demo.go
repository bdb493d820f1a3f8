package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pkarpov/structgate/internal/evidence"
	"github.com/pkarpov/structgate/internal/gate"
	"github.com/pkarpov/structgate/internal/scenario"
)

var (
	demoSuite  string
	demoConfig string
	demoOutCSV string
)

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.Flags().StringVar(&demoSuite, "suite", "demo", "Built-in suite to run (demo|canonical)")
	demoCmd.Flags().StringVar(&demoConfig, "config", "", "Path to gate config YAML")
	demoCmd.Flags().StringVar(&demoOutCSV, "out-csv", "", "Write evidence CSV to this path")
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the built-in demonstration cases",
	Long: "Runs a built-in deterministic case suite and prints each verdict.\n" +
		"The demo suite holds energy fixed across cases to show that\n" +
		"admissibility follows structure, not magnitude of drive.",
	RunE: runDemo,
}

func runDemo(cmd *cobra.Command, args []string) error {
	s, err := scenario.LoadSuite(demoSuite)
	if err != nil {
		return err
	}

	p, err := gate.LoadParams(demoConfig)
	if err != nil {
		return err
	}

	rr, err := scenario.Run(s, p)
	if err != nil {
		return err
	}

	fmt.Printf("Suite: %s  (tau=%.3f band=%.3f)\n\n", rr.Name, p.Tau, p.Band)
	for _, c := range rr.Cases {
		fmt.Printf("%s | %s\n", c.ID, c.Label)
		fmt.Printf("  Inputs: E=%.1f g=%.2f a=%.2f c=%.2f\n",
			c.Energy, c.Input.G, c.Input.A, c.Input.C)
		fmt.Printf("  Score:  f=%.3f -> status=%s reason=%s\n",
			c.Result.Score, c.Result.Status, c.Result.Reason)
		fmt.Printf("  Output: permission=%.3f risk=%.3f s=%.3f\n\n",
			c.Result.Permission, c.Result.Risk, c.Resistance)
	}

	if demoOutCSV != "" {
		f, err := os.Create(demoOutCSV)
		if err != nil {
			return fmt.Errorf("create %s: %w", demoOutCSV, err)
		}
		defer f.Close()
		if err := evidence.WriteScenarioCSV(f, rr); err != nil {
			return fmt.Errorf("write evidence csv: %w", err)
		}
		fmt.Printf("Wrote evidence CSV: %s\n", demoOutCSV)
	}

	if rr.Failed > 0 {
		fmt.Printf("%d of %d cases deviated from expectations.\n", rr.Failed, rr.Total)
		os.Exit(1)
	}
	return nil
}
