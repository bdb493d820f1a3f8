package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pkarpov/structgate/internal/adapter"
	"github.com/pkarpov/structgate/internal/evidence"
	"github.com/pkarpov/structgate/internal/gate"
	"github.com/pkarpov/structgate/internal/model"
	"github.com/pkarpov/structgate/internal/sweep"
)

var (
	sweepGridN   int
	sweepConfig  string
	sweepAdapter string
	sweepTaus    []float64
	sweepBands   []float64
	sweepOutCSV  string
	sweepDB      string
	sweepLabel   string
)

func init() {
	rootCmd.AddCommand(sweepCmd)
	sweepCmd.Flags().IntVarP(&sweepGridN, "grid", "n", 11, "Grid resolution per axis")
	sweepCmd.Flags().StringVar(&sweepConfig, "config", "", "Path to gate config YAML")
	sweepCmd.Flags().StringVar(&sweepAdapter, "adapter", "", "Sweep raw drivers through a domain adapter")
	sweepCmd.Flags().Float64SliceVar(&sweepTaus, "tau", nil, "Threshold values for a batch sweep")
	sweepCmd.Flags().Float64SliceVar(&sweepBands, "band", nil, "Band values for a batch sweep")
	sweepCmd.Flags().StringVar(&sweepOutCSV, "out-csv", "", "Write evidence CSV to this path")
	sweepCmd.Flags().StringVar(&sweepDB, "db", "", "SQLite evidence database path (optional)")
	sweepCmd.Flags().StringVar(&sweepLabel, "label", "sweep", "Run label for the evidence database")
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Sweep the observable cube and verify monotonicity",
	Long: "Evaluates every grid point of the (g, a, c) cube, reports status\n" +
		"counts, and verifies that raising all three observables together\n" +
		"never lowers the status. With --tau/--band lists it repeats the\n" +
		"sweep for every combination.\n\n" +
		"Exit code 0 when monotone, 1 when any violation is found.",
	RunE: runSweep,
}

func runSweep(cmd *cobra.Command, args []string) error {
	p, hash, err := gate.LoadParamsWithHash(sweepConfig)
	if err != nil {
		return err
	}

	if len(sweepTaus) > 0 || len(sweepBands) > 0 {
		return runBatchSweep(p, hash)
	}

	var rep *sweep.Report
	if sweepAdapter != "" {
		ad, err := adapter.ByName(sweepAdapter)
		if err != nil {
			return err
		}
		rep, err = sweep.RunAdapter(p, sweepGridN, ad)
		if err != nil {
			return err
		}
	} else {
		rep, err = sweep.Run(p, sweepGridN)
		if err != nil {
			return err
		}
	}

	printReport(rep)

	if sweepOutCSV != "" {
		f, err := os.Create(sweepOutCSV)
		if err != nil {
			return fmt.Errorf("create %s: %w", sweepOutCSV, err)
		}
		defer f.Close()
		if err := evidence.WriteSweepCSV(f, rep); err != nil {
			return fmt.Errorf("write evidence csv: %w", err)
		}
		fmt.Printf("Wrote evidence CSV: %s\n", sweepOutCSV)
	}

	if sweepDB != "" {
		db, store, err := openStore(sweepDB)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := store.RecordSweep(sweepLabel, rep, hash); err != nil {
			return fmt.Errorf("record sweep: %w", err)
		}
	}

	if !rep.Monotone() {
		os.Exit(1)
	}
	return nil
}

func runBatchSweep(p gate.Params, hash string) error {
	taus := sweepTaus
	if len(taus) == 0 {
		taus = []float64{p.Tau}
	}
	bands := sweepBands
	if len(bands) == 0 {
		bands = []float64{p.Band}
	}

	entries, err := sweep.RunBatch(p, sweepGridN, taus, bands)
	if err != nil {
		return err
	}

	fmt.Printf("Batch sweep: grid %d^3, %d combinations\n\n", sweepGridN, len(entries))
	fmt.Printf("%8s %8s %8s %8s %8s %10s\n", "tau", "band", "deny", "abstain", "allow", "violations")
	violations := 0
	for _, e := range entries {
		fmt.Printf("%8.3f %8.3f %8d %8d %8d %10d\n",
			e.Tau, e.Band,
			e.Report.Counts[model.Deny],
			e.Report.Counts[model.Abstain],
			e.Report.Counts[model.Allow],
			e.Report.Violations)
		violations += e.Report.Violations
	}

	if sweepOutCSV != "" {
		f, err := os.Create(sweepOutCSV)
		if err != nil {
			return fmt.Errorf("create %s: %w", sweepOutCSV, err)
		}
		defer f.Close()
		if err := evidence.WriteBatchCSV(f, entries); err != nil {
			return fmt.Errorf("write evidence csv: %w", err)
		}
		fmt.Printf("\nWrote evidence CSV: %s\n", sweepOutCSV)
	}

	if sweepDB != "" {
		db, store, err := openStore(sweepDB)
		if err != nil {
			return err
		}
		defer db.Close()
		for _, e := range entries {
			if err := store.RecordSweep(sweepLabel, e.Report, hash); err != nil {
				return fmt.Errorf("record sweep: %w", err)
			}
		}
	}

	if violations > 0 {
		fmt.Printf("\n%d monotonicity violations across the batch.\n", violations)
		os.Exit(1)
	}
	fmt.Println("\nAll combinations monotone.")
	return nil
}

func printReport(rep *sweep.Report) {
	fmt.Printf("Sweep: grid %d^3 = %d points (tau=%.3f band=%.3f)\n",
		rep.GridN, rep.Points, rep.Params.Tau, rep.Params.Band)
	fmt.Printf("  DENY:    %d\n", rep.Counts[model.Deny])
	fmt.Printf("  ABSTAIN: %d\n", rep.Counts[model.Abstain])
	fmt.Printf("  ALLOW:   %d\n", rep.Counts[model.Allow])
	if rep.Monotone() {
		fmt.Println("  Monotonicity: OK (0 violations)")
		return
	}
	fmt.Printf("  Monotonicity: FAILED (%d violations)\n", rep.Violations)
	for _, v := range rep.Examples {
		fmt.Printf("    %s\n", v)
	}
}
