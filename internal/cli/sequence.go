package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pkarpov/structgate/internal/evidence"
	"github.com/pkarpov/structgate/internal/gate"
	"github.com/pkarpov/structgate/internal/resistance"
)

var (
	seqStrategy string
	seqAlpha    float64
	seqConfig   string
	seqOutCSV   string
	seqDB       string
	seqLabel    string
)

func init() {
	rootCmd.AddCommand(sequenceCmd)
	sequenceCmd.Flags().StringVar(&seqStrategy, "strategy", "differential", "Resistance strategy (differential|monotone)")
	sequenceCmd.Flags().Float64Var(&seqAlpha, "alpha", resistance.DefaultAlpha, "Resistance penalty factor (>= 0)")
	sequenceCmd.Flags().StringVar(&seqConfig, "config", "", "Path to gate config YAML")
	sequenceCmd.Flags().StringVar(&seqOutCSV, "out-csv", "", "Write evidence CSV to this path")
	sequenceCmd.Flags().StringVar(&seqDB, "db", "", "SQLite evidence database path (optional)")
	sequenceCmd.Flags().StringVar(&seqLabel, "label", "sequence", "Run label for the evidence database")
}

var sequenceCmd = &cobra.Command{
	Use:   "sequence",
	Short: "Run the reference fatigue and clean paths",
	Long: "Evaluates the two reference paths that reach the same endpoint\n" +
		"through different histories. With a positive alpha, accumulated\n" +
		"resistance degrades the effective score: the fatigue path can end\n" +
		"in a different status than the clean path despite identical final\n" +
		"inputs.",
	RunE: runSequence,
}

func runSequence(cmd *cobra.Command, args []string) error {
	p, err := gate.LoadParams(seqConfig)
	if err != nil {
		return err
	}

	strat, err := resistance.ByName(seqStrategy)
	if err != nil {
		return err
	}

	fmt.Printf("Sequence posture: strategy=%s alpha=%.2f (tau=%.3f band=%.3f)\n\n",
		strat.Name(), seqAlpha, p.Tau, p.Band)

	var runs []evidence.SequenceRun
	for _, path := range resistance.ReferencePaths() {
		runner, err := resistance.NewRunner(p, strat, seqAlpha)
		if err != nil {
			return err
		}
		steps, err := runner.Run(path.Points)
		if err != nil {
			return fmt.Errorf("path %s: %w", path.Name, err)
		}

		fmt.Printf("Path %s (%s):\n", path.Name, path.Label)
		for _, st := range steps {
			fmt.Printf("  t=%d  f=%.4f  eff=%.4f  s=%.6f -> %.6f  %s\n",
				st.Index, st.Result.Score, st.Result.Effective,
				st.Before, st.After, st.Result.Status)
		}
		last := steps[len(steps)-1]
		fmt.Printf("  Final: status=%s resistance=%.6f\n\n", last.Result.Status, runner.Resistance())

		runs = append(runs, evidence.SequenceRun{
			Label:    path.Label,
			Strategy: strat.Name(),
			Steps:    steps,
		})
	}

	if seqOutCSV != "" {
		f, err := os.Create(seqOutCSV)
		if err != nil {
			return fmt.Errorf("create %s: %w", seqOutCSV, err)
		}
		defer f.Close()
		if err := evidence.WriteSequenceCSV(f, runs); err != nil {
			return fmt.Errorf("write evidence csv: %w", err)
		}
		fmt.Printf("Wrote evidence CSV: %s\n", seqOutCSV)
	}

	if seqDB != "" {
		db, store, err := openStore(seqDB)
		if err != nil {
			return err
		}
		defer db.Close()
		for _, run := range runs {
			if err := store.RecordSequence(seqLabel+"/"+run.Label, run.Strategy, run.Steps); err != nil {
				return fmt.Errorf("record sequence: %w", err)
			}
		}
	}

	return nil
}
