package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pkarpov/structgate/internal/gate"
	"github.com/pkarpov/structgate/internal/model"
)

var (
	evalG         float64
	evalA         float64
	evalC         float64
	evalConfig    string
	evalPenalty   float64
	evalNormalize bool
	evalFormat    string
	evalDB        string
	evalLabel     string
)

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().Float64Var(&evalG, "g", 0, "Alignment observable in [0,1] (required)")
	evalCmd.Flags().Float64Var(&evalA, "a", 0, "Internal access observable in [0,1] (required)")
	evalCmd.Flags().Float64Var(&evalC, "c", 0, "Context/constraint observable in [0,1] (required)")
	evalCmd.Flags().StringVar(&evalConfig, "config", "", "Path to gate config YAML")
	evalCmd.Flags().Float64Var(&evalPenalty, "penalty", 0, "Resistance penalty subtracted from the score (alpha * s)")
	evalCmd.Flags().BoolVar(&evalNormalize, "normalize-weights", false, "Scale weights to sum to 1.0 before evaluating")
	evalCmd.Flags().StringVarP(&evalFormat, "format", "f", "text", "Output format (text|json)")
	evalCmd.Flags().StringVar(&evalDB, "db", "", "SQLite evidence database path (optional)")
	evalCmd.Flags().StringVar(&evalLabel, "label", "eval", "Run label for the evidence database")
	evalCmd.MarkFlagRequired("g")
	evalCmd.MarkFlagRequired("a")
	evalCmd.MarkFlagRequired("c")
}

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate one observable triple against the gate",
	Long: "Computes the structural score for one (g, a, c) triple and reports\n" +
		"status, permission, risk, and the attributed reason.\n\n" +
		"Exit code 0 on ALLOW, 2 on ABSTAIN, 3 on DENY.",
	RunE: runEval,
}

func runEval(cmd *cobra.Command, args []string) error {
	p, hash, err := gate.LoadParamsWithHash(evalConfig)
	if err != nil {
		return err
	}
	if evalNormalize {
		p, err = p.Normalized()
		if err != nil {
			return err
		}
	}

	t := model.Triple{G: evalG, A: evalA, C: evalC}
	res, err := gate.EvaluateWithPenalty(t, evalPenalty, p)
	if err != nil {
		return err
	}

	if evalDB != "" {
		db, store, err := openStore(evalDB)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := store.RecordEvaluation(evalLabel, t, res, hash); err != nil {
			return fmt.Errorf("record evaluation: %w", err)
		}
	}

	switch evalFormat {
	case "json":
		out, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	default:
		fmt.Printf("score:      %.6f\n", res.Score)
		if evalPenalty != 0 {
			fmt.Printf("effective:  %.6f\n", res.Effective)
		}
		fmt.Printf("status:     %s\n", res.Status)
		fmt.Printf("permission: %.6f\n", res.Permission)
		fmt.Printf("risk:       %.6f\n", res.Risk)
		fmt.Printf("reason:     %s\n", res.Reason)
	}

	switch res.Status {
	case model.Abstain:
		os.Exit(2)
	case model.Deny:
		os.Exit(3)
	}
	return nil
}
