package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pkarpov/structgate/internal/adapter"
	"github.com/pkarpov/structgate/internal/gate"
	"github.com/pkarpov/structgate/internal/model"
	"github.com/pkarpov/structgate/internal/sweep"
)

var (
	domainsGridN  int
	domainsConfig string
)

func init() {
	rootCmd.AddCommand(domainsCmd)
	domainsCmd.Flags().IntVarP(&domainsGridN, "grid", "n", 11, "Grid resolution per axis")
	domainsCmd.Flags().StringVar(&domainsConfig, "config", "", "Path to gate config YAML")
}

var domainsCmd = &cobra.Command{
	Use:   "domains",
	Short: "Sweep every built-in domain adapter with one gate",
	Long: "Runs the raw-driver cube through each built-in domain adapter and\n" +
		"the same gate parameters. The gate never changes per domain; only\n" +
		"the observable extraction does. Reports counts and the\n" +
		"monotonicity verdict per domain.\n\n" +
		"Exit code 0 when every domain is monotone, 1 otherwise.",
	RunE: runDomains,
}

func runDomains(cmd *cobra.Command, args []string) error {
	p, err := gate.LoadParams(domainsConfig)
	if err != nil {
		return err
	}

	fmt.Printf("Cross-domain sweep: grid %d^3 per domain (tau=%.3f band=%.3f)\n\n",
		domainsGridN, p.Tau, p.Band)

	failed := false
	for _, ad := range adapter.All() {
		rep, err := sweep.RunAdapter(p, domainsGridN, ad)
		if err != nil {
			return fmt.Errorf("domain %s: %w", ad.Name, err)
		}

		verdict := "OK"
		if !rep.Monotone() {
			verdict = fmt.Sprintf("FAILED (%d violations)", rep.Violations)
			failed = true
		}
		fmt.Printf("%-18s deny=%-6d abstain=%-6d allow=%-6d monotonicity=%s\n",
			ad.Name,
			rep.Counts[model.Deny],
			rep.Counts[model.Abstain],
			rep.Counts[model.Allow],
			verdict)
		fmt.Printf("%-18s inputs: %s, %s, %s\n\n",
			"", ad.Inputs[0], ad.Inputs[1], ad.Inputs[2])
	}

	if failed {
		os.Exit(1)
	}
	return nil
}
