package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pkarpov/structgate/internal/gate"
	"github.com/pkarpov/structgate/internal/scenario"
)

var (
	checkScenario string
	checkSuites   []string
	checkConfig   string
	checkFormat   string
)

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVar(&checkScenario, "scenario", "", "Glob pattern for scenario YAML files")
	checkCmd.Flags().StringSliceVar(&checkSuites, "suite", nil, "Built-in suites to run (default: all)")
	checkCmd.Flags().StringVar(&checkConfig, "config", "", "Path to gate config YAML")
	checkCmd.Flags().StringVarP(&checkFormat, "format", "f", "text", "Output format (text|json)")
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run gate assertions from scenario files",
	Long: "Evaluates scenario cases through the gate and compares each verdict\n" +
		"against its expectation. With no flags, runs all built-in suites.\n\n" +
		"Exit code 0 if all cases pass, 1 if any fail.\n" +
		"Use in CI to pin gate behavior before changing parameters.",
	RunE: runCheckCmd,
}

func runCheckCmd(cmd *cobra.Command, args []string) error {
	var results []*scenario.RunResult

	if checkScenario != "" {
		matches, err := filepath.Glob(checkScenario)
		if err != nil {
			return fmt.Errorf("invalid glob pattern: %w", err)
		}
		if len(matches) == 0 {
			return fmt.Errorf("no scenario files match pattern: %s", checkScenario)
		}
		for _, path := range matches {
			r, err := scenario.LoadAndRun(path, checkConfig)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results = append(results, r)
		}
	} else {
		suites := checkSuites
		if len(suites) == 0 {
			suites = scenario.ListSuites()
		}
		p, err := gate.LoadParams(checkConfig)
		if err != nil {
			return err
		}
		for _, name := range suites {
			s, err := scenario.LoadSuite(name)
			if err != nil {
				return err
			}
			r, err := scenario.Run(s, p)
			if err != nil {
				return fmt.Errorf("suite %s: %w", name, err)
			}
			results = append(results, r)
		}
	}

	switch checkFormat {
	case "json":
		out, err := scenario.FormatJSON(results)
		if err != nil {
			return err
		}
		fmt.Println(out)
	default:
		fmt.Print(scenario.FormatText(results))
	}

	for _, r := range results {
		if r.Failed > 0 {
			os.Exit(1)
		}
	}
	return nil
}
