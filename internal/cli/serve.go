package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pkarpov/structgate/internal/mcp"
)

var serveConfig string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveConfig, "config", "", "Path to gate config YAML (hot-reloaded on change)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP gate server on stdio",
	Long: "Exposes gate_check, gate_sweep, and gate_sequence as MCP tools over\n" +
		"stdio, so agent hosts can query structural permission before\n" +
		"committing an action. The gate config file is hot-reloaded when it\n" +
		"changes on disk.",
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	srv, err := mcp.New(mcp.Config{ConfigPath: serveConfig})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	reloader, err := mcp.NewReloader(srv, serveConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: hot-reload disabled: %v\n", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if reloader != nil {
		go reloader.Run(ctx)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	fmt.Fprintln(os.Stderr, "structgate MCP server on stdio")
	return srv.Run(ctx)
}
