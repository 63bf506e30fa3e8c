package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rassist/rassist-mcp/internal/assistant"
	"github.com/rassist/rassist-mcp/internal/config"
	"github.com/rassist/rassist-mcp/internal/history"
	"github.com/rassist/rassist-mcp/internal/locator"
	"github.com/rassist/rassist-mcp/internal/mcp"
	"github.com/rassist/rassist-mcp/pkg/types"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	configPath string

	locateLine     int
	locateLookback int

	scanWorkers int
)

var rootCmd = &cobra.Command{
	Use:           "rassist",
	Short:         "R function assistant MCP server",
	Long:          "rassist locates R function definitions in source text and exposes\nLLM-backed editing, documentation, and explanation tools over MCP.",
	SilenceUsage:  true,
	SilenceErrors: true,
	// Running with no subcommand starts the server, so an MCP client
	// can point straight at the binary.
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdio",
	RunE:  runServe,
}

var locateCmd = &cobra.Command{
	Use:   "locate <file>",
	Short: "Locate the function definition at a cursor line",
	Args:  cobra.ExactArgs(1),
	RunE:  runLocate,
}

var scanCmd = &cobra.Command{
	Use:   "scan <file>...",
	Short: "List function definitions across files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runScan,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("rassist MCP Server\n")
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Build Time: %s\n", buildTime)
		fmt.Printf("Build Mode: %s\n", history.BuildMode)
		fmt.Printf("SQLite Driver: %s\n", history.DriverName)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.rassist/config.yaml)")

	locateCmd.Flags().IntVar(&locateLine, "line", 0, "1-indexed cursor line (required)")
	locateCmd.Flags().IntVar(&locateLookback, "lookback", -1, "max lines to scan above the cursor, 0 for unbounded (default from config)")
	_ = locateCmd.MarkFlagRequired("line")

	scanCmd.Flags().IntVar(&scanWorkers, "workers", 0, "concurrent file readers (default NumCPU)")

	rootCmd.AddCommand(serveCmd, locateCmd, scanCmd, versionCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	// Log startup info to stderr (stdout reserved for MCP protocol)
	log.SetOutput(os.Stderr)
	log.Printf("rassist MCP server v%s starting...", version)
	log.Printf("Build Mode: %s, Driver: %s", history.BuildMode, history.DriverName)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(cfg)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		log.Println("MCP server ready, listening on stdio...")
		errChan <- server.Serve(ctx)
	}()

	select {
	case sig := <-sigChan:
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	log.Println("Server stopped")
	return nil
}

func runLocate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	opts := locator.Options{Lookback: cfg.Locator.Lookback}
	if locateLookback >= 0 {
		opts.Lookback = locateLookback
	}

	res := locator.Locate(types.NewDocument(string(content)), locateLine, opts)
	return printJSON(cmd, res)
}

func runScan(cmd *cobra.Command, args []string) error {
	report, err := assistant.ScanFiles(cmd.Context(), args, scanWorkers)
	if err != nil {
		return err
	}
	return printJSON(cmd, report)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
