package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "podrank",
		Short: "Build a cross-platform podcast leaderboard from platform exports",
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")

	root.AddCommand(rankCmd())
	root.AddCommand(topCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(researchCmd())

	return root
}

func rankCmd() *cobra.Command {
	var (
		output string
		show   int
	)

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Load platform exports, build the composite ranking and write the leaderboard CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRank(output, show)
		},
	}

	cmd.Flags().StringVar(&output, "output", "", "leaderboard CSV path (default: from config)")
	cmd.Flags().IntVar(&show, "show", 15, "number of top shows to print")
	return cmd
}

func topCmd() *cobra.Command {
	var (
		jsonOutput bool
		runID      int64
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Show a recorded leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTop(jsonOutput, runID, limit)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	cmd.Flags().Int64Var(&runID, "run", 0, "run ID (default: latest)")
	cmd.Flags().IntVar(&limit, "limit", 20, "max shows to list")
	return cmd
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve recorded leaderboards over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "server port (default: from config)")
	return cmd
}

func researchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "research",
		Short: "Populate attribute tables from podcast RSS feeds (offline step, not part of ranking)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResearch()
		},
	}
	return cmd
}
