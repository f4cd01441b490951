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
		Use:   "bullhorn",
		Short: "Extract contribution statistics from the Bullhorn newsletter forum",
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")

	root.AddCommand(runCmd())
	root.AddCommand(collectCmd())
	root.AddCommand(exportCmd())
	root.AddCommand(statsCmd())
	root.AddCommand(feedCmd())

	return root
}

func runCmd() *cobra.Command {
	var xlsxPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Collect all editions and export the reports in one pass",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(xlsxPath)
		},
	}

	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also write an XLSX workbook to this path")
	return cmd
}

func collectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "collect",
		Short: "Fetch editions and extract contributions into the local database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCollect()
		},
	}
}

func exportCmd() *cobra.Command {
	var xlsxPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the four CSV reports from collected data",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(xlsxPath)
		},
	}

	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also write an XLSX workbook to this path")
	return cmd
}

func statsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show contributor statistics from collected data",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}

func feedCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "List the latest editions from the category RSS feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFeed(limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "max editions to show")
	return cmd
}
