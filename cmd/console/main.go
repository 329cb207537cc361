package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "console",
	Short: "IntelliBridge console - legacy modernization dashboard",
	Long: `IntelliBridge console serves the modernization dashboard: code scanner,
containerizer, API generator, migration estimator, security analyzer and reports.

All analysis results are fixtures; running without a subcommand starts the server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to config file (default: ./config.yaml or ./configs/config.yaml)")
	rootCmd.AddCommand(serveCmd, fixturesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
