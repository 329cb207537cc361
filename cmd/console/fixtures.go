package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/xela07ax/intellibridge-console/internal/fixtures"
)

var fixturesFormat string

var fixturesCmd = &cobra.Command{
	Use:   "fixtures",
	Short: "Print the embedded fixture catalog",
	Long:  "Print the embedded fixture catalog. Snippet texts are included only in json output.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		catalog, err := fixtures.Default()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch fixturesFormat {
		case "yaml":
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(catalog); err != nil {
				return err
			}
			return enc.Close()
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(catalog)
		default:
			return fmt.Errorf("unknown format %q (want yaml or json)", fixturesFormat)
		}
	},
}

func init() {
	fixturesCmd.Flags().StringVarP(&fixturesFormat, "format", "f", "yaml", "output format: yaml or json")
}
