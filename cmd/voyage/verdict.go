package main

import (
	"github.com/reglet-dev/voyage/internal/infrastructure/container"
	"github.com/reglet-dev/voyage/internal/infrastructure/output"
	"github.com/spf13/cobra"
)

var verdictFormat string

// verdictCmd evaluates URLs through the guard without fetching them.
var verdictCmd = &cobra.Command{
	Use:   "verdict <url>...",
	Short: "Show the guard verdict for one or more URLs",
	Long: `Run each URL through the configured hostname guard and print whether a
fetch would be allowed. Nothing is fetched. In resolved mode hostnames are
looked up in DNS.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		formatter, err := output.NewFormatterFactory().Create(verdictFormat, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		g := container.NewGuard(sysConfig.Guard.GetGuardMode())
		return formatter.Format(output.Evaluate(cmd.Context(), g, args))
	},
}

func init() {
	rootCmd.AddCommand(verdictCmd)
	verdictCmd.Flags().StringVarP(&verdictFormat, "format", "f", "table", "output format: table, json, yaml")
}
