package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// validateCmd validates the configuration without starting the sign.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and credentials",
	Long: `Validate the metrosign configuration without starting the sign.

This command parses the YAML (if given), resolves credentials from the
environment and the OS keyring, and validates all fields. It does not
contact the document store or the prediction API.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  metrosign validate
  metrosign validate -c /etc/metrosign/metrosign.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (optional)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	status := "disabled"
	if cfg.Status.Port > 0 {
		status = fmt.Sprintf("port %d", cfg.Status.Port)
	}

	fmt.Printf("Config is valid!\n")
	fmt.Printf("  Backend:          %s\n", cfg.Backend)
	fmt.Printf("  Arrival interval: %s\n", cfg.ArrivalInterval.Duration())
	fmt.Printf("  Alert quiet:      %s to %s\n", cfg.Alerts.QuietMin.Duration(), cfg.Alerts.QuietMax.Duration())
	fmt.Printf("  Status API:       %s\n", status)
	fmt.Printf("  Document store:   %s\n", cfg.Firebase.URL)
	fmt.Printf("  Credentials:      firebase %s, wmata %s\n", mask(cfg.Firebase.APIKey), mask(cfg.WMATA.APIKey))

	return nil
}

// mask hides all but the last four characters of a secret.
func mask(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}
