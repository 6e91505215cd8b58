package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/metrosign/config"
)

// knownSecrets are the credentials the sign reads.
var knownSecrets = []string{
	config.EnvFirebaseURL,
	config.EnvFirebaseAPIKey,
	config.EnvWMATAAPIKey,
}

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Manage credentials in the OS keyring",
	Long: `Store or remove credentials in the OS keyring.

Values in the keyring are used when the variable is not set in the
environment. Known names: ` + strings.Join(knownSecrets, ", "),
}

var secretSetCmd = &cobra.Command{
	Use:   "set NAME",
	Short: "Store a credential read from stdin",
	Args:  cobra.ExactArgs(1),
	RunE:  runSecretSet,
}

var secretDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Remove a credential",
	Args:  cobra.ExactArgs(1),
	RunE:  runSecretDelete,
}

func init() {
	rootCmd.AddCommand(secretCmd)
	secretCmd.AddCommand(secretSetCmd, secretDeleteCmd)
}

func checkSecretName(name string) error {
	for _, known := range knownSecrets {
		if name == known {
			return nil
		}
	}
	return fmt.Errorf("unknown credential %q (expected one of %s)", name, strings.Join(knownSecrets, ", "))
}

func runSecretSet(cmd *cobra.Command, args []string) error {
	name := args[0]
	if err := checkSecretName(name); err != nil {
		return err
	}

	value, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	value = strings.TrimSpace(value)
	if value == "" {
		if err != nil {
			return fmt.Errorf("reading value: %w", err)
		}
		return fmt.Errorf("value for %s cannot be empty", name)
	}

	if err := newResolver().Set(name, value); err != nil {
		return err
	}
	cmd.Printf("Stored %s\n", name)
	return nil
}

func runSecretDelete(cmd *cobra.Command, args []string) error {
	name := args[0]
	if err := checkSecretName(name); err != nil {
		return err
	}
	if err := newResolver().Delete(name); err != nil {
		return err
	}
	cmd.Printf("Deleted %s\n", name)
	return nil
}
