// Package main is the entry point for the metrosign CLI.
//
// metrosign can be embedded as a library (SDK) or run as a standalone binary
// driven by environment variables and an optional YAML file. This CLI
// provides the standalone binary approach.
//
// Usage:
//
//	metrosign run                      # Run the sign with defaults
//	metrosign run -c metrosign.yaml    # Run with a config file
//	metrosign validate -c metrosign.yaml
//	metrosign secret set WMATA_API_KEY # Store a credential in the OS keyring
//	metrosign version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/metrosign/config"
	"github.com/jpalmerr/metrosign/internal/credential"
)

// Version information - set by GoReleaser at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// openKeyring is swapped out in tests.
var openKeyring credential.Opener = credential.OpenSystemKeyring

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "metrosign",
	Short: "A WMATA train arrival sign",
	Long: `metrosign drives an LED arrival sign for a Washington Metro station.

It reads the station and custom messages from a Firebase document store,
polls the WMATA prediction API, and draws an arrival board with periodic
service alert announcements.

Credentials are read from the environment (or a .env file) and then from
the OS keyring:
  FIREBASE_URL       document store base URL
  FIREBASE_API_KEY   document store key
  WMATA_API_KEY      prediction API key

Quick start:
  1. export FIREBASE_URL=... FIREBASE_API_KEY=... WMATA_API_KEY=...
  2. Run: metrosign run`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this metrosign binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("metrosign %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("env-file", ".env", "dotenv file loaded before resolving credentials")
}

// newResolver creates the credential resolver used by every subcommand.
func newResolver() *credential.Resolver {
	return credential.NewResolver(credential.WithKeyring(openKeyring))
}

// loadConfig loads the dotenv file and the optional config file named by
// the command's flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	if err := credential.LoadDotEnv(envFile); err != nil {
		return nil, err
	}

	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile, newResolver().LookupEnv)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
