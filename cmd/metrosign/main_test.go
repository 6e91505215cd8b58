package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/99designs/keyring"
)

// useTestKeyring replaces the OS keyring with an in-memory one.
func useTestKeyring(t *testing.T, items ...keyring.Item) keyring.Keyring {
	t.Helper()
	ring := keyring.NewArrayKeyring(items)
	old := openKeyring
	openKeyring = func() (keyring.Keyring, error) { return ring, nil }
	t.Cleanup(func() { openKeyring = old })
	return ring
}

// unsetEnv removes a variable for the duration of the test.
func unsetEnv(t *testing.T, name string) {
	t.Helper()
	t.Setenv(name, "")
	_ = os.Unsetenv(name)
}

// setCredentials sets all three credentials in the environment.
func setCredentials(t *testing.T) {
	t.Helper()
	t.Setenv("FIREBASE_URL", "https://sign.firebaseio.com")
	t.Setenv("FIREBASE_API_KEY", "fb-key-1234")
	t.Setenv("WMATA_API_KEY", "wmata-key-5678")
}

// noEnvFile returns a dotenv path that does not exist.
func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

// executeCmd runs the root command with args and returns captured stdout
// and any error.
func executeCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()

	// capture stdout
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	var cmdOut bytes.Buffer
	rootCmd.SetOut(&cmdOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()

	// restore stdout
	_ = w.Close()
	os.Stdout = old
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)

	return buf.String() + cmdOut.String(), err
}
