// Package credential resolves secrets for the sign.
//
// A secret is looked up in the process environment first (optionally seeded
// from a .env file) and then in the OS keyring under the "metrosign" service.
package credential

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/99designs/keyring"
	"github.com/joho/godotenv"
)

const serviceName = "metrosign"

// ErrNotFound indicates a secret is in neither the environment nor the keyring.
var ErrNotFound = errors.New("credential not found")

// Opener opens a keyring.
type Opener func() (keyring.Keyring, error)

// OpenSystemKeyring opens the platform keyring for the metrosign service.
func OpenSystemKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/metrosign/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("metrosign-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Resolver looks secrets up in the environment, then the keyring.
// The keyring is opened at most once, on first use.
type Resolver struct {
	lookupEnv func(string) (string, bool)
	open      Opener

	once    sync.Once
	ring    keyring.Keyring
	ringErr error
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithEnv replaces os.LookupEnv.
func WithEnv(lookup func(string) (string, bool)) Option {
	return func(r *Resolver) {
		r.lookupEnv = lookup
	}
}

// WithKeyring replaces the system keyring opener. A nil opener disables
// the keyring fallback.
func WithKeyring(open Opener) Option {
	return func(r *Resolver) {
		r.open = open
	}
}

// NewResolver creates a Resolver backed by the process environment and the
// system keyring.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		lookupEnv: os.LookupEnv,
		open:      OpenSystemKeyring,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) keyring() (keyring.Keyring, error) {
	r.once.Do(func() {
		if r.open == nil {
			r.ringErr = errors.New("keyring disabled")
			return
		}
		r.ring, r.ringErr = r.open()
	})
	return r.ring, r.ringErr
}

// Lookup returns the value of name. Empty values count as missing.
func (r *Resolver) Lookup(name string) (string, error) {
	if v, ok := r.lookupEnv(name); ok && v != "" {
		return v, nil
	}

	ring, err := r.keyring()
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	item, err := ring.Get(name)
	if err != nil || len(item.Data) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return string(item.Data), nil
}

// LookupEnv adapts Lookup to the os.LookupEnv signature.
func (r *Resolver) LookupEnv(name string) (string, bool) {
	v, err := r.Lookup(name)
	return v, err == nil
}

// Require resolves every name and reports all missing ones in one error.
func (r *Resolver) Require(names ...string) (map[string]string, error) {
	values := make(map[string]string, len(names))
	var missing []string
	for _, name := range names {
		v, err := r.Lookup(name)
		if err != nil {
			missing = append(missing, name)
			continue
		}
		values[name] = v
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, strings.Join(missing, ", "))
	}
	return values, nil
}

// Set stores a secret in the keyring.
func (r *Resolver) Set(name, value string) error {
	ring, err := r.keyring()
	if err != nil {
		return err
	}
	if err := ring.Set(keyring.Item{Key: name, Data: []byte(value)}); err != nil {
		return fmt.Errorf("setting credential %q: %w", name, err)
	}
	return nil
}

// Delete removes a secret from the keyring.
func (r *Resolver) Delete(name string) error {
	ring, err := r.keyring()
	if err != nil {
		return err
	}
	if err := ring.Remove(name); err != nil {
		return fmt.Errorf("deleting credential %q: %w", name, err)
	}
	return nil
}

// LoadDotEnv loads variables from the given files into the process
// environment without overriding ones already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}
