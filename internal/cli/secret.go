package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/sitelit/internal/constants"
	"github.com/julianstephens/sitelit/internal/keyring"
	"github.com/julianstephens/sitelit/internal/kvstore"
)

// Secret kinds stored in the OS keyring.
const (
	SecretConnectionString = "connection-string"
	SecretScheduleToken    = "schedule-token"
)

type SecretCmd struct {
	Set    SecretSetCmd    `cmd:"" help:"Store a secret in the OS keyring."`
	Delete SecretDeleteCmd `cmd:"" help:"Remove a secret from the OS keyring."`
	Status SecretStatusCmd `cmd:"" help:"Show which secrets are stored."`
}

func keyringUser(kind string) string {
	if kind == SecretScheduleToken {
		return constants.ScheduleTokenUser
	}
	return constants.DefaultKeyringUser
}

type SecretSetCmd struct {
	Kind  string `arg:"" enum:"connection-string,schedule-token" help:"Secret kind: connection-string or schedule-token."`
	Value string `arg:"" help:"Secret value."`
}

func (c *SecretSetCmd) Run(ctx *Context) error {
	value := strings.TrimSpace(c.Value)
	if value == "" {
		return errors.New("secret value cannot be empty")
	}

	if c.Kind == SecretConnectionString {
		if !kvstore.IsPostgres(value) && !strings.Contains(value, "host=") {
			return errors.New("connection string must be a valid PostgreSQL connection string")
		}
		if err := kvstore.ValidateConnString(value); err != nil {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		if kvstore.HasEmbeddedCredentials(value) {
			fmt.Fprintln(ctx.out(), "⚠️  Warning: Connection string contains embedded credentials.")
			fmt.Fprintln(ctx.out(), "   It will be stored as-is in the encrypted OS keyring.")
		}
	}

	if err := keyring.Set(keyringUser(c.Kind), value); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", c.Kind, err)
	}
	fmt.Fprintf(ctx.out(), "✓ %s stored in OS keyring\n", c.Kind)
	return nil
}

type SecretDeleteCmd struct {
	Kind string `arg:"" enum:"connection-string,schedule-token" help:"Secret kind: connection-string or schedule-token."`
}

func (c *SecretDeleteCmd) Run(ctx *Context) error {
	if err := keyring.Delete(keyringUser(c.Kind)); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s found in keyring", c.Kind)
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", c.Kind, err)
	}
	fmt.Fprintf(ctx.out(), "✓ %s deleted from OS keyring\n", c.Kind)
	return nil
}

type SecretStatusCmd struct{}

func (c *SecretStatusCmd) Run(ctx *Context) error {
	if !keyring.IsAvailable() {
		fmt.Fprintln(ctx.out(), "❌ OS keyring is not available on this system")
		return keyring.ErrKeyringUnavailable
	}
	fmt.Fprintln(ctx.out(), "✓ OS keyring is available")

	for _, kind := range []string{SecretConnectionString, SecretScheduleToken} {
		_, err := keyring.Get(keyringUser(kind))
		switch {
		case err == nil:
			fmt.Fprintf(ctx.out(), "✓ %s is stored\n", kind)
		case errors.Is(err, keyring.ErrNotFound):
			fmt.Fprintf(ctx.out(), "ℹ no %s stored\n", kind)
		default:
			return err
		}
	}
	return nil
}
