package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/mymoneyhq/moneyctl/internal/api"
	"github.com/mymoneyhq/moneyctl/internal/cli"
	"github.com/mymoneyhq/moneyctl/internal/config"
	"github.com/mymoneyhq/moneyctl/internal/model"
	"github.com/mymoneyhq/moneyctl/internal/session"
	"github.com/mymoneyhq/moneyctl/internal/storage"
)

// openCredentials opens the durable credential store.
func openCredentials() (*session.Store, error) {
	statePath := config.ExpandPath(viper.GetString("state_path"))
	if statePath == "" {
		var err error
		statePath, err = session.DefaultStatePath()
		if err != nil {
			return nil, err
		}
	}
	return session.NewStore(statePath)
}

// notifySessionExpired tells the user where to go after a 401; by the time
// the hook fires the HTTP layer has already cleared the stored credentials.
func notifySessionExpired() {
	fmt.Fprintln(os.Stderr, cli.ErrorStyle.Render("Session expired. Run 'moneyctl login' to sign in again."))
}

// newAPIClient wires the HTTP client over the credential store, for commands
// that run without an established session (login, register).
func newAPIClient(creds *session.Store) *api.Client {
	return api.NewClient(
		viper.GetString("api.base_url"),
		creds,
		api.WithTimeout(viper.GetDuration("api.timeout")),
		api.WithUnauthorizedHook(notifySessionExpired),
	)
}

// requireSession establishes an authenticated session or fails with a hint
// to log in. Commands that talk to protected endpoints start here. A 401
// observed mid-session forces the controller into its logged-out state so
// later calls through it fail fast.
func requireSession(ctx context.Context) (*api.Client, *session.Store, error) {
	creds, err := openCredentials()
	if err != nil {
		return nil, nil, err
	}

	if _, ok := creds.Token(); !ok {
		return nil, nil, fmt.Errorf("not logged in; run 'moneyctl login' first")
	}

	var ctrl *session.Controller
	client := api.NewClient(
		viper.GetString("api.base_url"),
		creds,
		api.WithTimeout(viper.GetDuration("api.timeout")),
		api.WithUnauthorizedHook(func() {
			if ctrl != nil {
				ctrl.ForceLogout()
			}
			notifySessionExpired()
		}),
	)
	ctrl = session.NewController(creds, client)
	if _, err := ctrl.Ensure(ctx); err != nil {
		return nil, nil, err
	}
	return client, creds, nil
}

// openCache opens the local read cache. A cache failure degrades to "no
// fallback", never to a command failure.
func openCache() *storage.Cache {
	path := config.ExpandPath(viper.GetString("cache_path"))
	if path == "" {
		var err error
		path, err = storage.DefaultPath()
		if err != nil {
			return nil
		}
	}
	cache, err := storage.NewCache(path)
	if err != nil {
		return nil
	}
	return cache
}

// promptLine reads one line of input with a prompt.
func promptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("no input")
	}
	return strings.TrimSpace(scanner.Text()), nil
}

// promptPassword reads a password without echoing it.
func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	defer fmt.Println()

	data, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(data), nil
}

// parseType maps a command-line collection name to a transaction type.
func parseType(s string) (model.TransactionType, error) {
	switch s {
	case "income", "incomes":
		return model.TypeIncome, nil
	case "expense", "expenses":
		return model.TypeExpense, nil
	default:
		return "", fmt.Errorf("unknown type %q (want income or expense)", s)
	}
}
