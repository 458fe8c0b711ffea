package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"localhost/claude-relay/internal/keysource"
)

// authCommand returns the 'auth' subcommand for managing upstream credentials.
func authCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage upstream credentials",
		Commands: []*cli.Command{
			authLoginCommand(),
			authLogoutCommand(),
		},
	}
}

// authLoginCommand returns the 'auth login' subcommand.
func authLoginCommand() *cli.Command {
	return &cli.Command{
		Name:   "login",
		Usage:  "Save the upstream API key to the system keyring",
		Action: authLoginAction,
	}
}

// authLogoutCommand returns the 'auth logout' subcommand.
func authLogoutCommand() *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Remove the upstream API key from the system keyring",
		Action: authLogoutAction,
	}
}

func authLoginAction(ctx context.Context, cmd *cli.Command) error {
	key, err := readSecureInput(ctx, "Enter upstream API key: ")
	if err != nil {
		return err
	}

	if err := keysource.Store(key); err != nil {
		return fmt.Errorf("failed to save API key: %w", err)
	}

	fmt.Println()
	fmt.Println("=== Login Successful ===")
	fmt.Println("API key saved to system keyring")

	return nil
}

func authLogoutAction(ctx context.Context, cmd *cli.Command) error {
	if err := keysource.Clear(); err != nil {
		return fmt.Errorf("failed to clear API key: %w", err)
	}

	fmt.Println()
	fmt.Println("=== Logout Successful ===")
	fmt.Println("API key removed from system keyring")

	return nil
}

// readSecureInput reads user input with hidden display and context cancellation support.
// Goroutine+select pattern required because term.ReadPassword has no native context support.
func readSecureInput(ctx context.Context, prompt string) (string, error) {
	fmt.Print(prompt)
	defer fmt.Println()

	type result struct {
		value string
		err   error
	}
	resultCh := make(chan result, 1)

	go func() {
		inputBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		resultCh <- result{value: string(inputBytes), err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-resultCh:
		if res.err != nil {
			return "", fmt.Errorf("failed to read input: %w", res.err)
		}
		return res.value, nil
	}
}
