package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"parityshell/internal/credentials"
)

// SetToken stores the daemon auth token in the system keyring. When value is
// empty the token is read from the terminal without echo.
func SetToken(name, value string) error {
	token, err := ensureTokenInput(value, "Enter daemon auth token: ")
	if err != nil {
		return err
	}

	if err := credentials.SetDaemonToken(name, token); err != nil {
		return err
	}

	fmt.Println("Stored daemon auth token in the system keyring")
	return nil
}

// DeleteToken removes the daemon auth token from the system keyring.
func DeleteToken(name string) error {
	if err := credentials.DeleteDaemonToken(name); err != nil {
		if errors.Is(err, credentials.ErrNotFound) {
			return fmt.Errorf("no daemon auth token is stored")
		}
		return err
	}

	fmt.Println("Removed daemon auth token from the system keyring")
	return nil
}

func ensureTokenInput(raw, prompt string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed != "" {
		return trimmed, nil
	}

	fmt.Fprint(os.Stdout, prompt)
	bytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stdout)
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}

	trimmed = strings.TrimSpace(string(bytes))
	if trimmed == "" {
		return "", fmt.Errorf("token cannot be empty")
	}

	return trimmed, nil
}
