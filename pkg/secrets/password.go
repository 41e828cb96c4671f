package secrets

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"golang.org/x/term"
)

const minPasswordLength = 8

// ValidatePassword enforces the secret value policy: minimum length plus
// upper, lower, digit, and special characters. The same policy applies to
// every entry point.
func ValidatePassword(value string) error {
	if len(value) < minPasswordLength {
		return fmt.Errorf("value must be at least %d characters", minPasswordLength)
	}

	var upper, lower, digit, special bool
	for _, r := range value {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			special = true
		}
	}
	if !upper || !lower || !digit || !special {
		return fmt.Errorf("value must contain upper and lower case letters, a digit, and a special character")
	}
	return nil
}

// Prompt reads a secret value and a confirmation, looping until both match
// and the value passes the policy. A mismatch never proceeds, it re-prompts.
func Prompt(in io.Reader, out io.Writer) (string, error) {
	read := secretReader(in, out)

	for {
		value, err := read("Enter secret value: ")
		if err != nil {
			return "", err
		}
		if err := ValidatePassword(value); err != nil {
			fmt.Fprintf(out, "%v\n", err)
			continue
		}

		confirmation, err := read("Confirm secret value: ")
		if err != nil {
			return "", err
		}
		if value != confirmation {
			fmt.Fprintln(out, "values do not match, try again")
			continue
		}
		return value, nil
	}
}

// secretReader suppresses echo on a real terminal and falls back to
// line-wise reads for pipes and tests.
func secretReader(in io.Reader, out io.Writer) func(prompt string) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		return func(prompt string) (string, error) {
			fmt.Fprint(out, prompt)
			raw, err := term.ReadPassword(fd)
			fmt.Fprintln(out)
			if err != nil {
				return "", fmt.Errorf("reading secret: %w", err)
			}
			return string(raw), nil
		}
	}

	reader := bufio.NewReader(in)
	return func(prompt string) (string, error) {
		fmt.Fprint(out, prompt)
		line, err := reader.ReadString('\n')
		if err != nil && len(line) == 0 {
			return "", fmt.Errorf("reading secret: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
}
