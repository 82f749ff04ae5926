package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

var errPasswordMismatch = errors.New("passwords do not match")

// readPassword is replaced in tests so they never touch the terminal.
var readPassword = term.ReadPassword

// promptLine prints prompt to w and reads one trimmed line from r.
func promptLine(r *bufio.Reader, w io.Writer, prompt string) (string, error) {
	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return "", err
	}
	line, err := r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echo.
func promptPassword(w io.Writer, prompt string) (string, error) {
	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return "", err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(pw), nil
}

// promptNewPassword asks twice and fails when the entries differ.
func promptNewPassword(w io.Writer) (string, error) {
	first, err := promptPassword(w, "New password")
	if err != nil {
		return "", err
	}
	second, err := promptPassword(w, "Repeat password")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", errPasswordMismatch
	}
	return first, nil
}

// valueOrPrompt returns v, or asks for it when empty.
func valueOrPrompt(v string, r *bufio.Reader, w io.Writer, prompt string) (string, error) {
	if v = strings.TrimSpace(v); v != "" {
		return v, nil
	}
	return promptLine(r, w, prompt)
}
