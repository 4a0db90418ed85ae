package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type passwordReader interface {
	ReadPassword() (password string, err error)
}

type stdInPasswordReader struct{}

func (stdInPasswordReader) ReadPassword() (password string, err error) {
	v, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", err
	}
	return string(v), err
}

func terminalPromptPassword(cmd *cobra.Command, r passwordReader, title string) (password string, err error) {
	cmd.Print(title + ": ")
	password, err = r.ReadPassword()
	cmd.Println()
	if err != nil {
		return "", err
	}
	return password, nil
}

func terminalPromptCreatePassword(cmd *cobra.Command, r passwordReader) (password string, err error) {
	cmd.Println("Ipsex signer key is not found and will be created.")
	cmd.Println("Please enter a password to encrypt it.")
	cmd.Println()

	password, err = terminalPromptPassword(cmd, r, "Password")
	if err != nil {
		return "", err
	}

	confirmPassword, err := terminalPromptPassword(cmd, r, "Confirm password")
	if err != nil {
		return "", err
	}

	if password != confirmPassword {
		return "", errors.New("passwords are not the same")
	}

	return password, nil
}

func (c *command) readPassword(cmd *cobra.Command, exists bool) (string, error) {
	if p := c.config.GetString(optionNamePassword); p != "" {
		return p, nil
	}
	if pf := c.config.GetString(optionNamePasswordFile); pf != "" {
		b, err := os.ReadFile(pf)
		if err != nil {
			return "", fmt.Errorf("read password file: %w", err)
		}
		return string(trimNewline(b)), nil
	}
	if exists {
		return terminalPromptPassword(cmd, c.passwordReader, "Password")
	}
	return terminalPromptCreatePassword(cmd, c.passwordReader)
}

func trimNewline(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}
