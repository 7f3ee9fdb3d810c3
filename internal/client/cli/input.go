package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/dmitrijs2005/ticketbox/internal/client/client"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// GetSecretKey prints a prompt to w and reads a base58 wallet secret key from
// the terminal without echo.
func GetSecretKey(w io.Writer) (types.Account, error) {
	key, err := prompt(w, "Enter wallet secret key: ")
	if err != nil {
		return types.Account{}, err
	}
	return client.ParseKey([]byte(strings.TrimSpace(string(key))))
}

// ErrPassphraseMismatch is returned when the confirmation differs.
var ErrPassphraseMismatch = errors.New("passphrases do not match")

func prompt(w io.Writer, label string) ([]byte, error) {
	if _, err := fmt.Fprint(w, label); err != nil {
		return nil, err
	}
	b, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	return b, err
}

// AskPassphrase returns a client.Passphrase reading from the terminal.
func AskPassphrase(w io.Writer) client.Passphrase {
	return func() ([]byte, error) {
		return prompt(w, "Enter keystore passphrase: ")
	}
}

// NewPassphrase reads a passphrase twice and requires both to match.
func NewPassphrase(w io.Writer) ([]byte, error) {
	first, err := prompt(w, "New keystore passphrase: ")
	if err != nil {
		return nil, err
	}
	second, err := prompt(w, "Repeat passphrase: ")
	if err != nil {
		return nil, err
	}
	if len(first) == 0 || !bytes.Equal(first, second) {
		return nil, ErrPassphraseMismatch
	}
	return first, nil
}

// SplitArgs separates the global flags from the command and its own flags.
// Every global flag takes a value.
func SplitArgs(args []string, globalFlags []string) (global, command []string) {
	takesValue := make(map[string]bool, len(globalFlags))
	for _, f := range globalFlags {
		takesValue[f] = true
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			return args[:i], args[i:]
		}
		if takesValue[arg] && i+1 < len(args) {
			i++
		}
	}
	return args, nil
}
