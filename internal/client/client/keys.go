package client

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/dmitrijs2005/ticketbox/internal/cryptox"
	"github.com/mr-tron/base58"
)

// ParseKey decodes a wallet secret key given either as the JSON byte array
// the Solana CLI writes (id.json) or as a base58 string.
func ParseKey(data []byte) (types.Account, error) {
	text := strings.TrimSpace(string(data))
	if strings.HasPrefix(text, "[") {
		var raw []byte
		if err := json.Unmarshal([]byte(text), &raw); err != nil {
			return types.Account{}, fmt.Errorf("%w: %v", ErrInvalidKey, err)
		}
		acc, err := types.AccountFromBytes(raw)
		if err != nil {
			return types.Account{}, fmt.Errorf("%w: %v", ErrInvalidKey, err)
		}
		return acc, nil
	}
	acc, err := types.AccountFromBase58(text)
	if err != nil {
		return types.Account{}, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return acc, nil
}

// Passphrase supplies the passphrase of a sealed key file on demand.
type Passphrase func() ([]byte, error)

// LoadKeyFile reads a wallet secret key from path. Sealed keystores are
// opened with the passphrase from ask; plain key files never call it.
func LoadKeyFile(path string, ask Passphrase) (types.Account, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Account{}, err
	}

	ks, sealed, err := cryptox.ParseKeystore(data)
	if err != nil {
		return types.Account{}, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if !sealed {
		return ParseKey(data)
	}

	pass, err := ask()
	if err != nil {
		return types.Account{}, err
	}
	secret, err := cryptox.Open(ks, pass)
	if err != nil {
		return types.Account{}, err
	}
	return ParseKey(secret)
}

// SealKey encrypts acc's secret key under passphrase and returns the
// keystore file contents.
func SealKey(acc types.Account, passphrase []byte) ([]byte, error) {
	ks, err := cryptox.Seal([]byte(base58.Encode(acc.PrivateKey)), passphrase)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(ks, "", "  ")
}
