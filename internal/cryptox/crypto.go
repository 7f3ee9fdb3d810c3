// Package cryptox seals wallet secret keys at rest under a passphrase.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	keystoreVersion = 1
	kdfArgon2id     = "argon2id"
	saltSize        = 16
)

var (
	ErrWrongPassphrase = errors.New("wrong passphrase or corrupted keystore")
	ErrUnsupported     = errors.New("unsupported keystore")
)

// Keystore is the on-disk form of a sealed secret. Byte fields are base64 in JSON.
type Keystore struct {
	Version    int    `json:"version"`
	KDF        string `json:"kdf"`
	Salt       []byte `json:"salt"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

// DeriveKey stretches a passphrase into a 256-bit AES key.
func DeriveKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, 32)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal encrypts secret with AES-GCM under a key derived from passphrase.
// A fresh salt and nonce are drawn for every call.
func Seal(secret, passphrase []byte) (*Keystore, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}

	aesgcm, err := newGCM(DeriveKey(passphrase, salt))
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aesgcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	return &Keystore{
		Version:    keystoreVersion,
		KDF:        kdfArgon2id,
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: aesgcm.Seal(nil, nonce, secret, nil),
	}, nil
}

// Open reverses Seal.
func Open(ks *Keystore, passphrase []byte) ([]byte, error) {
	if ks.Version != keystoreVersion || ks.KDF != kdfArgon2id {
		return nil, fmt.Errorf("%w: version %d kdf %q", ErrUnsupported, ks.Version, ks.KDF)
	}

	aesgcm, err := newGCM(DeriveKey(passphrase, ks.Salt))
	if err != nil {
		return nil, err
	}
	if len(ks.Nonce) != aesgcm.NonceSize() {
		return nil, ErrWrongPassphrase
	}

	plaintext, err := aesgcm.Open(nil, ks.Nonce, ks.Ciphertext, nil)
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	return plaintext, nil
}

// ParseKeystore decodes a keystore file. ok is false when data is not a
// keystore at all, so callers can fall back to plain key formats.
func ParseKeystore(data []byte) (ks *Keystore, ok bool, err error) {
	var probe struct {
		KDF *string `json:"kdf"`
	}
	if json.Unmarshal(data, &probe) != nil || probe.KDF == nil {
		return nil, false, nil
	}

	ks = &Keystore{}
	if err := json.Unmarshal(data, ks); err != nil {
		return nil, true, err
	}
	return ks, true, nil
}
