// Package auth issues and verifies the access tokens that identify the
// wallet behind a request.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/ticketbox/internal/common"
	"github.com/dmitrijs2005/ticketbox/internal/solanax"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the wallet address the token was issued to.
type Claims struct {
	jwt.RegisteredClaims
	Wallet string `json:"wallet"`
}

func GenerateToken(wallet string, secretKey []byte, validityDuration time.Duration) (string, error) {
	if err := solanax.ValidateAddress(wallet); err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrInvalidAddress, err)
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Wallet: wallet,
	})
	return token.SignedString(secretKey)
}

// WalletFromToken verifies tokenString and returns the wallet it names.
func WalletFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if !token.Valid || claims.Wallet == "" {
		return "", common.ErrInvalidToken
	}
	return claims.Wallet, nil
}

// VerifySigner checks that the authenticated wallet is the required one.
func VerifySigner(signer, required string) error {
	if signer == "" {
		return common.ErrMissingSigner
	}
	if signer != required {
		return common.ErrPublicKeyMismatch
	}
	return nil
}

type ctxKey struct{}

// WithWallet stores the authenticated wallet in ctx.
func WithWallet(ctx context.Context, wallet string) context.Context {
	return context.WithValue(ctx, ctxKey{}, wallet)
}

// WalletFromContext returns the wallet stored by WithWallet.
func WalletFromContext(ctx context.Context) (string, bool) {
	w, ok := ctx.Value(ctxKey{}).(string)
	return w, ok && w != ""
}
