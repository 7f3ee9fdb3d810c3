// Package common defines shared constants and sentinel errors used across
// the ticketbox server. Every concrete error wraps exactly one kind error so
// callers can classify failures with errors.Is.
package common

import (
	"errors"
	"fmt"
)

// Error kinds.
var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrEventNotActive       = errors.New("event not active")
	ErrSupplyExhausted      = errors.New("supply exhausted")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrAccountMismatch      = errors.New("account mismatch")
	ErrExternalIssuance     = errors.New("external issuance failure")

	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")
	ErrorInternal      = errors.New("internal error")
)

// Configuration errors.
var (
	ErrInvalidStartAt         = kindError(ErrInvalidConfiguration, "invalid ticket box `start_at`")
	ErrInvalidEndAt           = kindError(ErrInvalidConfiguration, "invalid ticket box `end_at`")
	ErrInvalidTicketPerWallet = kindError(ErrInvalidConfiguration, "`ticket_per_wallet` has to be smaller than `num_of_tickets`")
	ErrInvalidTicketSupply    = kindError(ErrInvalidConfiguration, "`num_of_tickets` has to be positive")
	ErrInvalidTicketPrice     = kindError(ErrInvalidConfiguration, "invalid ticket price")
	ErrInvalidBoxID           = kindError(ErrInvalidConfiguration, "invalid ticket box id")
	ErrInvalidAddress         = kindError(ErrInvalidConfiguration, "invalid address")
)

// Authority errors.
var (
	ErrPublicKeyMismatch = kindError(ErrUnauthorized, "public key mismatch")
	ErrMissingSigner     = kindError(ErrUnauthorized, "missing signer")
	ErrInvalidToken      = kindError(ErrUnauthorized, "invalid token")
	ErrTokenExpired      = kindError(ErrUnauthorized, "token expired")
)

// Sale errors.
var (
	ErrEventNotStarted    = kindError(ErrEventNotActive, "event not started")
	ErrEventEnded         = kindError(ErrEventNotActive, "event ended")
	ErrSoldOut            = kindError(ErrSupplyExhausted, "sold out")
	ErrWalletLimitReached = kindError(ErrSupplyExhausted, "wallet ticket limit reached")
)

// Payment errors.
var (
	ErrNotEnoughSOL             = kindError(ErrInsufficientFunds, "not enough SOL to pay for this minting")
	ErrNotEnoughTokens          = kindError(ErrInsufficientFunds, "not enough tokens to pay for this minting")
	ErrMintMismatch             = kindError(ErrAccountMismatch, "mint mismatch")
	ErrInvalidTokenAccountOwner = kindError(ErrAccountMismatch, "invalid token account owner")
	ErrInvalidTokenAccountMint  = kindError(ErrAccountMismatch, "invalid token account mint")
	ErrAddressMismatch          = kindError(ErrAccountMismatch, "address derivation mismatch")
	ErrUninitialized            = kindError(ErrAccountMismatch, "account is not initialized")
	ErrTokenTransferFailed      = kindError(ErrAccountMismatch, "token transfer failed")
)

// Issuance errors.
var (
	ErrIssuanceFailed = kindError(ErrExternalIssuance, "issuance step failed")
)

func kindError(kind error, msg string) error {
	return fmt.Errorf("%w: %s", kind, msg)
}

// Kinds lists every error kind in classification order.
var Kinds = []error{
	ErrInvalidConfiguration,
	ErrUnauthorized,
	ErrEventNotActive,
	ErrSupplyExhausted,
	ErrInsufficientFunds,
	ErrAccountMismatch,
	ErrExternalIssuance,
	ErrorNotFound,
	ErrorAlreadyExists,
}

// KindOf returns the kind err belongs to, or ErrorInternal when it wraps none.
func KindOf(err error) error {
	for _, k := range Kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return ErrorInternal
}
