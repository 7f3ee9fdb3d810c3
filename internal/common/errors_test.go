package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		kind error
	}{
		{ErrInvalidStartAt, ErrInvalidConfiguration},
		{ErrInvalidTicketPerWallet, ErrInvalidConfiguration},
		{ErrPublicKeyMismatch, ErrUnauthorized},
		{ErrEventEnded, ErrEventNotActive},
		{ErrEventNotStarted, ErrEventNotActive},
		{ErrSoldOut, ErrSupplyExhausted},
		{ErrWalletLimitReached, ErrSupplyExhausted},
		{ErrNotEnoughSOL, ErrInsufficientFunds},
		{ErrNotEnoughTokens, ErrInsufficientFunds},
		{ErrMintMismatch, ErrAccountMismatch},
		{fmt.Errorf("step 2: %w", ErrIssuanceFailed), ErrExternalIssuance},
		{ErrorNotFound, ErrorNotFound},
		{errors.New("boom"), ErrorInternal},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.kind, KindOf(tt.err))
		})
	}
}

func TestErrorsKeepMessage(t *testing.T) {
	assert.Equal(t, "supply exhausted: sold out", ErrSoldOut.Error())
	assert.True(t, errors.Is(fmt.Errorf("wrap: %w", ErrSoldOut), ErrSoldOut))
}
