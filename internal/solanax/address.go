// Package solanax derives the deterministic Solana addresses the sale engine
// relies on: the ticket box PDA (its storage key and signing authority), the
// canonical associated token account of a payer, and the Metaplex metadata
// and master edition records of an issued ticket.
package solanax

import (
	"errors"
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/metaplex/token_metadata"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/mr-tron/base58"
)

// DefaultProgramID is the ticket box program the box PDAs are derived under.
const DefaultProgramID = "9oaNngp1cLnRchZRqbA3ubz1mUx5kWv4TNkpNq41Vwqc"

// MaxSeedLength bounds every PDA seed, including the box id.
const MaxSeedLength = 32

const boxSeedPrefix = "ticket_box"

var (
	// TokenProgramID owns every mint and token account used for payment.
	TokenProgramID = common.TokenProgramID.ToBase58()
	// SystemProgramID owns native wallets.
	SystemProgramID = common.SystemProgramID.ToBase58()

	ErrInvalidAddress = errors.New("invalid address")
)

// ValidateAddress checks that s is a base58 encoded 32-byte public key.
func ValidateAddress(s string) error {
	b, err := base58.Decode(s)
	if err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidAddress, s, err)
	}
	if len(b) != common.PublicKeyLength {
		return fmt.Errorf("%w %q: want %d bytes, got %d", ErrInvalidAddress, s, common.PublicKeyLength, len(b))
	}
	return nil
}

func parse(s string) (common.PublicKey, error) {
	if err := ValidateAddress(s); err != nil {
		return common.PublicKey{}, err
	}
	return common.PublicKeyFromString(s), nil
}

// Addresser derives program addresses under one program id.
type Addresser struct {
	programID common.PublicKey
}

func NewAddresser(programID string) (*Addresser, error) {
	pk, err := parse(programID)
	if err != nil {
		return nil, fmt.Errorf("program id: %w", err)
	}
	return &Addresser{programID: pk}, nil
}

// ProgramID returns the program the addresser derives under.
func (a *Addresser) ProgramID() string {
	return a.programID.ToBase58()
}

// BoxAddress returns PDA("ticket_box", boxID, creator). The same (id, creator)
// pair always yields the same address, so boxes need no secondary index.
func (a *Addresser) BoxAddress(boxID, creator string) (string, error) {
	if boxID == "" || len(boxID) > MaxSeedLength {
		return "", fmt.Errorf("box id must be 1..%d bytes, got %d", MaxSeedLength, len(boxID))
	}
	creatorKey, err := parse(creator)
	if err != nil {
		return "", fmt.Errorf("creator: %w", err)
	}
	pda, _, err := common.FindProgramAddress(
		[][]byte{[]byte(boxSeedPrefix), []byte(boxID), creatorKey.Bytes()},
		a.programID,
	)
	if err != nil {
		return "", fmt.Errorf("find program address: %w", err)
	}
	return pda.ToBase58(), nil
}

// AssociatedTokenAddress returns the canonical token account of wallet for mint.
func AssociatedTokenAddress(wallet, mint string) (string, error) {
	walletKey, err := parse(wallet)
	if err != nil {
		return "", fmt.Errorf("wallet: %w", err)
	}
	mintKey, err := parse(mint)
	if err != nil {
		return "", fmt.Errorf("mint: %w", err)
	}
	ata, _, err := common.FindAssociatedTokenAddress(walletKey, mintKey)
	if err != nil {
		return "", fmt.Errorf("find associated token address: %w", err)
	}
	return ata.ToBase58(), nil
}

// MetadataAddress returns the Metaplex metadata PDA of mint.
func MetadataAddress(mint string) (string, error) {
	mintKey, err := parse(mint)
	if err != nil {
		return "", err
	}
	pk, err := token_metadata.GetTokenMetaPubkey(mintKey)
	if err != nil {
		return "", fmt.Errorf("metadata address: %w", err)
	}
	return pk.ToBase58(), nil
}

// MasterEditionAddress returns the Metaplex master edition PDA of mint.
func MasterEditionAddress(mint string) (string, error) {
	mintKey, err := parse(mint)
	if err != nil {
		return "", err
	}
	pk, err := token_metadata.GetMasterEdition(mintKey)
	if err != nil {
		return "", fmt.Errorf("master edition address: %w", err)
	}
	return pk.ToBase58(), nil
}

// NewKeypairAddress generates a fresh keypair and returns its public key.
// Ticket and collection mints are minted to such fresh addresses.
func NewKeypairAddress() string {
	return types.NewAccount().PublicKey.ToBase58()
}
