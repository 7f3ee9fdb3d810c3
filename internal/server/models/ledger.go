package models

// NativeAccount is a wallet holding lamports.
type NativeAccount struct {
	Address  string
	Lamports uint64
}

// TokenMint describes a fungible token type.
type TokenMint struct {
	Address     string
	Owner       string // owning program
	Decimals    uint8
	Initialized bool
}

// TokenAccount is a holding of one mint by one wallet.
type TokenAccount struct {
	Address     string
	Owner       string // owning program
	Wallet      string
	Mint        string
	Amount      uint64
	Initialized bool
	// Delegate may move up to DelegatedAmount on the wallet's behalf.
	Delegate        *string
	DelegatedAmount uint64
}
