package api

import "time"

type LoginRequest struct {
	Wallet    string `json:"wallet"`
	Message   string `json:"message"`
	Signature string `json:"signature"`
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type Box struct {
	ID             string     `json:"id"`
	Creator        string     `json:"creator"`
	Address        string     `json:"address"`
	Name           string     `json:"name"`
	InfoURI        string     `json:"info_uri"`
	StartAt        time.Time  `json:"start_at"`
	EndAt          *time.Time `json:"end_at,omitempty"`
	TotalSupply    *int64     `json:"total_supply,omitempty"`
	SoldCount      int64      `json:"sold_count"`
	Remaining      *int64     `json:"remaining,omitempty"`
	PerWalletLimit *int64     `json:"per_wallet_limit,omitempty"`
	Price          uint64     `json:"price"`
	Currency       *string    `json:"currency,omitempty"`
	Transferable   bool       `json:"transferable"`
	Escrow         string     `json:"escrow"`
	CollectionMint string     `json:"collection_mint"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type CreateBoxRequest struct {
	ID             string     `json:"id,omitempty"`
	Name           string     `json:"name"`
	InfoURI        string     `json:"info_uri"`
	StartAt        time.Time  `json:"start_at"`
	EndAt          *time.Time `json:"end_at,omitempty"`
	TotalSupply    *int64     `json:"total_supply,omitempty"`
	PerWalletLimit *int64     `json:"per_wallet_limit,omitempty"`
	Price          uint64     `json:"price"`
	Transferable   bool       `json:"transferable"`
	Escrow         string     `json:"escrow"`
	CurrencyMint   *string    `json:"currency_mint,omitempty"`
}

// UpdateBoxRequest changes only the fields that are present.
type UpdateBoxRequest struct {
	Creator        string     `json:"creator"`
	BoxID          string     `json:"box_id"`
	Name           *string    `json:"name,omitempty"`
	InfoURI        *string    `json:"info_uri,omitempty"`
	StartAt        *time.Time `json:"start_at,omitempty"`
	EndAt          *time.Time `json:"end_at,omitempty"`
	TotalSupply    *int64     `json:"total_supply,omitempty"`
	PerWalletLimit *int64     `json:"per_wallet_limit,omitempty"`
	Price          *uint64    `json:"price,omitempty"`
	Transferable   *bool      `json:"transferable,omitempty"`
}

// BoxRef addresses a box by id and creator.
type BoxRef struct {
	Creator string `json:"creator"`
	BoxID   string `json:"box_id"`
}

type AssetUpload struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type PurchaseRequest struct {
	Creator           string `json:"creator"`
	BoxID             string `json:"box_id"`
	Buyer             string `json:"buyer,omitempty"`
	TokenAccount      string `json:"token_account,omitempty"`
	TransferAuthority string `json:"transfer_authority,omitempty"`
}

type Issuance struct {
	ID                   string    `json:"id"`
	BoxID                string    `json:"box_id"`
	BoxAddress           string    `json:"box_address"`
	Sequence             int64     `json:"sequence"`
	Name                 string    `json:"name"`
	Symbol               string    `json:"symbol"`
	URI                  string    `json:"uri"`
	Mint                 string    `json:"mint"`
	MetadataAddress      string    `json:"metadata_address"`
	EditionAddress       string    `json:"edition_address"`
	UpdateAuthority      string    `json:"update_authority"`
	Owner                string    `json:"owner"`
	CollectionMint       string    `json:"collection_mint"`
	CollectionVerified   bool      `json:"collection_verified"`
	SellerFeeBasisPoints uint16    `json:"seller_fee_basis_points"`
	MaxSupply            *uint64   `json:"max_supply,omitempty"`
	Transferable         bool      `json:"transferable"`
	CreatedAt            time.Time `json:"created_at"`
}

type PurchaseResponse struct {
	Issuance  Issuance `json:"issuance"`
	SoldCount int64    `json:"sold_count"`
	Paid      uint64   `json:"paid"`
	State     string   `json:"state"`
}

type ListIssuancesResponse struct {
	Issuances []Issuance `json:"issuances"`
}

type AirdropRequest struct {
	Wallet   string `json:"wallet"`
	Lamports uint64 `json:"lamports"`
}

type BalanceRequest struct {
	Wallet string `json:"wallet"`
}

type BalanceResponse struct {
	Amount uint64 `json:"amount"`
}

type CreateMintRequest struct {
	Decimals uint8 `json:"decimals"`
}

type Mint struct {
	Address  string `json:"address"`
	Decimals uint8  `json:"decimals"`
}

type CreateTokenAccountRequest struct {
	Wallet string `json:"wallet"`
	Mint   string `json:"mint"`
}

type TokenAccount struct {
	Address         string  `json:"address"`
	Wallet          string  `json:"wallet"`
	Mint            string  `json:"mint"`
	Amount          uint64  `json:"amount"`
	Delegate        *string `json:"delegate,omitempty"`
	DelegatedAmount uint64  `json:"delegated_amount"`
}

type MintToRequest struct {
	Account string `json:"account"`
	Amount  uint64 `json:"amount"`
}

type ApproveRequest struct {
	Account  string `json:"account"`
	Delegate string `json:"delegate"`
	Amount   uint64 `json:"amount"`
}

type Empty struct{}
