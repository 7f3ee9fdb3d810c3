package models

// PurchaseRequest is one buyer's attempt to buy a ticket. It is never persisted.
type PurchaseRequest struct {
	BoxID   string
	Creator string
	Buyer   string
	// Token path only: the buyer's holding and, when not signed by the buyer
	// directly, the delegate authorizing the transfer.
	TokenAccount      string
	TransferAuthority string
}

// PurchaseState tracks how far one purchase got.
type PurchaseState string

const (
	StateRequested          PurchaseState = "requested"
	StateAuthorized         PurchaseState = "authorized"
	StatePaid               PurchaseState = "paid"
	StateDescribed          PurchaseState = "described"
	StateAuthenticated      PurchaseState = "authenticated"
	StateCollectionVerified PurchaseState = "collection_verified"
	StateRejected           PurchaseState = "rejected"
)

// PurchaseResult is returned to the buyer after a committed purchase.
type PurchaseResult struct {
	Issuance  *Issuance
	SoldCount int64
	Paid      uint64
	State     PurchaseState
}
