package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on inbound requests.
const AccessTokenHeaderName = "access_token"

// Issuance metadata constants shared by every ticket a box mints.
const (
	TicketSymbol         = "TICKET"
	SellerFeeBasisPoints = 200
)
