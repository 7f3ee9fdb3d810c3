package auth

import (
	"crypto/ed25519"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/ticketbox/internal/common"
	"github.com/dmitrijs2005/ticketbox/internal/solanax"
	"github.com/mr-tron/base58"
)

const loginPrefix = "ticketbox-login"

// LoginSkew is how far the signed login timestamp may drift from the server clock.
const LoginSkew = 5 * time.Minute

// LoginMessage is the text a wallet signs to obtain an access token.
func LoginMessage(wallet string, at time.Time) string {
	return fmt.Sprintf("%s:%s:%d", loginPrefix, wallet, at.Unix())
}

// VerifyLogin checks that signature is the wallet's ed25519 signature over a
// fresh LoginMessage.
func VerifyLogin(wallet, message, signature string, now time.Time) error {
	if err := solanax.ValidateAddress(wallet); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidAddress, err)
	}

	parts := strings.Split(message, ":")
	if len(parts) != 3 || parts[0] != loginPrefix || parts[1] != wallet {
		return fmt.Errorf("%w: malformed login message", common.ErrInvalidToken)
	}
	unix, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return fmt.Errorf("%w: malformed login timestamp", common.ErrInvalidToken)
	}
	if d := now.Sub(time.Unix(unix, 0)); d > LoginSkew || d < -LoginSkew {
		return common.ErrTokenExpired
	}

	sig, err := base58.Decode(signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return fmt.Errorf("%w: malformed signature", common.ErrInvalidToken)
	}
	pub, _ := base58.Decode(wallet)
	if !ed25519.Verify(ed25519.PublicKey(pub), []byte(message), sig) {
		return common.ErrPublicKeyMismatch
	}
	return nil
}
