package comet

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// signedTokenClaims is the payload of a WithSignedTokens channel token.
// It carries nothing the wire protocol inspects — sub and sign still
// compare tokens byte-for-byte — but lets an operator verify a token's
// provenance offline without consulting the core.
type signedTokenClaims struct {
	CName string `json:"cname"`
	jwt.RegisteredClaims
}

// mintSignedToken builds and signs a JWT for cname, expiring after
// expires seconds (or ChannelTimeout when expires <= 0), using
// HMAC-SHA256 with the secret supplied to WithSignedTokens.
func (c *Core) mintSignedToken(cname string, expires int) string {
	if expires <= 0 {
		expires = c.cfg.ChannelTimeout
	}
	claims := signedTokenClaims{
		CName: cname,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(expires) * time.Second)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString(c.cfg.tokenSecret)
	if err != nil {
		// secret is operator-supplied and fixed at startup; a signing
		// failure here means it is malformed, not a per-request fault.
		panic("comet: signed token minting failed: " + err.Error())
	}
	return s
}
