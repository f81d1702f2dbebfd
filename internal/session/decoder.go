package session

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// DecodeToken parses a bearer token's payload into Claims without any network
// call and without verifying the cryptographic signature. The backend is the
// trust boundary: it only ever issues tokens it signed, and the privileged
// pages re-confirm with it anyway. What matters here is recovering role,
// dashboard assignment, username and expiry from the payload segment.
//
// Returns ErrMalformedToken when the string does not split into the expected
// three-part shape or its payload is not valid claims data.
func DecodeToken(token string) (*Claims, error) {
	parser := jwt.NewParser()

	payload := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	claims := &Claims{
		Username:  stringClaim(payload, "username"),
		Role:      Role(stringClaim(payload, "role")),
		Dashboard: stringClaim(payload, "dashboard"),
	}

	exp, err := payload.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("%w: bad exp claim: %v", ErrMalformedToken, err)
	}
	if exp != nil {
		claims.ExpiresAt = exp.Unix()
	}

	return claims, nil
}

// stringClaim reads a string-typed claim, tolerating absence and null.
// Non-string values are treated as absent rather than failing the decode;
// the resolver's shape checks decide whether the result is usable.
func stringClaim(payload jwt.MapClaims, key string) string {
	v, ok := payload[key].(string)
	if !ok {
		return ""
	}
	return v
}
