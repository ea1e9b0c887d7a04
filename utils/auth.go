package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/tidwall/gjson"
)

var ErrMalformedToken = errors.New("malformed access token")

// TokenClaims is the subset of access token claims the client relies on.
type TokenClaims struct {
	jwt.RegisteredClaims
}

// ParseTokenClaims decodes the payload segment of a JWT without verifying its
// signature. The token must carry an exp claim.
func ParseTokenClaims(token string) (*TokenClaims, error) {
	if strings.Count(token, ".") != 2 {
		return nil, ErrMalformedToken
	}

	claims := &TokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing exp claim", ErrMalformedToken)
	}

	return claims, nil
}

// ClaimString reads an arbitrary claim from the unverified payload.
func ClaimString(token, path string) string {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return ""
	}
	payload, err := jwt.NewParser().DecodeSegment(parts[1])
	if err != nil {
		return ""
	}
	return gjson.GetBytes(payload, path).String()
}

func BearerHeader(token string) string {
	return "Bearer " + token
}

// TokenFromHeader strips a case-insensitive "Bearer " prefix.
func TokenFromHeader(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
