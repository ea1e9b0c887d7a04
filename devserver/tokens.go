package devserver

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	salonmw "github.com/octabyte/salon-gommon/interfaces/http/echo/middleware"
	"github.com/octabyte/salon-gommon/models"
)

type issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

type refreshGrant struct {
	userID    int64
	expiresAt time.Time
}

func (i *issuer) accessToken(user models.User) (string, error) {
	tokenID, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("error generating token ID: %w", err)
	}

	now := i.now()
	claims := salonmw.SessionClaims{
		User: user,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID.String(),
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.accessTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("error signing token: %w", err)
	}
	return signed, nil
}

// refreshToken returns an opaque token and the grant to store under its hash.
func (i *issuer) refreshToken(userID int64) (string, refreshGrant, error) {
	raw, err := uuid.NewRandom()
	if err != nil {
		return "", refreshGrant{}, fmt.Errorf("error generating refresh token: %w", err)
	}
	return raw.String(), refreshGrant{userID: userID, expiresAt: i.now().Add(i.refreshTTL)}, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
