// Package auth reads the membership claim from access tokens issued by the
// identity provider.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/nuudash/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the registered claims plus the membership tier.
type Claims struct {
	jwt.RegisteredClaims
	Membership string `json:"membership,omitempty"`
}

// GenerateToken issues an HS256 token for subject with the given membership.
func GenerateToken(subject, membership string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		Membership: membership,
	})

	return token.SignedString(secretKey)
}

// MembershipFromToken returns the token's membership claim. With a secret
// the HS256 signature is verified; without one the payload is only decoded,
// which is all a client of a remote identity provider can do. Expiry is
// checked in both cases.
func MembershipFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	if len(secretKey) == 0 {
		if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
			return "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
		}
		if claims.ExpiresAt != nil && time.Now().After(claims.ExpiresAt.Time) {
			return "", common.ErrTokenExpired
		}
		return claims.Membership, nil
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	return claims.Membership, nil
}
