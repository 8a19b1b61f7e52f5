package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/ports"
	"github.com/golang-jwt/jwt/v5"
)

// HMACTokenVerifier validates HS256 tokens issued for dashboard operators.
type HMACTokenVerifier struct {
	secret []byte
	issuer string
}

func NewHMACTokenVerifier(secret, issuer string) (*HMACTokenVerifier, error) {
	if len(secret) < 16 {
		return nil, errors.New("jwt secret must be at least 16 bytes")
	}
	return &HMACTokenVerifier{secret: []byte(secret), issuer: issuer}, nil
}

type operatorClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Sign issues a token for subject. It is used by tooling and tests.
func (v *HMACTokenVerifier) Sign(claims ports.TokenClaims, ttl time.Duration) (string, error) {
	if strings.TrimSpace(claims.SubjectID) == "" {
		return "", errors.New("subject is required")
	}
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, operatorClaims{
		Role: claims.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.SubjectID,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return token.SignedString(v.secret)
}

func (v *HMACTokenVerifier) Verify(raw string) (ports.TokenClaims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(30 * time.Second),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		options = append(options, jwt.WithIssuer(v.issuer))
	}
	parsed, err := jwt.ParseWithClaims(raw, &operatorClaims{}, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return v.secret, nil
	}, options...)
	if err != nil {
		return ports.TokenClaims{}, err
	}
	claims, ok := parsed.Claims.(*operatorClaims)
	if !ok || !parsed.Valid {
		return ports.TokenClaims{}, errors.New("invalid token claims")
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return ports.TokenClaims{}, errors.New("token has no subject")
	}
	return ports.TokenClaims{
		SubjectID: claims.Subject,
		Role:      strings.ToLower(strings.TrimSpace(claims.Role)),
	}, nil
}
