package service

import (
	"fmt"
	"time"

	"sui-transfer-gateway/internal/core/domain"
	"sui-transfer-gateway/internal/core/ports"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTSessionTokens implements ports.SessionTokens using HS256 JWT.
type JWTSessionTokens struct {
	secret []byte
	expiry time.Duration
	issuer string
	now    func() time.Time
}

// NewJWTSessionTokens creates a new JWT session token service.
func NewJWTSessionTokens(secret string, expiry time.Duration, issuer string) *JWTSessionTokens {
	return &JWTSessionTokens{
		secret: []byte(secret),
		expiry: expiry,
		issuer: issuer,
		now:    time.Now,
	}
}

// Issue creates a signed session token for account on network.
func (s *JWTSessionTokens) Issue(account domain.Address, network domain.Network) (string, *ports.SessionClaims, error) {
	now := s.now()
	expiresAt := now.Add(s.expiry)
	tokenID := uuid.NewString()

	claims := jwt.MapClaims{
		"sub": account.String(),
		"net": string(network),
		"jti": tokenID,
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
		"iss": s.issuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("signing token: %w", err)
	}

	return tokenString, &ports.SessionClaims{
		TokenID:   tokenID,
		Account:   account,
		Network:   network,
		ExpiresAt: time.Unix(expiresAt.Unix(), 0),
	}, nil
}

// Parse validates a session token and returns its claims.
func (s *JWTSessionTokens) Parse(tokenString string) (*ports.SessionClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, fmt.Errorf("missing subject claim")
	}
	jti, _ := claims["jti"].(string)
	if jti == "" {
		return nil, fmt.Errorf("missing token id claim")
	}
	network, _ := claims["net"].(string)

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, fmt.Errorf("missing expiry claim")
	}

	return &ports.SessionClaims{
		TokenID:   jti,
		Account:   domain.Address(sub),
		Network:   domain.Network(network),
		ExpiresAt: exp.Time,
	}, nil
}
