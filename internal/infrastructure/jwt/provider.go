package jwtinfra

import (
	"errors"
	"time"

	"github.com/go-otp-auth/internal/config"
	"github.com/go-otp-auth/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// Claims holds the JWT payload fields. The subject is the user's phone number.
type Claims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// Provider signs and validates HS256 session tokens with a single symmetric
// secret loaded at startup. Tokens are stateless: there is no store and no
// server-side revocation, they simply expire.
type Provider struct {
	secret []byte
	expiry time.Duration
}

func NewProvider(cfg *config.Config) (*Provider, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	return &Provider{secret: []byte(cfg.JWTSecret), expiry: cfg.JWTExpiry}, nil
}

// Issue creates a signed token for the user with sub, iat, exp and roles
// claims. Two calls for the same user differ because iat/exp move.
func (p *Provider) Issue(u *domain.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Roles: u.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.PhoneNumber,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

// Validate reports whether the token is well-formed, carries a valid
// signature and has not expired. It never returns an error; any failure —
// malformed, tampered or expired — is simply false. There is no clock-skew
// leeway: exp is compared against the current time as-is.
func (p *Provider) Validate(tokenStr string) bool {
	_, err := p.parseClaims(tokenStr)
	return err == nil
}

// ExtractSubject returns the phone number embedded in the token's sub claim.
// Callers must have confirmed Validate(tokenStr) first; for anything that
// fails validation the result is the empty string.
func (p *Provider) ExtractSubject(tokenStr string) string {
	claims, err := p.parseClaims(tokenStr)
	if err != nil {
		return ""
	}
	return claims.Subject
}

// ExtractRoles returns the roles claim, with the same precondition as
// ExtractSubject.
func (p *Provider) ExtractRoles(tokenStr string) []string {
	claims, err := p.parseClaims(tokenStr)
	if err != nil {
		return nil
	}
	return claims.Roles
}

func (p *Provider) parseClaims(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
