package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrTokenInvalid covers every decode failure: bad signature, malformed input,
// expiry, missing subject, wrong purpose. The underlying jwt error stays wrapped.
var ErrTokenInvalid = errors.New("security: token invalid")

// Claims is the payload of access and refresh tokens. Subject carries the user id.
type Claims struct {
	Email string `json:"email,omitempty"`
	Type  string `json:"typ"`
	jwt.RegisteredClaims
}

func NewClaims(subject string, email string, tokenType string) Claims {
	return Claims{
		Email:            email,
		Type:             tokenType,
		RegisteredClaims: jwt.RegisteredClaims{Subject: subject},
	}
}

type TokenCodec struct {
	secret []byte
	method *jwt.SigningMethodHMAC
	now    func() time.Time
}

type CodecOption func(*TokenCodec)

// WithClock replaces time.Now for both issuing and expiry checks.
func WithClock(now func() time.Time) CodecOption {
	return func(c *TokenCodec) {
		if now != nil {
			c.now = now
		}
	}
}

// NewTokenCodec accepts the HMAC algorithms only (HS256, HS384, HS512).
func NewTokenCodec(secret string, algorithm string, opts ...CodecOption) (*TokenCodec, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("token signing secret is required")
	}

	if strings.TrimSpace(algorithm) == "" {
		algorithm = jwt.SigningMethodHS256.Alg()
	}
	method, ok := jwt.GetSigningMethod(strings.ToUpper(strings.TrimSpace(algorithm))).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported token algorithm %q", algorithm)
	}

	codec := &TokenCodec{secret: []byte(secret), method: method, now: time.Now}
	for _, opt := range opts {
		opt(codec)
	}
	return codec, nil
}

func (c *TokenCodec) Algorithm() string {
	return c.method.Alg()
}

// Encode stamps iat, exp (now + ttl) and a jti when absent, then signs.
func (c *TokenCodec) Encode(claims Claims, ttl time.Duration) (string, error) {
	if strings.TrimSpace(claims.Subject) == "" {
		return "", errors.New("encode token: subject is required")
	}

	now := c.now().UTC()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}

	signed, err := jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies signature and expiry. A non-empty expectedType must match the typ claim.
func (c *TokenCodec) Decode(tokenString string, expectedType string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims,
		func(_ *jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}
	if !parsed.Valid {
		return nil, ErrTokenInvalid
	}

	if strings.TrimSpace(claims.Subject) == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}
	if expectedType != "" && claims.Type != expectedType {
		return nil, fmt.Errorf("%w: unexpected token type %q", ErrTokenInvalid, claims.Type)
	}

	return claims, nil
}
