package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Decode failures. Expired is a normal end of life; the others suggest tampering.
var (
	ErrTokenMalformed    = errors.New("token is malformed")
	ErrTokenUnsupported  = errors.New("token signing method is not supported")
	ErrTokenBadSignature = errors.New("token signature is invalid")
	ErrTokenExpired      = errors.New("token has expired")
)

// Claims represents the JWT claims. Subject carries the username.
type Claims struct {
	Role   string `json:"role"`
	UserID uint   `json:"userId"`
	jwt.RegisteredClaims
}

// Codec issues and verifies HS256 bearer tokens
type Codec struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// Option configures a Codec
type Option func(*Codec)

// WithClock replaces the time source
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		if now != nil {
			c.now = now
		}
	}
}

// WithIssuer sets the iss claim on issued tokens
func WithIssuer(issuer string) Option {
	return func(c *Codec) {
		c.issuer = issuer
	}
}

// NewCodec creates a codec signing with secret and issuing tokens valid for ttl
func NewCodec(secret string, ttl time.Duration, opts ...Option) *Codec {
	c := &Codec{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Issue generates a signed token for the given identity
func (c *Codec) Issue(subject, role string, userID uint) (string, error) {
	now := c.now()
	claims := Claims{
		Role:   role,
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Decode verifies signature and expiry and returns the claims
func (c *Codec) Decode(tokenString string) (*Claims, error) {
	return c.parse(tokenString, jwt.WithTimeFunc(c.now), jwt.WithExpirationRequired())
}

// IsValid reports whether the signature verifies and now is before expiry
func (c *Codec) IsValid(tokenString string) bool {
	_, err := c.Decode(tokenString)
	return err == nil
}

// IsExpired reports whether now >= expiry.
// A token that fails to decode is reported as not expired; callers must treat
// decode failure as invalid separately.
func (c *Codec) IsExpired(tokenString string) bool {
	claims, err := c.parse(tokenString, jwt.WithoutClaimsValidation())
	if err != nil || claims.ExpiresAt == nil {
		return false
	}
	return !c.now().Before(claims.ExpiresAt.Time)
}

// RemainingLifetime returns expiry minus now, truncated to whole minutes.
// For display only.
func (c *Codec) RemainingLifetime(tokenString string) (time.Duration, error) {
	claims, err := c.parse(tokenString, jwt.WithoutClaimsValidation())
	if err != nil {
		return 0, err
	}
	if claims.ExpiresAt == nil {
		return 0, ErrTokenMalformed
	}
	return claims.ExpiresAt.Time.Sub(c.now()).Truncate(time.Minute), nil
}

func (c *Codec) parse(tokenString string, opts ...jwt.ParserOption) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrTokenMalformed
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenUnsupported
		}
		return c.secret, nil
	}, opts...)

	if err != nil {
		return nil, classify(err)
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrTokenMalformed
}

func classify(err error) error {
	switch {
	case errors.Is(err, ErrTokenUnsupported):
		return ErrTokenUnsupported
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrTokenBadSignature
	default:
		return ErrTokenMalformed
	}
}
