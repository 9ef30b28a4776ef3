// Package auth mints and verifies the bearer tokens used by the API.
package auth

import (
	"context"
	"net/url"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/andrewpaige1/lernkarten-api/config"
)

// Issuer and Audience of locally signed HS256 tokens.
const (
	Issuer   = "lernkarten-api"
	Audience = "lernkarten-api"
)

// CustomClaims are the non-registered claims read from a token.
type CustomClaims struct {
	Nickname string `json:"nickname"`
}

// Validate does nothing; the nickname is optional.
func (c *CustomClaims) Validate(ctx context.Context) error {
	return nil
}

type tokenClaims struct {
	Nickname string `json:"nickname,omitempty"`
	jwt.RegisteredClaims
}

// CreateToken signs an HS256 token for subject that expires after ttl.
func CreateToken(secret, subject, nickname string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("auth: signing secret is empty")
	}
	if subject == "" {
		return "", errors.New("auth: subject is empty")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Nickname: nickname,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   subject,
			Audience:  jwt.ClaimStrings{Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", errors.Wrap(err, "auth: sign token")
	}
	return signed, nil
}

// NewValidator verifies Auth0 RS256 tokens when cfg.Domain is set and
// locally signed HS256 tokens otherwise.
func NewValidator(cfg config.AuthConfig) (*validator.Validator, error) {
	opts := []validator.Option{
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &CustomClaims{}
		}),
		validator.WithAllowedClockSkew(time.Minute),
	}

	if cfg.Domain != "" {
		issuerURL, err := url.Parse("https://" + cfg.Domain + "/")
		if err != nil {
			return nil, errors.Wrap(err, "auth: parse issuer url")
		}
		provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)

		v, err := validator.New(provider.KeyFunc, validator.RS256, issuerURL.String(), []string{cfg.Audience}, opts...)
		if err != nil {
			return nil, errors.Wrap(err, "auth: set up auth0 validator")
		}
		return v, nil
	}

	if cfg.Secret == "" {
		return nil, errors.New("auth: neither auth0 domain nor signing secret configured")
	}
	secret := []byte(cfg.Secret)
	keyFunc := func(ctx context.Context) (interface{}, error) {
		return secret, nil
	}

	v, err := validator.New(keyFunc, validator.HS256, Issuer, []string{Audience}, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "auth: set up hs256 validator")
	}
	return v, nil
}
