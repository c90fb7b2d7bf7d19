package auth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// apiClaims are the claims read from management API tokens.
type apiClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// JWTValidator validates RS256 bearer tokens against the keys published at a JWKS URL.
type JWTValidator struct {
	keys   *keySet
	parser *jwt.Parser
}

// NewJWTValidator creates a validator. Empty issuer or audience are not checked.
func NewJWTValidator(jwksURL, issuer, audience string) *JWTValidator {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"RS256", "RS384", "RS512"}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}
	return &JWTValidator{
		keys:   newKeySet(jwksURL),
		parser: jwt.NewParser(opts...),
	}
}

// ValidateToken checks the signature and registered claims of token and returns its principal.
func (v *JWTValidator) ValidateToken(ctx context.Context, token string) (*Principal, error) {
	var claims apiClaims
	_, err := v.parser.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, fmt.Errorf("missing kid in token header")
		}
		return v.keys.lookup(ctx, kid)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	return &Principal{Subject: claims.Subject, Email: claims.Email}, nil
}

// IsConfigured reports whether a JWKS URL was supplied.
func (v *JWTValidator) IsConfigured() bool {
	return v.keys.url != ""
}
