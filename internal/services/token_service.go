package services

import (
	"fmt"
	"time"

	"shutterdesk/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenIssuer   = "shutterdesk"
	tokenAudience = "shutterdesk-api"
	tokenTTL      = 24 * time.Hour
)

// Identity is what a validated credential asserts about the caller.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

// IdentityClaims is the nested data object inside the token payload.
type IdentityClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// CredentialClaims is the full JWT payload: registered claims plus the
// embedded identity.
type CredentialClaims struct {
	Data IdentityClaims `json:"data"`
	jwt.RegisteredClaims
}

// TokenService mints and verifies the bearer credentials used on every
// protected request. Stateless: tokens are valid until natural expiry and
// logout is client-side discard only.
type TokenService interface {
	Issue(identity Identity) (*models.TokenResponse, error)
	Validate(token string) (*Identity, error)
}

type tokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService fails when the secret is empty so the process cannot start
// with an insecure default.
func NewTokenService(secret string) (TokenService, error) {
	if secret == "" {
		return nil, ErrSigningSecretMissing
	}
	return &tokenService{
		secret: []byte(secret),
		ttl:    tokenTTL,
		now:    time.Now,
	}, nil
}

// Issue mints an HS256 credential expiring exactly one TTL after issuance.
func (s *tokenService) Issue(identity Identity) (*models.TokenResponse, error) {
	now := s.now()
	claims := CredentialClaims{
		Data: IdentityClaims{
			UserID: identity.UserID.String(),
			Email:  identity.Email,
			Role:   identity.Role,
		},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   identity.UserID.String(),
			Audience:  jwt.ClaimStrings{tokenAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign credential: %w", err)
	}

	return &models.TokenResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.ttl.Seconds()),
		UserID:      identity.UserID.String(),
		IssuedAt:    now,
	}, nil
}

// Validate returns the embedded identity or ErrInvalidCredential. Signature
// verification is constant-time inside the HMAC check; expiry is evaluated
// against the service clock. Never panics on malformed input.
func (s *tokenService) Validate(tokenString string) (*Identity, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &CredentialClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}

	claims, ok := parsed.Claims.(*CredentialClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidCredential
	}

	userID, err := uuid.Parse(claims.Data.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidCredential)
	}

	return &Identity{
		UserID: userID,
		Email:  claims.Data.Email,
		Role:   claims.Data.Role,
	}, nil
}
