package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the lifetime of an issued bearer token.
const TokenTTL = 3600 * time.Second

// TokenClaims is the JWT payload: iat, exp, id and email_user.
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID    int64  `json:"id"`
	EmailUser string `json:"email_user"`
}

// AuthResult is the principal projection returned by a successful login.
type AuthResult struct {
	UserID         int64   `json:"user_id"`
	UserRUT        *string `json:"user_rut"`
	UserEmail      string  `json:"user_email"`
	UserGroup      int64   `json:"user_group"`
	CashRegisterID *int64  `json:"cash_register_id"`
	FacilityID     *int64  `json:"facility_id"`
	UserPhoto      *string `json:"user_photo"`
	Token          string  `json:"token"`
	TokenExp       int64   `json:"token_exp"`
}

// ProfileReader loads the profile of a verified user.
type ProfileReader interface {
	Profile(ctx context.Context, userID int64) (*Profile, error)
}

type IssuerConfig struct {
	Profiles ProfileReader
	Sessions SessionStore
	Hasher   Hasher
	Secret   []byte
	// Now defaults to time.Now.
	Now func() time.Time
}

// Issuer mints bearer tokens and records them as the user's active session.
type Issuer struct {
	profiles ProfileReader
	sessions SessionStore
	hasher   Hasher
	secret   []byte
	now      func() time.Time
	validate *validator.Validate
}

func NewIssuer(cfg IssuerConfig) *Issuer {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Issuer{
		profiles: cfg.Profiles,
		sessions: cfg.Sessions,
		hasher:   cfg.Hasher,
		secret:   cfg.Secret,
		now:      now,
		validate: validator.New(),
	}
}

// Issue signs a token for id, upserts it as the user's session and builds
// the response projection. Photo paths are prefixed with photoBaseURL.
func (i *Issuer) Issue(ctx context.Context, id *Identity, photoBaseURL string) (*AuthResult, error) {
	if id == nil || id.Material == nil {
		return nil, errors.New("issue token: identity without material")
	}

	profile, err := i.profiles.Profile(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("issue token: %w", err)
	}

	email := ""
	if profile.Email != nil {
		email = strings.TrimSpace(*profile.Email)
	}
	if err := i.validate.Var(email, "required,email"); err != nil {
		return nil, ErrInvalidEmail
	}

	issuedAt := i.now().Truncate(time.Second)
	expiresAt := issuedAt.Add(TokenTTL)

	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID:    id.UserID,
		EmailUser: email,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	// The upsert keeps the stored hash of an existing row and rows are never
	// deleted, so the bcrypt work is only done for a first session.
	exists, err := i.sessions.HasSession(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	var stored string
	if !exists {
		stored, err = id.Material.storedHash(i.hasher)
		if err != nil {
			return nil, fmt.Errorf("hash session material: %w", err)
		}
	}

	sess := &Session{
		UserID:     id.UserID,
		Email:      email,
		Token:      token,
		ExpiresAt:  expiresAt.Unix(),
		StoredHash: stored,
	}
	if err := i.sessions.Upsert(ctx, sess); err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	var photo *string
	if profile.PhotoPath != nil && *profile.PhotoPath != "" {
		p := photoBaseURL + *profile.PhotoPath
		photo = &p
	}

	return &AuthResult{
		UserID:         id.UserID,
		UserRUT:        profile.RUT,
		UserEmail:      email,
		UserGroup:      id.Group,
		CashRegisterID: profile.CashRegisterID,
		FacilityID:     profile.FacilityID,
		UserPhoto:      photo,
		Token:          token,
		TokenExp:       sess.ExpiresAt,
	}, nil
}
