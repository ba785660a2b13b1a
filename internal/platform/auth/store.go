package auth

import "context"

// Credential is the username/password row joined with the user's group.
type Credential struct {
	UserID       int64
	Username     string
	PasswordHash string
	Group        int64
}

// APISecret is a stored secret hash and the user it belongs to.
type APISecret struct {
	UserID int64
	Hash   string
}

// Profile is the denormalized user data returned on login. Every field but
// Email may be absent in the clinical database.
type Profile struct {
	RUT            *string
	CashRegisterID *int64
	FacilityID     *int64
	Email          *string
	PhotoPath      *string
}

// Session is the single active-token row kept per user in users_token.
// ExpiresAt is in unix seconds.
type Session struct {
	UserID     int64
	Email      string
	Token      string
	ExpiresAt  int64
	StoredHash string
}

// PrincipalStore reads the user tables. Lookups that match no row return
// ErrNotFound.
type PrincipalStore interface {
	FindByUsername(ctx context.Context, username string) (*Credential, error)
	// ListSecrets returns every stored API secret in store order.
	ListSecrets(ctx context.Context) ([]APISecret, error)
	GroupByUserID(ctx context.Context, userID int64) (int64, error)
	Profile(ctx context.Context, userID int64) (*Profile, error)
}

// SessionStore persists issued tokens.
type SessionStore interface {
	// Upsert inserts the session or, when the user already has one, replaces
	// its token and expiry in a single statement. Email and StoredHash are
	// only written on insert.
	Upsert(ctx context.Context, s *Session) error
	// HasSession reports whether userID already has a users_token row.
	HasSession(ctx context.Context, userID int64) (bool, error)
	TokenLookup
}

// TokenLookup is the read side used by the token validator. Both methods
// return the owning user id or ErrNotFound.
type TokenLookup interface {
	FindToken(ctx context.Context, token string) (int64, error)
	// FindActiveToken matches only when token_exp > now.
	FindActiveToken(ctx context.Context, token string, now int64) (int64, error)
}
