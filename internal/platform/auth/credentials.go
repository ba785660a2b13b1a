package auth

import (
	"context"
	"errors"
	"fmt"
)

// Material is the hash stored with a user's first session row. It is sealed:
// the only implementations are built by PasswordMaterial and SecretMaterial.
type Material interface {
	storedHash(h Hasher) (string, error)
}

type passwordMaterial struct{ plain string }

func (m passwordMaterial) storedHash(h Hasher) (string, error) { return h.Hash(m.plain) }

type secretMaterial struct{ hash string }

func (m secretMaterial) storedHash(Hasher) (string, error) { return m.hash, nil }

// PasswordMaterial stores a fresh hash of the plaintext password.
func PasswordMaterial(plain string) Material { return passwordMaterial{plain: plain} }

// SecretMaterial stores the already hashed API secret that matched.
func SecretMaterial(hash string) Material { return secretMaterial{hash: hash} }

// Identity is a verified principal ready for token issuance.
type Identity struct {
	UserID   int64
	Group    int64
	Material Material
}

// Verifier checks login material against the stored hashes.
type Verifier struct {
	store  PrincipalStore
	hasher Hasher
}

func NewVerifier(store PrincipalStore, hasher Hasher) *Verifier {
	return &Verifier{store: store, hasher: hasher}
}

// VerifyCredentials authenticates a username and plaintext password.
func (v *Verifier) VerifyCredentials(ctx context.Context, username, password string) (*Identity, error) {
	cred, err := v.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidUsername
		}
		return nil, fmt.Errorf("verify credentials: %w", err)
	}

	if !v.hasher.Compare(cred.PasswordHash, password) {
		return nil, ErrInvalidPassword
	}

	return &Identity{
		UserID:   cred.UserID,
		Group:    cred.Group,
		Material: PasswordMaterial(password),
	}, nil
}

// VerifyAPISecret authenticates an API secret. Stored hashes are compared in
// store order and the first match wins.
func (v *Verifier) VerifyAPISecret(ctx context.Context, secret string) (*Identity, error) {
	secrets, err := v.store.ListSecrets(ctx)
	if err != nil {
		return nil, fmt.Errorf("verify api secret: %w", err)
	}

	var match *APISecret
	for i := range secrets {
		if v.hasher.Compare(secrets[i].Hash, secret) {
			match = &secrets[i]
			break
		}
	}
	if match == nil {
		return nil, ErrInvalidAPISecret
	}

	group, err := v.store.GroupByUserID(ctx, match.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("verify api secret: %w", err)
	}

	return &Identity{
		UserID:   match.UserID,
		Group:    group,
		Material: SecretMaterial(match.Hash),
	}, nil
}
