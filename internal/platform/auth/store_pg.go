package auth

import (
	"context"
	"fmt"

	"github.com/ehr/records/internal/platform/db"
)

// PGStore implements PrincipalStore and SessionStore on PostgreSQL. The user
// tables are read-only; only users_token is written.
type PGStore struct {
	q db.Querier
}

// NewPGStore creates a store over q.
func NewPGStore(q db.Querier) *PGStore {
	return &PGStore{q: q}
}

const (
	sqlCredentialByUsername = `SELECT uc.id, uc.username, uc.password, u.user_group
		FROM users_secure uc
		INNER JOIN users u ON uc.id = u.id
		WHERE uc.username = $1`

	sqlListSecrets = `SELECT user_id, api_secret_hash FROM users_secret ORDER BY id`

	sqlGroupByUserID = `SELECT user_group FROM users WHERE id = $1`

	sqlProfile = `SELECT u.federaltaxid, fac.id, uf.fk_facility, u.email, u.urlfoto
		FROM users u
		LEFT JOIN facility_cajas fac ON u.id = fac.id_user
		LEFT JOIN users_facility uf ON u.id = uf.fk_user
		WHERE u.id = $1
		LIMIT 1`

	sqlUpsertSession = `INSERT INTO users_token (id_user, email_user, token, token_exp, password_user)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id_user) DO UPDATE SET token = EXCLUDED.token, token_exp = EXCLUDED.token_exp`

	sqlHasSession = `SELECT EXISTS (SELECT 1 FROM users_token WHERE id_user = $1)`

	sqlFindToken = `SELECT id_user FROM users_token WHERE token = $1`

	sqlFindActiveToken = `SELECT id_user FROM users_token WHERE token = $1 AND token_exp > $2`
)

func (s *PGStore) FindByUsername(ctx context.Context, username string) (*Credential, error) {
	var c Credential
	err := s.q.QueryRow(ctx, sqlCredentialByUsername, username).
		Scan(&c.UserID, &c.Username, &c.PasswordHash, &c.Group)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find credential: %w", err)
	}
	return &c, nil
}

func (s *PGStore) ListSecrets(ctx context.Context) ([]APISecret, error) {
	rows, err := s.q.Query(ctx, sqlListSecrets)
	if err != nil {
		return nil, fmt.Errorf("list api secrets: %w", err)
	}
	defer rows.Close()

	var secrets []APISecret
	for rows.Next() {
		var sec APISecret
		if err := rows.Scan(&sec.UserID, &sec.Hash); err != nil {
			return nil, fmt.Errorf("scan api secret: %w", err)
		}
		secrets = append(secrets, sec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate api secrets: %w", err)
	}
	return secrets, nil
}

func (s *PGStore) GroupByUserID(ctx context.Context, userID int64) (int64, error) {
	var group int64
	if err := s.q.QueryRow(ctx, sqlGroupByUserID, userID).Scan(&group); err != nil {
		if db.IsNoRows(err) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("find user group: %w", err)
	}
	return group, nil
}

func (s *PGStore) Profile(ctx context.Context, userID int64) (*Profile, error) {
	var p Profile
	err := s.q.QueryRow(ctx, sqlProfile, userID).
		Scan(&p.RUT, &p.CashRegisterID, &p.FacilityID, &p.Email, &p.PhotoPath)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return &p, nil
}

func (s *PGStore) Upsert(ctx context.Context, sess *Session) error {
	err := s.q.Exec(ctx, sqlUpsertSession,
		sess.UserID, sess.Email, sess.Token, sess.ExpiresAt, sess.StoredHash)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

func (s *PGStore) HasSession(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	if err := s.q.QueryRow(ctx, sqlHasSession, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("probe session: %w", err)
	}
	return exists, nil
}

func (s *PGStore) FindToken(ctx context.Context, token string) (int64, error) {
	return s.findUser(ctx, sqlFindToken, token)
}

func (s *PGStore) FindActiveToken(ctx context.Context, token string, now int64) (int64, error) {
	return s.findUser(ctx, sqlFindActiveToken, token, now)
}

func (s *PGStore) findUser(ctx context.Context, query string, args ...any) (int64, error) {
	var userID int64
	if err := s.q.QueryRow(ctx, query, args...).Scan(&userID); err != nil {
		if db.IsNoRows(err) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("find token: %w", err)
	}
	return userID, nil
}
