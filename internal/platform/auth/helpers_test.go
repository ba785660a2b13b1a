package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	testSecret = []byte("test-secret-key-for-unit-tests-only")
	fixedNow   = time.Unix(1_717_000_000, 0)
	errDB      = errors.New("connection reset by peer")
)

func strPtr(s string) *string { return &s }
func int64Ptr(v int64) *int64 { return &v }

func testHasher() *BcryptHasher { return NewBcryptHasher(bcrypt.MinCost) }

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	h, err := testHasher().Hash(plain)
	if err != nil {
		t.Fatalf("hash %q: %v", plain, err)
	}
	return h
}

// seededStore returns a store with drA (id 7, group 3) able to log in with
// password "correct" and API secret "s3cret-a".
func seededStore(t *testing.T) *InMemoryStore {
	t.Helper()
	s := NewInMemoryStore()
	s.AddUser(7, 3, &Profile{
		RUT:            strPtr("12345678-9"),
		CashRegisterID: int64Ptr(11),
		FacilityID:     int64Ptr(3),
		Email:          strPtr(" dra@clinica.cl "),
		PhotoPath:      strPtr("fotos/dra.png"),
	})
	s.AddCredential(7, "drA", mustHash(t, "correct"))
	s.AddSecret(7, mustHash(t, "s3cret-a"))
	return s
}

func newTestIssuer(s *InMemoryStore) *Issuer {
	return NewIssuer(IssuerConfig{
		Profiles: s,
		Sessions: s,
		Hasher:   testHasher(),
		Secret:   testSecret,
		Now:      func() time.Time { return fixedNow },
	})
}

// faultyStore fails every call with err.
type faultyStore struct {
	err error
}

func (f *faultyStore) FindByUsername(context.Context, string) (*Credential, error) { return nil, f.err }
func (f *faultyStore) ListSecrets(context.Context) ([]APISecret, error)            { return nil, f.err }
func (f *faultyStore) GroupByUserID(context.Context, int64) (int64, error)         { return 0, f.err }
func (f *faultyStore) Profile(context.Context, int64) (*Profile, error)            { return nil, f.err }
func (f *faultyStore) Upsert(context.Context, *Session) error                      { return f.err }
func (f *faultyStore) HasSession(context.Context, int64) (bool, error)             { return false, f.err }
func (f *faultyStore) FindToken(context.Context, string) (int64, error)            { return 0, f.err }
func (f *faultyStore) FindActiveToken(context.Context, string, int64) (int64, error) {
	return 0, f.err
}

// countingRecorder records auth outcomes as "stage/outcome".
type countingRecorder struct {
	outcomes []string
}

func (r *countingRecorder) RecordAuthOutcome(stage, outcome string) {
	r.outcomes = append(r.outcomes, stage+"/"+outcome)
}

func (r *countingRecorder) last() string {
	if len(r.outcomes) == 0 {
		return ""
	}
	return r.outcomes[len(r.outcomes)-1]
}

// countingHasher counts Hash calls on top of a real bcrypt hasher.
type countingHasher struct {
	*BcryptHasher
	hashes int
}

func (h *countingHasher) Hash(plain string) (string, error) {
	h.hashes++
	return h.BcryptHasher.Hash(plain)
}
