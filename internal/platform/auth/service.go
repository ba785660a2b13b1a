package auth

import (
	"context"

	"github.com/rs/zerolog"
)

// OutcomeRecorder counts authentication outcomes by stage (login, token,
// api_key) and outcome label.
type OutcomeRecorder interface {
	RecordAuthOutcome(stage, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) RecordAuthOutcome(string, string) {}

func recorderOrNop(r OutcomeRecorder) OutcomeRecorder {
	if r == nil {
		return nopRecorder{}
	}
	return r
}

// LoginInput is the trimmed material of a login request.
type LoginInput struct {
	Username  string
	Password  string
	APISecret string
}

func (in LoginInput) hasCredentials() bool { return in.Username != "" && in.Password != "" }

// Service runs the login flow: pick the mode, verify, issue.
type Service struct {
	verifier *Verifier
	issuer   *Issuer
	logger   zerolog.Logger
	recorder OutcomeRecorder
}

func NewService(verifier *Verifier, issuer *Issuer, logger zerolog.Logger, recorder OutcomeRecorder) *Service {
	return &Service{
		verifier: verifier,
		issuer:   issuer,
		logger:   logger,
		recorder: recorderOrNop(recorder),
	}
}

// Login authenticates in by credentials when both username and password are
// present, otherwise by API secret. Expected failures are *Failure values;
// ErrMissingCredentials means neither mode applies.
func (s *Service) Login(ctx context.Context, in LoginInput, photoBaseURL string) (*AuthResult, error) {
	var (
		id  *Identity
		err error
	)
	switch {
	case in.hasCredentials():
		s.logger.Info().Str("username", in.Username).Msg("login attempt with credentials")
		id, err = s.verifier.VerifyCredentials(ctx, in.Username, in.Password)
	case in.APISecret != "":
		s.logger.Info().Msg("login attempt with api secret")
		id, err = s.verifier.VerifyAPISecret(ctx, in.APISecret)
	default:
		s.recorder.RecordAuthOutcome("login", "missing_credentials")
		return nil, ErrMissingCredentials
	}

	var result *AuthResult
	if err == nil {
		result, err = s.issuer.Issue(ctx, id, photoBaseURL)
	}

	if err != nil {
		if f, ok := AsFailure(err); ok {
			s.logger.Warn().Str("username", in.Username).Str("reason", f.Reason).Msg("login failed")
			s.recorder.RecordAuthOutcome("login", f.Outcome)
			return nil, err
		}
		s.logger.Error().Err(err).Str("username", in.Username).Msg("login error")
		s.recorder.RecordAuthOutcome("login", "error")
		return nil, err
	}

	s.recorder.RecordAuthOutcome("login", "ok")
	return result, nil
}
