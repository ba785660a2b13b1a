package auth

import "errors"

// Failure is an expected authentication outcome. Reason is the text returned
// to the client; Outcome is the stable label used for logs and metrics.
type Failure struct {
	Outcome string
	Reason  string
}

func (f *Failure) Error() string { return f.Reason }

// Login failures. Compare with errors.Is.
var (
	ErrInvalidUsername   = &Failure{Outcome: "invalid_username", Reason: "Nombre de usuario inválido"}
	ErrInvalidPassword   = &Failure{Outcome: "invalid_password", Reason: "Contraseña inválida"}
	ErrInvalidAPISecret  = &Failure{Outcome: "invalid_api_secret", Reason: "API Secret inválida"}
	ErrPrincipalNotFound = &Failure{Outcome: "principal_not_found", Reason: "Usuario asociado a API Secret no encontrado"}
	ErrProfileNotFound   = &Failure{Outcome: "profile_not_found", Reason: "Datos de usuario no encontrados"}
	ErrInvalidEmail      = &Failure{Outcome: "invalid_email", Reason: "Email inválido"}
)

// ErrMissingCredentials is returned when a login request carries neither a
// username/password pair nor an API secret.
var ErrMissingCredentials = errors.New(`Se requiere "username"/"password" o "API_SECRET".`)

// ErrNotFound is returned by stores when a lookup matches no row.
var ErrNotFound = errors.New("auth: record not found")

// AsFailure extracts a *Failure from err.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
