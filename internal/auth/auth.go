package auth

import (
	"crypto/subtle"

	"shoplens/internal/config"
	"shoplens/internal/errors"
)

type account struct {
	password string
	role     Role
}

// Authenticator checks credentials against the configured table, loaded once
// at process start.
type Authenticator struct {
	accounts map[string]account
}

// NewAuthenticator builds the credential table from config. Every configured
// role string must parse; a typo in DASHBOARD_USERS fails startup rather
// than silently locking a user out.
func NewAuthenticator(cfg config.AuthConfig) (*Authenticator, error) {
	accounts := make(map[string]account, len(cfg.Credentials))
	for _, cred := range cfg.Credentials {
		role, err := ParseRole(cred.Role)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid role for user %s", cred.Username)
		}
		accounts[cred.Username] = account{password: cred.Password, role: role}
	}
	return &Authenticator{accounts: accounts}, nil
}

// Authenticate returns the user's role on success. Failure is a plain
// Unauthorized error, surfaced to the user; the session stays
// unauthenticated.
func (a *Authenticator) Authenticate(username, password string) (Role, error) {
	acct, ok := a.accounts[username]
	if !ok || subtle.ConstantTimeCompare([]byte(acct.password), []byte(password)) != 1 {
		return "", errors.Unauthorized("invalid username or password")
	}
	return acct.role, nil
}
