// Package auth verifies administrator credentials.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotConfigured      = errors.New("no admin password configured")
)

type User struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Verifier checks a login attempt. Implementations may call out to an
// identity provider, so they take a context.
type Verifier interface {
	Verify(ctx context.Context, email, password string) (User, error)
}

// StaticVerifier accepts the single configured administrator.
type StaticVerifier struct {
	user          User
	passwordHash  []byte
	plainPassword string
}

// NewStaticVerifier prefers a bcrypt hash. The plain password is a
// development fallback and is used only when no hash is configured.
func NewStaticVerifier(email, name, passwordHash, plainPassword string) (*StaticVerifier, error) {
	if passwordHash == "" && plainPassword == "" {
		return nil, ErrNotConfigured
	}
	if passwordHash != "" {
		if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
			return nil, err
		}
		plainPassword = ""
	}
	return &StaticVerifier{
		user:          User{Email: strings.ToLower(strings.TrimSpace(email)), Name: name},
		passwordHash:  []byte(passwordHash),
		plainPassword: plainPassword,
	}, nil
}

func (v *StaticVerifier) Verify(_ context.Context, email, password string) (User, error) {
	emailOK := subtle.ConstantTimeCompare(
		[]byte(strings.ToLower(strings.TrimSpace(email))),
		[]byte(v.user.Email),
	) == 1

	var passwordOK bool
	if len(v.passwordHash) > 0 {
		passwordOK = bcrypt.CompareHashAndPassword(v.passwordHash, []byte(password)) == nil
	} else {
		passwordOK = subtle.ConstantTimeCompare([]byte(password), []byte(v.plainPassword)) == 1
	}

	if !emailOK || !passwordOK {
		return User{}, ErrInvalidCredentials
	}
	return v.user, nil
}
