package auth

import (
	"context"
	"errors"
)

var (
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type User struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	Hash      []byte
	Role      string
	Provider  string // empty for password accounts
}

type UserStore interface {
	Create(ctx context.Context, u User, password string) error
	Verify(ctx context.Context, email, password string) (User, error)
	GetByID(ctx context.Context, id string) (User, bool, error)
	// UpsertSocial returns the existing account for the email when there is
	// one, creating a password-less account otherwise.
	UpsertSocial(ctx context.Context, u User) (User, error)
	Ping(ctx context.Context) error
}
