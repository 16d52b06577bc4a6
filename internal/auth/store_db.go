package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
	pgUniqueCode = "23505"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *PostgresStore) Create(ctx context.Context, u User, password string) error {
	email := strings.ToLower(strings.TrimSpace(u.Email))

	hash, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(password)), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO users (id, email, first_name, last_name, pass_hash, role, provider)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, u.ID, email, u.FirstName, u.LastName, hash, u.Role, u.Provider)

		if err == nil {
			return nil
		}
		if isUniqueViolation(err) {
			return ErrEmailExists
		}
		return err
	})
}

func (s *PostgresStore) Verify(ctx context.Context, email, password string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var u User
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, `
			SELECT id, email, first_name, last_name, pass_hash, role, provider
			FROM users
			WHERE email = $1
		`, email).Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Hash, &u.Role, &u.Provider)
	})
	if err == sql.ErrNoRows {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, err
	}

	if len(u.Hash) == 0 {
		return User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(u.Hash, []byte(strings.TrimSpace(password))); err != nil {
		return User{}, ErrInvalidCredentials
	}

	return u, nil
}

func (s *PostgresStore) GetByID(ctx context.Context, id string) (User, bool, error) {
	var u User
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, `
			SELECT id, email, first_name, last_name, pass_hash, role, provider
			FROM users
			WHERE id = $1
		`, id).Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Hash, &u.Role, &u.Provider)
	})
	if err == sql.ErrNoRows {
		return User{}, false, nil
	}
	if err != nil {
		return User{}, false, err
	}
	return u, true, nil
}

func (s *PostgresStore) UpsertSocial(ctx context.Context, u User) (User, error) {
	email := strings.ToLower(strings.TrimSpace(u.Email))

	var out User
	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, `
			INSERT INTO users (id, email, first_name, last_name, pass_hash, role, provider)
			VALUES ($1, $2, $3, $4, NULL, $5, $6)
			ON CONFLICT (email) DO UPDATE SET email = users.email
			RETURNING id, email, first_name, last_name, role, provider
		`, u.ID, email, u.FirstName, u.LastName, u.Role, u.Provider).
			Scan(&out.ID, &out.Email, &out.FirstName, &out.LastName, &out.Role, &out.Provider)
	})
	if err != nil {
		return User{}, err
	}
	return out, nil
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueCode
}
