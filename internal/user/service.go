package user

import (
	"context"
	"database/sql"
	"errors"

	"feedback-service/internal/feedback"

	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrUserNotFound       = errors.New("user not found")
)

// TxRunner is the transaction boundary; *bun.DB satisfies it.
type TxRunner interface {
	RunInTx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, tx bun.Tx) error) error
}

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Authenticate(ctx context.Context, username, password string) (*User, error)
	Get(ctx context.Context, username string) (*User, error)
	Delete(ctx context.Context, username string) error
}

type service struct {
	db       TxRunner
	users    Repository
	feedback feedback.Repository
}

func NewService(db TxRunner, users Repository, fb feedback.Repository) Service {
	return &service{
		db:       db,
		users:    users,
		feedback: fb,
	}
}

// Register hashes the password and creates the user. The plaintext is never
// stored.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	// Pre-check; the primary key constraint still catches the insert race
	existing, _ := s.users.GetByUsername(ctx, req.Username)
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &User{
		Username:  req.Username,
		Password:  string(hashed),
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate verifies the password against the stored bcrypt hash. An
// unknown username and a wrong password are indistinguishable to the caller.
func (s *service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *service) Get(ctx context.Context, username string) (*User, error) {
	return s.users.GetByUsername(ctx, username)
}

// Delete removes the account and all feedback it owns in one transaction.
// Either both are gone afterwards or neither is.
func (s *service) Delete(ctx context.Context, username string) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := s.feedback.WithTx(tx).DeleteAllForUser(ctx, username); err != nil {
			return err
		}
		return s.users.WithTx(tx).Delete(ctx, username)
	})
}
