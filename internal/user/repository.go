package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

type Repository interface {
	// WithTx returns a Repository bound to the given transaction so the
	// caller controls commit and rollback.
	WithTx(idb bun.IDB) Repository
	Create(ctx context.Context, u *User) error
	GetByUsername(ctx context.Context, username string) (*User, error)
	Delete(ctx context.Context, username string) error
}

type repository struct {
	db bun.IDB
}

func NewRepository(db bun.IDB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(idb bun.IDB) Repository {
	return &repository{db: idb}
}

func (r *repository) Create(ctx context.Context, u *User) error {
	_, err := r.db.NewInsert().Model(u).Exec(ctx)
	if err != nil {
		var pgErr pgdriver.Error
		if errors.As(err, &pgErr) && pgErr.IntegrityViolation() {
			// 23505: primary key collision on username
			return ErrUsernameTaken
		}
		return err
	}
	return nil
}

func (r *repository) GetByUsername(ctx context.Context, username string) (*User, error) {
	u := new(User)
	err := r.db.NewSelect().Model(u).Where("username = ?", username).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *repository) Delete(ctx context.Context, username string) error {
	result, err := r.db.NewDelete().Model(&User{Username: username}).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
