package feedback

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
	Create(ctx context.Context, f *Feedback) error
	Get(ctx context.Context, id int64) (*Feedback, error)
	Update(ctx context.Context, f *Feedback) error
	Delete(ctx context.Context, id int64) error
	ListByUsername(ctx context.Context, username string) ([]Feedback, error)
	DeleteAllForUser(ctx context.Context, username string) error
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

func (r *repository) Create(ctx context.Context, f *Feedback) error {
	_, err := r.db.NewInsert().Model(f).Returning("*").Exec(ctx)
	if err != nil {
		var pgErr pgdriver.Error
		if errors.As(err, &pgErr) && pgErr.IntegrityViolation() {
			// 23503: username does not reference an existing user
			return ErrOwnerMissing
		}
		return err
	}
	return nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Feedback, error) {
	f := new(Feedback)
	err := r.db.NewSelect().Model(f).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFeedbackNotFound
		}
		return nil, err
	}
	return f, nil
}

func (r *repository) Update(ctx context.Context, f *Feedback) error {
	result, err := r.db.NewUpdate().
		Model(f).
		Column("title", "content").
		WherePK().
		Exec(ctx)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrFeedbackNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.NewDelete().Model(&Feedback{ID: id}).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrFeedbackNotFound
	}
	return nil
}

func (r *repository) ListByUsername(ctx context.Context, username string) ([]Feedback, error) {
	var list []Feedback
	err := r.db.NewSelect().
		Model(&list).
		Where("username = ?", username).
		Order("id ASC").
		Scan(ctx)
	return list, err
}

func (r *repository) DeleteAllForUser(ctx context.Context, username string) error {
	_, err := r.db.NewDelete().
		Model((*Feedback)(nil)).
		Where("username = ?", username).
		Exec(ctx)
	return err
}
