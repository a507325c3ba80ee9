package feedback

import (
	"context"
	"errors"

	"feedback-service/internal/authz"
)

var (
	ErrFeedbackNotFound = errors.New("feedback not found")
	// ErrOwnerMissing means the owning user row is gone; the store never
	// creates orphaned feedback.
	ErrOwnerMissing = errors.New("feedback owner does not exist")
)

type Service interface {
	Create(ctx context.Context, actor, owner string, req CreateRequest) (*Feedback, error)
	Get(ctx context.Context, actor string, id int64) (*Feedback, error)
	Update(ctx context.Context, actor string, id int64, req UpdateRequest) (*Feedback, error)
	Delete(ctx context.Context, actor string, id int64) error
	ListForUser(ctx context.Context, owner string) ([]Feedback, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, actor, owner string, req CreateRequest) (*Feedback, error) {
	if err := authz.Authorize(actor, owner); err != nil {
		return nil, err
	}

	f := &Feedback{
		Title:    req.Title,
		Content:  req.Content,
		Username: owner,
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *service) Get(ctx context.Context, actor string, id int64) (*Feedback, error) {
	f, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, f.Username); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *service) Update(ctx context.Context, actor string, id int64, req UpdateRequest) (*Feedback, error) {
	f, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, f.Username); err != nil {
		return nil, err
	}

	f.Title = req.Title
	f.Content = req.Content
	if err := s.repo.Update(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *service) Delete(ctx context.Context, actor string, id int64) error {
	f, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.Authorize(actor, f.Username); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) ListForUser(ctx context.Context, owner string) ([]Feedback, error) {
	return s.repo.ListByUsername(ctx, owner)
}
