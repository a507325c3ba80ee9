package feedback_test

import (
	"context"
	"testing"

	"feedback-service/internal/authz"
	"feedback-service/internal/feedback"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

// mockRepo is an in-memory feedback.Repository.
type mockRepo struct {
	rows      map[int64]*feedback.Feedback
	nextID    int64
	ownerless bool // simulate the owning user row being gone
}

func newMockRepo() *mockRepo {
	return &mockRepo{rows: map[int64]*feedback.Feedback{}, nextID: 1}
}

func (m *mockRepo) WithTx(idb bun.IDB) feedback.Repository { return m }

func (m *mockRepo) Create(ctx context.Context, f *feedback.Feedback) error {
	if m.ownerless {
		return feedback.ErrOwnerMissing
	}
	f.ID = m.nextID
	m.nextID++
	clone := *f
	m.rows[f.ID] = &clone
	return nil
}

func (m *mockRepo) Get(ctx context.Context, id int64) (*feedback.Feedback, error) {
	f, ok := m.rows[id]
	if !ok {
		return nil, feedback.ErrFeedbackNotFound
	}
	clone := *f
	return &clone, nil
}

func (m *mockRepo) Update(ctx context.Context, f *feedback.Feedback) error {
	if _, ok := m.rows[f.ID]; !ok {
		return feedback.ErrFeedbackNotFound
	}
	clone := *f
	m.rows[f.ID] = &clone
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.rows[id]; !ok {
		return feedback.ErrFeedbackNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *mockRepo) ListByUsername(ctx context.Context, username string) ([]feedback.Feedback, error) {
	var list []feedback.Feedback
	for id := int64(1); id < m.nextID; id++ {
		if f, ok := m.rows[id]; ok && f.Username == username {
			list = append(list, *f)
		}
	}
	return list, nil
}

func (m *mockRepo) DeleteAllForUser(ctx context.Context, username string) error {
	for id, f := range m.rows {
		if f.Username == username {
			delete(m.rows, id)
		}
	}
	return nil
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("owner creates their own feedback", func(t *testing.T) {
		repo := newMockRepo()
		svc := feedback.NewService(repo)

		f, err := svc.Create(ctx, "alice", "alice", feedback.CreateRequest{Title: "Hi", Content: "Hello"})
		require.NoError(t, err)
		assert.Equal(t, "alice", f.Username)
		assert.NotZero(t, f.ID)
	})

	t.Run("creating for someone else is denied", func(t *testing.T) {
		repo := newMockRepo()
		svc := feedback.NewService(repo)

		_, err := svc.Create(ctx, "bob", "alice", feedback.CreateRequest{Title: "Hi", Content: "Hello"})
		assert.ErrorIs(t, err, authz.ErrUnauthorized)
		assert.Empty(t, repo.rows)
	})

	t.Run("missing owner row never creates an orphan", func(t *testing.T) {
		repo := newMockRepo()
		repo.ownerless = true
		svc := feedback.NewService(repo)

		_, err := svc.Create(ctx, "ghost", "ghost", feedback.CreateRequest{Title: "Hi", Content: "Hello"})
		assert.ErrorIs(t, err, feedback.ErrOwnerMissing)
	})
}

func TestService_Get(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo()
	svc := feedback.NewService(repo)

	created, err := svc.Create(ctx, "alice", "alice", feedback.CreateRequest{Title: "Hi", Content: "Hello"})
	require.NoError(t, err)

	t.Run("owner reads it", func(t *testing.T) {
		f, err := svc.Get(ctx, "alice", created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Hi", f.Title)
	})

	t.Run("another user is denied", func(t *testing.T) {
		_, err := svc.Get(ctx, "bob", created.ID)
		assert.ErrorIs(t, err, authz.ErrUnauthorized)
	})

	t.Run("absent id", func(t *testing.T) {
		_, err := svc.Get(ctx, "alice", 999)
		assert.ErrorIs(t, err, feedback.ErrFeedbackNotFound)
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo()
	svc := feedback.NewService(repo)

	created, err := svc.Create(ctx, "alice", "alice", feedback.CreateRequest{Title: "Hi", Content: "Hello"})
	require.NoError(t, err)

	t.Run("another user is denied and the row is unchanged", func(t *testing.T) {
		_, err := svc.Update(ctx, "bob", created.ID, feedback.UpdateRequest{Title: "Hacked", Content: "Pwned"})
		assert.ErrorIs(t, err, authz.ErrUnauthorized)

		f, err := svc.Get(ctx, "alice", created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Hi", f.Title)
		assert.Equal(t, "Hello", f.Content)
	})

	t.Run("owner updates in place", func(t *testing.T) {
		updated, err := svc.Update(ctx, "alice", created.ID, feedback.UpdateRequest{Title: "New", Content: "Body"})
		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, "New", updated.Title)
	})

	t.Run("absent id", func(t *testing.T) {
		_, err := svc.Update(ctx, "alice", 999, feedback.UpdateRequest{Title: "New", Content: "Body"})
		assert.ErrorIs(t, err, feedback.ErrFeedbackNotFound)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepo()
	svc := feedback.NewService(repo)

	created, err := svc.Create(ctx, "alice", "alice", feedback.CreateRequest{Title: "Hi", Content: "Hello"})
	require.NoError(t, err)

	t.Run("another user is denied and the row stays", func(t *testing.T) {
		err := svc.Delete(ctx, "bob", created.ID)
		assert.ErrorIs(t, err, authz.ErrUnauthorized)
		assert.Contains(t, repo.rows, created.ID)
	})

	t.Run("owner deletes", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, "alice", created.ID))
		assert.NotContains(t, repo.rows, created.ID)
	})

	t.Run("already deleted", func(t *testing.T) {
		err := svc.Delete(ctx, "alice", created.ID)
		assert.ErrorIs(t, err, feedback.ErrFeedbackNotFound)
	})
}
