package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/store"
)

// countingInvalidator records how many times the store fired a cache
// invalidation.
type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) InvalidateAll() { c.calls++ }

func mustCreateTask(
	t *testing.T,
	s *TaskStore,
	owner uuid.UUID,
	title string,
	priority domain.Priority,
) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(owner, title, "description", priority)
	require.NoError(t, err)
	require.NoError(t, s.Create(context.Background(), task))
	return task
}

func TestTaskStoreCreateAndGet(t *testing.T) {
	t.Parallel()

	s := NewTaskStore(nil)
	owner := uuid.New()
	task := mustCreateTask(t, s, owner, "first", domain.PriorityMedium)

	got, err := s.GetByID(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)
	assert.Equal(t, "first", got.Title)
	assert.Equal(t, domain.StatusPending, got.Status)

	// The store hands out copies; mutating one must not leak back.
	got.Title = "mutated"
	again, err := s.GetByID(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", again.Title)
}

func TestTaskStoreGetNotFound(t *testing.T) {
	t.Parallel()

	s := NewTaskStore(nil)
	_, err := s.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestTaskStoreCreateInvalid(t *testing.T) {
	t.Parallel()

	s := NewTaskStore(nil)
	err := s.Create(context.Background(), &domain.Task{ID: uuid.New()})
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
}

func TestTaskStoreUpdate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	owner := uuid.New()
	stranger := uuid.New()

	newTitle := "renamed"
	completed := domain.StatusCompleted
	patch := domain.TaskPatch{Title: &newTitle, Status: &completed}

	t.Run("owner can update", func(t *testing.T) {
		s := NewTaskStore(nil)
		task := mustCreateTask(t, s, owner, "original", domain.PriorityLow)

		updated, err := s.Update(ctx, task.ID, owner, patch)
		require.NoError(t, err)
		assert.Equal(t, "renamed", updated.Title)
		assert.Equal(t, domain.StatusCompleted, updated.Status)
		assert.NotNil(t, updated.UpdatedAt)
		assert.Equal(t, task.CreatedAt, updated.CreatedAt)
	})

	t.Run("missing task", func(t *testing.T) {
		s := NewTaskStore(nil)
		_, err := s.Update(ctx, uuid.New(), owner, patch)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		s := NewTaskStore(nil)
		task := mustCreateTask(t, s, owner, "original", domain.PriorityLow)

		_, err := s.Update(ctx, task.ID, stranger, patch)
		assert.ErrorIs(t, err, store.ErrForbidden)

		// The task is untouched.
		got, err := s.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "original", got.Title)
	})
}

func TestTaskStoreDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	owner := uuid.New()

	t.Run("owner can delete", func(t *testing.T) {
		s := NewTaskStore(nil)
		task := mustCreateTask(t, s, owner, "doomed", domain.PriorityLow)

		require.NoError(t, s.Delete(ctx, task.ID, owner))
		_, err := s.GetByID(ctx, task.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})

	t.Run("second delete reports not found", func(t *testing.T) {
		s := NewTaskStore(nil)
		task := mustCreateTask(t, s, owner, "doomed", domain.PriorityLow)

		require.NoError(t, s.Delete(ctx, task.ID, owner))
		assert.ErrorIs(t, s.Delete(ctx, task.ID, owner), store.ErrTaskNotFound)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		s := NewTaskStore(nil)
		task := mustCreateTask(t, s, owner, "doomed", domain.PriorityLow)

		assert.ErrorIs(t, s.Delete(ctx, task.ID, uuid.New()), store.ErrForbidden)
		_, err := s.GetByID(ctx, task.ID)
		assert.NoError(t, err)
	})
}

func TestTaskStoreListByOwner(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewTaskStore(nil)
	alice := uuid.New()
	bob := uuid.New()

	first := mustCreateTask(t, s, alice, "a1", domain.PriorityLow)
	mustCreateTask(t, s, bob, "b1", domain.PriorityHigh)
	second := mustCreateTask(t, s, alice, "a2", domain.PriorityHigh)

	tasks, err := s.ListByOwner(ctx, alice)
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	// Creation order, not priority order; never another owner's tasks.
	assert.Equal(t, first.ID, tasks[0].ID)
	assert.Equal(t, second.ID, tasks[1].ID)
	for _, task := range tasks {
		assert.Equal(t, alice, task.OwnerID)
	}

	tasks, err = s.ListByOwner(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaskStoreNextByPriority(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewTaskStore(nil)
	owner := uuid.New()

	_, ok := s.NextByPriority(ctx, owner)
	assert.False(t, ok)

	mustCreateTask(t, s, owner, "low", domain.PriorityLow)
	high := mustCreateTask(t, s, owner, "high", domain.PriorityHigh)
	mustCreateTask(t, s, owner, "medium", domain.PriorityMedium)

	next, ok := s.NextByPriority(ctx, owner)
	require.True(t, ok)
	assert.Equal(t, high.ID, next.ID)

	// Peeking does not consume: the same task comes back.
	next, ok = s.NextByPriority(ctx, owner)
	require.True(t, ok)
	assert.Equal(t, high.ID, next.ID)

	// Deleting the high task promotes the medium one.
	require.NoError(t, s.Delete(ctx, high.ID, owner))
	next, ok = s.NextByPriority(ctx, owner)
	require.True(t, ok)
	assert.Equal(t, "medium", next.Title)
}

func TestTaskStoreNextReflectsPriorityUpdate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewTaskStore(nil)
	owner := uuid.New()

	low := mustCreateTask(t, s, owner, "was low", domain.PriorityLow)
	mustCreateTask(t, s, owner, "medium", domain.PriorityMedium)

	high := domain.PriorityHigh
	_, err := s.Update(ctx, low.ID, owner, domain.TaskPatch{Priority: &high})
	require.NoError(t, err)

	next, ok := s.NextByPriority(ctx, owner)
	require.True(t, ok)
	assert.Equal(t, low.ID, next.ID)
	assert.Equal(t, domain.PriorityHigh, next.Priority)
}

func TestTaskStoreInvalidatesOnEveryMutation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	inv := &countingInvalidator{}
	s := NewTaskStore(inv)
	owner := uuid.New()

	task := mustCreateTask(t, s, owner, "task", domain.PriorityMedium)
	assert.Equal(t, 1, inv.calls)

	title := "renamed"
	_, err := s.Update(ctx, task.ID, owner, domain.TaskPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, 2, inv.calls)

	require.NoError(t, s.Delete(ctx, task.ID, owner))
	assert.Equal(t, 3, inv.calls)

	// Failed mutations must not invalidate.
	assert.Error(t, s.Delete(ctx, task.ID, owner))
	assert.Equal(t, 3, inv.calls)
}
