package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/queue"
	"github.com/taskhive/taskhive-api/internal/store"
)

// Invalidator is the slice of the result cache the store needs: bulk
// invalidation fired on every successful mutation.
type Invalidator interface {
	InvalidateAll()
}

// noopInvalidator lets the store run without a cache attached.
type noopInvalidator struct{}

func (noopInvalidator) InvalidateAll() {}

// TaskStore is the in-memory implementation of store.TaskStore. It
// owns the canonical task map, the insertion order, and the priority
// index, all guarded by a single RWMutex: a mutation and its cache
// invalidation happen under one write-lock hold, so no reader can
// observe a mutated store with a not-yet-invalidated cache.
type TaskStore struct {
	mu          sync.RWMutex
	tasks       map[uuid.UUID]*domain.Task
	order       []uuid.UUID // creation order, for the query engine
	index       *queue.PriorityQueue
	invalidator Invalidator
}

// Ensure TaskStore implements the store interface.
var _ store.TaskStore = (*TaskStore)(nil)

// NewTaskStore creates an empty in-memory task store. The invalidator
// is called on every successful mutation; pass nil to run uncached.
func NewTaskStore(invalidator Invalidator) *TaskStore {
	if invalidator == nil {
		invalidator = noopInvalidator{}
	}
	return &TaskStore{
		tasks:       make(map[uuid.UUID]*domain.Task),
		index:       queue.NewPriorityQueue(),
		invalidator: invalidator,
	}
}

// Create saves the task and registers it with the priority index.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[task.ID]; exists {
		return store.ErrDuplicate
	}

	stored := *task
	s.tasks[task.ID] = &stored
	s.order = append(s.order, task.ID)
	s.index.Enqueue(stored)
	s.invalidator.InvalidateAll()
	return nil
}

// GetByID retrieves a task by its unique ID.
func (s *TaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}

	cp := *task
	return &cp, nil
}

// Update merges the patch into the task after checking ownership. The
// priority index snapshot is refreshed so a priority change re-ranks
// the task immediately.
func (s *TaskStore) Update(
	ctx context.Context,
	id, callerID uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	if task.OwnerID != callerID {
		return nil, store.ErrForbidden
	}

	if err := task.Apply(patch); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.index.Refresh(*task)
	s.invalidator.InvalidateAll()

	cp := *task
	return &cp, nil
}

// Delete removes the task from the store and the priority index after
// checking ownership.
func (s *TaskStore) Delete(ctx context.Context, id, callerID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return store.ErrTaskNotFound
	}
	if task.OwnerID != callerID {
		return store.ErrForbidden
	}

	delete(s.tasks, id)
	for i, orderedID := range s.order {
		if orderedID == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.index.Remove(id)
	s.invalidator.InvalidateAll()
	return nil
}

// ListByOwner returns copies of the owner's tasks in creation order.
func (s *TaskStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tasks []*domain.Task
	for _, id := range s.order {
		task := s.tasks[id]
		if task.OwnerID != ownerID {
			continue
		}
		cp := *task
		tasks = append(tasks, &cp)
	}
	return tasks, nil
}

// NextByPriority returns the owner's highest-ranked task without
// removing it from the index.
func (s *TaskStore) NextByPriority(ctx context.Context, ownerID uuid.UUID) (*domain.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.index.PeekOwnedBy(ownerID)
	if !ok {
		return nil, false
	}
	return &task, true
}

// Len returns the total number of stored tasks across all owners.
func (s *TaskStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}
