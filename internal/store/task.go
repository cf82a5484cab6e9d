package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive-api/internal/domain"
)

// TaskStore defines the interface for task persistence. It is the sole
// writer of task records: every mutation passes through it, keeps the
// priority index in sync, and invalidates any derived result caches
// before the mutation becomes observable.
type TaskStore interface {
	// Create saves a new task to the store and registers it with the
	// priority index. The task must be valid according to domain rules;
	// returns ErrInvalidEntity wrapping the validation failure otherwise.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// Update applies the patch to the task with the given ID on behalf
	// of callerID. Only fields present in the patch are merged; ID,
	// owner and creation time are never touched and UpdatedAt is
	// stamped. Returns ErrTaskNotFound if the task does not exist and
	// ErrForbidden if callerID is not the task's owner.
	Update(ctx context.Context, id, callerID uuid.UUID, patch domain.TaskPatch) (*domain.Task, error)

	// Delete removes the task with the given ID on behalf of callerID,
	// both from the store and from the priority index. Same
	// ErrTaskNotFound / ErrForbidden semantics as Update.
	Delete(ctx context.Context, id, callerID uuid.UUID) error

	// ListByOwner returns a snapshot of all tasks owned by ownerID in
	// insertion (creation) order. The returned slice and tasks are
	// copies; mutating them does not affect the store.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Task, error)

	// NextByPriority returns the caller's highest-ranked task without
	// removing it: highest priority first, earliest creation time
	// breaking ties. The boolean is false when the owner has no tasks.
	NextByPriority(ctx context.Context, ownerID uuid.UUID) (*domain.Task, bool)
}
