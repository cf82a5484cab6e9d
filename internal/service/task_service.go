package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/taskhive/taskhive-api/internal/cache"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/store"
)

// List parameter defaults, applied when the request omits them.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// ListParams carries the validated query parameters of a list request.
// Zero Page and Limit mean "use the defaults"; empty Status and
// Priority mean "no filter".
type ListParams struct {
	Page     int
	Limit    int
	Status   domain.Status
	Priority domain.Priority
}

// normalized returns the params with defaults applied.
func (p ListParams) normalized() ListParams {
	if p.Page <= 0 {
		p.Page = DefaultPage
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	return p
}

// TaskService implements the task operations exposed to the HTTP
// layer: owner-scoped CRUD, the cached list query, and the
// priority-ordered "next task" view.
type TaskService struct {
	taskStore store.TaskStore
	cache     *cache.ResultCache
	group     singleflight.Group
	logger    *slog.Logger
}

// NewTaskService creates a TaskService with the given dependencies.
func NewTaskService(
	taskStore store.TaskStore,
	resultCache *cache.ResultCache,
	logger *slog.Logger,
) (*TaskService, error) {
	if taskStore == nil {
		return nil, fmt.Errorf("task store cannot be nil")
	}
	if resultCache == nil {
		return nil, fmt.Errorf("result cache cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	return &TaskService{
		taskStore: taskStore,
		cache:     resultCache,
		logger:    logger.With("component", "task_service"),
	}, nil
}

// Create makes a new pending task owned by ownerID.
func (s *TaskService) Create(
	ctx context.Context,
	ownerID uuid.UUID,
	title, description string,
	priority domain.Priority,
) (*domain.Task, error) {
	task, err := domain.NewTask(ownerID, title, description, priority)
	if err != nil {
		return nil, err
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Debug("task created",
		"task_id", task.ID,
		"owner_id", ownerID,
		"priority", task.Priority)
	return task, nil
}

// Get retrieves a single task on behalf of callerID. Tasks owned by
// other users are reported as not found: the visibility boundary does
// not reveal their existence.
func (s *TaskService) Get(ctx context.Context, id, callerID uuid.UUID) (*domain.Task, error) {
	task, err := s.taskStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.OwnerID != callerID {
		return nil, store.ErrTaskNotFound
	}
	return task, nil
}

// List returns one page of the caller's tasks, serving from the result
// cache when a fresh entry exists. On a miss, concurrent identical
// queries are collapsed into a single computation.
func (s *TaskService) List(
	ctx context.Context,
	ownerID uuid.UUID,
	params ListParams,
) (cache.Result, error) {
	params = params.normalized()

	key := cache.Key{
		OwnerID:  ownerID,
		Page:     params.Page,
		Limit:    params.Limit,
		Status:   params.Status,
		Priority: params.Priority,
	}

	if result, ok := s.cache.Get(key); ok {
		return result, nil
	}

	flightKey := fmt.Sprintf("tasks:%s:%d:%d:%s:%s",
		ownerID, params.Page, params.Limit, params.Status, params.Priority)

	v, err, _ := s.group.Do(flightKey, func() (interface{}, error) {
		// The generation must be read before the snapshot so that a
		// mutation racing with this computation stamps the entry stale.
		generation := s.cache.Generation()

		tasks, err := s.taskStore.ListByOwner(ctx, ownerID)
		if err != nil {
			return cache.Result{}, fmt.Errorf("failed to list tasks: %w", err)
		}

		result := buildPage(tasks, params)
		s.cache.Set(key, result, generation)
		return result, nil
	})
	if err != nil {
		return cache.Result{}, err
	}

	return v.(cache.Result), nil
}

// Update applies the patch to the task on behalf of callerID.
// Propagates store.ErrTaskNotFound and store.ErrForbidden unchanged.
func (s *TaskService) Update(
	ctx context.Context,
	id, callerID uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	task, err := s.taskStore.Update(ctx, id, callerID, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("task updated", "task_id", id, "owner_id", callerID)
	return task, nil
}

// Delete removes the task on behalf of callerID.
// Propagates store.ErrTaskNotFound and store.ErrForbidden unchanged.
func (s *TaskService) Delete(ctx context.Context, id, callerID uuid.UUID) error {
	if err := s.taskStore.Delete(ctx, id, callerID); err != nil {
		return err
	}

	s.logger.Debug("task deleted", "task_id", id, "owner_id", callerID)
	return nil
}

// Next returns the caller's highest-priority task (earliest created
// within a tier) without consuming it. The boolean is false when the
// caller has no tasks.
func (s *TaskService) Next(ctx context.Context, ownerID uuid.UUID) (*domain.Task, bool) {
	return s.taskStore.NextByPriority(ctx, ownerID)
}

// buildPage is the query engine: a pure function from an owner-scoped
// snapshot (already in creation order) and the query parameters to one
// result page. Filtering and pagination are independent of priority
// ordering.
func buildPage(tasks []*domain.Task, params ListParams) cache.Result {
	filtered := tasks[:0:0]
	for _, task := range tasks {
		if params.Status != "" && task.Status != params.Status {
			continue
		}
		if params.Priority != "" && task.Priority != params.Priority {
			continue
		}
		filtered = append(filtered, task)
	}

	total := len(filtered)
	totalPages := 0
	if total > 0 {
		totalPages = (total + params.Limit - 1) / params.Limit
	}

	start := (params.Page - 1) * params.Limit
	end := start + params.Limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	page := make([]*domain.Task, 0, end-start)
	page = append(page, filtered[start:end]...)

	return cache.Result{
		Tasks:      page,
		Page:       params.Page,
		TotalPages: totalPages,
		TotalTasks: total,
	}
}
