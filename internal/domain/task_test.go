package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()

	tests := []struct {
		name        string
		title       string
		description string
		priority    Priority
		wantErr     error
	}{
		{
			name:        "valid task",
			title:       "Write report",
			description: "Quarterly figures",
			priority:    PriorityHigh,
			wantErr:     nil,
		},
		{
			name:        "empty title",
			title:       "",
			description: "Quarterly figures",
			priority:    PriorityHigh,
			wantErr:     ErrTaskTitleEmpty,
		},
		{
			name:        "empty description",
			title:       "Write report",
			description: "",
			priority:    PriorityLow,
			wantErr:     ErrTaskDescriptionEmpty,
		},
		{
			name:        "invalid priority",
			title:       "Write report",
			description: "Quarterly figures",
			priority:    Priority("urgent"),
			wantErr:     ErrInvalidPriority,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := NewTask(ownerID, tt.title, tt.description, tt.priority)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, task)
				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, task.ID)
			assert.Equal(t, ownerID, task.OwnerID)
			assert.Equal(t, StatusPending, task.Status)
			assert.False(t, task.CreatedAt.IsZero())
			assert.Nil(t, task.UpdatedAt)
		})
	}
}

func TestNewTaskRequiresOwner(t *testing.T) {
	t.Parallel()

	_, err := NewTask(uuid.Nil, "title", "description", PriorityLow)
	assert.ErrorIs(t, err, ErrTaskOwnerIDEmpty)
}

func TestPriorityWeight(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 3, PriorityHigh.Weight())
	assert.Equal(t, 2, PriorityMedium.Weight())
	assert.Equal(t, 1, PriorityLow.Weight())
	assert.Equal(t, 0, Priority("bogus").Weight())
}

func TestTaskApply(t *testing.T) {
	t.Parallel()

	newString := func(s string) *string { return &s }
	newPriority := func(p Priority) *Priority { return &p }
	newStatus := func(s Status) *Status { return &s }

	t.Run("merges only present fields", func(t *testing.T) {
		task, err := NewTask(uuid.New(), "original", "original description", PriorityLow)
		require.NoError(t, err)

		origID := task.ID
		origOwner := task.OwnerID
		origCreated := task.CreatedAt

		err = task.Apply(TaskPatch{
			Title:  newString("updated"),
			Status: newStatus(StatusCompleted),
		})
		require.NoError(t, err)

		assert.Equal(t, "updated", task.Title)
		assert.Equal(t, "original description", task.Description)
		assert.Equal(t, PriorityLow, task.Priority)
		assert.Equal(t, StatusCompleted, task.Status)

		assert.Equal(t, origID, task.ID)
		assert.Equal(t, origOwner, task.OwnerID)
		assert.Equal(t, origCreated, task.CreatedAt)

		require.NotNil(t, task.UpdatedAt)
		assert.False(t, task.UpdatedAt.Before(task.CreatedAt))
	})

	t.Run("empty patch still stamps UpdatedAt", func(t *testing.T) {
		task, err := NewTask(uuid.New(), "title", "description", PriorityMedium)
		require.NoError(t, err)

		require.NoError(t, task.Apply(TaskPatch{}))
		assert.NotNil(t, task.UpdatedAt)
	})

	t.Run("invalid patch leaves task unchanged", func(t *testing.T) {
		task, err := NewTask(uuid.New(), "title", "description", PriorityMedium)
		require.NoError(t, err)

		err = task.Apply(TaskPatch{
			Title:    newString(""),
			Priority: newPriority(PriorityHigh),
		})
		assert.ErrorIs(t, err, ErrTaskTitleEmpty)

		assert.Equal(t, "title", task.Title)
		assert.Equal(t, PriorityMedium, task.Priority)
		assert.Nil(t, task.UpdatedAt)
	})

	t.Run("invariant createdAt before updatedAt", func(t *testing.T) {
		task, err := NewTask(uuid.New(), "title", "description", PriorityHigh)
		require.NoError(t, err)

		time.Sleep(time.Millisecond)
		require.NoError(t, task.Apply(TaskPatch{Status: newStatus(StatusCompleted)}))

		assert.True(t, task.CreatedAt.Before(*task.UpdatedAt))
	})
}

func TestEnumValidity(t *testing.T) {
	t.Parallel()

	assert.True(t, PriorityLow.Valid())
	assert.True(t, PriorityMedium.Valid())
	assert.True(t, PriorityHigh.Valid())
	assert.False(t, Priority("").Valid())
	assert.False(t, Priority("critical").Valid())

	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusCompleted.Valid())
	assert.False(t, Status("archived").Valid())
}
