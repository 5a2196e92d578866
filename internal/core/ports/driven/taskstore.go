package driven

import (
	"context"

	"github.com/handeliew/hugin/internal/core/domain"
)

// TaskStore is the capability contract for the external task store.
// The processor checks existence before every create; implementations do
// not need to deduplicate themselves.
type TaskStore interface {
	// FindOrCreateProject resolves a project name to a project handle,
	// creating the project if it does not exist.
	FindOrCreateProject(ctx context.Context, name string) (string, error)

	// ListTasks returns all existing tasks across projects, projected to
	// the fields needed for duplicate detection.
	ListTasks(ctx context.Context) ([]domain.ExistingTask, error)

	// CreateTask creates a new task from the draft.
	CreateTask(ctx context.Context, draft *domain.TaskDraft) error
}
