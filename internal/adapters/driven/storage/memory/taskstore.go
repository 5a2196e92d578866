// Package memory provides in-memory implementations of driven port
// interfaces. They back the test suite and dry-run mode; nothing here
// survives the process.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/handeliew/hugin/internal/core/domain"
	"github.com/handeliew/hugin/internal/core/ports/driven"
)

// Ensure TaskStore implements the interface.
var _ driven.TaskStore = (*TaskStore)(nil)

// TaskStore is an in-memory implementation of driven.TaskStore.
type TaskStore struct {
	mu       sync.RWMutex
	projects map[string]string // name -> id
	tasks    []domain.ExistingTask
	drafts   []domain.TaskDraft
}

// NewTaskStore creates a new in-memory task store.
func NewTaskStore() *TaskStore {
	return &TaskStore{
		projects: make(map[string]string),
	}
}

// FindOrCreateProject resolves a project name to an ID, creating it on demand.
func (s *TaskStore) FindOrCreateProject(_ context.Context, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.projects[strings.ToLower(name)]; ok {
		return id, nil
	}
	id := uuid.New().String()
	s.projects[strings.ToLower(name)] = id
	return id, nil
}

// ListTasks returns all stored tasks.
func (s *TaskStore) ListTasks(_ context.Context) ([]domain.ExistingTask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ExistingTask, len(s.tasks))
	copy(out, s.tasks)
	return out, nil
}

// CreateTask records the draft and makes it visible to ListTasks.
func (s *TaskStore) CreateTask(_ context.Context, draft *domain.TaskDraft) error {
	if draft == nil {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts = append(s.drafts, *draft)
	s.tasks = append(s.tasks, domain.ExistingTask{
		Title:     draft.Title,
		ProjectID: draft.ProjectID,
		Due:       draft.Due,
	})
	return nil
}

// Created returns all drafts passed to CreateTask, in order.
func (s *TaskStore) Created() []domain.TaskDraft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.TaskDraft, len(s.drafts))
	copy(out, s.drafts)
	return out
}

// Seed pre-populates the store with existing tasks.
func (s *TaskStore) Seed(tasks ...domain.ExistingTask) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, tasks...)
}
