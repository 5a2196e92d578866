package ticktick

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/handeliew/hugin/internal/core/domain"
	"github.com/handeliew/hugin/internal/core/ports/driven"
)

// dueDateLayout is the timestamp format the TickTick API uses, e.g.
// "2026-11-11T23:00:00.000+0000". Note the offset carries no colon.
const dueDateLayout = "2006-01-02T15:04:05.000-0700"

// Store implements the TaskStore port on top of the TickTick Open API.
type Store struct {
	client *Client
}

var _ driven.TaskStore = (*Store)(nil)

// NewStore creates a Store around the given client.
func NewStore(client *Client) *Store {
	return &Store{client: client}
}

// project is the API projection of a TickTick project.
type project struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Closed bool   `json:"closed"`
}

// task is the API projection of a TickTick task.
type task struct {
	ID        string `json:"id,omitempty"`
	Title     string `json:"title"`
	ProjectID string `json:"projectId,omitempty"`
	DueDate   string `json:"dueDate,omitempty"`
	Content   string `json:"content,omitempty"`
	Repeat    string `json:"repeat,omitempty"`
	Status    int    `json:"status,omitempty"`
}

// projectData is the response of the project data endpoint.
type projectData struct {
	Tasks []task `json:"tasks"`
}

// FindOrCreateProject resolves a project name to its ID, creating the
// project when no open project matches. Matching is case-insensitive.
func (s *Store) FindOrCreateProject(ctx context.Context, name string) (string, error) {
	projects, err := s.listProjects(ctx)
	if err != nil {
		return "", err
	}

	for _, p := range projects {
		if strings.EqualFold(p.Name, name) {
			return p.ID, nil
		}
	}

	var created project
	payload := map[string]string{"name": name}
	if err := s.client.doJSON(ctx, "POST", "/project", payload, &created); err != nil {
		return "", fmt.Errorf("creating project %q: %w", name, err)
	}
	return created.ID, nil
}

// ListTasks returns all open tasks across all open projects.
func (s *Store) ListTasks(ctx context.Context) ([]domain.ExistingTask, error) {
	projects, err := s.listProjects(ctx)
	if err != nil {
		return nil, err
	}

	var existing []domain.ExistingTask
	for _, p := range projects {
		if p.Closed || p.ID == "" {
			continue
		}

		var data projectData
		if err := s.client.doJSON(ctx, "GET", "/project/"+p.ID+"/data", nil, &data); err != nil {
			return nil, fmt.Errorf("listing tasks in project %q: %w", p.Name, err)
		}

		for _, t := range data.Tasks {
			existing = append(existing, domain.ExistingTask{
				Title:     t.Title,
				ProjectID: t.ProjectID,
				Due:       parseDueDate(t.DueDate),
			})
		}
	}
	return existing, nil
}

// CreateTask creates a new task from the draft.
func (s *Store) CreateTask(ctx context.Context, draft *domain.TaskDraft) error {
	payload := task{
		Title:     draft.Title,
		ProjectID: draft.ProjectID,
		Content:   draft.Content,
		Repeat:    draft.Recurrence,
	}
	if draft.Due != nil {
		payload.DueDate = draft.Due.Format(dueDateLayout)
	}

	if err := s.client.doJSON(ctx, "POST", "/task", payload, nil); err != nil {
		return fmt.Errorf("creating task %q: %w", draft.Title, err)
	}
	return nil
}

func (s *Store) listProjects(ctx context.Context) ([]project, error) {
	var projects []project
	if err := s.client.doJSON(ctx, "GET", "/project", nil, &projects); err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return projects, nil
}

// parseDueDate parses the API due date formats. Returns nil when the value
// is absent or unparseable; duplicate detection then falls back to
// title-only matching.
func parseDueDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range []string{dueDateLayout, time.RFC3339} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return &parsed
		}
	}
	return nil
}
