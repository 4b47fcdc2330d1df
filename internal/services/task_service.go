package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hoangnm/project-board-api/internal/constants"
	"github.com/hoangnm/project-board-api/internal/models"
	"github.com/hoangnm/project-board-api/internal/query"
	"github.com/hoangnm/project-board-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound = errors.New("task not found")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// TaskInput represents input for creating or updating a task. Assignee is a
// display name or email resolved through the user directory at save time.
type TaskInput struct {
	ID        uint64
	ProjectID string
	Name      string
	Assignee  string
	Start     string
	End       string
	Priority  models.TaskPriority
	Progress  models.TaskProgress
	Status    models.TaskStatus
}

// ValidateTask checks a task input against the project's existing tasks.
// It is pure: an empty result means valid, and nothing here touches the
// store. Priority, progress and status must come from their fixed value
// sets when given. Date checks compare against the start of the day of
// now; a date string that does not parse skips the range checks.
func ValidateTask(input TaskInput, existing []models.Task, now time.Time) map[string]string {
	errs := make(map[string]string)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		errs["name"] = "Task name is required"
	} else if utf8.RuneCountInString(name) < constants.MinTaskNameLength {
		errs["name"] = fmt.Sprintf("Task name must be at least %d characters", constants.MinTaskNameLength)
	} else {
		for _, t := range existing {
			if t.ID != input.ID && strings.EqualFold(t.TaskName, name) {
				errs["name"] = "Task name already exists"
				break
			}
		}
	}

	if input.Assignee == "" {
		errs["assignee"] = "Assignee is required"
	}
	if input.Start == "" {
		errs["start"] = "Start date is required"
	}
	if input.End == "" {
		errs["end"] = "Due date is required"
	}

	switch input.Priority {
	case "", models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
	default:
		errs["priority"] = "Invalid priority"
	}
	switch input.Progress {
	case "", models.ProgressOnTrack, models.ProgressAtRisk, models.ProgressLate:
	default:
		errs["progress"] = "Invalid progress"
	}
	if input.Status != "" {
		known := false
		for _, s := range models.AllStatuses {
			if input.Status == s {
				known = true
				break
			}
		}
		if !known {
			errs["status"] = "Invalid status"
		}
	}

	// Dates parse in the caller's zone so "today" means the same day the
	// range check is anchored to.
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	start, startErr := time.ParseInLocation(constants.DateLayout, input.Start, now.Location())
	if startErr == nil && start.Before(today) {
		errs["start"] = "Start date must be today or later"
	}

	end, endErr := time.ParseInLocation(constants.DateLayout, input.End, now.Location())
	if startErr == nil && endErr == nil && !end.After(start) {
		errs["end"] = "Due date must be after the start date"
	}

	return errs
}

// ResolveAssignee matches a display name or email against the user
// directory. The boolean is false when no user matches; an unresolvable
// assignee is a reproducible state, not an error.
func (s *TaskService) ResolveAssignee(nameOrEmail string) (models.User, bool, error) {
	users, err := s.userRepo.List()
	if err != nil {
		return models.User{}, false, fmt.Errorf("failed to list users: %w", err)
	}

	for _, u := range users {
		if u.UserName == nameOrEmail || u.Email == nameOrEmail {
			return u, true, nil
		}
	}

	return models.User{}, false, nil
}

// SaveTask validates the input, resolves the assignee and persists the
// task. A non-zero input ID updates the existing record; otherwise a new
// task is created with defaults for omitted priority, progress and status.
// Validation failure returns a *ValidationError before any write.
func (s *TaskService) SaveTask(input TaskInput) (*models.Task, error) {
	if _, err := s.projectRepo.FindByID(input.ProjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	// An update must target a task of the project the input names; a task
	// never moves between projects through a save.
	var current *models.Task
	if input.ID != 0 {
		task, err := s.taskRepo.FindByID(input.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTaskNotFound
			}
			return nil, fmt.Errorf("failed to find task: %w", err)
		}
		if task.ProjectID != input.ProjectID {
			return nil, ErrTaskNotFound
		}
		current = task
	}

	existing, err := s.taskRepo.ListByProject(input.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project tasks: %w", err)
	}

	if errs := ValidateTask(input, existing, time.Now()); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	var assigneeID *uint64
	assignee, ok, err := s.ResolveAssignee(input.Assignee)
	if err != nil {
		return nil, err
	}
	if ok {
		assigneeID = &assignee.ID
	}

	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}
	if input.Progress == "" {
		input.Progress = models.ProgressOnTrack
	}
	if input.Status == "" {
		input.Status = models.StatusTodo
	}

	if current != nil {
		current.TaskName = strings.TrimSpace(input.Name)
		current.AssigneeID = assigneeID
		current.AsignDate = input.Start
		current.DueDate = input.End
		current.Priority = input.Priority
		current.Progress = input.Progress
		current.Status = input.Status

		if err := s.taskRepo.Update(current); err != nil {
			return nil, fmt.Errorf("failed to update task: %w", err)
		}
		return current, nil
	}

	task := &models.Task{
		TaskName:   strings.TrimSpace(input.Name),
		AssigneeID: assigneeID,
		ProjectID:  input.ProjectID,
		AsignDate:  input.Start,
		DueDate:    input.End,
		Priority:   input.Priority,
		Progress:   input.Progress,
		Status:     input.Status,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// DeleteTask removes a task by ID. The confirmation step lives at the API
// edge.
func (s *TaskService) DeleteTask(taskID uint64) error {
	if _, err := s.taskRepo.FindByID(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// ProjectBoard returns the project's tasks grouped by workflow status,
// after the in-memory search (task name or resolved assignee name) and
// sort. The returned name map carries resolved assignee display names for
// presentation.
func (s *TaskService) ProjectBoard(projectID, search string, sortKey query.SortKey) (map[models.TaskStatus][]models.Task, map[uint64]string, error) {
	tasks, err := s.taskRepo.ListByProject(projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list project tasks: %w", err)
	}

	users, err := s.userRepo.List()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list users: %w", err)
	}

	names := make(map[uint64]string, len(users))
	for _, u := range users {
		names[u.ID] = u.UserName
	}

	filtered := query.FilterBySearchTermWithAssignee(tasks, names, search)
	sorted := query.SortTasks(filtered, sortKey)

	return query.GroupByStatus(sorted), names, nil
}

// MyTasks returns, for the projects the user belongs to with any role, the
// user's task view grouped by project: search, then sort, then one group
// per project in project order, empty groups included.
func (s *TaskService) MyTasks(userID uint64, search string, sortKey query.SortKey) ([]query.ProjectGroup, error) {
	projects, err := s.projectRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	mine := query.FilterByMembership(projects, userID)

	projectIDs := make([]string, len(mine))
	for i, p := range mine {
		projectIDs[i] = p.ID
	}

	tasks, err := s.taskRepo.ListByProjects(projectIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	filtered := query.FilterBySearchTerm(tasks, search)
	sorted := query.SortTasks(filtered, sortKey)

	return query.GroupByProject(sorted, mine), nil
}
