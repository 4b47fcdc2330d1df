package services

import (
	"testing"
	"time"

	"github.com/hoangnm/project-board-api/internal/constants"
	"github.com/hoangnm/project-board-api/internal/models"
	"github.com/hoangnm/project-board-api/internal/query"
	"github.com/hoangnm/project-board-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type taskEnv struct {
	db      *gorm.DB
	svc     *TaskService
	owner   *models.User
	project *models.Project
}

func setupTaskEnv(t *testing.T) taskEnv {
	t.Helper()

	db := setupServiceDB(t)
	taskRepo := repository.NewTaskRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	userRepo := repository.NewUserRepository(db)
	svc := NewTaskService(taskRepo, projectRepo, userRepo)

	owner := createTestUser(t, db, "alice", "alice@example.com")

	projectService := NewProjectService(projectRepo)
	project, err := projectService.CreateProject(ProjectInput{Name: "Website Redesign"}, owner.ID)
	require.NoError(t, err)

	return taskEnv{
		db:      db,
		svc:     svc,
		owner:   owner,
		project: project,
	}
}

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format(constants.DateLayout)
}

func validTaskInput(projectID string) TaskInput {
	return TaskInput{
		ProjectID: projectID,
		Name:      "Design the landing page",
		Assignee:  "alice",
		Start:     futureDate(1),
		End:       futureDate(5),
	}
}

func TestValidateTask(t *testing.T) {
	now := time.Date(2024, 1, 1, 15, 30, 0, 0, time.UTC)

	input := TaskInput{
		ProjectID: "p1",
		Name:      "abcd",
		Assignee:  "alice",
		Start:     "2020-01-01",
		End:       "2020-01-02",
	}

	errs := ValidateTask(input, nil, now)
	require.Contains(t, errs, "name")
	require.Contains(t, errs, "start")
	require.NotContains(t, errs, "end")
	require.NotContains(t, errs, "assignee")
}

func TestValidateTask_RequiredFields(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	errs := ValidateTask(TaskInput{ProjectID: "p1"}, nil, now)
	require.Contains(t, errs, "name")
	require.Contains(t, errs, "assignee")
	require.Contains(t, errs, "start")
	require.Contains(t, errs, "end")
}

func TestValidateTask_DuplicateName(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	existing := []models.Task{
		{ID: 7, TaskName: "Design the landing page"},
	}

	input := TaskInput{
		ProjectID: "p1",
		Name:      "design THE landing page",
		Assignee:  "alice",
		Start:     "2024-01-02",
		End:       "2024-01-05",
	}

	errs := ValidateTask(input, existing, now)
	require.Contains(t, errs, "name")

	// The task keeps its own name on edit
	input.ID = 7
	errs = ValidateTask(input, existing, now)
	require.Empty(t, errs)
}

func TestValidateTask_DateRange(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	input := TaskInput{
		ProjectID: "p1",
		Name:      "Design the landing page",
		Assignee:  "alice",
		Start:     "2024-01-10",
		End:       "2024-01-10",
	}

	errs := ValidateTask(input, nil, now)
	require.Contains(t, errs, "end")

	// Today counts as a valid start
	input.Start = "2024-01-01"
	input.End = "2024-01-02"
	require.Empty(t, ValidateTask(input, nil, now))

	// Unparseable dates skip the range checks
	input.Start = "not-a-date"
	input.End = "also-not-a-date"
	require.Empty(t, ValidateTask(input, nil, now))
}

func TestValidateTask_ClosedValueSets(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	input := TaskInput{
		ProjectID: "p1",
		Name:      "Design the landing page",
		Assignee:  "alice",
		Start:     "2024-01-02",
		End:       "2024-01-05",
		Priority:  models.TaskPriority("Critical"),
		Progress:  models.TaskProgress("Stalled"),
		Status:    models.TaskStatus("Archived"),
	}

	errs := ValidateTask(input, nil, now)
	require.Contains(t, errs, "priority")
	require.Contains(t, errs, "progress")
	require.Contains(t, errs, "status")

	input.Priority = models.PriorityHigh
	input.Progress = models.ProgressAtRisk
	input.Status = models.StatusPending
	require.Empty(t, ValidateTask(input, nil, now))
}

func TestValidateTask_TodayInCallersZone(t *testing.T) {
	// 01:00 local, zone seven hours behind UTC; the same calendar day must
	// count as today even though UTC has moved on
	zone := time.FixedZone("UTC-7", -7*3600)
	now := time.Date(2024, 1, 1, 1, 0, 0, 0, zone)

	input := TaskInput{
		ProjectID: "p1",
		Name:      "Design the landing page",
		Assignee:  "alice",
		Start:     "2024-01-01",
		End:       "2024-01-02",
	}

	require.Empty(t, ValidateTask(input, nil, now))
}

func TestTaskService_ResolveAssignee(t *testing.T) {
	env := setupTaskEnv(t)

	byName, ok, err := env.svc.ResolveAssignee("alice")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, env.owner.ID, byName.ID)

	byEmail, ok, err := env.svc.ResolveAssignee("alice@example.com")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, env.owner.ID, byEmail.ID)

	_, ok, err = env.svc.ResolveAssignee("nobody")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestTaskService_SaveTask_Create(t *testing.T) {
	env := setupTaskEnv(t)

	task, err := env.svc.SaveTask(validTaskInput(env.project.ID))
	require.NoError(t, err)
	require.NotZero(t, task.ID)
	require.NotNil(t, task.AssigneeID)
	require.Equal(t, env.owner.ID, *task.AssigneeID)

	// Omitted enums fall back to their defaults
	require.Equal(t, models.PriorityMedium, task.Priority)
	require.Equal(t, models.ProgressOnTrack, task.Progress)
	require.Equal(t, models.StatusTodo, task.Status)
}

func TestTaskService_SaveTask_UnresolvableAssignee(t *testing.T) {
	env := setupTaskEnv(t)

	input := validTaskInput(env.project.ID)
	input.Assignee = "charlie"

	task, err := env.svc.SaveTask(input)
	require.NoError(t, err)
	require.Nil(t, task.AssigneeID)
}

func TestTaskService_SaveTask_DuplicateName(t *testing.T) {
	env := setupTaskEnv(t)

	_, err := env.svc.SaveTask(validTaskInput(env.project.ID))
	require.NoError(t, err)

	input := validTaskInput(env.project.ID)
	input.Name = "DESIGN the landing page"
	_, err = env.svc.SaveTask(input)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Contains(t, validationErr.Fields, "name")
}

func TestTaskService_SaveTask_Update(t *testing.T) {
	env := setupTaskEnv(t)

	created, err := env.svc.SaveTask(validTaskInput(env.project.ID))
	require.NoError(t, err)

	input := validTaskInput(env.project.ID)
	input.ID = created.ID
	input.Name = "Design the landing page v2"
	input.Status = models.StatusInProgress

	updated, err := env.svc.SaveTask(input)
	require.NoError(t, err)
	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, "Design the landing page v2", updated.TaskName)
	require.Equal(t, models.StatusInProgress, updated.Status)
}

func TestTaskService_SaveTask_InvalidStatus(t *testing.T) {
	env := setupTaskEnv(t)

	input := validTaskInput(env.project.ID)
	input.Status = models.TaskStatus("Archived")
	input.Priority = models.TaskPriority("Critical")

	_, err := env.svc.SaveTask(input)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Contains(t, validationErr.Fields, "status")
	require.Contains(t, validationErr.Fields, "priority")

	tasks, err := repository.NewTaskRepository(env.db).ListByProject(env.project.ID)
	require.NoError(t, err)
	require.Empty(t, tasks)
}

func TestTaskService_SaveTask_ProjectMismatch(t *testing.T) {
	env := setupTaskEnv(t)

	created, err := env.svc.SaveTask(validTaskInput(env.project.ID))
	require.NoError(t, err)

	projectService := NewProjectService(repository.NewProjectRepository(env.db))
	other, err := projectService.CreateProject(ProjectInput{Name: "Mobile App"}, env.owner.ID)
	require.NoError(t, err)

	input := validTaskInput(other.ID)
	input.ID = created.ID
	input.Name = "Renamed through the wrong project"

	_, err = env.svc.SaveTask(input)
	require.ErrorIs(t, err, ErrTaskNotFound)

	stored, err := env.svc.taskRepo.FindByID(created.ID)
	require.NoError(t, err)
	require.Equal(t, created.TaskName, stored.TaskName)
	require.Equal(t, env.project.ID, stored.ProjectID)
}

func TestTaskService_SaveTask_UnknownProject(t *testing.T) {
	env := setupTaskEnv(t)

	_, err := env.svc.SaveTask(validTaskInput("missing"))
	require.ErrorIs(t, err, ErrProjectNotFound)
}

func TestTaskService_DeleteTask(t *testing.T) {
	env := setupTaskEnv(t)

	task, err := env.svc.SaveTask(validTaskInput(env.project.ID))
	require.NoError(t, err)

	require.NoError(t, env.svc.DeleteTask(task.ID))
	require.ErrorIs(t, env.svc.DeleteTask(task.ID), ErrTaskNotFound)
}

func TestTaskService_ProjectBoard(t *testing.T) {
	env := setupTaskEnv(t)
	createTestUser(t, env.db, "bob", "bob@example.com")

	first := validTaskInput(env.project.ID)
	_, err := env.svc.SaveTask(first)
	require.NoError(t, err)

	second := validTaskInput(env.project.ID)
	second.Name = "Review the pull requests"
	second.Assignee = "bob"
	second.Status = models.StatusDone
	_, err = env.svc.SaveTask(second)
	require.NoError(t, err)

	groups, names, err := env.svc.ProjectBoard(env.project.ID, "", query.SortByStatus)
	require.NoError(t, err)
	require.Len(t, groups, len(models.AllStatuses))
	require.Len(t, groups[models.StatusTodo], 1)
	require.Len(t, groups[models.StatusDone], 1)
	require.Equal(t, "alice", names[env.owner.ID])

	// Search matches on the resolved assignee name too
	groups, _, err = env.svc.ProjectBoard(env.project.ID, "bob", query.SortByStatus)
	require.NoError(t, err)
	require.Empty(t, groups[models.StatusTodo])
	require.Len(t, groups[models.StatusDone], 1)
}

func TestTaskService_MyTasks(t *testing.T) {
	env := setupTaskEnv(t)
	bob := createTestUser(t, env.db, "bob", "bob@example.com")

	projectRepo := repository.NewProjectRepository(env.db)
	projectService := NewProjectService(projectRepo)
	second, err := projectService.CreateProject(ProjectInput{Name: "Mobile App"}, env.owner.ID)
	require.NoError(t, err)

	// A project alice does not belong to must not show up
	_, err = projectService.CreateProject(ProjectInput{Name: "Bob Project"}, bob.ID)
	require.NoError(t, err)

	_, err = env.svc.SaveTask(validTaskInput(env.project.ID))
	require.NoError(t, err)

	groups, err := env.svc.MyTasks(env.owner.ID, "", query.SortByStatus)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	require.Equal(t, env.project.ID, groups[0].ProjectID)
	require.Len(t, groups[0].Tasks, 1)

	// The task-less project still yields an empty group
	require.Equal(t, second.ID, groups[1].ProjectID)
	require.Empty(t, groups[1].Tasks)

	// A search with no hits keeps every group, each empty
	groups, err = env.svc.MyTasks(env.owner.ID, "no such task", query.SortByStatus)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	require.Empty(t, groups[0].Tasks)
	require.Empty(t, groups[1].Tasks)
}
