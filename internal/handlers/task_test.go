package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hoangnm/project-board-api/internal/constants"
	"github.com/hoangnm/project-board-api/internal/database"
	"github.com/hoangnm/project-board-api/internal/dto"
	"github.com/hoangnm/project-board-api/internal/models"
	"github.com/hoangnm/project-board-api/internal/repository"
	"github.com/hoangnm/project-board-api/internal/services"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type taskTestEnv struct {
	db          *gorm.DB
	handler     *TaskHandler
	taskService *services.TaskService
	owner       *models.User
	project     *models.Project
}

func setupTaskTestEnv(t *testing.T) taskTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Task{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	taskRepo := repository.NewTaskRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	userRepo := repository.NewUserRepository(db)
	taskService := services.NewTaskService(taskRepo, projectRepo, userRepo)
	handler := NewTaskHandler(taskService)

	owner := createHandlerTestUser(t, db, "owner", "owner@example.com")

	projectService := services.NewProjectService(projectRepo)
	project, err := projectService.CreateProject(services.ProjectInput{Name: "Website Redesign"}, owner.ID)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return taskTestEnv{
		db:          db,
		handler:     handler,
		taskService: taskService,
		owner:       owner,
		project:     project,
	}
}

func taskPayload(projectID string) map[string]string {
	start := time.Now().AddDate(0, 0, 1).Format(constants.DateLayout)
	end := time.Now().AddDate(0, 0, 5).Format(constants.DateLayout)
	return map[string]string{
		"projectId": projectID,
		"name":      "Design the landing page",
		"assignee":  "owner",
		"start":     start,
		"end":       end,
	}
}

func TestTaskHandler_CreateTask(t *testing.T) {
	env := setupTaskTestEnv(t)

	body, err := json.Marshal(taskPayload(env.project.ID))
	require.NoError(t, err)

	c, w := authedTestContext(http.MethodPost, "/api/tasks", body, env.owner.ID)

	env.handler.CreateTask(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.TaskDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotZero(t, response.ID)
	require.Equal(t, "Design the landing page", response.TaskName)
	require.Equal(t, "owner", response.AssigneeName)
	require.Equal(t, models.StatusTodo, response.Status)
}

func TestTaskHandler_CreateTask_NotAMember(t *testing.T) {
	env := setupTaskTestEnv(t)
	outsider := createHandlerTestUser(t, env.db, "outsider", "outsider@example.com")

	body, err := json.Marshal(taskPayload(env.project.ID))
	require.NoError(t, err)

	c, w := authedTestContext(http.MethodPost, "/api/tasks", body, outsider.ID)

	env.handler.CreateTask(c)

	// 404 rather than 403, so membership is not leaked
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTaskHandler_CreateTask_ValidationFailure(t *testing.T) {
	env := setupTaskTestEnv(t)

	payload := taskPayload(env.project.ID)
	payload["name"] = "abcd"
	payload["start"] = "2020-01-01"
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	c, w := authedTestContext(http.MethodPost, "/api/tasks", body, env.owner.ID)

	env.handler.CreateTask(c)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var response struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "VALIDATION_FAILED", response.Code)
	require.Contains(t, response.Details, "name")
	require.Contains(t, response.Details, "start")
}

func TestTaskHandler_UpdateTask(t *testing.T) {
	env := setupTaskTestEnv(t)

	created, err := env.taskService.SaveTask(services.TaskInput{
		ProjectID: env.project.ID,
		Name:      "Design the landing page",
		Assignee:  "owner",
		Start:     time.Now().AddDate(0, 0, 1).Format(constants.DateLayout),
		End:       time.Now().AddDate(0, 0, 5).Format(constants.DateLayout),
	})
	require.NoError(t, err)

	payload := taskPayload(env.project.ID)
	payload["name"] = "Design the landing page v2"
	payload["status"] = string(models.StatusInProgress)
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	c, w := authedTestContext(http.MethodPut, "/api/tasks/1", body, env.owner.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	env.handler.UpdateTask(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.TaskDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, created.ID, response.ID)
	require.Equal(t, "Design the landing page v2", response.TaskName)
	require.Equal(t, models.StatusInProgress, response.Status)
}

func TestTaskHandler_UpdateTask_OtherProjectsTask(t *testing.T) {
	env := setupTaskTestEnv(t)
	mallory := createHandlerTestUser(t, env.db, "mallory", "mallory@example.com")

	projectService := services.NewProjectService(repository.NewProjectRepository(env.db))
	own, err := projectService.CreateProject(services.ProjectInput{Name: "Mallory Project"}, mallory.ID)
	require.NoError(t, err)

	victim, err := env.taskService.SaveTask(services.TaskInput{
		ProjectID: env.project.ID,
		Name:      "Design the landing page",
		Assignee:  "owner",
		Start:     time.Now().AddDate(0, 0, 1).Format(constants.DateLayout),
		End:       time.Now().AddDate(0, 0, 5).Format(constants.DateLayout),
	})
	require.NoError(t, err)

	// A member of an unrelated project naming their own project in the
	// body must not reach a task they cannot see
	payload := taskPayload(own.ID)
	payload["name"] = "Renamed from outside"
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	c, w := authedTestContext(http.MethodPut, "/api/tasks/1", body, mallory.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	env.handler.UpdateTask(c)

	require.Equal(t, http.StatusNotFound, w.Code)

	var stored models.Task
	require.NoError(t, env.db.First(&stored, victim.ID).Error)
	require.Equal(t, "Design the landing page", stored.TaskName)
}

func TestTaskHandler_DeleteTask(t *testing.T) {
	env := setupTaskTestEnv(t)

	task, err := env.taskService.SaveTask(services.TaskInput{
		ProjectID: env.project.ID,
		Name:      "Design the landing page",
		Assignee:  "owner",
		Start:     time.Now().AddDate(0, 0, 1).Format(constants.DateLayout),
		End:       time.Now().AddDate(0, 0, 5).Format(constants.DateLayout),
	})
	require.NoError(t, err)

	c, w := authedTestContext(http.MethodDelete, "/api/tasks/1", nil, env.owner.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	env.handler.DeleteTask(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.ErrorIs(t, env.taskService.DeleteTask(task.ID), services.ErrTaskNotFound)
}

func TestTaskHandler_DeleteTask_NotAMember(t *testing.T) {
	env := setupTaskTestEnv(t)
	outsider := createHandlerTestUser(t, env.db, "outsider", "outsider@example.com")

	_, err := env.taskService.SaveTask(services.TaskInput{
		ProjectID: env.project.ID,
		Name:      "Design the landing page",
		Assignee:  "owner",
		Start:     time.Now().AddDate(0, 0, 1).Format(constants.DateLayout),
		End:       time.Now().AddDate(0, 0, 5).Format(constants.DateLayout),
	})
	require.NoError(t, err)

	c, w := authedTestContext(http.MethodDelete, "/api/tasks/1", nil, outsider.ID)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	env.handler.DeleteTask(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTaskHandler_ProjectBoard(t *testing.T) {
	env := setupTaskTestEnv(t)

	_, err := env.taskService.SaveTask(services.TaskInput{
		ProjectID: env.project.ID,
		Name:      "Design the landing page",
		Assignee:  "owner",
		Start:     time.Now().AddDate(0, 0, 1).Format(constants.DateLayout),
		End:       time.Now().AddDate(0, 0, 5).Format(constants.DateLayout),
	})
	require.NoError(t, err)

	c, w := authedTestContext(http.MethodGet, "/api/projects/"+env.project.ID+"/tasks", nil, env.owner.ID)
	c.Params = gin.Params{{Key: "id", Value: env.project.ID}}

	env.handler.ProjectBoard(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Groups []dto.StatusGroupDTO `json:"groups"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Groups, len(models.AllStatuses))
	require.Equal(t, models.StatusTodo, response.Groups[0].Status)
	require.Len(t, response.Groups[0].Tasks, 1)
	require.Empty(t, response.Groups[3].Tasks)
}

func TestTaskHandler_MyTasks(t *testing.T) {
	env := setupTaskTestEnv(t)

	_, err := env.taskService.SaveTask(services.TaskInput{
		ProjectID: env.project.ID,
		Name:      "Design the landing page",
		Assignee:  "owner",
		Start:     time.Now().AddDate(0, 0, 1).Format(constants.DateLayout),
		End:       time.Now().AddDate(0, 0, 5).Format(constants.DateLayout),
	})
	require.NoError(t, err)

	c, w := authedTestContext(http.MethodGet, "/api/tasks/mine", nil, env.owner.ID)

	env.handler.MyTasks(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Groups []dto.ProjectGroupDTO `json:"groups"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Groups, 1)
	require.Equal(t, env.project.ID, response.Groups[0].ProjectID)
	require.Len(t, response.Groups[0].Tasks, 1)
	require.Equal(t, "owner", response.Groups[0].Tasks[0].AssigneeName)
}
