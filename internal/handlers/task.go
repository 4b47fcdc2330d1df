package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hoangnm/project-board-api/internal/database"
	"github.com/hoangnm/project-board-api/internal/dto"
	apierrors "github.com/hoangnm/project-board-api/internal/errors"
	"github.com/hoangnm/project-board-api/internal/middleware"
	"github.com/hoangnm/project-board-api/internal/models"
	"github.com/hoangnm/project-board-api/internal/query"
	"github.com/hoangnm/project-board-api/internal/services"
)

// TaskHandler coordinates task endpoints.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// TaskRequest is the wire shape of a task create/update payload.
type TaskRequest struct {
	ProjectID string `json:"projectId" binding:"required"`
	Name      string `json:"name"`
	Assignee  string `json:"assignee"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Priority  string `json:"priority"`
	Progress  string `json:"progress"`
	Status    string `json:"status"`
}

// MyTasks returns the current user's tasks across every project they belong
// to, searched, sorted and grouped by project.
func (h *TaskHandler) MyTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	search := c.Query("search")
	sortKey := query.SortKey(c.DefaultQuery("sort", string(query.SortByStatus)))

	groups, err := h.taskService.MyTasks(userID, search, sortKey)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch tasks")
		return
	}

	names, err := h.assigneeNames()
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch users")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"groups": dto.ToProjectGroups(groups, names),
	})
}

// ProjectBoard returns one project's tasks grouped by workflow status.
// Project access is enforced by RequireProjectAccess on the route.
func (h *TaskHandler) ProjectBoard(c *gin.Context) {
	search := c.Query("search")
	sortKey := query.SortKey(c.Query("sort"))

	groups, names, err := h.taskService.ProjectBoard(c.Param("id"), search, sortKey)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch tasks")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"groups": dto.ToStatusGroups(groups, names),
	})
}

// CreateTask creates a task in a project the current user belongs to.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if !h.isProjectMember(req.ProjectID, userID) {
		apierrors.NotFound(c, "Project not found")
		return
	}

	task, err := h.taskService.SaveTask(taskInputFromRequest(req, 0))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	names, err := h.assigneeNames()
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch users")
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task, names))
}

// UpdateTask replaces a task's fields.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	// Membership is checked against the stored task's project, not the
	// request body, so a body naming another project cannot widen access.
	var existing models.Task
	if err := database.GetDB().First(&existing, taskID).Error; err != nil {
		apierrors.NotFound(c, "Task not found")
		return
	}

	if !h.isProjectMember(existing.ProjectID, userID) {
		apierrors.NotFound(c, "Task not found")
		return
	}

	task, err := h.taskService.SaveTask(taskInputFromRequest(req, taskID))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	names, err := h.assigneeNames()
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch users")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task, names))
}

// DeleteTask removes a task. Deletion is confirmed client-side before this
// request is issued.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	var task models.Task
	if err := database.GetDB().First(&task, taskID).Error; err != nil {
		apierrors.NotFound(c, "Task not found")
		return
	}

	if !h.isProjectMember(task.ProjectID, userID) {
		apierrors.NotFound(c, "Task not found")
		return
	}

	if err := h.taskService.DeleteTask(taskID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

// isProjectMember reports whether the user belongs to the project with any
// role.
func (h *TaskHandler) isProjectMember(projectID string, userID uint64) bool {
	var member models.ProjectMember
	err := database.GetDB().
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&member).Error
	return err == nil
}

func (h *TaskHandler) assigneeNames() (map[uint64]string, error) {
	var users []models.User
	if err := database.GetDB().Find(&users).Error; err != nil {
		return nil, err
	}

	names := make(map[uint64]string, len(users))
	for _, u := range users {
		names[u.ID] = u.UserName
	}
	return names, nil
}

func taskInputFromRequest(req TaskRequest, taskID uint64) services.TaskInput {
	return services.TaskInput{
		ID:        taskID,
		ProjectID: req.ProjectID,
		Name:      req.Name,
		Assignee:  req.Assignee,
		Start:     req.Start,
		End:       req.End,
		Priority:  models.TaskPriority(req.Priority),
		Progress:  models.TaskProgress(req.Progress),
		Status:    models.TaskStatus(req.Status),
	}
}

func respondTaskError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		apierrors.ValidationFailed(c, validationErr.Fields)
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
