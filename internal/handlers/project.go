package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hoangnm/project-board-api/internal/dto"
	apierrors "github.com/hoangnm/project-board-api/internal/errors"
	"github.com/hoangnm/project-board-api/internal/middleware"
	"github.com/hoangnm/project-board-api/internal/models"
	"github.com/hoangnm/project-board-api/internal/services"
	"github.com/hoangnm/project-board-api/internal/utils"
)

// ProjectHandler coordinates project CRUD endpoints.
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// ListProjects returns the page of projects owned by the current user,
// filtered by the optional name search.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)
	search := c.Query("search")

	projects, total, err := h.projectService.ListOwnedProjects(userID, search, params.Page, params.Limit)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch projects")
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectListResponse(projects, params, int64(total)))
}

// CreateProject creates a project owned by the current user.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateProjectRequest struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		Image       string `json:"image"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(services.ProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
	}, userID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// GetProject returns project details. The record is already loaded by the
// RequireProjectAccess middleware.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	projectInterface, _ := c.Get("project")
	project, ok := projectInterface.(models.Project)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	memberInterface, _ := c.Get("project_member")
	member, _ := memberInterface.(models.ProjectMember)

	c.JSON(http.StatusOK, gin.H{
		"project":   dto.ToProjectDTO(project),
		"your_role": member.Role,
	})
}

// UpdateProject replaces the project record.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	type UpdateProjectRequest struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		Image       string `json:"image"`
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.UpdateProject(c.Param("id"), services.ProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// DeleteProject removes a project and everything inside it.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	if err := h.projectService.DeleteProject(c.Param("id")); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project deleted successfully",
	})
}

func respondProjectError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		apierrors.ValidationFailed(c, validationErr.Fields)
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
