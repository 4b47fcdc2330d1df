package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/hoangnm/project-board-api/internal/database"
	apierrors "github.com/hoangnm/project-board-api/internal/errors"
	"github.com/hoangnm/project-board-api/internal/models"
)

// RequireProjectAccess checks if the user is a member of the project
func RequireProjectAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID := c.Param("id")
		if projectID == "" {
			apierrors.BadRequest(c, "Invalid project ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var project models.Project
		if err := database.GetDB().
			Preload("Members").
			Preload("Members.User").
			Where("id = ?", projectID).
			First(&project).Error; err != nil {
			apierrors.NotFound(c, "Project not found")
			c.Abort()
			return
		}

		// Return 404 instead of 403 to avoid leaking project existence
		var member models.ProjectMember
		if err := database.GetDB().
			Where("project_id = ? AND user_id = ?", projectID, userID).
			First(&member).Error; err != nil {
			apierrors.NotFound(c, "Project not found")
			c.Abort()
			return
		}

		c.Set("project", project)
		c.Set("project_member", member)
		c.Next()
	}
}

// RequireProjectOwner checks if the user holds the "Project owner" role.
// Must run after RequireProjectAccess.
func RequireProjectOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		memberInterface, exists := c.Get("project_member")
		if !exists {
			apierrors.Forbidden(c, "Project access required")
			c.Abort()
			return
		}

		member, ok := memberInterface.(models.ProjectMember)
		if !ok {
			apierrors.InternalError(c, "Invalid project member data")
			c.Abort()
			return
		}

		if !member.IsOwner() {
			apierrors.Forbidden(c, "Only the project owner can perform this action")
			c.Abort()
			return
		}

		c.Next()
	}
}
