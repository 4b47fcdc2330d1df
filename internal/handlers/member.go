package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hoangnm/project-board-api/internal/dto"
	apierrors "github.com/hoangnm/project-board-api/internal/errors"
	"github.com/hoangnm/project-board-api/internal/services"
)

// MemberHandler coordinates the project membership endpoints.
type MemberHandler struct {
	membershipService *services.MembershipService
}

// NewMemberHandler creates a new MemberHandler.
func NewMemberHandler(membershipService *services.MembershipService) *MemberHandler {
	return &MemberHandler{
		membershipService: membershipService,
	}
}

// AddMember adds a user to the project by email.
func (h *MemberHandler) AddMember(c *gin.Context) {
	type AddMemberRequest struct {
		Email string `json:"email" binding:"required,email"`
		Role  string `json:"role" binding:"required"`
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.membershipService.AddMember(c.Param("id"), req.Email, req.Role)
	if err != nil {
		respondMemberError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// UpdateMemberRoles applies a batch of role edits in one save: each edit is
// staged against the current member list, then the full record is persisted
// once.
func (h *MemberHandler) UpdateMemberRoles(c *gin.Context) {
	type RoleEdit struct {
		Email string `json:"email" binding:"required,email"`
		Role  string `json:"role" binding:"required"`
	}
	type UpdateRolesRequest struct {
		Edits []RoleEdit `json:"edits" binding:"required,min=1"`
	}

	var req UpdateRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	buffer, err := h.membershipService.BeginRoleEdits(c.Param("id"))
	if err != nil {
		respondMemberError(c, err)
		return
	}

	for _, edit := range req.Edits {
		if err := buffer.Stage(edit.Email, edit.Role); err != nil {
			respondMemberError(c, err)
			return
		}
	}

	project, err := buffer.Commit()
	if err != nil {
		respondMemberError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// RemoveMember removes the member with the given email. The two-phase
// confirmation happens client-side; this DELETE is the confirm step.
func (h *MemberHandler) RemoveMember(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		apierrors.BadRequest(c, "email query parameter is required")
		return
	}

	project, err := h.membershipService.RemoveMember(c.Param("id"), email)
	if err != nil {
		respondMemberError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

func respondMemberError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrMemberNotFound),
		errors.Is(err, services.ErrNotProjectMember):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrDuplicateMember):
		apierrors.RespondWithError(c, http.StatusConflict,
			apierrors.NewAPIError(apierrors.ErrCodeAlreadyExists, err.Error()))
	case errors.Is(err, services.ErrOwnerImmutable):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrRoleRequired):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
