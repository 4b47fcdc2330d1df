package dto

import (
	"github.com/hoangnm/project-board-api/internal/models"
	"github.com/hoangnm/project-board-api/internal/utils"
)

// MemberDTO represents a project member with the resolved directory
// identity alongside the role.
type MemberDTO struct {
	UserID uint64 `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role"`
}

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Image       string      `json:"image,omitempty"`
	Members     []MemberDTO `json:"members"`
}

// ProjectListResponse represents a paginated list of projects
type ProjectListResponse struct {
	Projects   []ProjectDTO             `json:"projects"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToMemberDTO converts a project member to DTO. The name falls back to
// empty when the user relation was not loaded.
func ToMemberDTO(member models.ProjectMember) MemberDTO {
	return MemberDTO{
		UserID: member.UserID,
		Name:   member.User.UserName,
		Email:  member.User.Email,
		Role:   member.Role,
	}
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	members := make([]MemberDTO, len(project.Members))
	for i, m := range project.Members {
		members[i] = ToMemberDTO(m)
	}

	return ProjectDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		Image:       project.Image,
		Members:     members,
	}
}

// ToProjectListResponse converts a page of projects to the list response
func ToProjectListResponse(projects []models.Project, params utils.PaginationParams, total int64) ProjectListResponse {
	items := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		items[i] = ToProjectDTO(p)
	}

	return ProjectListResponse{
		Projects: items,
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	}
}
