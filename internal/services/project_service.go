package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/hoangnm/project-board-api/internal/constants"
	"github.com/hoangnm/project-board-api/internal/models"
	"github.com/hoangnm/project-board-api/internal/query"
	"github.com/hoangnm/project-board-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound = errors.New("project not found")
)

// ValidationError carries the field -> message map of a failed validation.
// It is computed before any store access; an input that produces one never
// reaches the database.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// ProjectService provides business logic for project records.
type ProjectService struct {
	projectRepo repository.ProjectRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
	}
}

// ProjectInput represents parameters to create or update a project.
type ProjectInput struct {
	Name        string
	Description string
	Image       string
}

// ValidateProject checks a project input against the existing project set.
// Name must be present, at least 3 characters and unique across all
// projects (case-insensitive, trimmed); a description, when given, needs at
// least 10 characters. excludeID skips the project's own record on edit.
func ValidateProject(input ProjectInput, existing []models.Project, excludeID string) map[string]string {
	errs := make(map[string]string)

	name := strings.TrimSpace(input.Name)
	description := strings.TrimSpace(input.Description)

	switch {
	case name == "":
		errs["name"] = "Project name is required"
	case utf8.RuneCountInString(name) < constants.MinProjectNameLength:
		errs["name"] = fmt.Sprintf("Project name must be at least %d characters", constants.MinProjectNameLength)
	default:
		for _, p := range existing {
			if p.ID == excludeID {
				continue
			}
			if strings.EqualFold(strings.TrimSpace(p.Name), name) {
				errs["name"] = "Project name already exists"
				break
			}
		}
	}

	if description != "" && utf8.RuneCountInString(description) < constants.MinProjectDescriptionLength {
		errs["description"] = fmt.Sprintf("Project description must be at least %d characters", constants.MinProjectDescriptionLength)
	}

	return errs
}

// CreateProject creates a project with a random unique ID and the creator
// as its sole "Project owner" member.
func (s *ProjectService) CreateProject(input ProjectInput, ownerID uint64) (*models.Project, error) {
	existing, err := s.projectRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	if errs := ValidateProject(input, existing, ""); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	project := &models.Project{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Image:       input.Image,
		Members: []models.ProjectMember{
			{UserID: ownerID, Role: models.RoleProjectOwner},
		},
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// UpdateProject validates and persists the full project record.
func (s *ProjectService) UpdateProject(projectID string, input ProjectInput) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	existing, err := s.projectRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	if errs := ValidateProject(input, existing, projectID); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	project.Name = strings.TrimSpace(input.Name)
	project.Description = strings.TrimSpace(input.Description)
	// The image only changes when an edit carries a freshly uploaded URL;
	// an empty input keeps the current one rather than clearing it.
	if input.Image != "" {
		project.Image = input.Image
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// DeleteProject removes a project with its tasks and memberships.
func (s *ProjectService) DeleteProject(projectID string) error {
	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}

	if err := s.projectRepo.Delete(projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return nil
}

// GetProject returns a project with its members loaded.
func (s *ProjectService) GetProject(projectID string) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	return project, nil
}

// ListOwnedProjects returns the page of projects the user owns, after the
// in-memory name search. Search runs before the ownership filter, matching
// the project-list view.
func (s *ProjectService) ListOwnedProjects(userID uint64, search string, page, limit int) ([]models.Project, int, error) {
	projects, err := s.projectRepo.List()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}

	matched := query.FilterProjectsByName(projects, search)
	owned := query.FilterByOwnership(matched, userID)

	total := len(owned)
	start := (page - 1) * limit
	if start >= total {
		return []models.Project{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}

	return owned[start:end], total, nil
}
