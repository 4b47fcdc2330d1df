package repository

import (
	"github.com/hoangnm/project-board-api/internal/models"
)

// UserRepository defines the interface for the user directory
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// List returns every registered user
	List() ([]models.User, error)
}

// ProjectRepository defines the interface for project data access.
// A project record owns its member list; writes always replace the full
// record, members included.
type ProjectRepository interface {
	// Create creates a project together with its initial members
	Create(project *models.Project) error

	// FindByID finds a project by ID with members loaded
	FindByID(id string) (*models.Project, error)

	// List returns all projects with members loaded
	List() ([]models.Project, error)

	// Update persists the full project record, replacing the member list
	Update(project *models.Project) error

	// Delete removes a project and all related data
	Delete(id string) error

	// FindMember finds a specific project member
	FindMember(projectID string, userID uint64) (*models.ProjectMember, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID
	FindByID(id uint64) (*models.Task, error)

	// ListByProject returns all tasks of one project
	ListByProject(projectID string) ([]models.Task, error)

	// ListByProjects returns all tasks across the given projects
	ListByProjects(projectIDs []string) ([]models.Task, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete soft deletes a task
	Delete(id uint64) error

	// DeleteByProject removes every task of a project
	DeleteByProject(projectID string) error
}
