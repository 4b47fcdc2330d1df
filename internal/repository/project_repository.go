package repository

import (
	"github.com/hoangnm/project-board-api/internal/models"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a project together with its initial members
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// FindByID finds a project by ID with members loaded
func (r *GormProjectRepository) FindByID(id string) (*models.Project, error) {
	var project models.Project
	if err := r.db.Preload("Members").Preload("Members.User").
		Where("id = ?", id).First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// List returns all projects with members loaded
func (r *GormProjectRepository) List() ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.Preload("Members").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Update persists the full project record in one transaction, replacing the
// member rows wholesale. There is no partial-patch path; concurrent editors
// of the same project race on this read-modify-write.
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Members").Save(project).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", project.ID).
			Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}

		if len(project.Members) == 0 {
			return nil
		}

		members := make([]models.ProjectMember, len(project.Members))
		for i, m := range project.Members {
			members[i] = models.ProjectMember{
				ProjectID: project.ID,
				UserID:    m.UserID,
				Role:      m.Role,
			}
		}

		return tx.Create(&members).Error
	})
}

// Delete removes a project and all related data in a transaction
func (r *GormProjectRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", id).Delete(&models.Project{}).Error
	})
}

// FindMember finds a specific project member
func (r *GormProjectRepository) FindMember(projectID string, userID uint64) (*models.ProjectMember, error) {
	var member models.ProjectMember
	if err := r.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}
