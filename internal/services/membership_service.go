package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hoangnm/project-board-api/internal/models"
	"github.com/hoangnm/project-board-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrMemberNotFound   = errors.New("no user with that email is registered")
	ErrNotProjectMember = errors.New("user is not a member of this project")
	ErrDuplicateMember  = errors.New("user is already a member of this project")
	ErrOwnerImmutable   = errors.New("the project owner cannot be removed or re-roled")
	ErrRoleRequired     = errors.New("role is required")
)

// MembershipService mutates a project's member list. Every committed change
// is a single read-modify-write of the full project record against the
// store; a failed persist leaves committed state untouched.
type MembershipService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
}

// NewMembershipService creates a new MembershipService.
func NewMembershipService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository) *MembershipService {
	return &MembershipService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// AddMember resolves the candidate email against the user directory,
// rejects duplicates by email comparison of resolved identities (two users
// must not collide on email, so userId alone is not enough), appends the
// member and persists the full record.
func (s *MembershipService) AddMember(projectID, email, role string) (*models.Project, error) {
	if strings.TrimSpace(role) == "" {
		return nil, ErrRoleRequired
	}

	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	for _, m := range project.Members {
		if strings.EqualFold(m.User.Email, user.Email) {
			return nil, ErrDuplicateMember
		}
	}

	project.Members = append(project.Members, models.ProjectMember{
		ProjectID: project.ID,
		UserID:    user.ID,
		Role:      role,
	})

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to persist members: %w", err)
	}

	return project, nil
}

// RemoveMember filters the member with the given email out of the project
// and persists the full record. The "Project owner" member is never
// removable; the confirmation step lives at the API edge.
func (s *MembershipService) RemoveMember(projectID, email string) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	idx := -1
	for i, m := range project.Members {
		if m.UserID == user.ID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrNotProjectMember
	}
	if project.Members[idx].IsOwner() {
		return nil, ErrOwnerImmutable
	}

	project.Members = append(project.Members[:idx], project.Members[idx+1:]...)

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to persist members: %w", err)
	}

	return project, nil
}

// RoleEditBuffer is the explicit two-phase buffer for role edits: stages are
// local-only until Commit persists them in one full-record write.
type RoleEditBuffer struct {
	svc     *MembershipService
	project *models.Project
	pending map[uint64]string
}

// BeginRoleEdits loads the project and opens an edit buffer over its
// current member list.
func (s *MembershipService) BeginRoleEdits(projectID string) (*RoleEditBuffer, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	return &RoleEditBuffer{
		svc:     s,
		project: project,
		pending: make(map[uint64]string),
	}, nil
}

// Stage records a role change for the member with the given email. The
// "Project owner" member is never editable. Nothing is persisted until
// Commit.
func (b *RoleEditBuffer) Stage(email, newRole string) error {
	if strings.TrimSpace(newRole) == "" {
		return ErrRoleRequired
	}

	for _, m := range b.project.Members {
		if !strings.EqualFold(m.User.Email, email) {
			continue
		}
		if m.IsOwner() {
			return ErrOwnerImmutable
		}
		b.pending[m.UserID] = newRole
		return nil
	}

	return ErrNotProjectMember
}

// Pending returns the staged, uncommitted role edits keyed by user ID.
func (b *RoleEditBuffer) Pending() map[uint64]string {
	staged := make(map[uint64]string, len(b.pending))
	for id, role := range b.pending {
		staged[id] = role
	}
	return staged
}

// Commit applies every staged edit to the member list and persists the full
// project record in one write. A buffer with no stages commits as a no-op.
func (b *RoleEditBuffer) Commit() (*models.Project, error) {
	if len(b.pending) == 0 {
		return b.project, nil
	}

	for i, m := range b.project.Members {
		if role, ok := b.pending[m.UserID]; ok {
			b.project.Members[i].Role = role
		}
	}

	if err := b.svc.projectRepo.Update(b.project); err != nil {
		return nil, fmt.Errorf("failed to persist members: %w", err)
	}

	b.pending = make(map[uint64]string)
	return b.project, nil
}
