package models

// RoleProjectOwner is the reserved membership role. Exactly one member holds
// it per project; that member cannot be removed or re-roled through the
// membership workflow. Every other role is free text.
const RoleProjectOwner = "Project owner"

type ProjectMember struct {
	ProjectID string `gorm:"type:varchar(36);primarykey" json:"-"`
	UserID    uint64 `gorm:"primarykey" json:"userId"`
	Role      string `gorm:"type:varchar(100);not null" json:"role"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// IsOwner reports whether the member holds the reserved owner role.
func (m ProjectMember) IsOwner() bool {
	return m.Role == RoleProjectOwner
}
