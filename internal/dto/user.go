package dto

import (
	"github.com/hoangnm/project-board-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64 `json:"id"`
	UserName string `json:"userName"`
	Email    string `json:"email"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		UserName: user.UserName,
		Email:    user.Email,
	}
}
