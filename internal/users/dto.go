package users

import (
	"time"

	"github.com/sushka2023/sushka-shop-backend/pkg/db/models"
	"github.com/sushka2023/sushka-shop-backend/pkg/enums"
)

// CreateUserDTO carries the fields required to persist a new account.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	PhoneNumber  *string
}

// ToModel converts the DTO into a GORM user model.
func (dto CreateUserDTO) ToModel() *models.User {
	return &models.User{
		Email:        dto.Email,
		PasswordHash: dto.PasswordHash,
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		PhoneNumber:  dto.PhoneNumber,
		Role:         enums.RoleUser,
		IsActive:     true,
	}
}

// UserDTO is the public projection of an account.
type UserDTO struct {
	ID             uint       `json:"id"`
	Email          string     `json:"email"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	PhoneNumber    *string    `json:"phone_number,omitempty"`
	Role           enums.Role `json:"role"`
	ConfirmedEmail bool       `json:"confirmed_email"`
	CreatedAt      time.Time  `json:"created_at"`
}

// FromModel converts a persisted user into its public projection.
func FromModel(user *models.User) UserDTO {
	if user == nil {
		return UserDTO{}
	}
	return UserDTO{
		ID:             user.ID,
		Email:          user.Email,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		PhoneNumber:    user.PhoneNumber,
		Role:           user.Role,
		ConfirmedEmail: user.ConfirmedEmail,
		CreatedAt:      user.CreatedAt,
	}
}
