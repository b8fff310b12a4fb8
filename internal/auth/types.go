package auth

import "github.com/sushka2023/sushka-shop-backend/internal/users"

// SignupDTO carries the registration payload.
type SignupDTO struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

// LoginDTO carries the credential payload.
type LoginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenPairDTO is the session issued on login and refresh.
type TokenPairDTO struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	TokenType    string        `json:"token_type"`
	User         users.UserDTO `json:"user"`
}

// RefreshDTO carries the token pair being rotated.
type RefreshDTO struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ResetPasswordDTO carries the emailed token and the replacement password.
type ResetPasswordDTO struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required"`
}
