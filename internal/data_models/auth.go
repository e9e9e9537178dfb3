package dto

import (
	model "task-manager.com/task-manager/internal/models"
	"task-manager.com/task-manager/internal/services"
)

type RegisterRequest struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	PhoneNumber     string `json:"phone_number"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (r RegisterRequest) ToInput() services.RegisterInput {
	return services.RegisterInput{
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		Email:           r.Email,
		PhoneNumber:     r.PhoneNumber,
		Password:        r.Password,
		ConfirmPassword: r.ConfirmPassword,
	}
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserSummary is the only user shape that leaves the service. It has no
// credential fields.
type UserSummary struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	PhoneNumber *string `json:"phone_number"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	IsStaff     bool    `json:"is_staff"`
	IsActive    bool    `json:"is_active"`
}

type RegisterResponse struct {
	User UserSummary `json:"user"`
}

type SignInResponse struct {
	User         UserSummary `json:"user"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
}

func ToUserSummary(u *model.User) UserSummary {
	return UserSummary{
		ID:          u.ID,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		IsStaff:     u.IsStaff,
		IsActive:    u.IsActive,
	}
}

func ToSignInResponse(res *services.SignInResult) SignInResponse {
	return SignInResponse{
		User:         ToUserSummary(res.User),
		AccessToken:  res.Tokens.AccessToken,
		RefreshToken: res.Tokens.RefreshToken,
	}
}
