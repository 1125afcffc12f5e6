package dto

import (
	"time"

	"github.com/echomind/mindink/internal/domain/entity"
)

// UserResponse is the DTO for a user.
type UserResponse struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email,omitempty"`
	Location     string `json:"location"`
	Bio          string `json:"bio"`
	ProfileImage string `json:"profile_image"`
	CreatedAt    string `json:"created_at"`
}

// LoginResponse is the DTO for a successful login.
type LoginResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"access_token"`
}

// converts an entity.User to a UserResponse DTO.
func ToUserResponse(user entity.User) UserResponse {
	return UserResponse{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		Location:     user.Location,
		Bio:          user.Bio,
		ProfileImage: user.ProfileImage,
		CreatedAt:    user.CreatedAt.Format(time.RFC3339),
	}
}

// ToPublicUserResponse is ToUserResponse without the email address.
func ToPublicUserResponse(user entity.User) UserResponse {
	resp := ToUserResponse(user)
	resp.Email = ""
	return resp
}

// MessageResponse is a generic response for success/error messages.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is a response for errors.
type ErrorResponse struct {
	Error string `json:"error"`
}
