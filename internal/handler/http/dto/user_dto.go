package dto

// RegisterRequest defines the body of POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,containsuppercase,containslowercase,containsdigit,containssymbol"`
	Location string `json:"location"`
}

// LoginRequest accepts either an email address or a username as identifier.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// UpdateProfileRequest defines the body of PUT /me. Omitted fields are left untouched.
type UpdateProfileRequest struct {
	Username     *string `json:"username"`
	Location     *string `json:"location"`
	Bio          *string `json:"bio" binding:"omitempty,max=500"`
	ProfileImage *string `json:"profile_image"`
}
