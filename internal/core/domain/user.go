package domain

import "time"

// User is the account identity behind every participant and message sender.
type User struct {
	ID        int64
	Username  string
	Email     string
	Password  string
	Name      string
	PhotoURL  *string
	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserResponse is the public shape of a user; it never carries the password
// hash.
type UserResponse struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	PhotoURL  *string    `json:"photo_url"`
	DeletedAt *time.Time `json:"deleted_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (u User) Response() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Name:      u.Name,
		PhotoURL:  u.PhotoURL,
		DeletedAt: u.DeletedAt,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email,max=64"`
	Username string `json:"username" validate:"required,min=1,max=10"`
	Name     string `json:"name" validate:"required,min=1,max=64"`
	Password string `json:"password" validate:"required,min=6,max=16"`
}

// SignInRequest accepts either the username or the email in Username.
type SignInRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UpdateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Name     *string `json:"name"`
	PhotoURL *string `json:"photo_url"`
}

type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       int64  `json:"user_id"`
}
