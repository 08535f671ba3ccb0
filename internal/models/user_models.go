package models

import "time"

// Roles an authenticated caller can hold. A user's role is fixed at registration
// and baked into every token issued for them.
const (
	RoleMerchant = "merchant"
	RoleAdmin    = "admin"
)

// UserStatusActive is the only profile status the backend assigns today.
const UserStatusActive = "active"

// User represents a profile record.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	BusinessName *string   `json:"business_name,omitempty"`
	FullName     string    `json:"full_name"`
	Phone        *string   `json:"phone,omitempty"`
	Address      *string   `json:"address,omitempty"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RegisterRequest is the payload for creating a merchant (or admin) account.
type RegisterRequest struct {
	Email        string  `json:"email" validate:"required,email"`
	Password     string  `json:"password" validate:"required,min=8"`
	BusinessName *string `json:"business_name,omitempty"`
	FullName     string  `json:"full_name" validate:"required"`
	Phone        *string `json:"phone,omitempty"`
	Address      *string `json:"address,omitempty"`
	Role         string  `json:"role,omitempty" validate:"omitempty,oneof=merchant admin"`
}

// LoginRequest is the payload for exchanging credentials for a token.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries the signed token together with the profile it represents.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        *User  `json:"user"`
}
