package dto

import "time"

// LoginRequest entrada de POST /api/auth/login.
type LoginRequest struct {
	Pin string `json:"pin" validate:"required,len=4,numeric"`
}

// LoginResponse token y usuario autenticado.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// CreateUserRequest entrada para crear usuario (admin).
type CreateUserRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
	Pin  string `json:"pin" validate:"required,len=4,numeric"`
	Role string `json:"role" validate:"required,oneof=operator admin"`
}

// SetUserStatusRequest activa o desactiva un usuario.
type SetUserStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// ResetPinRequest nuevo PIN.
type ResetPinRequest struct {
	Pin string `json:"pin" validate:"required,len=4,numeric"`
}

// UserResponse salida de usuario (sin hash).
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
