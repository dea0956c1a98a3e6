package usecase

import (
	authdomain "lms-backend/internal/auth/domain"
	authdto "lms-backend/internal/auth/dto"
)

// AuthUsecase defines the interface for authentication and push-token registration
type AuthUsecase interface {
	Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error)
	ValidateToken(token string) (*authdomain.User, error)

	// Logout deactivates the device's push token when one is given.
	Logout(userID, pushToken string) error

	CreateUser(name, email, password string, role authdomain.Role) (*authdomain.User, error)

	RegisterPushToken(userID, token string, platform authdomain.Platform) error
	RemovePushToken(userID, token string) error
}
