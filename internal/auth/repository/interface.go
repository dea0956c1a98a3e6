package repository

import authdomain "lms-backend/internal/auth/domain"

// UserRepository is the user directory.
type UserRepository interface {
	Create(user *authdomain.User) error
	FindByEmail(email string) (*authdomain.User, error)
	FindByID(id string) (*authdomain.User, error)

	// FindIDByName returns "" when nobody has the name.
	FindIDByName(name string) (string, error)

	// ListIDs returns every user id, leaving out exceptID when it is not empty.
	ListIDs(exceptID string) ([]string, error)
}

// PushTokenRepository is the registry of device endpoints.
type PushTokenRepository interface {
	// SaveToken activates (userID, token) and deactivates every other user's row with the same token.
	SaveToken(userID, token string, platform authdomain.Platform) error

	// Deactivate turns off the user's row, e.g. on logout.
	Deactivate(userID, token string) error

	// DeleteToken removes every row holding the token.
	DeleteToken(token string) error

	ActiveTokensForUser(userID string) ([]string, error)
	AllActiveTokens() ([]string, error)
}
