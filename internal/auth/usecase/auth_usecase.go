package usecase

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	authdomain "lms-backend/internal/auth/domain"
	authdto "lms-backend/internal/auth/dto"
	"lms-backend/internal/auth/repository"
	"lms-backend/pkg/config"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidPlatform    = errors.New("platform must be one of android, ios, web")
	ErrEmptyPushToken     = errors.New("push token is required")
)

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	userRepo  repository.UserRepository
	tokenRepo repository.PushTokenRepository
	config    *config.Config
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(userRepo repository.UserRepository, tokenRepo repository.PushTokenRepository, cfg *config.Config) AuthUsecase {
	return &authUsecase{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		config:    cfg,
	}
}

func (u *authUsecase) Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error) {
	user, err := u.userRepo.FindByEmail(strings.ToLower(req.Email))
	if err != nil {
		return nil, err
	}

	if user == nil || !repository.CheckPasswordHash(req.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := u.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	return &authdto.TokenResponse{
		AccessToken: accessToken,
		User:        user,
	}, nil
}

func (u *authUsecase) Logout(userID, pushToken string) error {
	if pushToken == "" {
		return nil
	}
	return u.RemovePushToken(userID, pushToken)
}

func (u *authUsecase) CreateUser(name, email, password string, role authdomain.Role) (*authdomain.User, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := u.userRepo.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := repository.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &authdomain.User{
		Name:     name,
		Email:    email,
		Password: hashedPassword,
		Role:     role,
	}
	if err := u.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *authUsecase) RegisterPushToken(userID, token string, platform authdomain.Platform) error {
	if strings.TrimSpace(token) == "" {
		return ErrEmptyPushToken
	}
	if !platform.Valid() {
		return ErrInvalidPlatform
	}
	if err := u.tokenRepo.SaveToken(userID, token, platform); err != nil {
		return fmt.Errorf("failed to save push token: %w", err)
	}
	log.Printf("[Auth] Registered %s push token for user %s", platform, userID)
	return nil
}

func (u *authUsecase) RemovePushToken(userID, token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrEmptyPushToken
	}
	if err := u.tokenRepo.Deactivate(userID, token); err != nil {
		return fmt.Errorf("failed to deactivate push token: %w", err)
	}
	return nil
}

func (u *authUsecase) generateAccessToken(user *authdomain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    string(user.Role),
		"exp":     time.Now().Add(u.config.JWTAccessExpiry).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(u.config.JWTSecret))
}

func (u *authUsecase) ValidateToken(tokenString string) (*authdomain.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(u.config.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, ErrUserNotFound
	}

	return user, nil
}
