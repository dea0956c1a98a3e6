package delivery

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	authdomain "lms-backend/internal/auth/domain"
	authdto "lms-backend/internal/auth/dto"
	"lms-backend/internal/auth/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubAuth struct {
	users      map[string]*authdomain.User
	registered []string
}

func (s *stubAuth) Login(*authdto.LoginRequest) (*authdto.TokenResponse, error) {
	return nil, usecase.ErrInvalidCredentials
}

func (s *stubAuth) ValidateToken(token string) (*authdomain.User, error) {
	if u, ok := s.users[token]; ok {
		return u, nil
	}
	return nil, usecase.ErrInvalidToken
}

func (s *stubAuth) Logout(string, string) error { return nil }

func (s *stubAuth) CreateUser(string, string, string, authdomain.Role) (*authdomain.User, error) {
	return nil, nil
}

func (s *stubAuth) RegisterPushToken(userID, token string, platform authdomain.Platform) error {
	if !platform.Valid() {
		return usecase.ErrInvalidPlatform
	}
	s.registered = append(s.registered, userID+":"+token)
	return nil
}

func (s *stubAuth) RemovePushToken(string, string) error { return nil }

func newRouter(auth *stubAuth) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAuthHandler(auth)

	r.GET("/me", AuthMiddleware(auth), h.Me)
	r.GET("/admin", AuthMiddleware(auth), RequireRole(authdomain.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.POST("/push-token", AuthMiddleware(auth), h.RegisterPushToken)
	return r
}

func TestAuthMiddleware(t *testing.T) {
	auth := &stubAuth{users: map[string]*authdomain.User{
		"student-token": {ID: "s1", Role: authdomain.RoleStudent},
		"admin-token":   {ID: "a1", Role: authdomain.RoleAdmin},
	}}
	r := newRouter(auth)

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{name: "no header", path: "/me", want: http.StatusUnauthorized},
		{name: "not bearer", path: "/me", header: "Basic abc", want: http.StatusUnauthorized},
		{name: "unknown token", path: "/me", header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "valid token", path: "/me", header: "Bearer student-token", want: http.StatusOK},
		{name: "student on admin route", path: "/admin", header: "Bearer student-token", want: http.StatusForbidden},
		{name: "admin on admin route", path: "/admin", header: "Bearer admin-token", want: http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRegisterPushTokenHandler(t *testing.T) {
	auth := &stubAuth{users: map[string]*authdomain.User{
		"student-token": {ID: "s1", Role: authdomain.RoleStudent},
	}}
	r := newRouter(auth)

	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "ok", body: `{"token":"T","platform":"ios"}`, want: http.StatusOK},
		{name: "bad platform", body: `{"token":"T","platform":"pager"}`, want: http.StatusUnprocessableEntity},
		{name: "missing token", body: `{"platform":"ios"}`, want: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/push-token", strings.NewReader(tt.body))
			req.Header.Set("Authorization", "Bearer student-token")
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
	assert.Equal(t, []string{"s1:T"}, auth.registered)
}
