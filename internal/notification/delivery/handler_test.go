package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	authdomain "lms-backend/internal/auth/domain"
	"lms-backend/internal/notification/domain"
	"lms-backend/internal/notification/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubInbox struct {
	usecase.InboxUsecase
	markErr error
}

func (s *stubInbox) MarkRead(string, string) error { return s.markErr }

type stubFanout struct {
	got usecase.NotifyAllInput
}

func (s *stubFanout) NotifyUser(context.Context, usecase.NotifyInput) (*domain.Notification, error) {
	return nil, nil
}

func (s *stubFanout) NotifyAll(_ context.Context, in usecase.NotifyAllInput) (int, error) {
	s.got = in
	return 7, nil
}

type stubMentions struct {
	got usecase.MentionInput
	err error
}

func (s *stubMentions) NotifyMentioned(_ context.Context, in usecase.MentionInput) ([]*domain.Notification, error) {
	s.got = in
	if s.err != nil {
		return nil, s.err
	}
	return []*domain.Notification{{UserID: "u-ben"}, {UserID: "u-cy"}}, nil
}

func newRouter(h *NotificationHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user", &authdomain.User{ID: "admin-1", Name: "Ana", Role: authdomain.RoleAdmin})
		c.Set("userID", "admin-1")
		c.Next()
	})
	r.POST("/notifications/:id/read", h.MarkRead)
	r.POST("/notifications/mentions", h.Mention)
	r.POST("/admin/announcements", h.Announce)
	return r
}

func TestMarkReadStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "ok", want: http.StatusOK},
		{name: "missing", err: usecase.ErrNotificationNotFound, want: http.StatusNotFound},
		{name: "foreign", err: usecase.ErrForbidden, want: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(NewNotificationHandler(&stubInbox{markErr: tt.err}, &stubFanout{}, nil))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/notifications/n1/read", nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestAnnounceExcludesSender(t *testing.T) {
	fanout := &stubFanout{}
	r := newRouter(NewNotificationHandler(&stubInbox{}, fanout, nil))

	req := httptest.NewRequest(http.MethodPost, "/admin/announcements",
		strings.NewReader(`{"title":"Exam week","message":"Good luck","link":"/exams"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.EqualValues(t, 7, body["recipients"])

	assert.Equal(t, domain.TypeAdminAnnouncement, fanout.got.Type)
	assert.Equal(t, "admin-1", fanout.got.ExceptUserID)
	require.NotNil(t, fanout.got.FromUserID)
	assert.Equal(t, "admin-1", *fanout.got.FromUserID)
	require.NotNil(t, fanout.got.Link)
	assert.Equal(t, "/exams", *fanout.got.Link)
}

func TestAnnounceRequiresTitle(t *testing.T) {
	r := newRouter(NewNotificationHandler(&stubInbox{}, &stubFanout{}, nil))

	req := httptest.NewRequest(http.MethodPost, "/admin/announcements", strings.NewReader(`{"message":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMention(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		want     int
		notified float64
	}{
		{name: "notifies tagged users", body: `{"content":"@Ben @Cy look","link":" /lessons/7 "}`, want: http.StatusOK, notified: 2},
		{name: "content required", body: `{"link":"/lessons/7"}`, want: http.StatusBadRequest},
		{name: "lookup failure", body: `{"content":"@Ben"}`, err: errors.New("db down"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mentions := &stubMentions{err: tt.err}
			r := newRouter(NewNotificationHandler(&stubInbox{}, &stubFanout{}, mentions))

			req := httptest.NewRequest(http.MethodPost, "/notifications/mentions", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, tt.want, w.Code)
			if tt.want != http.StatusOK {
				return
			}
			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.notified, body["notified"])

			assert.Equal(t, "admin-1", mentions.got.AuthorID)
			assert.Equal(t, "Ana", mentions.got.AuthorName)
			require.NotNil(t, mentions.got.Link)
			assert.Equal(t, "/lessons/7", *mentions.got.Link)
		})
	}
}
