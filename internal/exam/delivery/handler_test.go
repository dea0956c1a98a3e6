package delivery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	authdomain "lms-backend/internal/auth/domain"
	"lms-backend/internal/exam/domain"
	"lms-backend/internal/exam/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExam struct {
	usecase.ExamUsecase
	err          error
	gotAnswers   map[string]string
	gotPrivilege bool
	gotQuestion  usecase.QuestionInput
}

func (s *stubExam) SubmitTest(_ context.Context, userID, testID string, answers map[string]string) (*domain.TestResult, error) {
	s.gotAnswers = answers
	if s.err != nil {
		return nil, s.err
	}
	return &domain.TestResult{ID: "r1", TestID: testID, UserID: userID, Score: 1, TotalQuestions: 3}, nil
}

func (s *stubExam) GetTest(id string, privileged bool) (*domain.Test, error) {
	s.gotPrivilege = privileged
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Test{ID: id}, nil
}

func (s *stubExam) AddQuestion(testID string, in usecase.QuestionInput) (*domain.TestQuestion, error) {
	s.gotQuestion = in
	return &domain.TestQuestion{ID: "q1", TestID: testID}, s.err
}

func newRouter(h *ExamHandler, role authdomain.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user", &authdomain.User{ID: "u1", Role: role})
		c.Set("userID", "u1")
		c.Next()
	})
	r.GET("/tests/:id", h.GetTest)
	r.POST("/tests/:id/submit", h.Submit)
	r.POST("/admin/tests/:id/questions", h.AddQuestion)
	return r
}

func TestSubmit(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "graded", want: http.StatusCreated},
		{name: "missing test", err: usecase.ErrTestNotFound, want: http.StatusNotFound},
		{name: "inactive test", err: usecase.ErrInactiveTest, want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubExam{err: tt.err}
			r := newRouter(NewExamHandler(stub), authdomain.RoleStudent)

			w := httptest.NewRecorder()
			body := `{"answers":{"q1":"a","q2":"TRUE"}}`
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/tests/t1/submit", strings.NewReader(body)))

			assert.Equal(t, tt.want, w.Code)
			assert.Equal(t, map[string]string{"q1": "a", "q2": "TRUE"}, stub.gotAnswers)
			if tt.err != nil {
				return
			}

			var out map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
			assert.Equal(t, 33.3, out["percentage"])
			assert.Equal(t, false, out["passed"])
		})
	}
}

func TestGetTestPrivilege(t *testing.T) {
	tests := []struct {
		role authdomain.Role
		want bool
	}{
		{authdomain.RoleStudent, false},
		{authdomain.RoleEducator, true},
		{authdomain.RoleAdmin, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			stub := &stubExam{}
			r := newRouter(NewExamHandler(stub), tt.role)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tests/t1", nil))
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, stub.gotPrivilege)
		})
	}
}

func TestAddQuestionValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "valid", body: `{"question_text":"2+2","question_type":"multiple_choice","correct_answer":"4","options":["3","4"],"order_number":1}`, want: http.StatusCreated},
		{name: "bad type", body: `{"question_text":"2+2","question_type":"essay","order_number":1}`, want: http.StatusBadRequest},
		{name: "zero order", body: `{"question_text":"2+2","question_type":"text","order_number":0}`, want: http.StatusBadRequest},
		{name: "no text", body: `{"question_type":"text","order_number":1}`, want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubExam{}
			r := newRouter(NewExamHandler(stub), authdomain.RoleAdmin)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/tests/t1/questions", strings.NewReader(tt.body)))
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusCreated {
				assert.Equal(t, domain.QuestionMultipleChoice, stub.gotQuestion.QuestionType)
				assert.Equal(t, []string{"3", "4"}, stub.gotQuestion.Options)
			}
		})
	}
}
