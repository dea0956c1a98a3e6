package delivery

import (
	"errors"
	"net/http"

	authdelivery "lms-backend/internal/auth/delivery"
	authdomain "lms-backend/internal/auth/domain"
	"lms-backend/internal/exam/domain"
	"lms-backend/internal/exam/usecase"

	"github.com/gin-gonic/gin"
)

// ExamHandler handles test taking, results and test management
type ExamHandler struct {
	exam usecase.ExamUsecase
}

func NewExamHandler(exam usecase.ExamUsecase) *ExamHandler {
	return &ExamHandler{exam: exam}
}

type SubmitRequest struct {
	Answers map[string]string `json:"answers"`
}

type TestRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

type QuestionRequest struct {
	QuestionText  string   `json:"question_text" binding:"required"`
	QuestionType  string   `json:"question_type" binding:"required,oneof=multiple_choice true_false text"`
	CorrectAnswer *string  `json:"correct_answer"`
	Options       []string `json:"options"`
	OrderNumber   int      `json:"order_number" binding:"required,min=1"`
}

func (r QuestionRequest) input() usecase.QuestionInput {
	return usecase.QuestionInput{
		QuestionText:  r.QuestionText,
		QuestionType:  domain.QuestionType(r.QuestionType),
		CorrectAnswer: r.CorrectAnswer,
		Options:       r.Options,
		OrderNumber:   r.OrderNumber,
	}
}

func privileged(c *gin.Context) bool {
	user := authdelivery.CurrentUser(c)
	return user != nil && user.HasRole(authdomain.RoleEducator, authdomain.RoleAdmin)
}

// GET /api/tests
func (h *ExamHandler) ListTests(c *gin.Context) {
	tests, err := h.exam.ListActiveTests()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tests)
}

// GET /api/tests/:id
func (h *ExamHandler) GetTest(c *gin.Context) {
	test, err := h.exam.GetTest(c.Param("id"), privileged(c))
	if err != nil {
		writeExamError(c, err)
		return
	}
	c.JSON(http.StatusOK, test)
}

// POST /api/tests/:id/submit
func (h *ExamHandler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.exam.SubmitTest(c.Request.Context(), c.GetString("userID"), c.Param("id"), req.Answers)
	if err != nil {
		writeExamError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// GET /api/test-results
func (h *ExamHandler) MyResults(c *gin.Context) {
	results, err := h.exam.MyResults(c.GetString("userID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, results)
}

// GET /api/test-results/:id
func (h *ExamHandler) GetResult(c *gin.Context) {
	result, err := h.exam.GetResult(c.GetString("userID"), privileged(c), c.Param("id"))
	if err != nil {
		writeExamError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GET /api/educator/test-results, GET /api/admin/test-results
func (h *ExamHandler) AllResults(c *gin.Context) {
	results, err := h.exam.AllResults()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, results)
}

// GET /api/admin/tests
func (h *ExamHandler) AdminListTests(c *gin.Context) {
	tests, err := h.exam.AdminListTests()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tests)
}

// POST /api/admin/tests
func (h *ExamHandler) CreateTest(c *gin.Context) {
	var req TestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	test, err := h.exam.CreateTest(c.Request.Context(), c.GetString("userID"), usecase.TestInput{
		Title:       req.Title,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		writeExamError(c, err)
		return
	}
	c.JSON(http.StatusCreated, test)
}

// PUT /api/admin/tests/:id
func (h *ExamHandler) UpdateTest(c *gin.Context) {
	var req TestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	test, err := h.exam.UpdateTest(c.Request.Context(), c.GetString("userID"), c.Param("id"), usecase.TestInput{
		Title:       req.Title,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		writeExamError(c, err)
		return
	}
	c.JSON(http.StatusOK, test)
}

// DELETE /api/admin/tests/:id
func (h *ExamHandler) DeleteTest(c *gin.Context) {
	if err := h.exam.DeleteTest(c.Param("id")); err != nil {
		writeExamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Test deleted"})
}

// POST /api/admin/tests/:id/questions
func (h *ExamHandler) AddQuestion(c *gin.Context) {
	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question, err := h.exam.AddQuestion(c.Param("id"), req.input())
	if err != nil {
		writeExamError(c, err)
		return
	}
	c.JSON(http.StatusCreated, question)
}

// PUT /api/admin/test-questions/:id
func (h *ExamHandler) UpdateQuestion(c *gin.Context) {
	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question, err := h.exam.UpdateQuestion(c.Param("id"), req.input())
	if err != nil {
		writeExamError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

// DELETE /api/admin/test-questions/:id
func (h *ExamHandler) DeleteQuestion(c *gin.Context) {
	if err := h.exam.DeleteQuestion(c.Param("id")); err != nil {
		writeExamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Question deleted"})
}

func writeExamError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrTestNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Test not found"})
	case errors.Is(err, usecase.ErrQuestionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
	case errors.Is(err, usecase.ErrResultNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Result not found"})
	case errors.Is(err, usecase.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized"})
	case errors.Is(err, usecase.ErrInactiveTest):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Test is not active"})
	case errors.Is(err, usecase.ErrInvalidTest), errors.Is(err, usecase.ErrInvalidQuestion):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
