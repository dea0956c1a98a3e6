package usecase

import (
	"context"

	"lms-backend/internal/exam/domain"
)

// TestInput carries the editable fields of a test. A nil IsActive leaves the flag unchanged on update.
type TestInput struct {
	Title       string
	Description string
	IsActive    *bool
}

type QuestionInput struct {
	QuestionText  string
	QuestionType  domain.QuestionType
	CorrectAnswer *string
	Options       []string
	OrderNumber   int
}

// ExamUsecase defines the interface for taking and managing tests
type ExamUsecase interface {
	ListActiveTests() ([]*domain.Test, error)

	// GetTest hides inactive tests and correct answers unless privileged.
	GetTest(id string, privileged bool) (*domain.Test, error)

	SubmitTest(ctx context.Context, userID, testID string, answers map[string]string) (*domain.TestResult, error)

	MyResults(userID string) ([]*domain.TestResult, error)

	// GetResult lets the owner or a privileged viewer read one result.
	GetResult(viewerID string, privileged bool, resultID string) (*domain.TestResult, error)

	AllResults() ([]*domain.TestResult, error)

	// Admin

	AdminListTests() ([]*domain.Test, error)
	CreateTest(ctx context.Context, adminID string, in TestInput) (*domain.Test, error)
	UpdateTest(ctx context.Context, adminID, id string, in TestInput) (*domain.Test, error)
	DeleteTest(id string) error
	AddQuestion(testID string, in QuestionInput) (*domain.TestQuestion, error)
	UpdateQuestion(id string, in QuestionInput) (*domain.TestQuestion, error)
	DeleteQuestion(id string) error
}
