package repository

import "lms-backend/internal/exam/domain"

// TestRepository defines the interface for tests and their questions
type TestRepository interface {
	Create(test *domain.Test) error
	Update(test *domain.Test) error

	// Delete removes the test together with its questions and results.
	Delete(id string) error

	// FindByID returns nil when the test does not exist. Questions come ordered by order_number.
	FindByID(id string, withQuestions bool) (*domain.Test, error)

	ListActive() ([]*domain.Test, error)
	ListAll() ([]*domain.Test, error)

	CreateQuestion(question *domain.TestQuestion) error
	UpdateQuestion(question *domain.TestQuestion) error
	FindQuestion(id string) (*domain.TestQuestion, error)
	DeleteQuestion(id string) error
}

// ResultRepository stores graded submissions
type ResultRepository interface {
	Create(result *domain.TestResult) error
	FindByID(id string) (*domain.TestResult, error)
	ListByUser(userID string) ([]*domain.TestResult, error)
	ListAll() ([]*domain.TestResult, error)
}
