package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"lms-backend/internal/exam/domain"
	"lms-backend/internal/exam/repository"
	notificationdomain "lms-backend/internal/notification/domain"
	notificationusecase "lms-backend/internal/notification/usecase"

	"github.com/google/uuid"
)

const testsLink = "/tests"

var (
	ErrTestNotFound     = errors.New("test not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrResultNotFound   = errors.New("result not found")
	ErrInactiveTest     = errors.New("test is not active")
	ErrForbidden        = errors.New("not allowed to view this result")
	ErrInvalidTest      = errors.New("invalid test")
	ErrInvalidQuestion  = errors.New("invalid question")
)

type examUsecase struct {
	testRepo   repository.TestRepository
	resultRepo repository.ResultRepository
	fanout     notificationusecase.Fanout
}

func NewExamUsecase(testRepo repository.TestRepository, resultRepo repository.ResultRepository, fanout notificationusecase.Fanout) ExamUsecase {
	return &examUsecase{
		testRepo:   testRepo,
		resultRepo: resultRepo,
		fanout:     fanout,
	}
}

func (u *examUsecase) ListActiveTests() ([]*domain.Test, error) {
	return u.testRepo.ListActive()
}

func (u *examUsecase) GetTest(id string, privileged bool) (*domain.Test, error) {
	test, err := u.testRepo.FindByID(id, true)
	if err != nil {
		return nil, err
	}
	if test == nil || (!test.IsActive && !privileged) {
		return nil, ErrTestNotFound
	}
	if !privileged {
		for i := range test.Questions {
			test.Questions[i].CorrectAnswer = nil
		}
	}
	return test, nil
}

func (u *examUsecase) SubmitTest(ctx context.Context, userID, testID string, answers map[string]string) (*domain.TestResult, error) {
	test, err := u.testRepo.FindByID(testID, true)
	if err != nil {
		return nil, err
	}
	if test == nil {
		return nil, ErrTestNotFound
	}
	if !test.IsActive {
		return nil, ErrInactiveTest
	}

	result := Grade(test, userID, answers)
	if err := u.resultRepo.Create(result); err != nil {
		return nil, fmt.Errorf("failed to save result: %w", err)
	}
	result.Test = &domain.Test{ID: test.ID, Title: test.Title}

	log.Printf("[Exam] User %s scored %d/%d on test %s", userID, result.Score, result.TotalQuestions, testID)
	return result, nil
}

func (u *examUsecase) MyResults(userID string) ([]*domain.TestResult, error) {
	return u.resultRepo.ListByUser(userID)
}

func (u *examUsecase) GetResult(viewerID string, privileged bool, resultID string) (*domain.TestResult, error) {
	result, err := u.resultRepo.FindByID(resultID)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, ErrResultNotFound
	}
	if result.UserID != viewerID && !privileged {
		return nil, ErrForbidden
	}
	return result, nil
}

func (u *examUsecase) AllResults() ([]*domain.TestResult, error) {
	return u.resultRepo.ListAll()
}

func (u *examUsecase) AdminListTests() ([]*domain.Test, error) {
	return u.testRepo.ListAll()
}

func (u *examUsecase) CreateTest(ctx context.Context, adminID string, in TestInput) (*domain.Test, error) {
	if err := validateTest(in); err != nil {
		return nil, err
	}

	now := nowFunc()
	test := &domain.Test{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		IsActive:    in.IsActive != nil && *in.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := u.testRepo.Create(test); err != nil {
		return nil, fmt.Errorf("failed to create test: %w", err)
	}

	if test.IsActive {
		if err := u.announce(ctx, adminID, test); err != nil {
			return test, err
		}
	}
	return test, nil
}

func (u *examUsecase) UpdateTest(ctx context.Context, adminID, id string, in TestInput) (*domain.Test, error) {
	if err := validateTest(in); err != nil {
		return nil, err
	}

	test, err := u.testRepo.FindByID(id, false)
	if err != nil {
		return nil, err
	}
	if test == nil {
		return nil, ErrTestNotFound
	}

	wasActive := test.IsActive
	test.Title = strings.TrimSpace(in.Title)
	test.Description = in.Description
	if in.IsActive != nil {
		test.IsActive = *in.IsActive
	}
	test.UpdatedAt = nowFunc()

	if err := u.testRepo.Update(test); err != nil {
		return nil, fmt.Errorf("failed to update test: %w", err)
	}

	// Only the inactive -> active transition notifies.
	if !wasActive && test.IsActive {
		if err := u.announce(ctx, adminID, test); err != nil {
			return test, err
		}
	}
	return test, nil
}

func (u *examUsecase) DeleteTest(id string) error {
	test, err := u.testRepo.FindByID(id, false)
	if err != nil {
		return err
	}
	if test == nil {
		return ErrTestNotFound
	}
	return u.testRepo.Delete(id)
}

func (u *examUsecase) AddQuestion(testID string, in QuestionInput) (*domain.TestQuestion, error) {
	if err := validateQuestion(in); err != nil {
		return nil, err
	}

	test, err := u.testRepo.FindByID(testID, false)
	if err != nil {
		return nil, err
	}
	if test == nil {
		return nil, ErrTestNotFound
	}

	now := nowFunc()
	question := &domain.TestQuestion{
		ID:            uuid.New().String(),
		TestID:        testID,
		QuestionText:  in.QuestionText,
		QuestionType:  in.QuestionType,
		CorrectAnswer: in.CorrectAnswer,
		Options:       in.Options,
		OrderNumber:   in.OrderNumber,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := u.testRepo.CreateQuestion(question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}
	return question, nil
}

func (u *examUsecase) UpdateQuestion(id string, in QuestionInput) (*domain.TestQuestion, error) {
	if err := validateQuestion(in); err != nil {
		return nil, err
	}

	question, err := u.testRepo.FindQuestion(id)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, ErrQuestionNotFound
	}

	question.QuestionText = in.QuestionText
	question.QuestionType = in.QuestionType
	question.CorrectAnswer = in.CorrectAnswer
	question.Options = in.Options
	question.OrderNumber = in.OrderNumber
	question.UpdatedAt = nowFunc()

	if err := u.testRepo.UpdateQuestion(question); err != nil {
		return nil, fmt.Errorf("failed to update question: %w", err)
	}
	return question, nil
}

func (u *examUsecase) DeleteQuestion(id string) error {
	question, err := u.testRepo.FindQuestion(id)
	if err != nil {
		return err
	}
	if question == nil {
		return ErrQuestionNotFound
	}
	return u.testRepo.DeleteQuestion(id)
}

// announce tells every user except the acting admin that a test is open.
// The test row is already saved when this runs; a failure here is still returned.
func (u *examUsecase) announce(ctx context.Context, adminID string, test *domain.Test) error {
	link := testsLink
	_, err := u.fanout.NotifyAll(ctx, notificationusecase.NotifyAllInput{
		Type:         notificationdomain.TypeNewTest,
		Title:        "New test",
		Message:      fmt.Sprintf("Test %q is now available.", test.Title),
		Link:         &link,
		ExceptUserID: adminID,
	})
	if err != nil {
		return fmt.Errorf("failed to notify users about test %s: %w", test.ID, err)
	}
	return nil
}

func validateTest(in TestInput) error {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidTest)
	}
	if len(title) > 255 {
		return fmt.Errorf("%w: title is longer than 255 characters", ErrInvalidTest)
	}
	return nil
}

func validateQuestion(in QuestionInput) error {
	if strings.TrimSpace(in.QuestionText) == "" {
		return fmt.Errorf("%w: question_text is required", ErrInvalidQuestion)
	}
	if !in.QuestionType.Valid() {
		return fmt.Errorf("%w: question_type must be one of multiple_choice, true_false, text", ErrInvalidQuestion)
	}
	if in.OrderNumber < 1 {
		return fmt.Errorf("%w: order_number must be at least 1", ErrInvalidQuestion)
	}
	return nil
}
