package usecase

import (
	"time"

	"lms-backend/internal/exam/domain"

	"github.com/google/uuid"
)

var nowFunc = time.Now // mockable

// Grade scores answers (question id -> answer text) against the test's questions.
// Unanswered questions are graded as an empty answer. The result captures the
// question text and correct answer so later edits do not change it.
func Grade(test *domain.Test, userID string, answers map[string]string) *domain.TestResult {
	records := make([]domain.AnswerRecord, 0, len(test.Questions))
	score := 0

	for i := range test.Questions {
		question := &test.Questions[i]
		selected := answers[question.ID]
		correct := question.IsCorrect(selected)
		if correct {
			score++
		}

		correctAnswer := ""
		if question.CorrectAnswer != nil {
			correctAnswer = *question.CorrectAnswer
		}
		records = append(records, domain.AnswerRecord{
			QuestionID:     question.ID,
			QuestionText:   question.QuestionText,
			SelectedAnswer: selected,
			CorrectAnswer:  correctAnswer,
			IsCorrect:      correct,
		})
	}

	return &domain.TestResult{
		ID:             uuid.New().String(),
		TestID:         test.ID,
		UserID:         userID,
		Answers:        records,
		Score:          score,
		TotalQuestions: len(test.Questions),
		CompletedAt:    nowFunc(),
	}
}
