package domain

import (
	"encoding/json"
	"math"
	"time"

	"gorm.io/datatypes"
)

// PassPercentage is the lowest percentage that passes.
const PassPercentage = 50.0

// AnswerRecord is one graded answer as it stood at submission time.
type AnswerRecord struct {
	QuestionID     string `json:"question_id"`
	QuestionText   string `json:"question_text"`
	SelectedAnswer string `json:"selected_answer"`
	CorrectAnswer  string `json:"correct_answer"`
	IsCorrect      bool   `json:"is_correct"`
}

// TestResult is written once per submission and never changed.
type TestResult struct {
	ID             string                            `json:"id" gorm:"primaryKey"`
	TestID         string                            `json:"test_id" gorm:"index:idx_test_results_test_user;not null"`
	UserID         string                            `json:"user_id" gorm:"index:idx_test_results_test_user;index;not null"`
	Answers        datatypes.JSONSlice[AnswerRecord] `json:"answers"`
	Score          int                               `json:"score" gorm:"not null"`
	TotalQuestions int                               `json:"total_questions" gorm:"not null"`
	CompletedAt    time.Time                         `json:"completed_at" gorm:"index"`
	Test           *Test                             `json:"test,omitempty" gorm:"foreignKey:TestID;constraint:OnDelete:CASCADE"`
}

// Percentage is score/total*100 rounded to one decimal, 0 for an empty test.
func (r *TestResult) Percentage() float64 {
	if r.TotalQuestions == 0 {
		return 0
	}
	return math.Round(float64(r.Score)/float64(r.TotalQuestions)*1000) / 10
}

func (r *TestResult) Passed() bool {
	return r.Percentage() >= PassPercentage
}

func (r TestResult) MarshalJSON() ([]byte, error) {
	type plain TestResult
	return json.Marshal(struct {
		plain
		Percentage float64 `json:"percentage"`
		Passed     bool    `json:"passed"`
	}{plain(r), r.Percentage(), r.Passed()})
}
