package domain

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionTrueFalse      QuestionType = "true_false"
	QuestionText           QuestionType = "text"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionMultipleChoice, QuestionTrueFalse, QuestionText:
		return true
	}
	return false
}

type Test struct {
	ID          string         `json:"id" gorm:"primaryKey"`
	Title       string         `json:"title" gorm:"not null"`
	Description string         `json:"description"`
	IsActive    bool           `json:"is_active" gorm:"index;not null"`
	Questions   []TestQuestion `json:"questions,omitempty" gorm:"foreignKey:TestID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type TestQuestion struct {
	ID            string                      `json:"id" gorm:"primaryKey"`
	TestID        string                      `json:"test_id" gorm:"index:idx_test_questions_order;not null"`
	QuestionText  string                      `json:"question_text" gorm:"not null"`
	QuestionType  QuestionType                `json:"question_type" gorm:"not null"`
	CorrectAnswer *string                     `json:"correct_answer,omitempty"`
	Options       datatypes.JSONSlice[string] `json:"options"`
	OrderNumber   int                         `json:"order_number" gorm:"index:idx_test_questions_order;not null"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

// IsCorrect compares case-insensitively after trimming. Free-text answers are
// left for a human and always count as correct.
func (q *TestQuestion) IsCorrect(answer string) bool {
	if q.QuestionType == QuestionText {
		return true
	}
	correct := ""
	if q.CorrectAnswer != nil {
		correct = *q.CorrectAnswer
	}
	return strings.ToLower(strings.TrimSpace(answer)) == strings.ToLower(strings.TrimSpace(correct))
}
