package repository

import (
	"errors"

	"lms-backend/internal/exam/domain"

	"gorm.io/gorm"
)

func orderedQuestions(db *gorm.DB) *gorm.DB {
	return db.Order("order_number ASC")
}

type gormTestRepository struct {
	db *gorm.DB
}

// NewGormTestRepository creates a new GORM-based test repository
func NewGormTestRepository(db *gorm.DB) TestRepository {
	return &gormTestRepository{db: db}
}

func (r *gormTestRepository) Create(test *domain.Test) error {
	return r.db.Omit("Questions").Create(test).Error
}

func (r *gormTestRepository) Update(test *domain.Test) error {
	return r.db.Omit("Questions").Save(test).Error
}

func (r *gormTestRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("test_id = ?", id).Delete(&domain.TestResult{}).Error; err != nil {
			return err
		}
		if err := tx.Where("test_id = ?", id).Delete(&domain.TestQuestion{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&domain.Test{}).Error
	})
}

func (r *gormTestRepository) FindByID(id string, withQuestions bool) (*domain.Test, error) {
	query := r.db
	if withQuestions {
		query = query.Preload("Questions", orderedQuestions)
	}

	var test domain.Test
	if err := query.Where("id = ?", id).First(&test).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &test, nil
}

func (r *gormTestRepository) ListActive() ([]*domain.Test, error) {
	var tests []*domain.Test
	err := r.db.Where("is_active = ?", true).Order("created_at DESC").Find(&tests).Error
	if err != nil {
		return nil, err
	}
	return tests, nil
}

func (r *gormTestRepository) ListAll() ([]*domain.Test, error) {
	var tests []*domain.Test
	err := r.db.Preload("Questions", orderedQuestions).Order("created_at DESC").Find(&tests).Error
	if err != nil {
		return nil, err
	}
	return tests, nil
}

func (r *gormTestRepository) CreateQuestion(question *domain.TestQuestion) error {
	return r.db.Create(question).Error
}

func (r *gormTestRepository) UpdateQuestion(question *domain.TestQuestion) error {
	return r.db.Save(question).Error
}

func (r *gormTestRepository) FindQuestion(id string) (*domain.TestQuestion, error) {
	var question domain.TestQuestion
	if err := r.db.Where("id = ?", id).First(&question).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &question, nil
}

func (r *gormTestRepository) DeleteQuestion(id string) error {
	return r.db.Where("id = ?", id).Delete(&domain.TestQuestion{}).Error
}

type gormResultRepository struct {
	db *gorm.DB
}

// NewGormResultRepository creates a new GORM-based result repository
func NewGormResultRepository(db *gorm.DB) ResultRepository {
	return &gormResultRepository{db: db}
}

func (r *gormResultRepository) Create(result *domain.TestResult) error {
	return r.db.Omit("Test").Create(result).Error
}

func (r *gormResultRepository) FindByID(id string) (*domain.TestResult, error) {
	var result domain.TestResult
	if err := r.db.Preload("Test").Where("id = ?", id).First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *gormResultRepository) ListByUser(userID string) ([]*domain.TestResult, error) {
	var results []*domain.TestResult
	err := r.db.Preload("Test").Where("user_id = ?", userID).Order("completed_at DESC").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *gormResultRepository) ListAll() ([]*domain.TestResult, error) {
	var results []*domain.TestResult
	err := r.db.Preload("Test").Order("completed_at DESC").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
