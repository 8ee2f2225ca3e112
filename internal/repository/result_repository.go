package repository

import (
	"github.com/lunark/abacus-api/internal/model"
	"gorm.io/gorm"
)

type ResultRepository interface {
	Create(result *model.Result) error
	FindAllByUser(userID uint) ([]model.Result, error)
}

type resultRepository struct {
	db *gorm.DB
}

func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) Create(result *model.Result) error {
	return r.db.Create(result).Error
}

// FindAllByUser returns a user's results newest-first.
func (r *resultRepository) FindAllByUser(userID uint) ([]model.Result, error) {
	var results []model.Result
	if err := r.db.Where("user_id = ?", userID).Order("created_at desc").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
