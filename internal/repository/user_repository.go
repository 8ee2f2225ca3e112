package repository

import (
	"github.com/lunark/abacus-api/internal/model"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByUsername(username string) (*model.User, error)
	Update(user *model.User) error
	Delete(id uint) error
	FindAllStudentStats() ([]struct {
		model.User
		TotalExams int
		AvgScore   float64
	}, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(user *model.User) error {
	return r.db.Save(user).Error
}

// Delete removes a user and all of their results.
func (r *userRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&model.Result{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *userRepository) FindAllStudentStats() ([]struct {
	model.User
	TotalExams int
	AvgScore   float64
}, error) {
	var rows []struct {
		model.User
		TotalExams int
		AvgScore   float64
	}
	err := r.db.Model(&model.User{}).
		Select("users.*, COUNT(results.id) as total_exams, COALESCE(ROUND(AVG(results.score)::numeric, 1), 0) as avg_score").
		Joins("LEFT JOIN results ON results.user_id = users.id AND results.deleted_at IS NULL").
		Where("users.role = ? AND users.deleted_at IS NULL", "student").
		Group("users.id").
		Order("users.username ASC").
		Scan(&rows).Error
	return rows, err
}
