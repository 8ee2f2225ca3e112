package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lunark/abacus-api/internal/dto"
	"github.com/lunark/abacus-api/internal/exam"
	"github.com/lunark/abacus-api/internal/model"
	"github.com/lunark/abacus-api/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var ErrUsernameTaken = errors.New("username already exists")

type AdminService interface {
	CreateUser(req dto.CreateUserRequest) error
	UpdateUser(req dto.UpdateUserRequest) error
	DeleteUser(id uint) error
	GetStudentStats() ([]dto.StudentStats, error)
}

type adminService struct {
	userRepo repository.UserRepository
}

func NewAdminService(userRepo repository.UserRepository) AdminService {
	return &adminService{userRepo: userRepo}
}

func validateLevelIDs(ids []string) error {
	for _, id := range ids {
		if _, ok := exam.LevelByID(id); !ok {
			return fmt.Errorf("%w: %q", exam.ErrUnknownLevel, id)
		}
	}
	return nil
}

func (s *adminService) CreateUser(req dto.CreateUserRequest) error {
	if err := validateLevelIDs(req.LevelIDs); err != nil {
		return err
	}
	if _, err := s.userRepo.FindByUsername(req.Username); err == nil {
		return ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("username lookup: %w", err)
	}

	user := model.User{
		Username:      req.Username,
		Password:      req.Password,
		FullName:      req.FullName,
		AllowedLevels: strings.Join(req.LevelIDs, ","),
		Role:          "student",
	}
	if err := s.userRepo.Create(&user); err != nil {
		log.Error().Err(err).Str("username", req.Username).Msg("CreateUser: insert failed")
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// UpdateUser reassigns a student's levels; a non-empty Password also resets
// their password.
func (s *adminService) UpdateUser(req dto.UpdateUserRequest) error {
	if err := validateLevelIDs(req.LevelIDs); err != nil {
		return err
	}
	user, err := s.userRepo.FindByID(req.UserID)
	if err != nil {
		return fmt.Errorf("user lookup: %w", err)
	}

	user.AllowedLevels = strings.Join(req.LevelIDs, ",")
	if strings.TrimSpace(req.Password) != "" {
		user.Password = req.Password
	}
	if err := s.userRepo.Update(user); err != nil {
		log.Error().Err(err).Uint("userID", req.UserID).Msg("UpdateUser: update failed")
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (s *adminService) DeleteUser(id uint) error {
	if err := s.userRepo.Delete(id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (s *adminService) GetStudentStats() ([]dto.StudentStats, error) {
	rows, err := s.userRepo.FindAllStudentStats()
	if err != nil {
		log.Error().Err(err).Msg("GetStudentStats: repository error")
		return nil, fmt.Errorf("fetch stats: %w", err)
	}

	stats := make([]dto.StudentStats, len(rows))
	for i, row := range rows {
		stats[i] = dto.StudentStats{
			ID:            row.User.ID,
			Username:      row.User.Username,
			FullName:      row.User.FullName,
			AllowedLevels: row.User.AllowedLevels,
			TotalExams:    row.TotalExams,
			AvgScore:      row.AvgScore,
		}
	}
	return stats, nil
}
