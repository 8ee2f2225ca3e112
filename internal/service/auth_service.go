package service

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/lunark/abacus-api/internal/dto"
	"github.com/lunark/abacus-api/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ErrInvalidCredentials covers both an unknown username and a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService interface {
	Login(username, password string) (*dto.UserResponse, error)
	ChangePassword(userID uint, newPassword string) error
}

type authService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

func (s *authService) Login(username, password string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		log.Error().Err(err).Str("username", username).Msg("Login: user lookup failed")
		return nil, fmt.Errorf("user lookup: %w", err)
	}
	if user.Password != password {
		return nil, ErrInvalidCredentials
	}

	var resp dto.UserResponse
	if err := copier.Copy(&resp, user); err != nil {
		return nil, fmt.Errorf("prepare user response: %w", err)
	}
	resp.AllowedLevels = user.AllowedLevels
	return &resp, nil
}

func (s *authService) ChangePassword(userID uint, newPassword string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return fmt.Errorf("user lookup: %w", err)
	}
	user.Password = newPassword
	if err := s.userRepo.Update(user); err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("ChangePassword: update failed")
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
