package service

import (
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/lunark/abacus-api/internal/dto"
	"github.com/lunark/abacus-api/internal/repository"
	"github.com/rs/zerolog/log"
)

type HistoryService interface {
	GetUserHistory(userID uint) ([]dto.ResultResponse, error)
}

type historyService struct {
	resultRepo repository.ResultRepository
}

func NewHistoryService(resultRepo repository.ResultRepository) HistoryService {
	return &historyService{resultRepo: resultRepo}
}

// GetUserHistory returns a user's persisted results, newest first.
func (s *historyService) GetUserHistory(userID uint) ([]dto.ResultResponse, error) {
	results, err := s.resultRepo.FindAllByUser(userID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("GetUserHistory: repository error")
		return nil, fmt.Errorf("fetch history: %w", err)
	}

	dtos := make([]dto.ResultResponse, len(results))
	for i := range results {
		if err := copier.Copy(&dtos[i], &results[i]); err != nil {
			return nil, fmt.Errorf("prepare history response: %w", err)
		}
	}
	return dtos, nil
}
