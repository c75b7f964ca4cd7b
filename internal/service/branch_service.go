package service

import (
	"context"
	"fmt"

	"clinic-admin-api/internal/models"
)

type BranchService struct {
	branches BranchStore
}

func NewBranchService(branches BranchStore) *BranchService {
	return &BranchService{branches: branches}
}

// List returns the active tenant's branches ordered by name
func (s *BranchService) List(ctx context.Context) ([]models.BranchResponse, error) {
	if _, err := activeTenant(ctx); err != nil {
		return nil, err
	}

	branches, err := s.branches.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}

	result := make([]models.BranchResponse, 0, len(branches))
	for _, b := range branches {
		result = append(result, models.NewBranchResponse(b))
	}
	return result, nil
}
