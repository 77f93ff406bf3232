package services

import (
	"context"
	"fmt"

	"github.com/brusiqueira9/expense-guru/internal/core"
	"github.com/brusiqueira9/expense-guru/internal/storage"
)

// GoalService manages savings goals and contributions toward them.
type GoalService struct {
	storage *storage.SQLiteRepository
}

func NewGoalService(storage *storage.SQLiteRepository) *GoalService {
	return &GoalService{storage: storage}
}

func (s *GoalService) CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	return s.storage.CreateGoal(ctx, g)
}

func (s *GoalService) ListGoals(ctx context.Context, userID string) ([]core.Goal, error) {
	return s.storage.ListGoals(ctx, userID)
}

func (s *GoalService) GetGoal(ctx context.Context, userID, id string) (core.Goal, error) {
	return s.storage.GetGoal(ctx, userID, id)
}

// Contribute adds an amount to a goal's saved balance and returns the
// updated goal.
func (s *GoalService) Contribute(ctx context.Context, userID, id string, amount core.Money) (core.Goal, error) {
	if amount.Cents <= 0 {
		return core.Goal{}, core.ErrInvalidAmount
	}
	if err := s.storage.AddToGoal(ctx, userID, id, amount.Cents); err != nil {
		return core.Goal{}, fmt.Errorf("contribute to goal: %w", err)
	}
	return s.storage.GetGoal(ctx, userID, id)
}

func (s *GoalService) UpdateGoal(ctx context.Context, g core.Goal) error {
	if err := g.Validate(); err != nil {
		return err
	}
	return s.storage.UpdateGoal(ctx, g)
}

func (s *GoalService) DeleteGoal(ctx context.Context, userID, id string) error {
	return s.storage.DeleteGoal(ctx, userID, id)
}
