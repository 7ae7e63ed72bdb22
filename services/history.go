package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"casri/models"
	"casri/store"
	"casri/utils"
)

type HistoryService struct {
	histories store.HistoryStore
	cal       Calendar
}

func NewHistoryService(histories store.HistoryStore, cal Calendar) *HistoryService {
	return &HistoryService{histories: histories, cal: cal}
}

// MyToday returns owner's history for today.
func (s *HistoryService) MyToday(ctx context.Context, owner primitive.ObjectID) (models.History, error) {
	return s.forDay(ctx, owner, s.cal.Today())
}

// MyAll returns every history of owner, newest first.
func (s *HistoryService) MyAll(ctx context.Context, owner primitive.ObjectID) ([]models.History, error) {
	histories, err := s.histories.FindByUser(ctx, owner)
	if err != nil {
		return nil, err
	}
	if len(histories) == 0 {
		return nil, ErrEmptyResult
	}
	return histories, nil
}

// ForDate returns owner's history of a YYYY-MM-DD day.
func (s *HistoryService) ForDate(ctx context.Context, owner primitive.ObjectID, token string) (models.History, utils.DayRange, error) {
	day, err := s.cal.queryDate(token)
	if err != nil {
		return models.History{}, utils.DayRange{}, err
	}
	h, err := s.forDay(ctx, owner, day)
	return h, day, err
}

func (s *HistoryService) forDay(ctx context.Context, owner primitive.ObjectID, day utils.DayRange) (models.History, error) {
	h, err := s.histories.FindForDay(ctx, owner, day)
	if errors.Is(err, store.ErrNotFound) {
		return models.History{}, ErrEmptyResult
	}
	if err != nil {
		return models.History{}, err
	}
	return h, nil
}
