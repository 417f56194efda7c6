package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/faunapedia/api-go/seed"
	"github.com/faunapedia/api-go/store"
	"go.uber.org/zap"
)

type SeedResult struct {
	Animals         int `json:"animalsCount"`
	Questions       int `json:"quizQuestions"`
	LinkedQuestions int `json:"linkedQuestions"`
}

type BackfillResult struct {
	Matched  int64 `json:"matchedCount"`
	Modified int64 `json:"modifiedCount"`
}

// CatalogService runs the maintenance operations. Both are safe to repeat.
type CatalogService struct {
	store  store.Store
	logger *zap.Logger
}

func NewCatalogService(st store.Store, logger *zap.Logger) *CatalogService {
	return &CatalogService{store: st, logger: logger}
}

// Seed upserts the animals by name and the questions by text. A question is
// linked to its animal when one with that name exists.
func (s *CatalogService) Seed(ctx context.Context, catalog *seed.Catalog) (*SeedResult, error) {
	result := &SeedResult{}

	for _, entry := range catalog.Animals {
		animal := entry.Model()
		if err := s.store.UpsertAnimal(ctx, &animal); err != nil {
			return result, fmt.Errorf("seed animal %q: %w", entry.Name, err)
		}
		result.Animals++
	}

	for _, entry := range catalog.Questions {
		question := entry.Model()
		if entry.Animal != "" {
			animal, err := s.store.GetAnimalByName(ctx, entry.Animal)
			switch {
			case err == nil:
				question.AnimalID = animal.ID
				result.LinkedQuestions++
			case errors.Is(err, store.ErrNotFound):
				s.logger.Warn("quiz question links unknown animal",
					zap.String("question", entry.Question),
					zap.String("animal", entry.Animal),
				)
			default:
				return result, fmt.Errorf("load animal %q: %w", entry.Animal, err)
			}
		}
		if err := s.store.UpsertQuestion(ctx, &question); err != nil {
			return result, fmt.Errorf("seed question %q: %w", entry.Question, err)
		}
		result.Questions++
	}

	s.logger.Info("catalog seeded",
		zap.Int("animals", result.Animals),
		zap.Int("questions", result.Questions),
		zap.Int("linkedQuestions", result.LinkedQuestions),
	)
	return result, nil
}

// BackfillLikes gives an empty like list to posts stored without one.
func (s *CatalogService) BackfillLikes(ctx context.Context) (*BackfillResult, error) {
	matched, modified, err := s.store.BackfillLikes(ctx)
	if err != nil {
		return nil, fmt.Errorf("backfill likes: %w", err)
	}
	s.logger.Info("likes backfilled", zap.Int64("matched", matched), zap.Int64("modified", modified))
	return &BackfillResult{Matched: matched, Modified: modified}, nil
}
