package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/faunapedia/api-go/models"
	"github.com/faunapedia/api-go/store"
)

const searchLimit = 5

type AnimalService struct {
	store store.Store
}

func NewAnimalService(st store.Store) *AnimalService {
	return &AnimalService{store: st}
}

// List returns the catalog sorted by name, optionally narrowed to one
// category.
func (s *AnimalService) List(ctx context.Context, category models.Category) ([]models.Animal, error) {
	if category != "" && !category.Valid() {
		return nil, ErrInvalidCategory
	}
	animals, err := s.store.ListAnimals(ctx, store.AnimalFilter{Category: category})
	if err != nil {
		return nil, fmt.Errorf("list animals: %w", err)
	}
	if animals == nil {
		animals = []models.Animal{}
	}
	return animals, nil
}

// Search matches names case-insensitively. An empty query matches nothing.
func (s *AnimalService) Search(ctx context.Context, query string) ([]models.Animal, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Animal{}, nil
	}
	animals, err := s.store.SearchAnimals(ctx, query, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("search animals: %w", err)
	}
	if animals == nil {
		animals = []models.Animal{}
	}
	return animals, nil
}

func (s *AnimalService) Get(ctx context.Context, id string) (*models.Animal, error) {
	animal, err := s.store.GetAnimal(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAnimalNotFound
		}
		return nil, fmt.Errorf("load animal: %w", err)
	}
	return animal, nil
}
