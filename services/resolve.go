package services

import (
	"context"

	"github.com/faunapedia/api-go/models"
	"github.com/faunapedia/api-go/store"
)

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func authorsByID(ctx context.Context, users store.UserRepository, ids []string) (map[string]*models.Author, error) {
	found, err := users.FindUsers(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, err
	}
	authors := make(map[string]*models.Author, len(found))
	for i := range found {
		authors[found[i].ID] = found[i].Author()
	}
	return authors, nil
}

func animalsByID(ctx context.Context, animals store.AnimalRepository, ids []string) (map[string]*models.Animal, error) {
	found, err := animals.FindAnimals(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*models.Animal, len(found))
	for i := range found {
		byID[found[i].ID] = &found[i]
	}
	return byID, nil
}
