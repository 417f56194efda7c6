package services

import (
	"context"
	"fmt"

	"github.com/faunapedia/api-go/models"
	"github.com/faunapedia/api-go/store"
	"golang.org/x/sync/errgroup"
)

type MapService struct {
	store store.Store
}

func NewMapService(st store.Store) *MapService {
	return &MapService{store: st}
}

// Points loads animals and geotagged posts concurrently and merges them
// into map markers. A failing source fails the whole call.
func (s *MapService) Points(ctx context.Context) ([]models.MapPoint, error) {
	var (
		animals []models.Animal
		posts   []models.Post
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		animals, err = s.store.ListAnimals(gctx, store.AnimalFilter{})
		if err != nil {
			return fmt.Errorf("list animals: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		posts, err = s.store.ListPosts(gctx, store.PostFilter{Geotagged: true})
		if err != nil {
			return fmt.Errorf("list geotagged posts: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return AggregatePoints(animals, posts), nil
}

// AggregatePoints emits one habitat marker per native region of every
// animal, then one marker per geotagged post. Post titles use the linked
// animal's name when it is resolved or present in animals.
func AggregatePoints(animals []models.Animal, posts []models.Post) []models.MapPoint {
	byID := make(map[string]*models.Animal, len(animals))
	points := make([]models.MapPoint, 0, len(posts))

	for i := range animals {
		a := &animals[i]
		byID[a.ID] = a
		for j, region := range a.NativeRegions {
			points = append(points, models.MapPoint{
				ID:        fmt.Sprintf("%s-habitat-%d", a.ID, j),
				Lat:       region.Lat,
				Lng:       region.Lng,
				Title:     fmt.Sprintf("Habitat: %s (%s)", a.Name, region.Label),
				Thumbnail: a.ImageURL,
				Type:      models.PointTypeHabitat,
				AnimalID:  a.ID,
			})
		}
	}

	for i := range posts {
		p := &posts[i]
		if !p.Geotagged() {
			continue
		}
		name := "Animal"
		if a, ok := p.Animal.Resolved(); ok {
			name = a.Name
		} else if a, ok := byID[p.Animal.ID()]; ok {
			name = a.Name
		}
		points = append(points, models.MapPoint{
			ID:        p.ID,
			Lat:       p.Location.Lat,
			Lng:       p.Location.Lng,
			Title:     fmt.Sprintf("Photo of %s", name),
			Thumbnail: p.ImageURL,
			Type:      models.PointTypePost,
			AnimalID:  p.Animal.ID(),
		})
	}
	return points
}
