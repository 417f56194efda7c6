package services

import (
	"testing"

	"github.com/faunapedia/api-go/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapPoints(t *testing.T) {
	f := newFixture(t)
	lion := f.animal(t, "Lion",
		models.Region{Lat: -2.33, Lng: 34.83, Label: "Serengeti"},
		models.Region{Lat: 21.12, Lng: 70.82, Label: "Gir Forest"},
	)
	panda := f.animal(t, "Giant Panda")
	user := f.user(t, "ext-user", "explorer")

	geotagged, err := f.posts.CreatePost(f.ctx, user.ID, CreatePostInput{
		Key:      "ext-user/panda.jpg",
		AnimalID: panda.ID,
		Location: &models.Location{Lat: 30.7, Lng: 103.0, PlaceName: "Wolong"},
	})
	require.NoError(t, err)
	f.post(t, user, panda)

	points, err := NewMapService(f.store).Points(f.ctx)
	require.NoError(t, err)

	want := []models.MapPoint{
		{
			ID:       lion.ID + "-habitat-0",
			Lat:      -2.33,
			Lng:      34.83,
			Title:    "Habitat: Lion (Serengeti)",
			Type:     models.PointTypeHabitat,
			AnimalID: lion.ID,
		},
		{
			ID:       lion.ID + "-habitat-1",
			Lat:      21.12,
			Lng:      70.82,
			Title:    "Habitat: Lion (Gir Forest)",
			Type:     models.PointTypeHabitat,
			AnimalID: lion.ID,
		},
		{
			ID:        geotagged.ID,
			Lat:       30.7,
			Lng:       103.0,
			Title:     "Photo of Giant Panda",
			Thumbnail: "https://faunapedia-photos.s3.eu-west-1.amazonaws.com/ext-user/panda.jpg",
			Type:      models.PointTypePost,
			AnimalID:  panda.ID,
		},
	}
	if diff := cmp.Diff(want, points); diff != "" {
		t.Errorf("map points mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregatePointsUnknownAnimal(t *testing.T) {
	post := models.Post{
		ID:       "p1",
		ImageURL: "https://img/p1.jpg",
		Animal:   models.RefTo[models.Animal]("gone"),
		Location: &models.Location{Lat: 1, Lng: 2},
	}
	untagged := models.Post{ID: "p2", Animal: models.RefTo[models.Animal]("gone")}

	points := AggregatePoints(nil, []models.Post{post, untagged})
	require.Len(t, points, 1)
	assert.Equal(t, "Photo of Animal", points[0].Title)
	assert.Equal(t, models.PointTypePost, points[0].Type)
}

func TestAggregatePointsEmpty(t *testing.T) {
	points := AggregatePoints(nil, nil)
	assert.NotNil(t, points)
	assert.Empty(t, points)
}
