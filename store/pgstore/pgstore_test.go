package pgstore

import (
	"fmt"
	"testing"

	"github.com/faunapedia/api-go/models"
	"github.com/faunapedia/api-go/store"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestValidIDs(t *testing.T) {
	id := uuid.NewString()
	assert.True(t, validID(id))
	assert.False(t, validID("507f1f77bcf86cd799439011"))
	assert.Equal(t, []string{id}, validIDs([]string{"", id, "nope"}))
}

func TestTranslate(t *testing.T) {
	assert.ErrorIs(t, translate(fmt.Errorf("first: %w", gorm.ErrRecordNotFound)), store.ErrNotFound)
}

func TestLikeEscaper(t *testing.T) {
	assert.Equal(t, `100\% \_wild\\`, likeEscaper.Replace(`100% _wild\`))
}

func TestPostRowToModel(t *testing.T) {
	lat, lng := -2.3, 34.8
	row := Post{
		ID:        uuid.NewString(),
		UserID:    uuid.NewString(),
		AnimalID:  uuid.NewString(),
		Likes:     pq.StringArray{"u1"},
		Latitude:  &lat,
		Longitude: &lng,
		PlaceName: "Serengeti",
	}

	p := row.toModel()
	assert.Equal(t, row.UserID, p.User.ID())
	assert.Equal(t, []string{"u1"}, p.Likes)
	require.NotNil(t, p.Location)
	assert.Equal(t, models.Location{Lat: lat, Lng: lng, PlaceName: "Serengeti"}, *p.Location)

	row.Likes = nil
	row.Longitude = nil
	p = row.toModel()
	assert.Nil(t, p.Likes, "legacy rows keep a missing like list")
	assert.Nil(t, p.Location)
}

func TestUserRowToModel(t *testing.T) {
	row := User{
		ID:         uuid.NewString(),
		ExternalID: "user_1",
		Badges:     []UserBadge{{Code: string(models.BadgeFirstPost)}},
	}
	u := row.toModel()
	assert.Equal(t, "user_1", u.ExternalID)
	assert.True(t, u.HasBadge(models.BadgeFirstPost))
	assert.NotNil(t, u.Following)
}
