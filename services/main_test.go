package services

import (
	"context"
	"testing"
	"time"

	"github.com/faunapedia/api-go/models"
	"github.com/faunapedia/api-go/store/memstore"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// tickingClock returns strictly increasing times so stored records keep
// their insertion order.
func tickingClock() func() time.Time {
	now := epoch
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

type fixture struct {
	ctx     context.Context
	store   *memstore.Store
	users   *UserService
	posts   *PostService
	social  *SocialService
	game    *GameService
	uploads *UploadService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memstore.New(memstore.WithClock(tickingClock()), memstore.WithSeed(7))
	logger := zap.NewNop()
	uploads := NewUploadService(nil, "faunapedia-photos", "eu-west-1", "")

	f := &fixture{
		ctx:     context.Background(),
		store:   st,
		users:   NewUserService(st, logger),
		posts:   NewPostService(st, uploads, logger),
		social:  NewSocialService(st, logger),
		game:    NewGameService(st, logger),
		uploads: uploads,
	}
	f.game.now = func() time.Time { return epoch }
	return f
}

func (f *fixture) user(t *testing.T, externalID, username string) *models.User {
	t.Helper()
	u, err := f.users.EnsureUser(f.ctx, &models.Identity{ExternalID: externalID, Username: username})
	require.NoError(t, err)
	return u
}

func (f *fixture) animal(t *testing.T, name string, regions ...models.Region) *models.Animal {
	t.Helper()
	a := &models.Animal{Name: name, Category: models.CategoryMammal, NativeRegions: regions}
	require.NoError(t, f.store.UpsertAnimal(f.ctx, a))
	return a
}

func (f *fixture) post(t *testing.T, user *models.User, animal *models.Animal) *models.PostView {
	t.Helper()
	view, err := f.posts.CreatePost(f.ctx, user.ID, CreatePostInput{
		Key:      user.ExternalID + "/photo.jpg",
		AnimalID: animal.ID,
	})
	require.NoError(t, err)
	return view
}
