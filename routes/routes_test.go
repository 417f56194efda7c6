package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/faunapedia/api-go/middleware"
	"github.com/faunapedia/api-go/models"
	"github.com/faunapedia/api-go/services"
	"github.com/faunapedia/api-go/store"
	"github.com/faunapedia/api-go/store/memstore"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testSecret   = "test-secret"
	testAdminKey = "admin-key"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type apiHarness struct {
	t      *testing.T
	store  *memstore.Store
	router *gin.Engine
}

func newHarness(t *testing.T) *apiHarness {
	t.Helper()
	presigner := s3.NewPresignClient(s3.New(s3.Options{
		Region:      "eu-west-1",
		Credentials: credentials.NewStaticCredentialsProvider("AKIDEXAMPLE", "secret", ""),
	}))
	return newHarnessWithUploads(t, services.NewUploadService(presigner, "faunapedia-photos", "eu-west-1", ""))
}

func newHarnessWithUploads(t *testing.T, uploads *services.UploadService) *apiHarness {
	t.Helper()
	st := memstore.New(memstore.WithSeed(1))
	router := SetupRouter(Dependencies{
		Store:          st,
		StoreDriver:    "memory",
		Uploads:        uploads,
		Verifier:       middleware.NewTokenVerifier(testSecret, ""),
		Logger:         zap.NewNop(),
		AdminAPIKey:    testAdminKey,
		AllowedOrigins: []string{"http://localhost:3000"},
	})
	return &apiHarness{t: t, store: st, router: router}
}

func token(t *testing.T, subject, username string) string {
	t.Helper()
	claims := middleware.IdentityClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    json.RawMessage `json:"meta"`
	Error   string          `json:"error"`
}

func (h *apiHarness) do(method, path, bearer string, body interface{}, headers ...string) (int, apiResponse) {
	h.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)

	var resp apiResponse
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(h.t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}
	return w.Code, resp
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func (h *apiHarness) seed() []models.Animal {
	h.t.Helper()
	status, resp := h.do(http.MethodPost, "/admin/seed", "", nil, middleware.AdminKeyHeader, testAdminKey)
	require.Equal(h.t, http.StatusOK, status)
	require.True(h.t, resp.Success)

	animals, err := h.store.ListAnimals(context.Background(), store.AnimalFilter{})
	require.NoError(h.t, err)
	return animals
}

func TestHealth(t *testing.T) {
	h := newHarness(t)

	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())

	status, resp := h.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, resp.Success)
}

func TestUnknownRoute(t *testing.T) {
	h := newHarness(t)
	status, resp := h.do(http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, resp.Success)
	assert.Equal(t, "Route not found", resp.Error)
}

func TestAdminRoutesRequireKey(t *testing.T) {
	h := newHarness(t)

	status, resp := h.do(http.MethodPost, "/admin/seed", "", nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.False(t, resp.Success)

	status, resp = h.do(http.MethodPost, "/admin/backfill/likes", "", nil, middleware.AdminKeyHeader, testAdminKey)
	assert.Equal(t, http.StatusOK, status)
	result := decode[services.BackfillResult](t, resp.Data)
	assert.Zero(t, result.Matched)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	h := newHarness(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodPost, "/api/posts"},
		{http.MethodPost, "/api/posts/abc/like"},
		{http.MethodPost, "/api/posts/abc/comments"},
		{http.MethodGet, "/api/quiz"},
		{http.MethodPost, "/api/uploads/presign"},
		{http.MethodGet, "/api/me"},
	} {
		status, resp := h.do(route.method, route.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, status, route.path)
		assert.Equal(t, "Authentication required", resp.Error, route.path)
	}
}

func TestAnimalRoutes(t *testing.T) {
	h := newHarness(t)
	h.seed()

	status, resp := h.do(http.MethodGet, "/api/animals?category=Bird", "", nil)
	require.Equal(t, http.StatusOK, status)
	birds := decode[[]models.Animal](t, resp.Data)
	require.NotEmpty(t, birds)
	for _, a := range birds {
		assert.Equal(t, models.CategoryBird, a.Category)
	}

	status, _ = h.do(http.MethodGet, "/api/animals?category=Plant", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, resp = h.do(http.MethodGet, "/api/animals/search?q=li", "", nil)
	require.Equal(t, http.StatusOK, status)
	found := decode[[]models.Animal](t, resp.Data)
	assert.NotEmpty(t, found)
	assert.LessOrEqual(t, len(found), 5)

	status, resp = h.do(http.MethodGet, "/api/animals/does-not-exist", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Animal not found", resp.Error)
}

func TestPostLifecycle(t *testing.T) {
	h := newHarness(t)
	animals := h.seed()
	animal := animals[0]
	author := token(t, "user_author", "author")
	fan := token(t, "user_fan", "fan")

	status, resp := h.do(http.MethodPost, "/api/uploads/presign", author, map[string]string{
		"fileName":    "lion.jpg",
		"contentType": "image/jpeg",
	})
	require.Equal(t, http.StatusOK, status)
	grant := decode[services.UploadGrant](t, resp.Data)
	assert.True(t, strings.HasPrefix(grant.Key, "user_author/"))
	assert.Contains(t, grant.URL, "X-Amz-Expires=60")

	status, _ = h.do(http.MethodPost, "/api/posts", fan, map[string]interface{}{
		"key":      grant.Key,
		"animalId": animal.ID,
	})
	assert.Equal(t, http.StatusBadRequest, status, "a key from another user's prefix is rejected")

	status, resp = h.do(http.MethodPost, "/api/posts", author, map[string]interface{}{
		"key":      grant.Key,
		"animalId": animal.ID,
		"caption":  "Golden hour",
		"location": map[string]interface{}{"lat": -2.3, "lng": 34.8},
	})
	require.Equal(t, http.StatusCreated, status)
	created := decode[map[string]interface{}](t, resp.Data)
	postID, _ := created["id"].(string)
	require.NotEmpty(t, postID)

	status, _ = h.do(http.MethodPost, "/api/posts/"+postID+"/like", fan, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = h.do(http.MethodPost, "/api/posts/"+postID+"/comments", fan, map[string]string{"content": "Stunning"})
	require.Equal(t, http.StatusCreated, status)

	status, _ = h.do(http.MethodPost, "/api/posts/"+postID+"/comments", fan, map[string]string{"content": strings.Repeat("x", 501)})
	assert.Equal(t, http.StatusBadRequest, status)

	status, resp = h.do(http.MethodGet, "/api/posts/"+postID, fan, nil)
	require.Equal(t, http.StatusOK, status)
	view := decode[map[string]interface{}](t, resp.Data)
	assert.Equal(t, true, view["isLiked"])
	assert.Equal(t, float64(1), view["likeCount"])
	assert.Equal(t, float64(1), view["commentCount"])
	user, _ := view["user"].(map[string]interface{})
	assert.Equal(t, "author", user["username"])

	status, resp = h.do(http.MethodGet, "/api/posts/"+postID, "", nil)
	require.Equal(t, http.StatusOK, status)
	view = decode[map[string]interface{}](t, resp.Data)
	assert.Equal(t, false, view["isLiked"])

	status, resp = h.do(http.MethodGet, "/api/posts/"+postID+"/comments", "", nil)
	require.Equal(t, http.StatusOK, status)
	comments := decode[[]map[string]interface{}](t, resp.Data)
	require.Len(t, comments, 1)
	assert.Equal(t, "Stunning", comments[0]["content"])

	status, resp = h.do(http.MethodGet, "/api/users/fan/likes", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]map[string]interface{}](t, resp.Data), 1)

	status, resp = h.do(http.MethodGet, "/api/users/author", "", nil)
	require.Equal(t, http.StatusOK, status)
	profile := decode[services.Profile](t, resp.Data)
	assert.Equal(t, int64(1), profile.PostCount)
	require.Len(t, profile.Badges, 1)
	assert.Equal(t, models.BadgeFirstPost, profile.Badges[0].Code)

	status, resp = h.do(http.MethodGet, "/api/map/points", "", nil)
	require.Equal(t, http.StatusOK, status)
	points := decode[[]models.MapPoint](t, resp.Data)
	last := points[len(points)-1]
	assert.Equal(t, postID, last.ID)
	assert.Equal(t, "Photo of "+animal.Name, last.Title)
}

func TestUploadsWithoutStorage(t *testing.T) {
	h := newHarnessWithUploads(t, services.NewUploadService(nil, "", "", ""))
	animals := h.seed()
	author := token(t, "user_author", "author")

	status, resp := h.do(http.MethodPost, "/api/uploads/presign", author, map[string]string{
		"fileName":    "lion.jpg",
		"contentType": "image/jpeg",
	})
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.False(t, resp.Success)
	assert.Equal(t, "Uploads are not available", resp.Error)

	status, resp = h.do(http.MethodPost, "/api/uploads/presign", author, map[string]string{
		"fileName":    "notes.txt",
		"contentType": "text/plain",
	})
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "Uploads are not available", resp.Error)

	status, resp = h.do(http.MethodPost, "/api/posts", author, map[string]interface{}{
		"key":      "user_author/x.jpg",
		"animalId": animals[0].ID,
	})
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "Uploads are not available", resp.Error)

	n, err := h.store.CountPosts(context.Background(), store.PostFilter{})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPublicReadsDoNotCreateUsers(t *testing.T) {
	h := newHarness(t)
	animals := h.seed()
	author := token(t, "user_author", "author")
	stranger := token(t, "user_stranger", "stranger")

	_, resp := h.do(http.MethodPost, "/api/posts", author, map[string]interface{}{
		"key":      "user_author/x.jpg",
		"animalId": animals[0].ID,
	})
	postID := decode[map[string]interface{}](t, resp.Data)["id"].(string)

	for _, path := range []string{"/api/posts/" + postID, "/api/animals", "/api/animals/" + animals[0].ID + "/posts"} {
		status, _ := h.do(http.MethodGet, path, stranger, nil)
		assert.Equal(t, http.StatusOK, status, path)
	}
	_, err := h.store.GetUserByExternalID(context.Background(), "user_stranger")
	assert.ErrorIs(t, err, store.ErrNotFound)

	status, _ := h.do(http.MethodPost, "/api/posts/"+postID+"/like", author, nil)
	require.Equal(t, http.StatusOK, status)
	status, resp = h.do(http.MethodGet, "/api/posts/"+postID, author, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, decode[map[string]interface{}](t, resp.Data)["isLiked"])
}

func TestLikeResponse(t *testing.T) {
	h := newHarness(t)
	animals := h.seed()
	author := token(t, "user_author", "author")

	_, resp := h.do(http.MethodPost, "/api/posts", author, map[string]interface{}{
		"key":      "user_author/x.jpg",
		"animalId": animals[0].ID,
	})
	postID := decode[map[string]interface{}](t, resp.Data)["id"].(string)

	for _, want := range []bool{true, false} {
		req := httptest.NewRequest(http.MethodPost, "/api/posts/"+postID+"/like", nil)
		req.Header.Set("Authorization", "Bearer "+author)
		w := httptest.NewRecorder()
		h.router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Success bool `json:"success"`
			Liked   bool `json:"liked"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Success)
		assert.Equal(t, want, body.Liked)
	}
}

func TestQuizAndLeaderboard(t *testing.T) {
	h := newHarness(t)
	h.seed()
	player := token(t, "user_player", "player")

	status, resp := h.do(http.MethodGet, "/api/quiz", player, nil)
	require.Equal(t, http.StatusOK, status)
	assert.NotContains(t, string(resp.Data), "correctAnswer")
	questions := decode[[]models.QuizQuestion](t, resp.Data)
	require.NotEmpty(t, questions)

	stored, err := h.store.GetQuestion(context.Background(), questions[0].ID)
	require.NoError(t, err)

	answer := func(index int) map[string]interface{} {
		req := httptest.NewRequest(http.MethodPost, "/api/quiz/"+stored.ID+"/answer",
			strings.NewReader(fmt.Sprintf(`{"answerIndex":%d}`, index)))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+player)
		w := httptest.NewRecorder()
		h.router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		return body
	}

	wrong := answer((stored.CorrectAnswer + 1) % models.QuizOptionCount)
	assert.Equal(t, false, wrong["correct"])
	assert.Equal(t, float64(stored.CorrectAnswer), wrong["correctIndex"])
	assert.Equal(t, float64(0), wrong["pointsAwarded"])

	right := answer(stored.CorrectAnswer)
	assert.Equal(t, true, right["correct"])
	points := right["pointsAwarded"].(float64)
	assert.Positive(t, points)

	status, _ = h.do(http.MethodPost, "/api/quiz/"+stored.ID+"/answer", player, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, status)

	status, resp = h.do(http.MethodGet, "/api/leaderboard", "", nil)
	require.Equal(t, http.StatusOK, status)
	entries := decode[[]models.LeaderboardEntry](t, resp.Data)
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "player", entries[0].Username)
	assert.Equal(t, int64(points), entries[0].Points)

	status, _ = h.do(http.MethodGet, "/api/leaderboard?limit=500", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, resp = h.do(http.MethodGet, "/api/me", player, nil)
	require.Equal(t, http.StatusOK, status)
	me := decode[models.User](t, resp.Data)
	assert.Equal(t, int64(points), me.Points)
}
