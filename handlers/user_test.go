package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	userRepo "tourify/database/repository/user"
	"tourify/models"
	"tourify/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeUserRepo embeds the repository interface and records the update patch.
type fakeUserRepo struct {
	userRepo.UserRepository
	stored    models.User
	lastPatch bson.M
}

func (f *fakeUserRepo) UpdateByID(ctx context.Context, id primitive.ObjectID, patch bson.M) (*models.User, error) {
	f.lastPatch = patch
	usr := f.stored
	if email, ok := patch["email"].(string); ok {
		usr.Email = email
	}
	return &usr, nil
}

func TestUpdateUserLowercasesEmail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &fakeUserRepo{stored: models.User{
		ID:    primitive.NewObjectID(),
		Name:  "Test User",
		Email: "test@example.com",
		Role:  models.RoleUser,
	}}
	h := NewUserHandler(nil, repo)

	r := gin.New()
	r.Use(utils.ErrorHandler())
	r.PATCH("/users/:id", h.UpdateUser())

	payload := bytes.NewBufferString(`{"email":"Mixed.Case@Example.COM"}`)
	req := httptest.NewRequest(http.MethodPatch, "/users/"+repo.stored.ID.Hex(), payload)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "mixed.case@example.com", repo.lastPatch["email"])
}

func TestUpdateUserStripsPasswordFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &fakeUserRepo{stored: models.User{
		ID:    primitive.NewObjectID(),
		Name:  "Test User",
		Email: "test@example.com",
		Role:  models.RoleUser,
	}}
	h := NewUserHandler(nil, repo)

	r := gin.New()
	r.Use(utils.ErrorHandler())
	r.PATCH("/users/:id", h.UpdateUser())

	payload := bytes.NewBufferString(`{"name":"Renamed","password":"sneaky123"}`)
	req := httptest.NewRequest(http.MethodPatch, "/users/"+repo.stored.ID.Hex(), payload)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, bson.M{"name": "Renamed"}, repo.lastPatch)
}
