package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tourify/config"
	"tourify/database/repository"
	"tourify/models"
	"tourify/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakePrincipals struct {
	user *models.User
	err  error
}

func (f *fakePrincipals) FindByID(ctx context.Context, id primitive.ObjectID, lookups ...repository.Lookup) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func protectedRouter(users PrincipalSource, roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(utils.ErrorHandler())

	chain := []gin.HandlerFunc{Protect(users)}
	if len(roles) > 0 {
		chain = append(chain, RestrictTo(roles...))
	}
	chain = append(chain, func(c *gin.Context) {
		usr, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"user": usr.Email})
	})
	r.GET("/secure", chain...)
	return r
}

func doRequest(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func testUser() *models.User {
	return &models.User{
		ID:    primitive.NewObjectID(),
		Name:  "Test User",
		Email: "test@example.com",
		Role:  models.RoleUser,
	}
}

func TestProtectRejectsMissingToken(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	r := protectedRouter(&fakePrincipals{user: testUser()})

	w := doRequest(r, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "You are not logged in! Please log in to get access.")
}

func TestProtectRejectsExpiredToken(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	usr := testUser()
	r := protectedRouter(&fakePrincipals{user: usr})

	token, err := utils.GenerateToken(usr.ID.Hex(), -time.Minute)
	require.NoError(t, err)

	w := doRequest(r, token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Your token has expired! Please log in again.")
}

func TestProtectRejectsMalformedToken(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	r := protectedRouter(&fakePrincipals{user: testUser()})

	w := doRequest(r, "not.a.token")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid token. Please log in again.")
}

func TestProtectRejectsDeletedUser(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	r := protectedRouter(&fakePrincipals{err: mongo.ErrNoDocuments})

	token, err := utils.GenerateToken(primitive.NewObjectID().Hex(), time.Hour)
	require.NoError(t, err)

	w := doRequest(r, token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "The user belonging to this token does no longer exist.")
}

func TestProtectRejectsStaleToken(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	usr := testUser()
	r := protectedRouter(&fakePrincipals{user: usr})

	token, err := utils.GenerateToken(usr.ID.Hex(), time.Hour)
	require.NoError(t, err)

	// Password change after the token was issued invalidates it.
	usr.PasswordChangedAt = time.Now().Add(time.Minute)

	w := doRequest(r, token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "User recently changed password! Please log in again.")
}

func TestProtectAcceptsValidToken(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	usr := testUser()
	r := protectedRouter(&fakePrincipals{user: usr})

	token, err := utils.GenerateToken(usr.ID.Hex(), time.Hour)
	require.NoError(t, err)

	w := doRequest(r, token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), usr.Email)
}

func TestProtectReadsTokenFromCookie(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	usr := testUser()
	r := protectedRouter(&fakePrincipals{user: usr})

	token, err := utils.GenerateToken(usr.ID.Hex(), time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.AddCookie(&http.Cookie{Name: "jwt", Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRestrictToBlocksWrongRole(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	usr := testUser()
	r := protectedRouter(&fakePrincipals{user: usr}, models.RoleAdmin, models.RoleLeadGuide)

	token, err := utils.GenerateToken(usr.ID.Hex(), time.Hour)
	require.NoError(t, err)

	w := doRequest(r, token)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "You do not have permission to perform this action")
}

func TestRestrictToAllowsMatchingRole(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	usr := testUser()
	usr.Role = models.RoleAdmin
	r := protectedRouter(&fakePrincipals{user: usr}, models.RoleAdmin)

	token, err := utils.GenerateToken(usr.ID.Hex(), time.Hour)
	require.NoError(t, err)

	w := doRequest(r, token)

	assert.Equal(t, http.StatusOK, w.Code)
}
