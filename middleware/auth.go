package middleware

import (
	"context"
	"net/http"
	"strings"

	"tourify/database/repository"
	"tourify/models"
	"tourify/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// principalKey is the gin context key holding the authenticated user.
const principalKey = "currentUser"

// PrincipalSource resolves a token subject to a current user record.
type PrincipalSource interface {
	FindByID(ctx context.Context, id primitive.ObjectID, lookups ...repository.Lookup) (*models.User, error)
}

// extractToken reads the bearer token from the Authorization header or the
// jwt cookie.
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if cookie, err := c.Cookie("jwt"); err == nil {
		return cookie
	}
	return ""
}

// authenticate runs the full token verification chain: extraction, signature
// and expiry verification, principal lookup, and the password staleness check.
func authenticate(c *gin.Context, users PrincipalSource) (*models.User, error) {
	tokenString := extractToken(c)
	if tokenString == "" {
		return nil, utils.Unauthorized("You are not logged in! Please log in to get access.")
	}

	claims, err := utils.ValidateToken(tokenString)
	if err != nil {
		// Keep the jwt error shape so the funnel distinguishes expired
		// from malformed tokens.
		return nil, err
	}

	id, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return nil, utils.Unauthorized("Invalid token. Please log in again.")
	}

	usr, err := users.FindByID(c.Request.Context(), id)
	if err != nil {
		return nil, utils.WrapError(http.StatusUnauthorized,
			"The user belonging to this token does no longer exist.", err)
	}

	if usr.ChangedPasswordAfter(claims.IssuedAt) {
		return nil, utils.Unauthorized("User recently changed password! Please log in again.")
	}

	return usr, nil
}

// Protect rejects unauthenticated requests and attaches the principal to the
// request context for downstream handlers.
func Protect(users PrincipalSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		usr, err := authenticate(c, users)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		c.Set(principalKey, usr)
		c.Next()
	}
}

// MaybeAuthenticate attaches the principal when a valid token is present but
// treats every failure as an anonymous visitor.
func MaybeAuthenticate(users PrincipalSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		if usr, err := authenticate(c, users); err == nil {
			c.Set(principalKey, usr)
		}
		c.Next()
	}
}

// RestrictTo rejects authenticated principals whose role is not in the
// allowed set. It composes after Protect.
func RestrictTo(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}
	return func(c *gin.Context) {
		usr, ok := CurrentUser(c)
		if !ok || !allowed[usr.Role] {
			_ = c.Error(utils.Forbidden("You do not have permission to perform this action"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated principal, if any.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	val, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	usr, ok := val.(*models.User)
	return usr, ok
}
