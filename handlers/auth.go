package handlers

import (
	"net/http"
	"time"

	"tourify/config"
	"tourify/models"
	"tourify/utils"

	"github.com/gin-gonic/gin"
)

// sendToken issues a fresh JWT for the user, sets it as the auth cookie and
// returns it in the response body together with the user.
func sendToken(c *gin.Context, status int, usr *models.User) {
	days := config.AppConfig.JWTExpiresInDays
	token, err := utils.GenerateToken(usr.ID.Hex(), time.Duration(days)*24*time.Hour)
	if err != nil {
		_ = c.Error(err)
		return
	}

	cookieMaxAge := config.AppConfig.JWTCookieExpiresDays * 24 * 60 * 60
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("jwt", token, cookieMaxAge, "/", "", config.IsProduction(), true)

	c.JSON(status, gin.H{
		"status": "success",
		"token":  token,
		"data":   gin.H{"user": usr},
	})
}

// clearTokenCookie overwrites the auth cookie with a short-lived dummy value.
func clearTokenCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("jwt", "loggedout", 10, "/", "", config.IsProduction(), true)
}
