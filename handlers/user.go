package handlers

import (
	"net/http"
	"strings"

	userRepo "tourify/database/repository/user"
	"tourify/middleware"
	"tourify/models"
	userService "tourify/services/user"
	"tourify/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

// UserHandler serves the auth endpoints, the self-service /me endpoints and
// the administrative user CRUD.
type UserHandler struct {
	Service userService.UserService
	Repo    userRepo.UserRepository
}

func NewUserHandler(svc userService.UserService, repo userRepo.UserRepository) *UserHandler {
	return &UserHandler{Service: svc, Repo: repo}
}

// Signup creates an account and logs the new user in.
func (h *UserHandler) Signup(c *gin.Context) {
	var in userService.SignupInput
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(utils.WrapError(http.StatusBadRequest, "Invalid request payload", err))
		return
	}
	usr, err := h.Service.Signup(c.Request.Context(), in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	sendToken(c, http.StatusCreated, usr)
}

// Login exchanges credentials for a token.
func (h *UserHandler) Login(c *gin.Context) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(utils.WrapError(http.StatusBadRequest, "Invalid request payload", err))
		return
	}
	usr, err := h.Service.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}
	sendToken(c, http.StatusOK, usr)
}

// Logout clears the auth cookie.
func (h *UserHandler) Logout(c *gin.Context) {
	clearTokenCookie(c)
	utils.Success(c, http.StatusOK, nil)
}

// ForgotPassword mails a reset token to the account's address.
func (h *UserHandler) ForgotPassword(c *gin.Context) {
	var in struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(utils.BadRequest("Please provide your email address"))
		return
	}
	if err := h.Service.ForgotPassword(c.Request.Context(), in.Email); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Token sent to email!",
	})
}

// ResetPassword consumes the mailed token and logs the user in with the new
// password.
func (h *UserHandler) ResetPassword(c *gin.Context) {
	var in userService.PasswordResetInput
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(utils.WrapError(http.StatusBadRequest, "Invalid request payload", err))
		return
	}
	usr, err := h.Service.ResetPassword(c.Request.Context(), c.Param("token"), in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	sendToken(c, http.StatusOK, usr)
}

// UpdateMyPassword changes the authenticated user's password and reissues the
// token.
func (h *UserHandler) UpdateMyPassword(c *gin.Context) {
	usr, _ := middleware.CurrentUser(c)

	var in userService.PasswordUpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(utils.WrapError(http.StatusBadRequest, "Invalid request payload", err))
		return
	}
	updated, err := h.Service.UpdatePassword(c.Request.Context(), usr.ID, in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	sendToken(c, http.StatusOK, updated)
}

// Me returns the authenticated user's own record.
func (h *UserHandler) Me(c *gin.Context) {
	usr, _ := middleware.CurrentUser(c)
	utils.Success(c, http.StatusOK, usr)
}

// UpdateMe applies a profile update. Password fields are rejected outright so
// clients cannot bypass the password flow.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	usr, _ := middleware.CurrentUser(c)

	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		_ = c.Error(utils.WrapError(http.StatusBadRequest, "Invalid request payload", err))
		return
	}
	if _, ok := payload["password"]; ok {
		_ = c.Error(utils.BadRequest("This route is not for password updates. Please use /updateMyPassword."))
		return
	}
	if _, ok := payload["passwordConfirm"]; ok {
		_ = c.Error(utils.BadRequest("This route is not for password updates. Please use /updateMyPassword."))
		return
	}

	in := userService.UpdateMeInput{}
	if v, ok := payload["name"].(string); ok {
		in.Name = v
	}
	if v, ok := payload["email"].(string); ok {
		in.Email = v
	}
	if v, ok := payload["photo"].(string); ok {
		in.Photo = v
	}

	updated, err := h.Service.UpdateMe(c.Request.Context(), usr.ID, in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.Success(c, http.StatusOK, updated)
}

// DeleteMe soft-deletes the authenticated user's account.
func (h *UserHandler) DeleteMe(c *gin.Context) {
	usr, _ := middleware.CurrentUser(c)
	if err := h.Service.DeactivateMe(c.Request.Context(), usr.ID); err != nil {
		_ = c.Error(err)
		return
	}
	utils.NoContent(c)
}

// CreateUser exists for route symmetry only; accounts are created via signup.
func (h *UserHandler) CreateUser(c *gin.Context) {
	_ = c.Error(utils.NewAppError(http.StatusInternalServerError,
		"This route is not defined! Please use /signup instead"))
}

// GetUser is the administrative get-by-ID; it reaches soft-deleted accounts.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	usr, err := h.Repo.FindByIDAny(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.Success(c, http.StatusOK, usr)
}

// ListUsers is the administrative user listing.
func (h *UserHandler) ListUsers() gin.HandlerFunc {
	return List[models.User](h.Repo, nil)
}

// UpdateUser is the administrative update. Password fields are stripped; the
// password flow is the only way to change credentials.
func (h *UserHandler) UpdateUser() gin.HandlerFunc {
	return UpdateOne[models.User](h.Repo, &WriteHooks[models.User]{
		Strip: []string{"password", "passwordConfirm", "passwordChangedAt"},
		BeforePatch: func(c *gin.Context, patch bson.M) error {
			// Emails are stored lowercase.
			if email, ok := patch["email"].(string); ok {
				patch["email"] = strings.ToLower(email)
			}
			return nil
		},
	})
}

// DeleteUser is the administrative hard delete.
func (h *UserHandler) DeleteUser() gin.HandlerFunc {
	return DeleteOne[models.User](h.Repo, nil)
}
