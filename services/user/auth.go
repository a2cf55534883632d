package user

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tourify/config"
	userRepo "tourify/database/repository/user"
	"tourify/models"
	"tourify/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const resetTokenTTL = 10 * time.Minute

// DefaultUserService implements UserService over the user repository and a
// mail collaborator.
type DefaultUserService struct {
	Repo userRepo.UserRepository
	Mail Mailer
}

// Signup creates a new account and sends the welcome mail.
func (s *DefaultUserService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	if err := models.ValidateInput("signup", in); err != nil {
		return nil, err
	}

	usr := &models.User{
		Name:  in.Name,
		Email: strings.ToLower(in.Email),
	}
	if err := usr.SetPassword(in.Password); err != nil {
		utils.GetLogger().Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("signup failed: %w", err)
	}
	models.ApplyUserDefaults(usr)

	created, err := s.Repo.Create(ctx, usr)
	if err != nil {
		// Duplicate email normalizes in the error funnel.
		return nil, err
	}

	if err := s.Mail.SendWelcome(ctx, created.Email, created.Name); err != nil {
		utils.GetLogger().Warn("Failed to send welcome mail", zap.Error(err))
	}
	return created, nil
}

// Login verifies credentials. The failure message never reveals whether the
// email exists.
func (s *DefaultUserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, utils.BadRequest("Please provide email and password")
	}

	usr, err := s.Repo.FindByEmail(ctx, email)
	if err != nil || !usr.CorrectPassword(password) {
		return nil, utils.Unauthorized("Incorrect email or password")
	}
	return usr, nil
}

// UpdatePassword changes the password of an authenticated user after
// verifying the current one.
func (s *DefaultUserService) UpdatePassword(ctx context.Context, id primitive.ObjectID, in PasswordUpdateInput) (*models.User, error) {
	if err := models.ValidateInput("password update", in); err != nil {
		return nil, err
	}

	usr, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !usr.CorrectPassword(in.PasswordCurrent) {
		return nil, utils.Unauthorized("Your current password is wrong")
	}

	if err := usr.SetPassword(in.Password); err != nil {
		return nil, fmt.Errorf("password update failed: %w", err)
	}
	usr.MarkPasswordChanged()
	if err := s.Repo.UpdatePassword(ctx, id, usr); err != nil {
		return nil, err
	}
	return usr, nil
}

// ForgotPassword issues a reset token and mails the reset link. The stored
// token is hashed; the mailed one is not.
func (s *DefaultUserService) ForgotPassword(ctx context.Context, email string) error {
	usr, err := s.Repo.FindByEmail(ctx, email)
	if err != nil {
		return utils.WrapError(http.StatusNotFound, "There is no user with this email address.", err)
	}

	token, hash, err := utils.NewResetToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	if err := s.Repo.SetResetToken(ctx, usr.ID, hash, time.Now().Add(resetTokenTTL)); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/api/v1/users/resetPassword/%s", config.AppConfig.PublicURL, token)
	if err := s.Mail.SendPasswordReset(ctx, usr.Email, resetURL); err != nil {
		// Invalidate the token again so a half-delivered reset cannot linger.
		if clearErr := s.Repo.SetResetToken(ctx, usr.ID, "", time.Time{}); clearErr != nil {
			utils.GetLogger().Error("Failed to clear reset token", zap.Error(clearErr))
		}
		return utils.WrapError(http.StatusInternalServerError,
			"There was an error sending the email. Try again later!", err)
	}
	return nil
}

// ResetPassword consumes a mailed reset token and sets the new password.
func (s *DefaultUserService) ResetPassword(ctx context.Context, token string, in PasswordResetInput) (*models.User, error) {
	if err := models.ValidateInput("password reset", in); err != nil {
		return nil, err
	}

	usr, err := s.Repo.FindByResetToken(ctx, utils.HashToken(token))
	if err != nil {
		return nil, utils.WrapError(http.StatusBadRequest, "Token is invalid or has expired", err)
	}

	if err := usr.SetPassword(in.Password); err != nil {
		return nil, fmt.Errorf("password reset failed: %w", err)
	}
	usr.MarkPasswordChanged()
	if err := s.Repo.UpdatePassword(ctx, usr.ID, usr); err != nil {
		return nil, err
	}
	return usr, nil
}

// UpdateMe applies a self-service profile update.
func (s *DefaultUserService) UpdateMe(ctx context.Context, id primitive.ObjectID, in UpdateMeInput) (*models.User, error) {
	if err := models.ValidateInput("profile update", in); err != nil {
		return nil, err
	}
	patch := in.patch()
	if len(patch) == 0 {
		return nil, utils.BadRequest("Nothing to update")
	}
	if email, ok := patch["email"].(string); ok {
		patch["email"] = strings.ToLower(email)
	}
	return s.Repo.UpdateByID(ctx, id, patch)
}

// DeactivateMe soft-deletes the account.
func (s *DefaultUserService) DeactivateMe(ctx context.Context, id primitive.ObjectID) error {
	return s.Repo.Deactivate(ctx, id)
}
