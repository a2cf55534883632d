// Package user implements account and credential management on top of the
// user repository.
package user

import (
	"context"

	"tourify/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SignupInput is the payload accepted by the signup endpoint. Role is
// deliberately absent: accounts always start as regular users.
type SignupInput struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// PasswordUpdateInput is the payload for authenticated password changes.
type PasswordUpdateInput struct {
	PasswordCurrent string `json:"passwordCurrent" validate:"required"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// PasswordResetInput is the payload for token-based password resets.
type PasswordResetInput struct {
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// UpdateMeInput is the self-service profile update payload. Password changes
// go through the dedicated endpoint.
type UpdateMeInput struct {
	Name  string `json:"name"`
	Email string `json:"email" validate:"omitempty,email"`
	Photo string `json:"photo"`
}

// UserService is the account management interface.
type UserService interface {
	Signup(ctx context.Context, in SignupInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	UpdatePassword(ctx context.Context, id primitive.ObjectID, in PasswordUpdateInput) (*models.User, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token string, in PasswordResetInput) (*models.User, error)
	UpdateMe(ctx context.Context, id primitive.ObjectID, in UpdateMeInput) (*models.User, error)
	DeactivateMe(ctx context.Context, id primitive.ObjectID) error
}

// patch builds the profile update document, skipping empty fields.
func (in UpdateMeInput) patch() bson.M {
	patch := bson.M{}
	if in.Name != "" {
		patch["name"] = in.Name
	}
	if in.Email != "" {
		patch["email"] = in.Email
	}
	if in.Photo != "" {
		patch["photo"] = in.Photo
	}
	return patch
}
