package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// Roles a user can hold.
const (
	RoleUser      = "user"
	RoleGuide     = "guide"
	RoleLeadGuide = "lead-guide"
	RoleAdmin     = "admin"
)

const bcryptCost = 12

// User is an account document. The password hash and reset-token fields are
// never serialized into API responses.
type User struct {
	ID                   primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name                 string             `json:"name" bson:"name" validate:"required"`
	Email                string             `json:"email" bson:"email" validate:"required,email"`
	Photo                string             `json:"photo,omitempty" bson:"photo,omitempty"`
	Role                 string             `json:"role" bson:"role" validate:"omitempty,oneof=user guide lead-guide admin"`
	Password             string             `json:"-" bson:"password"`
	PasswordChangedAt    time.Time          `json:"-" bson:"passwordChangedAt,omitempty"`
	PasswordResetToken   string             `json:"-" bson:"passwordResetToken,omitempty"`
	PasswordResetExpires time.Time          `json:"-" bson:"passwordResetExpires,omitempty"`
	Active               bool               `json:"-" bson:"active"`
	CreatedAt            time.Time          `json:"createdAt" bson:"createdAt"`
}

// SetPassword hashes and stores the given plain-text password.
func (u *User) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

// CorrectPassword reports whether the candidate matches the stored hash.
func (u *User) CorrectPassword(candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(candidate)) == nil
}

// MarkPasswordChanged records a password change, backdated one second so a
// token issued in the same instant still passes the staleness check.
func (u *User) MarkPasswordChanged() {
	u.PasswordChangedAt = time.Now().Add(-time.Second)
}

// ChangedPasswordAfter reports whether the password changed after the given
// token issue time.
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt.IsZero() {
		return false
	}
	return u.PasswordChangedAt.Unix() > issuedAt.Unix()
}

// ValidateUser runs field validation for a user about to be written.
func ValidateUser(u *User) error {
	if err := validate.Struct(u); err != nil {
		return validationError("user", err)
	}
	return nil
}

// ApplyUserDefaults fills defaults before a user is first persisted.
func ApplyUserDefaults(u *User) {
	if u.Role == "" {
		u.Role = RoleUser
	}
	if u.Photo == "" {
		u.Photo = "default.jpg"
	}
	u.Active = true
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
}
