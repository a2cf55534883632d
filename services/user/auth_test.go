package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"tourify/database/repository"
	userRepo "tourify/database/repository/user"
	"tourify/models"
	"tourify/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// fakeUsers embeds the repository interface and overrides what the service
// flows exercise.
type fakeUsers struct {
	userRepo.UserRepository
	byEmail     *models.User
	byID        *models.User
	byReset     *models.User
	created     *models.User
	resetHash   string
	resetExpiry time.Time
	resetCalls  int
}

func (f *fakeUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.byEmail == nil {
		return nil, mongo.ErrNoDocuments
	}
	return f.byEmail, nil
}

func (f *fakeUsers) FindByID(ctx context.Context, id primitive.ObjectID, lookups ...repository.Lookup) (*models.User, error) {
	if f.byID == nil {
		return nil, mongo.ErrNoDocuments
	}
	return f.byID, nil
}

func (f *fakeUsers) FindByResetToken(ctx context.Context, tokenHash string) (*models.User, error) {
	if f.byReset == nil || f.resetHash != tokenHash {
		return nil, mongo.ErrNoDocuments
	}
	return f.byReset, nil
}

func (f *fakeUsers) Create(ctx context.Context, doc *models.User) (*models.User, error) {
	doc.ID = primitive.NewObjectID()
	f.created = doc
	return doc, nil
}

func (f *fakeUsers) UpdatePassword(ctx context.Context, id primitive.ObjectID, user *models.User) error {
	return nil
}

func (f *fakeUsers) SetResetToken(ctx context.Context, id primitive.ObjectID, tokenHash string, expires time.Time) error {
	f.resetHash = tokenHash
	f.resetExpiry = expires
	f.resetCalls++
	return nil
}

func (f *fakeUsers) UpdateByID(ctx context.Context, id primitive.ObjectID, patch bson.M) (*models.User, error) {
	return f.byID, nil
}

type fakeMailer struct {
	welcomes int
	resets   int
	resetURL string
	fail     bool
}

func (m *fakeMailer) SendWelcome(ctx context.Context, to, name string) error {
	m.welcomes++
	return nil
}

func (m *fakeMailer) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	if m.fail {
		return errors.New("smtp unreachable")
	}
	m.resets++
	m.resetURL = resetURL
	return nil
}

func service(repo *fakeUsers, mail *fakeMailer) *DefaultUserService {
	return &DefaultUserService{Repo: repo, Mail: mail}
}

func existingUser(t *testing.T, password string) *models.User {
	t.Helper()
	usr := &models.User{
		ID:    primitive.NewObjectID(),
		Name:  "Test User",
		Email: "test@example.com",
		Role:  models.RoleUser,
	}
	require.NoError(t, usr.SetPassword(password))
	return usr
}

func TestSignupCreatesAccountWithDefaults(t *testing.T) {
	repo := &fakeUsers{}
	mail := &fakeMailer{}
	svc := service(repo, mail)

	usr, err := svc.Signup(context.Background(), SignupInput{
		Name:            "New User",
		Email:           "New@Example.COM",
		Password:        "pass1234",
		PasswordConfirm: "pass1234",
	})
	require.NoError(t, err)

	assert.Equal(t, "new@example.com", usr.Email)
	assert.Equal(t, models.RoleUser, usr.Role)
	assert.True(t, usr.Active)
	assert.True(t, usr.CorrectPassword("pass1234"))
	assert.Equal(t, 1, mail.welcomes)
}

func TestSignupRejectsMismatchedPasswords(t *testing.T) {
	svc := service(&fakeUsers{}, &fakeMailer{})

	_, err := svc.Signup(context.Background(), SignupInput{
		Name:            "New User",
		Email:           "new@example.com",
		Password:        "pass1234",
		PasswordConfirm: "different",
	})

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Code)
}

func TestLoginRequiresBothFields(t *testing.T) {
	svc := service(&fakeUsers{}, &fakeMailer{})

	_, err := svc.Login(context.Background(), "test@example.com", "")

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Please provide email and password", appErr.Message)
}

func TestLoginRejectsUnknownEmailAndWrongPassword(t *testing.T) {
	usr := existingUser(t, "pass1234")

	// Unknown email and wrong password fail with the same message so the
	// response never reveals which part was wrong.
	_, errUnknown := service(&fakeUsers{}, &fakeMailer{}).
		Login(context.Background(), "missing@example.com", "pass1234")
	_, errWrongPass := service(&fakeUsers{byEmail: usr}, &fakeMailer{}).
		Login(context.Background(), usr.Email, "wrongpass")

	for _, err := range []error{errUnknown, errWrongPass} {
		var appErr *utils.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 401, appErr.Code)
		assert.Equal(t, "Incorrect email or password", appErr.Message)
	}
}

func TestLoginSucceedsWithCorrectCredentials(t *testing.T) {
	usr := existingUser(t, "pass1234")
	svc := service(&fakeUsers{byEmail: usr}, &fakeMailer{})

	got, err := svc.Login(context.Background(), usr.Email, "pass1234")
	require.NoError(t, err)
	assert.Equal(t, usr.ID, got.ID)
}

func TestUpdatePasswordRejectsWrongCurrent(t *testing.T) {
	usr := existingUser(t, "pass1234")
	svc := service(&fakeUsers{byID: usr}, &fakeMailer{})

	_, err := svc.UpdatePassword(context.Background(), usr.ID, PasswordUpdateInput{
		PasswordCurrent: "wrongpass",
		Password:        "newpass123",
		PasswordConfirm: "newpass123",
	})

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Your current password is wrong", appErr.Message)
}

func TestUpdatePasswordBackdatesChange(t *testing.T) {
	usr := existingUser(t, "pass1234")
	svc := service(&fakeUsers{byID: usr}, &fakeMailer{})

	updated, err := svc.UpdatePassword(context.Background(), usr.ID, PasswordUpdateInput{
		PasswordCurrent: "pass1234",
		Password:        "newpass123",
		PasswordConfirm: "newpass123",
	})
	require.NoError(t, err)

	assert.True(t, updated.CorrectPassword("newpass123"))
	assert.False(t, updated.PasswordChangedAt.IsZero())
	assert.True(t, updated.PasswordChangedAt.Before(time.Now()))
}

func TestForgotPasswordUnknownEmailIs404(t *testing.T) {
	svc := service(&fakeUsers{}, &fakeMailer{})

	err := svc.ForgotPassword(context.Background(), "missing@example.com")

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Code)
	assert.Equal(t, "There is no user with this email address.", appErr.Message)
}

func TestForgotPasswordStoresHashAndMailsPlainToken(t *testing.T) {
	usr := existingUser(t, "pass1234")
	repo := &fakeUsers{byEmail: usr}
	mail := &fakeMailer{}
	svc := service(repo, mail)

	require.NoError(t, svc.ForgotPassword(context.Background(), usr.Email))

	assert.Equal(t, 1, mail.resets)
	assert.NotEmpty(t, repo.resetHash)
	// The mailed URL carries the plain token, never the stored hash.
	assert.NotContains(t, mail.resetURL, repo.resetHash)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), repo.resetExpiry, time.Minute)
}

func TestForgotPasswordClearsTokenWhenMailFails(t *testing.T) {
	usr := existingUser(t, "pass1234")
	repo := &fakeUsers{byEmail: usr}
	svc := service(repo, &fakeMailer{fail: true})

	err := svc.ForgotPassword(context.Background(), usr.Email)

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 500, appErr.Code)
	assert.Equal(t, "There was an error sending the email. Try again later!", appErr.Message)
	// Set once, cleared once.
	assert.Equal(t, 2, repo.resetCalls)
	assert.Empty(t, repo.resetHash)
}

func TestResetPasswordRejectsUnknownToken(t *testing.T) {
	svc := service(&fakeUsers{}, &fakeMailer{})

	_, err := svc.ResetPassword(context.Background(), "bogus-token", PasswordResetInput{
		Password:        "newpass123",
		PasswordConfirm: "newpass123",
	})

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Code)
	assert.Equal(t, "Token is invalid or has expired", appErr.Message)
}

func TestResetPasswordSetsNewPassword(t *testing.T) {
	usr := existingUser(t, "pass1234")
	token, hash, err := utils.NewResetToken()
	require.NoError(t, err)

	repo := &fakeUsers{byReset: usr, resetHash: hash}
	svc := service(repo, &fakeMailer{})

	updated, err := svc.ResetPassword(context.Background(), token, PasswordResetInput{
		Password:        "newpass123",
		PasswordConfirm: "newpass123",
	})
	require.NoError(t, err)
	assert.True(t, updated.CorrectPassword("newpass123"))
}

func TestUpdateMeRejectsEmptyPatch(t *testing.T) {
	svc := service(&fakeUsers{}, &fakeMailer{})

	_, err := svc.UpdateMe(context.Background(), primitive.NewObjectID(), UpdateMeInput{})

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Nothing to update", appErr.Message)
}
