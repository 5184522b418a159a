package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/techagentng/awaz/db"
	apiError "github.com/techagentng/awaz/errors"
	"github.com/techagentng/awaz/models"
	"github.com/techagentng/awaz/services/jwt"
)

func registerRequest(email string) *models.RegisterRequest {
	return &models.RegisterRequest{
		FirstName:       "Sita",
		LastName:        "Sharma",
		Email:           email,
		Telephone:       "9800000000",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	}
}

// splitLink returns the uid and token of an emailed link.
func splitLink(t *testing.T, link, path string) (string, string) {
	t.Helper()
	prefix := "http://awaz.test/" + path + "/"
	require.True(t, strings.HasPrefix(link, prefix), link)
	parts := strings.Split(strings.TrimPrefix(link, prefix), "/")
	require.Len(t, parts, 2)
	return parts[0], parts[1]
}

func TestSignupActivateLogin(t *testing.T) {
	env := newTestEnv(t)
	service := NewAuthService(env.authRepo, db.NewSessionStore(nil, env.db), env.mailer, env.conf)
	env.mailer.On("SendActivation", mock.Anything, "sita@awaz.test", "Sita", mock.AnythingOfType("string")).Return(nil)

	user, apiErr := service.SignupUser(context.Background(), registerRequest("sita@awaz.test"))
	require.Nil(t, apiErr)
	assert.False(t, user.IsActive)
	assert.Equal(t, "sita", user.Username)
	assert.Equal(t, models.RoleCitizen, user.Role.Name)

	_, apiErr = service.LoginUser(&models.LoginRequest{Email: "sita@awaz.test", Password: "secret123"})
	require.NotNil(t, apiErr)
	assert.Equal(t, apiError.InActiveUserError, apiErr)

	link := env.mailer.Calls[0].Arguments.String(3)
	uid, token := splitLink(t, link, "activate")

	message, apiErr := service.ActivateUser(uid, token)
	require.Nil(t, apiErr)
	assert.Equal(t, "Congratulations! Your account has been activated.", message)

	message, apiErr = service.ActivateUser(uid, token)
	require.Nil(t, apiErr)
	assert.Equal(t, "Your account is already activated.", message)

	login, apiErr := service.LoginUser(&models.LoginRequest{Email: "sita@awaz.test", Password: "secret123"})
	require.Nil(t, apiErr)
	assert.Equal(t, "home", login.Redirect)
	claims, err := jwt.ValidateAndGetClaims(login.AccessToken, env.conf.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, jwt.KindAccess, claims["type"])
	id, err := jwt.ClaimUserID(claims)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)

	env.mailer.AssertExpectations(t)
}

func TestSignup_Rejections(t *testing.T) {
	env := newTestEnv(t)
	service := NewAuthService(env.authRepo, db.NewSessionStore(nil, env.db), env.mailer, env.conf)
	env.mailer.On("SendActivation", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	mismatch := registerRequest("a@awaz.test")
	mismatch.ConfirmPassword = "different"
	_, apiErr := service.SignupUser(context.Background(), mismatch)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)

	short := registerRequest("a@awaz.test")
	short.Password, short.ConfirmPassword = "abc", "abc"
	_, apiErr = service.SignupUser(context.Background(), short)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)

	_, apiErr = service.SignupUser(context.Background(), registerRequest("a@awaz.test"))
	require.Nil(t, apiErr)

	_, apiErr = service.SignupUser(context.Background(), registerRequest("a@awaz.test"))
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)

	second := registerRequest("a@other.test")
	second.Telephone = "9811111111"
	user, apiErr := service.SignupUser(context.Background(), second)
	require.Nil(t, apiErr)
	assert.Equal(t, "a1", user.Username)
}

func TestSignup_EmailIsCaseInsensitive(t *testing.T) {
	env := newTestEnv(t)
	service := NewAuthService(env.authRepo, db.NewSessionStore(nil, env.db), env.mailer, env.conf)
	env.mailer.On("SendActivation", mock.Anything, "sita@awaz.test", "Sita", mock.AnythingOfType("string")).Return(nil)

	user, apiErr := service.SignupUser(context.Background(), registerRequest(" Sita@Awaz.Test"))
	require.Nil(t, apiErr)
	assert.Equal(t, "sita@awaz.test", user.Email)

	duplicate := registerRequest("SITA@awaz.test")
	duplicate.Telephone = "9811111111"
	_, apiErr = service.SignupUser(context.Background(), duplicate)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)

	_, apiErr = service.LoginUser(&models.LoginRequest{Email: "SiTa@AWAZ.test", Password: "secret123"})
	assert.Equal(t, apiError.InActiveUserError, apiErr)

	require.NoError(t, env.authRepo.ActivateUser(user.ID))
	login, apiErr := service.LoginUser(&models.LoginRequest{Email: "SITA@AWAZ.TEST", Password: "secret123"})
	require.Nil(t, apiErr)
	assert.Equal(t, user.ID, login.User.ID)
	env.mailer.AssertExpectations(t)
}

func TestSignup_MailFailureKeepsAccount(t *testing.T) {
	env := newTestEnv(t)
	service := NewAuthService(env.authRepo, db.NewSessionStore(nil, env.db), env.mailer, env.conf)
	env.mailer.On("SendActivation", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	user, apiErr := service.SignupUser(context.Background(), registerRequest("sita@awaz.test"))
	require.Nil(t, apiErr)
	_, err := env.authRepo.FindUserByID(user.ID)
	require.NoError(t, err)
}

func TestActivateUser_RejectsTamperedLink(t *testing.T) {
	env := newTestEnv(t)
	service := NewAuthService(env.authRepo, db.NewSessionStore(nil, env.db), env.mailer, env.conf)
	user := env.user(t, "ram@awaz.test", models.RoleCitizen, nil)

	token, err := jwt.GenerateUserToken(jwt.KindPasswordReset, user.ID, env.conf.JWTSecret, user.HashedPassword, jwt.ActivationValidity)
	require.NoError(t, err)

	_, apiErr := service.ActivateUser(jwt.EncodeUID(user.ID), token)
	require.NotNil(t, apiErr)
	assert.Equal(t, "Activation link is invalid or has expired", apiErr.Message)

	_, apiErr = service.ActivateUser("not-a-uid", token)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}

func TestLoginUser_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	service := NewAuthService(env.authRepo, db.NewSessionStore(nil, env.db), env.mailer, env.conf)
	env.user(t, "ram@awaz.test", models.RoleMunicipality, env.ward)

	_, apiErr := service.LoginUser(&models.LoginRequest{Email: "ram@awaz.test", Password: "wrong-password"})
	assert.Equal(t, apiError.ErrInvalidPassword, apiErr)

	_, apiErr = service.LoginUser(&models.LoginRequest{Email: "nobody@awaz.test", Password: "secret123"})
	assert.Equal(t, apiError.ErrInvalidPassword, apiErr)

	login, apiErr := service.LoginUser(&models.LoginRequest{Email: "ram@awaz.test", Password: "secret123"})
	require.Nil(t, apiErr)
	assert.Equal(t, "municipality_dashboard", login.Redirect)
}

func TestLogoutUser_IsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	service := NewAuthService(env.authRepo, db.NewSessionStore(nil, env.db), env.mailer, env.conf)

	require.Nil(t, service.LogoutUser("ram@awaz.test", "token"))
	require.Nil(t, service.LogoutUser("ram@awaz.test", "token"))
	assert.True(t, env.authRepo.IsTokenInBlacklist("token"))
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	service := NewAuthService(env.authRepo, db.NewSessionStore(nil, env.db), env.mailer, env.conf)
	user := env.user(t, "ram@awaz.test", models.RoleCitizen, nil)

	apiErr := service.ChangePassword(user.ID, &models.ChangePasswordRequest{
		CurrentPassword: "wrong", NewPassword: "newsecret", ConfirmPassword: "newsecret",
	})
	require.NotNil(t, apiErr)
	assert.Equal(t, "Please enter valid current password", apiErr.Message)

	apiErr = service.ChangePassword(user.ID, &models.ChangePasswordRequest{
		CurrentPassword: "secret123", NewPassword: "newsecret", ConfirmPassword: "other",
	})
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)

	apiErr = service.ChangePassword(user.ID, &models.ChangePasswordRequest{
		CurrentPassword: "secret123", NewPassword: "newsecret", ConfirmPassword: "newsecret",
	})
	require.Nil(t, apiErr)

	_, apiErr = service.LoginUser(&models.LoginRequest{Email: "ram@awaz.test", Password: "newsecret"})
	require.Nil(t, apiErr)
}

func TestPasswordResetFlow(t *testing.T) {
	env := newTestEnv(t)
	service := NewAuthService(env.authRepo, db.NewSessionStore(nil, env.db), env.mailer, env.conf)
	env.user(t, "ram@awaz.test", models.RoleCitizen, nil)
	env.mailer.On("SendResetPassword", mock.Anything, "ram@awaz.test", mock.AnythingOfType("string")).Return(nil)
	ctx := context.Background()

	apiErr := service.SendEmailForPasswordReset(ctx, &models.ForgotPassword{Email: "nobody@awaz.test"})
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)

	require.Nil(t, service.SendEmailForPasswordReset(ctx, &models.ForgotPassword{Email: "ram@awaz.test"}))
	uid, token := splitLink(t, env.mailer.Calls[0].Arguments.String(2), "resetpassword_validate")

	session, apiErr := service.ValidatePasswordReset(ctx, uid, token)
	require.Nil(t, apiErr)
	require.NotEmpty(t, session)

	apiErr = service.ResetPassword(ctx, &models.ResetPassword{Session: session, Password: "brandnew", ConfirmPassword: "nope"})
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)

	require.Nil(t, service.ResetPassword(ctx, &models.ResetPassword{Session: session, Password: "brandnew", ConfirmPassword: "brandnew"}))

	_, apiErr = service.LoginUser(&models.LoginRequest{Email: "ram@awaz.test", Password: "brandnew"})
	require.Nil(t, apiErr)

	// the session is single use
	apiErr = service.ResetPassword(ctx, &models.ResetPassword{Session: session, Password: "another1", ConfirmPassword: "another1"})
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)

	// changing the password invalidates the emailed link
	_, apiErr = service.ValidatePasswordReset(ctx, uid, token)
	require.NotNil(t, apiErr)
	assert.Equal(t, "This link has been expired!", apiErr.Message)
}
