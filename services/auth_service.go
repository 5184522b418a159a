package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/techagentng/awaz/config"
	"github.com/techagentng/awaz/db"
	apiError "github.com/techagentng/awaz/errors"
	"github.com/techagentng/awaz/mailingservices"
	"github.com/techagentng/awaz/models"
	"github.com/techagentng/awaz/services/jwt"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ResetSessionTTL bounds how long a validated reset link may wait for the new password.
const ResetSessionTTL = 15 * time.Minute

//go:generate mockery --name AuthService

// AuthService interface
type AuthService interface {
	SignupUser(ctx context.Context, request *models.RegisterRequest) (*models.User, *apiError.Error)
	ActivateUser(uid, token string) (string, *apiError.Error)
	LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error)
	LogoutUser(email, accessToken string) *apiError.Error
	ChangePassword(userID uint, request *models.ChangePasswordRequest) *apiError.Error
	SendEmailForPasswordReset(ctx context.Context, request *models.ForgotPassword) *apiError.Error
	ValidatePasswordReset(ctx context.Context, uid, token string) (string, *apiError.Error)
	ResetPassword(ctx context.Context, request *models.ResetPassword) *apiError.Error
}

// authService struct
type authService struct {
	Config   *config.Config
	authRepo db.AuthRepository
	sessions db.SessionStore
	mail     mailingservices.Mailer
}

// NewAuthService instantiate an authService
func NewAuthService(authRepo db.AuthRepository, sessions db.SessionStore, mail mailingservices.Mailer, conf *config.Config) AuthService {
	return &authService{
		Config:   conf,
		authRepo: authRepo,
		sessions: sessions,
		mail:     mail,
	}
}

func (a *authService) SignupUser(ctx context.Context, request *models.RegisterRequest) (*models.User, *apiError.Error) {
	if request.Password != request.ConfirmPassword {
		return nil, apiError.New("Password does not match!", http.StatusBadRequest)
	}
	if err := models.ValidatePassword(request.Password); err != nil {
		return nil, apiError.New(err.Error(), http.StatusBadRequest)
	}

	request.Email = NormalizeEmail(request.Email)
	if err := a.authRepo.IsEmailExist(request.Email); err != nil {
		log.Printf("SignupUser error: %v", err)
		return nil, apiError.New(err.Error(), http.StatusConflict)
	}
	if err := a.authRepo.IsPhoneExist(request.Telephone); err != nil {
		log.Printf("SignupUser error: %v", err)
		return nil, apiError.New(err.Error(), http.StatusConflict)
	}

	hashedPassword, err := GenerateHashPassword(request.Password)
	if err != nil {
		log.Printf("SignupUser error hashing password: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	username, err := a.uniqueUsername(request.Email)
	if err != nil {
		log.Printf("SignupUser error deriving username: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	user := &models.User{
		FirstName:      request.FirstName,
		LastName:       request.LastName,
		Email:          request.Email,
		Username:       username,
		Telephone:      request.Telephone,
		HashedPassword: hashedPassword,
		IsActive:       false,
		Role:           models.Role{Name: models.RoleCitizen},
	}
	user, err = a.authRepo.CreateUser(user)
	if err != nil {
		log.Printf("SignupUser error creating user: %v", err)
		return nil, apiError.GetUniqueContraintError(err)
	}

	link, err := a.userLink("activate", jwt.KindActivation, jwt.ActivationValidity, user)
	if err != nil {
		log.Printf("SignupUser error generating activation token: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	if err := a.mail.SendActivation(ctx, user.Email, user.FirstName, link); err != nil {
		// the account is kept; delivery failures are only logged
		log.Printf("SignupUser error sending activation mail to %s: %v", user.Email, err)
	}
	return user, nil
}

// uniqueUsername derives a username from the email's local part, adding a
// number when it is already taken.
func (a *authService) uniqueUsername(email string) (string, error) {
	base := strings.SplitN(email, "@", 2)[0]
	candidate := base
	for i := 1; ; i++ {
		exists, err := a.authRepo.IsUsernameExist(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}
}

func (a *authService) userLink(path, kind string, validity time.Duration, user *models.User) (string, error) {
	token, err := jwt.GenerateUserToken(kind, user.ID, a.Config.JWTSecret, user.HashedPassword, validity)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s/%s/%s", strings.TrimRight(a.Config.BaseUrl, "/"), path, jwt.EncodeUID(user.ID), token), nil
}

// userFromLink resolves the uid/token pair of an emailed link to its user.
func (a *authService) userFromLink(kind, uid, token string) (*models.User, error) {
	userID, err := jwt.DecodeUID(uid)
	if err != nil {
		return nil, err
	}
	user, err := a.authRepo.FindUserByID(userID)
	if err != nil {
		return nil, err
	}
	if err := jwt.ValidateUserToken(kind, token, user.ID, a.Config.JWTSecret, user.HashedPassword); err != nil {
		return nil, err
	}
	return user, nil
}

func (a *authService) ActivateUser(uid, token string) (string, *apiError.Error) {
	user, err := a.userFromLink(jwt.KindActivation, uid, token)
	if err != nil {
		log.Printf("ActivateUser rejected link: %v", err)
		return "", apiError.New("Activation link is invalid or has expired", http.StatusBadRequest)
	}
	if user.IsActive {
		return "Your account is already activated.", nil
	}
	if err := a.authRepo.ActivateUser(user.ID); err != nil {
		log.Printf("ActivateUser error: %v", err)
		return "", apiError.ErrInternalServerError
	}
	return "Congratulations! Your account has been activated.", nil
}

// LoginUser logs in a user and returns the login response
func (a *authService) LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error) {
	foundUser, err := a.authRepo.FindUserByEmail(NormalizeEmail(loginRequest.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.ErrInvalidPassword
		}
		log.Printf("Error finding user by email: %v", err)
		return nil, apiError.New("unable to find user", http.StatusInternalServerError)
	}

	if err := foundUser.VerifyPassword(loginRequest.Password); err != nil {
		log.Printf("Invalid password for user %s", foundUser.Email)
		return nil, apiError.ErrInvalidPassword
	}

	if !foundUser.IsActive {
		return nil, apiError.InActiveUserError
	}

	accessToken, refreshToken, err := jwt.GenerateTokenPair(foundUser.Email, a.Config.JWTSecret, foundUser.ID, foundUser.Role.Name)
	if err != nil {
		log.Printf("Error generating token pair for user %s: %v", foundUser.Email, err)
		return nil, apiError.ErrInternalServerError
	}

	return &models.LoginResponse{
		User:         foundUser,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Redirect:     foundUser.RedirectTarget(),
	}, nil
}

func (a *authService) LogoutUser(email, accessToken string) *apiError.Error {
	err := a.authRepo.AddToBlackList(&models.Blacklist{Email: email, Token: accessToken})
	if err != nil && !apiError.IsUniqueConstraint(err) {
		log.Printf("LogoutUser error: %v", err)
		return apiError.ErrInternalServerError
	}
	return nil
}

func (a *authService) ChangePassword(userID uint, request *models.ChangePasswordRequest) *apiError.Error {
	if request.NewPassword != request.ConfirmPassword {
		return apiError.New("Password does not match!", http.StatusBadRequest)
	}
	user, err := a.authRepo.FindUserByID(userID)
	if err != nil {
		log.Printf("ChangePassword error finding user %d: %v", userID, err)
		return apiError.ErrNotFound
	}
	if err := user.VerifyPassword(request.CurrentPassword); err != nil {
		return apiError.New("Please enter valid current password", http.StatusBadRequest)
	}
	return a.setPassword(user.ID, request.NewPassword)
}

func (a *authService) setPassword(userID uint, password string) *apiError.Error {
	if err := models.ValidatePassword(password); err != nil {
		return apiError.New(err.Error(), http.StatusBadRequest)
	}
	hashedPassword, err := GenerateHashPassword(password)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return apiError.ErrInternalServerError
	}
	if err := a.authRepo.UpdatePassword(userID, hashedPassword); err != nil {
		log.Printf("Error updating password for user %d: %v", userID, err)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiError.ErrNotFound
		}
		return apiError.ErrInternalServerError
	}
	return nil
}

func (a *authService) SendEmailForPasswordReset(ctx context.Context, request *models.ForgotPassword) *apiError.Error {
	user, err := a.authRepo.FindUserByEmail(NormalizeEmail(request.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiError.New("Account does not exist", http.StatusNotFound)
		}
		log.Printf("SendEmailForPasswordReset error: %v", err)
		return apiError.ErrInternalServerError
	}

	link, err := a.userLink("resetpassword_validate", jwt.KindPasswordReset, jwt.PasswordResetValidity, user)
	if err != nil {
		log.Printf("SendEmailForPasswordReset error generating token: %v", err)
		return apiError.ErrInternalServerError
	}
	if err := a.mail.SendResetPassword(ctx, user.Email, link); err != nil {
		log.Printf("SendEmailForPasswordReset error sending mail: %v", err)
		return apiError.New("connection to mail service interrupted", http.StatusInternalServerError)
	}
	return nil
}

// ValidatePasswordReset checks an emailed reset link and opens a reset session.
// The returned session key must accompany the new password.
func (a *authService) ValidatePasswordReset(ctx context.Context, uid, token string) (string, *apiError.Error) {
	user, err := a.userFromLink(jwt.KindPasswordReset, uid, token)
	if err != nil {
		log.Printf("ValidatePasswordReset rejected link: %v", err)
		return "", apiError.New("This link has been expired!", http.StatusBadRequest)
	}
	session := uuid.NewString()
	if err := a.sessions.Put(ctx, session, user.ID, ResetSessionTTL); err != nil {
		log.Printf("ValidatePasswordReset error storing session: %v", err)
		return "", apiError.ErrInternalServerError
	}
	return session, nil
}

func (a *authService) ResetPassword(ctx context.Context, request *models.ResetPassword) *apiError.Error {
	if request.Password != request.ConfirmPassword {
		return apiError.New("Password do not match!", http.StatusBadRequest)
	}
	if err := models.ValidatePassword(request.Password); err != nil {
		return apiError.New(err.Error(), http.StatusBadRequest)
	}
	userID, err := a.sessions.Take(ctx, request.Session)
	if err != nil {
		if errors.Is(err, db.ErrSessionNotFound) {
			return apiError.New("reset session is invalid or has expired", http.StatusBadRequest)
		}
		log.Printf("ResetPassword error reading session: %v", err)
		return apiError.ErrInternalServerError
	}
	return a.setPassword(userID, request.Password)
}

// NormalizeEmail is the stored form of an email address: trimmed and lower case.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func GenerateHashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hashedPassword), err
}
