package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	goval "github.com/go-passwd/validator"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/google/uuid"
	"github.com/leebenson/conform"
	"golang.org/x/crypto/bcrypt"
)

// User represents a user of the application
type User struct {
	Model
	FirstName      string        `json:"first_name"`
	LastName       string        `json:"last_name"`
	Username       string        `json:"username" gorm:"uniqueIndex;not null"`
	Email          string        `json:"email" gorm:"uniqueIndex;not null"`
	Telephone      string        `json:"telephone" gorm:"default:null"`
	HashedPassword string        `json:"-"`
	IsActive       bool          `json:"is_active" gorm:"default:false"`
	RoleID         uuid.UUID     `gorm:"type:uuid" json:"role_id"`
	Role           Role          `gorm:"foreignKey:RoleID" json:"role"`
	WardID         *uint         `json:"ward_id"`
	Ward           *Ward         `json:"ward,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	MunicipalityID *uint         `json:"municipality_id"`
	Municipality   *Municipality `json:"municipality,omitempty" gorm:"constraint:OnDelete:SET NULL"`
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// HasRole compares against the preloaded role.
func (u *User) HasRole(name string) bool {
	return u.Role.Name == name
}

func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}

// VerifyPassword verifies the collected password with the user's hashed password
func (u *User) VerifyPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password))
}

// RedirectTarget names the page a client should open after login.
func (u *User) RedirectTarget() string {
	switch u.Role.Name {
	case RoleAdmin:
		return "admin_dashboard"
	case RoleMunicipality:
		return "municipality_dashboard"
	default:
		return "home"
	}
}

type RegisterRequest struct {
	FirstName       string `json:"first_name" validate:"required,min=2,max=50" conform:"trim,title"`
	LastName        string `json:"last_name" validate:"required,min=2,max=50" conform:"trim,title"`
	Email           string `json:"email" validate:"required,email" conform:"email,lower"`
	Telephone       string `json:"phone_number" validate:"required,min=7,max=15" conform:"num"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" conform:"email,lower"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Redirect     string `json:"redirect"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

type ForgotPassword struct {
	Email string `json:"email" validate:"required,email" conform:"email,lower"`
}

type ResetPassword struct {
	Session         string `json:"session" validate:"required"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// Blacklist holds access tokens revoked at logout.
type Blacklist struct {
	Model
	Email string `json:"email"`
	Token string `json:"token" gorm:"uniqueIndex"`
}

var (
	validate = validator.New()
	trans    ut.Translator
)

func init() {
	english := en.New()
	uni := ut.New(english, english)
	trans, _ = uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		panic(err)
	}
}

// ValidateStruct trims the request's strings and checks its validate tags.
func ValidateStruct(req interface{}) []error {
	if err := validateWhiteSpaces(req); err != nil {
		return []error{err}
	}
	return translateError(validate.Struct(req), trans)
}

func ValidatePassword(password string) error {
	passwordValidator := goval.New(goval.MinLength(6, errors.New("password cant be less than 6 characters")),
		goval.MaxLength(32, errors.New("password cant be more than 32 characters")))
	return passwordValidator.Validate(password)
}

func validateWhiteSpaces(data interface{}) error {
	return conform.Strings(data)
}

func translateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	var validatorErrs validator.ValidationErrors
	if !errors.As(err, &validatorErrs) {
		return []error{err}
	}
	for _, e := range validatorErrs {
		errs = append(errs, fmt.Errorf("%s", e.Translate(trans)))
	}
	return errs
}

// ResetSession is the database-backed form of a password reset session, used
// when no Redis server is configured.
type ResetSession struct {
	Token     string    `gorm:"primaryKey;size:64"`
	UserID    uint      `gorm:"not null"`
	ExpiresAt time.Time `gorm:"index"`
}

type UserList struct {
	Users    []User
	Total    int64
	Page     int
	PageSize int
}
