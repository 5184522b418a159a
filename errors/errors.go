package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
)

// Error is an error that knows which HTTP status it should be reported with.
type Error struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *Error) Error() string {
	return e.Message
}

// New returns an *Error with the given message and status.
func New(message string, status int) *Error {
	return &Error{Message: message, Status: status}
}

var (
	ErrNotFound            = New("resource not found", http.StatusNotFound)
	ErrForbidden           = New("you are not authorized to perform this action", http.StatusForbidden)
	ErrUnauthorized        = New("Unauthorized", http.StatusUnauthorized)
	ErrBadRequest          = New("bad request", http.StatusBadRequest)
	ErrInternalServerError = New("internal server error", http.StatusInternalServerError)
	ErrInvalidPassword     = New("Invalid login credentials", http.StatusUnauthorized)
	InActiveUserError      = New("Account is not activated. Please verify your email.", http.StatusForbidden)
)

// GetUniqueContraintError turns a unique-constraint violation into a 409.
func GetUniqueContraintError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	if IsUniqueConstraint(err) {
		return New(fmt.Sprintf("%s already exists", constraintField(err.Error())), http.StatusConflict)
	}
	return ErrInternalServerError
}

// IsUniqueConstraint recognises unique violations from both postgres and sqlite.
func IsUniqueConstraint(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "sqlstate 23505") ||
		strings.Contains(msg, "duplicated key")
}

func constraintField(msg string) string {
	switch {
	case strings.Contains(msg, "email"):
		return "email"
	case strings.Contains(msg, "phone"):
		return "phone number"
	case strings.Contains(msg, "username"):
		return "username"
	default:
		return "record"
	}
}

// ErrorHandler is used by the rate limiter when a client exceeds its quota.
func ErrorHandler(c *gin.Context, info ratelimit.Info) {
	c.JSON(http.StatusTooManyRequests, gin.H{
		"message":   "Too many requests. Try again in " + time.Until(info.ResetTime).Round(time.Second).String(),
		"errors":    "rate limit exceeded",
		"status":    http.StatusText(http.StatusTooManyRequests),
		"timestamp": time.Now().Format(time.RFC850),
	})
}
