package server

import (
	"bytes"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	errs "github.com/techagentng/awaz/errors"
	"github.com/techagentng/awaz/models"
	"github.com/techagentng/awaz/server/response"
	"github.com/techagentng/awaz/services"
	"github.com/techagentng/awaz/services/jwt"
	"gorm.io/gorm"
)

func (s *Server) Authorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken := getTokenFromHeader(c)
		if accessToken == "" {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		if s.AuthRepository.IsTokenInBlacklist(accessToken) {
			respondAndAbort(c, "Access token is blacklisted", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		accessClaims, err := jwt.ValidateAndGetClaims(accessToken, s.Config.JWTSecret)
		if err != nil || accessClaims["type"] != jwt.KindAccess {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		userID, err := jwt.ClaimUserID(accessClaims)
		if err != nil {
			respondAndAbort(c, "", http.StatusBadRequest, nil, errs.New("Invalid userID format", http.StatusBadRequest))
			return
		}

		user, err := s.AuthRepository.FindUserByID(userID)
		if err != nil {
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				respondAndAbort(c, "user not found", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			default:
				log.Printf("Authorize: unable to load user %d: %v", userID, err)
				respondAndAbort(c, "unable to find entity", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			}
			return
		}
		if !user.IsActive {
			respondAndAbort(c, "inactive user", http.StatusForbidden, nil, errs.InActiveUserError)
			return
		}

		c.Set("user", user)
		c.Set("userID", userID)
		c.Set("access_token", accessToken)
		c.Next()
	}
}

// RequireRole lets the request through only for users holding one of roles.
// It must run after Authorize.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := currentUser(c)
		if err != nil {
			respondAndAbort(c, "", err.Status, nil, err)
			return
		}
		for _, role := range roles {
			if user.HasRole(role) {
				c.Next()
				return
			}
		}
		respondAndAbort(c, "", http.StatusForbidden, nil, errs.ErrForbidden)
	}
}

const (
	rateLimitWindow   = time.Minute
	rateLimitRequests = 5
)

// NewRateLimitStore keeps limiter counters in Redis when a client is given so
// that every instance shares them.
func NewRateLimitStore(client *redis.Client) ratelimit.Store {
	if client != nil {
		return ratelimit.RedisStore(&ratelimit.RedisOptions{
			RedisClient: client,
			Rate:        rateLimitWindow,
			Limit:       rateLimitRequests,
		})
	}
	return ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  rateLimitWindow,
		Limit: rateLimitRequests,
	})
}

func limitRate(store ratelimit.Store) gin.HandlerFunc {
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: errs.ErrorHandler,
		KeyFunc:      keyFunc,
	})
}

// keyFunc keys the limiter on the email in the request body, falling back to
// the client IP. The body is restored for the handler.
func keyFunc(c *gin.Context) string {
	buf, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return c.ClientIP()
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(buf))

	var body models.ForgotPassword
	if err := c.ShouldBindJSON(&body); err != nil || body.Email == "" {
		c.Request.Body = io.NopCloser(bytes.NewBuffer(buf))
		return c.ClientIP()
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(buf))
	return services.NormalizeEmail(body.Email)
}

// respondAndAbort calls response.JSON and aborts the Context
func respondAndAbort(c *gin.Context, message string, status int, data interface{}, e *errs.Error) {
	response.JSON(c, message, status, data, e)
	c.Abort()
}

// getTokenFromHeader returns the token string in the authorization header
func getTokenFromHeader(c *gin.Context) string {
	authHeader := c.Request.Header.Get("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	// browsers cannot set headers on websocket upgrades
	if c.IsWebsocket() {
		return c.Query("token")
	}
	return ""
}
