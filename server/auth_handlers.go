package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techagentng/awaz/errors"
	"github.com/techagentng/awaz/models"
	"github.com/techagentng/awaz/server/response"
)

func (s *Server) handleSignup() gin.HandlerFunc {
	return func(c *gin.Context) {
		var request models.RegisterRequest
		if errs := decode(c, &request); errs != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs)
			return
		}
		user, err := s.AuthService.SignupUser(c.Request.Context(), &request)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "Signup successful, check your email to activate your account", http.StatusCreated, user, nil)
	}
}

func (s *Server) handleActivate() gin.HandlerFunc {
	return func(c *gin.Context) {
		message, err := s.AuthService.ActivateUser(c.Param("uid"), c.Param("token"))
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, message, http.StatusOK, nil, nil)
	}
}

func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var loginRequest models.LoginRequest
		if errs := decode(c, &loginRequest); errs != nil {
			response.JSON(c, "", errors.ErrBadRequest.Status, nil, errs)
			return
		}
		userResponse, err := s.AuthService.LoginUser(&loginRequest)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "login successful", http.StatusOK, userResponse, nil)
	}
}

// Logout invalidates the access token and adds it to the blacklist
func (s *Server) handleLogout() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, exists := c.Get("access_token")
		accessToken, ok := token.(string)
		if !exists || !ok {
			respondAndAbort(c, "Access token not found in context", http.StatusInternalServerError, nil, errors.ErrInternalServerError)
			return
		}
		user, err := currentUser(c)
		if err != nil {
			respondAndAbort(c, "", err.Status, nil, err)
			return
		}
		if err := s.AuthService.LogoutUser(user.Email, accessToken); err != nil {
			respondAndAbort(c, "Logout failed", err.Status, nil, err)
			return
		}
		response.JSON(c, "Logout successful", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleChangePassword() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := currentUser(c)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		var request models.ChangePasswordRequest
		if errs := decode(c, &request); errs != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs)
			return
		}
		if err := s.AuthService.ChangePassword(user.ID, &request); err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "Password changed successfully", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleShowProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := currentUser(c)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		profile, err := s.ComplaintService.Profile(user)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "User profile retrieved successfully", http.StatusOK, profile, nil)
	}
}
