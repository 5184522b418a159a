package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techagentng/awaz/models"
	"github.com/techagentng/awaz/server/response"
)

func (s *Server) HandleForgotPassword() gin.HandlerFunc {
	return func(c *gin.Context) {
		var request models.ForgotPassword
		if errs := decode(c, &request); errs != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs)
			return
		}
		if err := s.AuthService.SendEmailForPasswordReset(c.Request.Context(), &request); err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "Reset Password Link Sent Successfully", http.StatusOK, nil, nil)
	}
}

// HandleValidatePasswordReset checks the emailed link and hands back the
// session the new password must be posted with.
func (s *Server) HandleValidatePasswordReset() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := s.AuthService.ValidatePasswordReset(c.Request.Context(), c.Param("uid"), c.Param("token"))
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "Please reset your password", http.StatusOK, gin.H{"session": session}, nil)
	}
}

func (s *Server) ResetPassword() gin.HandlerFunc {
	return func(c *gin.Context) {
		var request models.ResetPassword
		if errs := decode(c, &request); errs != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs)
			return
		}
		if err := s.AuthService.ResetPassword(c.Request.Context(), &request); err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "Password reset successful", http.StatusOK, nil, nil)
	}
}
