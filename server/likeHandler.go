package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techagentng/awaz/models"
	"github.com/techagentng/awaz/server/response"
)

func (s *Server) handleLikeComplaint() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := currentUser(c)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		complaintID, err := idParam(c, "id")
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		result, message, err := s.InteractionService.ToggleLike(c.Request.Context(), user, complaintID)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, message, http.StatusOK, result, nil)
	}
}

func (s *Server) handleReportComplaint() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := currentUser(c)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		complaintID, err := idParam(c, "id")
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		result, message, err := s.InteractionService.ToggleReport(c.Request.Context(), user, complaintID)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, message, http.StatusOK, result, nil)
	}
}

func (s *Server) handleAddComment() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := currentUser(c)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		complaintID, err := idParam(c, "id")
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		var request models.CommentRequest
		if errs := decode(c, &request); errs != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs)
			return
		}
		comment, err := s.InteractionService.AddComment(c.Request.Context(), user, complaintID, &request)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "Comment added", http.StatusCreated, comment, nil)
	}
}

func (s *Server) handleEditComment() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := currentUser(c)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		commentID, err := idParam(c, "id")
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		var request models.CommentRequest
		if errs := decode(c, &request); errs != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs)
			return
		}
		comment, err := s.InteractionService.EditComment(user, commentID, &request)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "Comment updated", http.StatusOK, comment, nil)
	}
}

func (s *Server) handleDeleteComment() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := currentUser(c)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		commentID, err := idParam(c, "id")
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		if err := s.InteractionService.DeleteComment(user, commentID); err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "Comment deleted", http.StatusOK, nil, nil)
	}
}
