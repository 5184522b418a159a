package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techagentng/awaz/server/response"
)

func (s *Server) handleListMunicipalities() gin.HandlerFunc {
	return func(c *gin.Context) {
		municipalities, err := s.ReferenceService.ListMunicipalities()
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "Municipalities retrieved successfully", http.StatusOK, municipalities, nil)
	}
}

func (s *Server) handleListWards() gin.HandlerFunc {
	return func(c *gin.Context) {
		municipalityID, err := idParam(c, "id")
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		wards, err := s.ReferenceService.ListWards(municipalityID)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "Wards retrieved successfully", http.StatusOK, wards, nil)
	}
}

func (s *Server) handleListCategories() gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := s.ReferenceService.ListCategories()
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "Categories retrieved successfully", http.StatusOK, categories, nil)
	}
}

func (s *Server) handleListStatuses() gin.HandlerFunc {
	return func(c *gin.Context) {
		statuses, err := s.ReferenceService.ListStatuses()
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "Statuses retrieved successfully", http.StatusOK, statuses, nil)
	}
}
