package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/techagentng/awaz/models"
	"github.com/techagentng/awaz/server/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) handleMunicipalityDashboard() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := currentUser(c)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		filter, err := complaintFilter(c)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		dashboard, err := s.DashboardService.MunicipalityDashboard(user, filter)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "Municipality dashboard", http.StatusOK, gin.H{
			"stats":      dashboard.Stats,
			"complaints": complaintPage(dashboard.List),
		}, nil)
	}
}

func (s *Server) handleAdminDashboard() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := currentUser(c)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		filter, err := complaintFilter(c)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		dashboard, err := s.DashboardService.AdminDashboard(user, filter)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "Admin dashboard", http.StatusOK, gin.H{
			"stats":      dashboard.Stats,
			"complaints": complaintPage(dashboard.List),
		}, nil)
	}
}

func (s *Server) handleReportedComplaints() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := currentUser(c)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		filter, err := complaintFilter(c)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		list, err := s.DashboardService.ReportedComplaints(user, filter)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "Reported complaints", http.StatusOK, complaintPage(list), nil)
	}
}

func (s *Server) handleExportComplaints() gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, err := complaintFilter(c)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		buf, err := s.DashboardService.ExportComplaints(filter)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		filename := fmt.Sprintf("complaints_%s.xlsx", time.Now().Format("20060102_150405"))
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
		c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
	}
}

func (s *Server) handleUpdateVisibility() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := idParam(c, "id")
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		var request models.VisibilityRequest
		if errs := decode(c, &request); errs != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs)
			return
		}
		message, err := s.ComplaintService.SetVisibility(c.Request.Context(), id, &request)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, message, http.StatusOK, gin.H{"is_hidden": request.IsHidden}, nil)
	}
}

func (s *Server) handleAdminDeleteComplaint() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := idParam(c, "id")
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		if err := s.ComplaintService.AdminDeleteComplaint(c.Request.Context(), id); err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "Complaint deleted successfully", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleAdminDeleteComment() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := idParam(c, "id")
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		if err := s.InteractionService.AdminDeleteComment(id); err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "Comment deleted", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleListUsers() gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.Query("page"))
		pageSize, _ := strconv.Atoi(c.Query("page_size"))
		users, err := s.DashboardService.ListUsers(page, pageSize)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "Users retrieved successfully", http.StatusOK,
			response.NewPage(users.Users, users.Total, users.Page, users.PageSize), nil)
	}
}

func (s *Server) handleDeleteUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		admin, err := currentUser(c)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		id, err := idParam(c, "id")
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		if err := s.DashboardService.DeleteUser(c.Request.Context(), admin, id); err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "User deleted successfully", http.StatusOK, nil, nil)
	}
}
