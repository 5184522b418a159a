package server

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/techagentng/awaz/errors"
	"github.com/techagentng/awaz/models"
	"github.com/techagentng/awaz/server/response"
	"github.com/techagentng/awaz/services"
)

// complaintImage returns the optional "image" file of a multipart complaint form.
func complaintImage(c *gin.Context) (*multipart.FileHeader, *errors.Error) {
	if c.ContentType() != binding.MIMEMultipartPOSTForm {
		return nil, nil
	}
	fileHeader, err := c.FormFile("image")
	if err == http.ErrMissingFile {
		return nil, nil
	}
	if err != nil {
		return nil, errors.New("Missing or invalid file", http.StatusBadRequest)
	}
	return fileHeader, nil
}

func complaintPage(list *models.ComplaintList) response.Page {
	return response.NewPage(list.Complaints, list.Total, list.Page, list.PageSize)
}

func (s *Server) handleCreateComplaint() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := currentUser(c)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		var request models.ComplaintRequest
		if errs := decode(c, &request); errs != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs)
			return
		}
		image, err := complaintImage(c)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		complaint, err := s.ComplaintService.CreateComplaint(c.Request.Context(), user, &request, image)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "Complaint submitted successfully", http.StatusCreated, complaint, nil)
	}
}

func (s *Server) handleGetComplaint() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := currentUser(c)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		id, err := idParam(c, "id")
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		detail, err := s.ComplaintService.GetComplaint(user, id)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "Complaint retrieved successfully", http.StatusOK, detail, nil)
	}
}

func (s *Server) listComplaints(view services.View) gin.HandlerFunc {
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
		list, err := s.ComplaintService.ListComplaints(user, view, filter)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "Complaints retrieved successfully", http.StatusOK, complaintPage(list), nil)
	}
}

func (s *Server) handleListComplaints() gin.HandlerFunc {
	return s.listComplaints(services.ViewFeed)
}

func (s *Server) handleMyComplaints() gin.HandlerFunc {
	return s.listComplaints(services.ViewMine)
}

func (s *Server) handleEditComplaint() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := currentUser(c)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		id, err := idParam(c, "id")
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		var request models.ComplaintRequest
		if errs := decode(c, &request); errs != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs)
			return
		}
		image, err := complaintImage(c)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		complaint, err := s.ComplaintService.EditComplaint(c.Request.Context(), user, id, &request, image)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "Complaint updated successfully", http.StatusOK, complaint, nil)
	}
}

func (s *Server) handleDeleteComplaint() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := currentUser(c)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		id, err := idParam(c, "id")
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		if err := s.ComplaintService.DeleteComplaint(c.Request.Context(), user, id); err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "Complaint deleted successfully", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleHome() gin.HandlerFunc {
	return func(c *gin.Context) {
		complaints, err := s.ComplaintService.Home()
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "Latest complaints", http.StatusOK, complaints, nil)
	}
}

func (s *Server) handleUpdateStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := currentUser(c)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		id, err := idParam(c, "id")
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		var request models.StatusUpdateRequest
		if errs := decode(c, &request); errs != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs)
			return
		}
		complaint, err := s.ComplaintService.UpdateStatus(c.Request.Context(), user, id, &request)
		if err != nil {
			response.JSON(c, "", err.Status, nil, err)
			return
		}
		response.JSON(c, "Status updated successfully", http.StatusOK, complaint, nil)
	}
}
