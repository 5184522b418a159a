package services

import (
	"context"
	"errors"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/techagentng/awaz/config"
	"github.com/techagentng/awaz/db"
	apiError "github.com/techagentng/awaz/errors"
	"github.com/techagentng/awaz/models"
	"gorm.io/gorm"
)

const homeComplaintCount = 4

//go:generate mockery --name ComplaintService

type ComplaintService interface {
	CreateComplaint(ctx context.Context, user *models.User, req *models.ComplaintRequest, image *multipart.FileHeader) (*models.Complaint, *apiError.Error)
	GetComplaint(user *models.User, id uint) (*models.ComplaintDetail, *apiError.Error)
	ListComplaints(user *models.User, view View, filter models.ComplaintFilter) (*models.ComplaintList, *apiError.Error)
	EditComplaint(ctx context.Context, user *models.User, id uint, req *models.ComplaintRequest, image *multipart.FileHeader) (*models.Complaint, *apiError.Error)
	DeleteComplaint(ctx context.Context, user *models.User, id uint) *apiError.Error
	Home() ([]models.Complaint, *apiError.Error)
	Profile(user *models.User) (*models.ProfileResponse, *apiError.Error)
	UpdateStatus(ctx context.Context, user *models.User, id uint, req *models.StatusUpdateRequest) (*models.Complaint, *apiError.Error)
	SetVisibility(ctx context.Context, id uint, req *models.VisibilityRequest) (string, *apiError.Error)
	AdminDeleteComplaint(ctx context.Context, id uint) *apiError.Error
}

type complaintService struct {
	Config        *config.Config
	complaintRepo db.ComplaintRepository
	referenceRepo db.ReferenceRepository
	interactions  db.InteractionRepository
	media         MediaService
	events        EventBus
}

func NewComplaintService(complaintRepo db.ComplaintRepository, referenceRepo db.ReferenceRepository, interactions db.InteractionRepository,
	media MediaService, events EventBus, conf *config.Config) ComplaintService {
	return &complaintService{
		Config:        conf,
		complaintRepo: complaintRepo,
		referenceRepo: referenceRepo,
		interactions:  interactions,
		media:         media,
		events:        events,
	}
}

// repoError maps a repository error to its API form.
func repoError(err error, notFound string) *apiError.Error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apiError.New(notFound, http.StatusNotFound)
	}
	log.Printf("repository error: %v", err)
	return apiError.ErrInternalServerError
}

// canSee reports whether user may read the complaint.
func canSee(user *models.User, complaint *models.Complaint) bool {
	return !complaint.IsHidden || complaint.UserID == user.ID || user.IsAdmin()
}

// resolvePlacement fills the category, ward and municipality of a complaint from the request.
func (s *complaintService) resolvePlacement(complaint *models.Complaint, req *models.ComplaintRequest) *apiError.Error {
	var (
		category *models.Category
		err      error
	)
	if req.CategoryID != 0 {
		category, err = s.referenceRepo.FindCategoryByID(req.CategoryID)
	} else {
		category, err = s.referenceRepo.FindCategoryByName(req.CategoryName)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiError.New("Invalid category selected", http.StatusBadRequest)
		}
		log.Printf("Error looking up category: %v", err)
		return apiError.ErrInternalServerError
	}

	ward, err := s.referenceRepo.FindWardByID(req.WardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiError.New("Invalid ward selected", http.StatusBadRequest)
		}
		log.Printf("Error looking up ward: %v", err)
		return apiError.ErrInternalServerError
	}

	complaint.CategoryID = &category.ID
	complaint.WardID = &ward.ID
	complaint.MunicipalityID = &ward.MunicipalityID
	return nil
}

func (s *complaintService) attachImage(ctx context.Context, complaint *models.Complaint, userID uint, image *multipart.FileHeader) *apiError.Error {
	if image == nil {
		return nil
	}
	imageURL, thumbnailURL, err := s.media.StoreComplaintImage(ctx, image, userID)
	if err != nil {
		if errors.Is(err, ErrImageTooLarge) || errors.Is(err, ErrUnsupportedImage) {
			return apiError.New(err.Error(), http.StatusBadRequest)
		}
		log.Printf("Error storing complaint image: %v", err)
		return apiError.New("could not upload image", http.StatusInternalServerError)
	}
	complaint.ImageURL = imageURL
	complaint.ThumbnailURL = thumbnailURL
	return nil
}

func (s *complaintService) CreateComplaint(ctx context.Context, user *models.User, req *models.ComplaintRequest, image *multipart.FileHeader) (*models.Complaint, *apiError.Error) {
	complaint := &models.Complaint{
		UserID:      user.ID,
		Title:       req.Title,
		Description: req.Description,
	}
	if err := s.resolvePlacement(complaint, req); err != nil {
		return nil, err
	}

	pending, err := s.referenceRepo.FindStatusByName(models.StatusPending)
	if err != nil {
		log.Printf("Error looking up default status: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	complaint.StatusID = &pending.ID

	if err := s.attachImage(ctx, complaint, user.ID, image); err != nil {
		return nil, err
	}

	if err := s.complaintRepo.CreateComplaint(complaint); err != nil {
		log.Printf("Error creating complaint: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	s.events.Publish(ctx, Event{Type: EventComplaintCreated, ComplaintID: complaint.ID, OwnerID: user.ID, WardID: complaint.WardID})

	created, err := s.complaintRepo.FindComplaintByID(complaint.ID)
	if err != nil {
		return nil, repoError(err, "complaint not found")
	}
	return created, nil
}

func (s *complaintService) GetComplaint(user *models.User, id uint) (*models.ComplaintDetail, *apiError.Error) {
	complaint, err := s.complaintRepo.FindComplaintByID(id)
	if err != nil {
		return nil, repoError(err, "complaint not found")
	}
	if !canSee(user, complaint) {
		return nil, apiError.New("complaint not found", http.StatusNotFound)
	}
	comments, err := s.interactions.ListComments(id)
	if err != nil {
		log.Printf("Error listing comments for complaint %d: %v", id, err)
		return nil, apiError.ErrInternalServerError
	}
	return &models.ComplaintDetail{Complaint: complaint, Comments: comments}, nil
}

func (s *complaintService) ListComplaints(user *models.User, view View, filter models.ComplaintFilter) (*models.ComplaintList, *apiError.Error) {
	return s.list(ScopeFor(user, view), filter)
}

func (s *complaintService) list(scope models.Scope, filter models.ComplaintFilter) (*models.ComplaintList, *apiError.Error) {
	offset, limit := paging(&filter, s.Config.PageSize)
	complaints, total, err := s.complaintRepo.ListComplaints(scope, filter, offset, limit)
	if err != nil {
		log.Printf("Error listing complaints: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return &models.ComplaintList{Complaints: complaints, Total: total, Page: filter.Page, PageSize: filter.PageSize}, nil
}

// ownComplaint loads a complaint the user may change.
func (s *complaintService) ownComplaint(user *models.User, id uint) (*models.Complaint, *apiError.Error) {
	complaint, err := s.complaintRepo.FindComplaintByID(id)
	if err != nil {
		return nil, repoError(err, "complaint not found")
	}
	if complaint.UserID != user.ID {
		return nil, apiError.ErrForbidden
	}
	return complaint, nil
}

func (s *complaintService) EditComplaint(ctx context.Context, user *models.User, id uint, req *models.ComplaintRequest, image *multipart.FileHeader) (*models.Complaint, *apiError.Error) {
	complaint, apiErr := s.ownComplaint(user, id)
	if apiErr != nil {
		return nil, apiErr
	}
	complaint.Title = req.Title
	complaint.Description = req.Description
	if err := s.resolvePlacement(complaint, req); err != nil {
		return nil, err
	}
	if err := s.attachImage(ctx, complaint, user.ID, image); err != nil {
		return nil, err
	}
	if err := s.complaintRepo.UpdateComplaint(complaint); err != nil {
		log.Printf("Error updating complaint %d: %v", id, err)
		return nil, apiError.ErrInternalServerError
	}
	updated, err := s.complaintRepo.FindComplaintByID(id)
	if err != nil {
		return nil, repoError(err, "complaint not found")
	}
	return updated, nil
}

func (s *complaintService) DeleteComplaint(ctx context.Context, user *models.User, id uint) *apiError.Error {
	complaint, apiErr := s.ownComplaint(user, id)
	if apiErr != nil {
		return apiErr
	}
	return s.deleteComplaint(ctx, complaint)
}

func (s *complaintService) AdminDeleteComplaint(ctx context.Context, id uint) *apiError.Error {
	complaint, err := s.complaintRepo.FindComplaintByID(id)
	if err != nil {
		return repoError(err, "complaint not found")
	}
	return s.deleteComplaint(ctx, complaint)
}

func (s *complaintService) deleteComplaint(ctx context.Context, complaint *models.Complaint) *apiError.Error {
	if err := s.complaintRepo.DeleteComplaint(complaint.ID); err != nil {
		return repoError(err, "complaint not found")
	}
	s.events.Publish(ctx, Event{Type: EventComplaintDeleted, ComplaintID: complaint.ID, OwnerID: complaint.UserID, WardID: complaint.WardID})
	return nil
}

func (s *complaintService) Home() ([]models.Complaint, *apiError.Error) {
	complaints, err := s.complaintRepo.LatestComplaints(homeComplaintCount)
	if err != nil {
		log.Printf("Error loading latest complaints: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return complaints, nil
}

func (s *complaintService) Profile(user *models.User) (*models.ProfileResponse, *apiError.Error) {
	posts, err := s.complaintRepo.CountComplaints(ScopeFor(user, ViewMine))
	if err != nil {
		log.Printf("Error counting complaints of user %d: %v", user.ID, err)
		return nil, apiError.ErrInternalServerError
	}
	var wardTotal int64
	if user.WardID != nil {
		wardTotal, err = s.complaintRepo.CountComplaints(ScopeFor(user, ViewWard))
		if err != nil {
			log.Printf("Error counting ward complaints: %v", err)
			return nil, apiError.ErrInternalServerError
		}
	}
	return &models.ProfileResponse{User: user, PostCount: posts, TotalCount: wardTotal}, nil
}

// UpdateStatus moves a complaint through the workflow. Municipality staff may
// only touch complaints of their own ward.
func (s *complaintService) UpdateStatus(ctx context.Context, user *models.User, id uint, req *models.StatusUpdateRequest) (*models.Complaint, *apiError.Error) {
	if req.StatusID == 0 {
		return nil, apiError.New("Please select a status", http.StatusBadRequest)
	}
	complaint, err := s.complaintRepo.FindComplaintByID(id)
	if err != nil {
		return nil, repoError(err, "complaint not found")
	}
	if !user.IsAdmin() {
		if user.WardID == nil || complaint.WardID == nil || *user.WardID != *complaint.WardID || complaint.IsHidden {
			return nil, apiError.ErrForbidden
		}
	}

	status, err := s.referenceRepo.FindStatusByID(req.StatusID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.New("Invalid status selected", http.StatusBadRequest)
		}
		log.Printf("Error looking up status: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	if err := s.complaintRepo.UpdateStatus(complaint.ID, status.ID); err != nil {
		return nil, repoError(err, "complaint not found")
	}
	s.events.Publish(ctx, Event{Type: EventComplaintStatusChanged, ComplaintID: complaint.ID, OwnerID: complaint.UserID, UserID: user.ID, WardID: complaint.WardID, StatusID: &status.ID})

	complaint.StatusID = &status.ID
	complaint.Status = status
	return complaint, nil
}

// SetVisibility overrides the hidden flag. The next report or unreport
// recomputes it from the report count.
func (s *complaintService) SetVisibility(ctx context.Context, id uint, req *models.VisibilityRequest) (string, *apiError.Error) {
	complaint, err := s.complaintRepo.FindComplaintByID(id)
	if err != nil {
		return "", repoError(err, "complaint not found")
	}
	if err := s.complaintRepo.SetHidden(id, req.IsHidden); err != nil {
		return "", repoError(err, "complaint not found")
	}
	if complaint.IsHidden != req.IsHidden {
		s.events.Publish(ctx, visibilityEvent(complaint, req.IsHidden))
	}
	if req.IsHidden {
		return "Post successfully hidden.", nil
	}
	return "Post successfully unhidden.", nil
}

func visibilityEvent(complaint *models.Complaint, hidden bool) Event {
	event := Event{Type: EventComplaintUnhidden, ComplaintID: complaint.ID, OwnerID: complaint.UserID, WardID: complaint.WardID}
	if hidden {
		event.Type = EventComplaintHidden
	}
	return event
}
