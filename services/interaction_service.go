package services

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/techagentng/awaz/config"
	"github.com/techagentng/awaz/db"
	apiError "github.com/techagentng/awaz/errors"
	"github.com/techagentng/awaz/models"
	"gorm.io/gorm"
)

//go:generate mockery --name InteractionService

// InteractionService handles likes, reports and comments on complaints.
type InteractionService interface {
	ToggleLike(ctx context.Context, user *models.User, complaintID uint) (*models.ToggleResult, string, *apiError.Error)
	ToggleReport(ctx context.Context, user *models.User, complaintID uint) (*models.ToggleResult, string, *apiError.Error)
	AddComment(ctx context.Context, user *models.User, complaintID uint, req *models.CommentRequest) (*models.Comment, *apiError.Error)
	EditComment(user *models.User, commentID uint, req *models.CommentRequest) (*models.Comment, *apiError.Error)
	DeleteComment(user *models.User, commentID uint) *apiError.Error
	AdminDeleteComment(commentID uint) *apiError.Error
}

type interactionService struct {
	Config        *config.Config
	interactions  db.InteractionRepository
	complaintRepo db.ComplaintRepository
	events        EventBus
}

func NewInteractionService(interactions db.InteractionRepository, complaintRepo db.ComplaintRepository, events EventBus, conf *config.Config) InteractionService {
	return &interactionService{
		Config:        conf,
		interactions:  interactions,
		complaintRepo: complaintRepo,
		events:        events,
	}
}

// target loads a complaint the user can interact with. Owners are refused
// with ownMessage.
func (s *interactionService) target(user *models.User, complaintID uint, ownMessage string) (*models.Complaint, *apiError.Error) {
	complaint, err := s.complaintRepo.FindComplaintByID(complaintID)
	if err != nil {
		return nil, repoError(err, "complaint not found")
	}
	if !canSee(user, complaint) {
		return nil, apiError.New("complaint not found", http.StatusNotFound)
	}
	if complaint.UserID == user.ID {
		return nil, apiError.New(ownMessage, http.StatusForbidden)
	}
	return complaint, nil
}

// reportTarget is target for reports. A hidden complaint stays reachable for
// the users who reported it so they can withdraw.
func (s *interactionService) reportTarget(user *models.User, complaintID uint) (*models.Complaint, *apiError.Error) {
	complaint, err := s.complaintRepo.FindComplaintByID(complaintID)
	if err != nil {
		return nil, repoError(err, "complaint not found")
	}
	if complaint.UserID == user.ID {
		return nil, apiError.New("You cannot report your own post", http.StatusForbidden)
	}
	if !canSee(user, complaint) {
		reported, err := s.interactions.HasReported(user.ID, complaint.ID)
		if err != nil {
			log.Printf("Error checking reports: %v", err)
			return nil, apiError.ErrInternalServerError
		}
		if !reported {
			return nil, apiError.New("complaint not found", http.StatusNotFound)
		}
	}
	return complaint, nil
}

func (s *interactionService) ToggleLike(ctx context.Context, user *models.User, complaintID uint) (*models.ToggleResult, string, *apiError.Error) {
	complaint, apiErr := s.target(user, complaintID, "You cannot like your own post")
	if apiErr != nil {
		return nil, "", apiErr
	}
	result, err := s.interactions.ToggleLike(user.ID, complaint.ID)
	if err != nil {
		return nil, "", repoError(err, "complaint not found")
	}
	result.IsHidden = complaint.IsHidden
	if result.Active {
		return result, "You liked the post", nil
	}
	return result, "You unliked the post", nil
}

// ToggleReport flips the user's report. Crossing the hide threshold in either
// direction publishes a visibility event.
func (s *interactionService) ToggleReport(ctx context.Context, user *models.User, complaintID uint) (*models.ToggleResult, string, *apiError.Error) {
	complaint, apiErr := s.reportTarget(user, complaintID)
	if apiErr != nil {
		return nil, "", apiErr
	}
	result, err := s.interactions.ToggleReport(user.ID, complaint.ID, s.Config.ReportHideThreshold)
	if err != nil {
		return nil, "", repoError(err, "complaint not found")
	}
	if result.Flipped {
		log.Printf("complaint %d is now hidden=%t with %d reports", complaint.ID, result.IsHidden, result.Count)
		s.events.Publish(ctx, visibilityEvent(complaint, result.IsHidden))
	}
	if result.Active {
		return result, "You reported the post", nil
	}
	return result, "You have unreported this post", nil
}

func (s *interactionService) AddComment(ctx context.Context, user *models.User, complaintID uint, req *models.CommentRequest) (*models.Comment, *apiError.Error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apiError.New("Comment cannot be empty", http.StatusBadRequest)
	}
	complaint, apiErr := s.target(user, complaintID, "You cannot comment on your own post")
	if apiErr != nil {
		return nil, apiErr
	}

	commented, err := s.interactions.HasCommented(user.ID, complaint.ID)
	if err != nil {
		log.Printf("Error checking comments: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	if commented {
		return nil, apiError.New("You have already commented on this post", http.StatusConflict)
	}

	comment := &models.Comment{Content: content, ComplaintID: complaint.ID, UserID: user.ID}
	if err := s.interactions.CreateComment(comment); err != nil {
		if apiError.IsUniqueConstraint(err) {
			return nil, apiError.New("You have already commented on this post", http.StatusConflict)
		}
		log.Printf("Error creating comment: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	comment.User = user
	return comment, nil
}

func (s *interactionService) EditComment(user *models.User, commentID uint, req *models.CommentRequest) (*models.Comment, *apiError.Error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apiError.New("Comment cannot be empty", http.StatusBadRequest)
	}
	comment, err := s.interactions.FindCommentByID(commentID)
	if err != nil {
		return nil, repoError(err, "comment not found")
	}
	if comment.UserID != user.ID {
		return nil, apiError.ErrForbidden
	}
	if err := s.interactions.UpdateComment(comment.ID, content); err != nil {
		return nil, repoError(err, "comment not found")
	}
	comment.Content = content
	return comment, nil
}

// DeleteComment lets the comment's author or the complaint's owner remove it.
func (s *interactionService) DeleteComment(user *models.User, commentID uint) *apiError.Error {
	comment, err := s.interactions.FindCommentByID(commentID)
	if err != nil {
		return repoError(err, "comment not found")
	}
	if comment.UserID != user.ID {
		complaint, err := s.complaintRepo.FindComplaintByID(comment.ComplaintID)
		if err != nil {
			return repoError(err, "complaint not found")
		}
		if complaint.UserID != user.ID {
			return apiError.ErrForbidden
		}
	}
	return s.removeComment(comment.ID)
}

func (s *interactionService) AdminDeleteComment(commentID uint) *apiError.Error {
	return s.removeComment(commentID)
}

func (s *interactionService) removeComment(id uint) *apiError.Error {
	if err := s.interactions.DeleteComment(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiError.New("comment not found", http.StatusNotFound)
		}
		log.Printf("Error deleting comment %d: %v", id, err)
		return apiError.ErrInternalServerError
	}
	return nil
}
