package db

import (
	"fmt"
	"log"

	"github.com/pkg/errors"
	"github.com/techagentng/awaz/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InteractionRepository stores likes, reports and comments on complaints.
type InteractionRepository interface {
	ToggleLike(userID, complaintID uint) (*models.ToggleResult, error)
	ToggleReport(userID, complaintID uint, hideThreshold int) (*models.ToggleResult, error)
	CountReports(complaintID uint) (int64, error)
	HasReported(userID, complaintID uint) (bool, error)
	HasCommented(userID, complaintID uint) (bool, error)
	CreateComment(comment *models.Comment) error
	FindCommentByID(id uint) (*models.Comment, error)
	UpdateComment(id uint, content string) error
	DeleteComment(id uint) error
	ListComments(complaintID uint) ([]models.Comment, error)
}

type interactionRepo struct {
	DB *gorm.DB
}

func NewInteractionRepo(db *GormDB) InteractionRepository {
	return &interactionRepo{db.DB}
}

// lockComplaint takes a row lock on the complaint so toggles on it run one at a time.
func lockComplaint(tx *gorm.DB, complaintID uint) (*models.Complaint, error) {
	complaint := &models.Complaint{}
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "user_id", "ward_id", "is_hidden").
		Where("id = ?", complaintID).
		First(complaint).Error
	if err != nil {
		return nil, err
	}
	return complaint, nil
}

func (r *interactionRepo) ToggleLike(userID, complaintID uint) (*models.ToggleResult, error) {
	tx := r.DB.Begin()

	if _, err := lockComplaint(tx, complaintID); err != nil {
		tx.Rollback()
		return nil, errors.Wrap(err, "could not find complaint")
	}

	result := &models.ToggleResult{}
	var existing models.Like
	err := tx.Where("user_id = ? AND complaint_id = ?", userID, complaintID).First(&existing).Error
	switch {
	case err == nil:
		if err := tx.Delete(&existing).Error; err != nil {
			tx.Rollback()
			return nil, errors.Wrap(err, "could not remove like")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := tx.Create(&models.Like{UserID: userID, ComplaintID: complaintID}).Error; err != nil {
			tx.Rollback()
			return nil, errors.Wrap(err, "could not record like")
		}
		result.Active = true
	default:
		tx.Rollback()
		return nil, errors.Wrap(err, "could not look up like")
	}

	if err := tx.Model(&models.Like{}).Where("complaint_id = ?", complaintID).Count(&result.Count).Error; err != nil {
		log.Println("Failed to count likes, rolling back")
		tx.Rollback()
		return nil, fmt.Errorf("failed to count likes: %w", err)
	}

	return result, tx.Commit().Error
}

// ToggleReport adds or removes the user's report and recomputes the complaint's
// hidden flag from the report count in the same transaction.
func (r *interactionRepo) ToggleReport(userID, complaintID uint, hideThreshold int) (*models.ToggleResult, error) {
	tx := r.DB.Begin()

	complaint, err := lockComplaint(tx, complaintID)
	if err != nil {
		tx.Rollback()
		return nil, errors.Wrap(err, "could not find complaint")
	}

	result := &models.ToggleResult{}
	var existing models.Report
	err = tx.Where("user_id = ? AND complaint_id = ?", userID, complaintID).First(&existing).Error
	switch {
	case err == nil:
		if err := tx.Delete(&existing).Error; err != nil {
			tx.Rollback()
			return nil, errors.Wrap(err, "could not remove report")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := tx.Create(&models.Report{UserID: userID, ComplaintID: complaintID}).Error; err != nil {
			tx.Rollback()
			return nil, errors.Wrap(err, "could not record report")
		}
		result.Active = true
	default:
		tx.Rollback()
		return nil, errors.Wrap(err, "could not look up report")
	}

	count, flipped, err := syncHidden(tx, complaint, hideThreshold)
	if err != nil {
		log.Println("Failed to recompute hidden flag, rolling back")
		tx.Rollback()
		return nil, err
	}
	result.Count = count
	result.IsHidden = complaint.IsHidden
	result.Flipped = flipped

	return result, tx.Commit().Error
}

// syncHidden recounts the complaint's reports and stores is_hidden as
// count >= hideThreshold. complaint.IsHidden is updated in place.
func syncHidden(tx *gorm.DB, complaint *models.Complaint, hideThreshold int) (int64, bool, error) {
	var count int64
	if err := tx.Model(&models.Report{}).Where("complaint_id = ?", complaint.ID).Count(&count).Error; err != nil {
		return 0, false, fmt.Errorf("failed to count reports: %w", err)
	}
	hidden := count >= int64(hideThreshold)
	if hidden == complaint.IsHidden {
		return count, false, nil
	}
	if err := tx.Model(&models.Complaint{}).Where("id = ?", complaint.ID).Update("is_hidden", hidden).Error; err != nil {
		return 0, false, fmt.Errorf("failed to update hidden flag: %w", err)
	}
	complaint.IsHidden = hidden
	return count, true, nil
}

func (r *interactionRepo) CountReports(complaintID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&models.Report{}).Where("complaint_id = ?", complaintID).Count(&count).Error
	return count, err
}

func (r *interactionRepo) HasReported(userID, complaintID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&models.Report{}).Where("user_id = ? AND complaint_id = ?", userID, complaintID).Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "could not look up report")
	}
	return count > 0, nil
}

func (r *interactionRepo) HasCommented(userID, complaintID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&models.Comment{}).Where("user_id = ? AND complaint_id = ?", userID, complaintID).Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "could not look up comment")
	}
	return count > 0, nil
}

func (r *interactionRepo) CreateComment(comment *models.Comment) error {
	return r.DB.Omit("User").Create(comment).Error
}

func (r *interactionRepo) FindCommentByID(id uint) (*models.Comment, error) {
	comment := &models.Comment{}
	if err := r.DB.Preload("User").Where("id = ?", id).First(comment).Error; err != nil {
		return nil, errors.Wrap(err, "could not find comment")
	}
	return comment, nil
}

func (r *interactionRepo) UpdateComment(id uint, content string) error {
	res := r.DB.Model(&models.Comment{}).Where("id = ?", id).Update("content", content)
	if res.Error != nil {
		return errors.Wrap(res.Error, "could not update comment")
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *interactionRepo) DeleteComment(id uint) error {
	res := r.DB.Delete(&models.Comment{}, id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "could not delete comment")
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *interactionRepo) ListComments(complaintID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.DB.Preload("User").
		Where("complaint_id = ?", complaintID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, errors.Wrap(err, "could not list comments")
}
