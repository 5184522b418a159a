package db

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/techagentng/awaz/models"
	"gorm.io/gorm"
)

type ComplaintRepository interface {
	CreateComplaint(complaint *models.Complaint) error
	FindComplaintByID(id uint) (*models.Complaint, error)
	UpdateComplaint(complaint *models.Complaint) error
	DeleteComplaint(id uint) error
	ListComplaints(scope models.Scope, filter models.ComplaintFilter, offset, limit int) ([]models.Complaint, int64, error)
	LatestComplaints(limit int) ([]models.Complaint, error)
	CountComplaints(scope models.Scope) (int64, error)
	CountComplaintsByStatus(scope models.Scope, statusName string) (int64, error)
	UpdateStatus(complaintID, statusID uint) error
	SetHidden(complaintID uint, hidden bool) error
}

type complaintRepo struct {
	DB *gorm.DB
}

func NewComplaintRepo(db *GormDB) ComplaintRepository {
	return &complaintRepo{db.DB}
}

func (r *complaintRepo) CreateComplaint(complaint *models.Complaint) error {
	err := r.DB.Omit("User", "Category", "Municipality", "Ward", "Status").Create(complaint).Error
	return errors.Wrap(err, "could not create complaint")
}

func (r *complaintRepo) withRelations(q *gorm.DB) *gorm.DB {
	return q.Preload("User").Preload("User.Role").
		Preload("Category").
		Preload("Municipality").
		Preload("Ward").
		Preload("Status")
}

func (r *complaintRepo) FindComplaintByID(id uint) (*models.Complaint, error) {
	complaint := &models.Complaint{}
	if err := r.withRelations(r.DB).Where("id = ?", id).First(complaint).Error; err != nil {
		return nil, errors.Wrap(err, "could not find complaint")
	}
	list := []models.Complaint{*complaint}
	if err := r.fillCounts(list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

func (r *complaintRepo) UpdateComplaint(complaint *models.Complaint) error {
	err := r.DB.Model(&models.Complaint{}).Where("id = ?", complaint.ID).Updates(map[string]interface{}{
		"title":           complaint.Title,
		"description":     complaint.Description,
		"category_id":     complaint.CategoryID,
		"ward_id":         complaint.WardID,
		"municipality_id": complaint.MunicipalityID,
		"image_url":       complaint.ImageURL,
		"thumbnail_url":   complaint.ThumbnailURL,
	}).Error
	return errors.Wrap(err, "could not update complaint")
}

// DeleteComplaint removes the complaint together with its likes, comments and reports.
func (r *complaintRepo) DeleteComplaint(id uint) error {
	tx := r.DB.Begin()
	for _, m := range []interface{}{&models.Like{}, &models.Comment{}, &models.Report{}} {
		if err := tx.Where("complaint_id = ?", id).Delete(m).Error; err != nil {
			tx.Rollback()
			return errors.Wrap(err, "could not delete complaint interactions")
		}
	}
	res := tx.Delete(&models.Complaint{}, id)
	if res.Error != nil {
		tx.Rollback()
		return errors.Wrap(res.Error, "could not delete complaint")
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return gorm.ErrRecordNotFound
	}
	return tx.Commit().Error
}

func (r *complaintRepo) ListComplaints(scope models.Scope, filter models.ComplaintFilter, offset, limit int) ([]models.Complaint, int64, error) {
	q := applyFilter(applyScope(r.DB.Model(&models.Complaint{}), scope), filter).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "could not count complaints")
	}

	var complaints []models.Complaint
	page := r.withRelations(q).Select("complaints.*").Order("complaints.created_at DESC").Order("complaints.id DESC")
	if limit > 0 {
		page = page.Offset(offset).Limit(limit)
	}
	if err := page.Find(&complaints).Error; err != nil {
		return nil, 0, errors.Wrap(err, "could not list complaints")
	}
	if err := r.fillCounts(complaints); err != nil {
		return nil, 0, err
	}
	return complaints, total, nil
}

func (r *complaintRepo) LatestComplaints(limit int) ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := r.withRelations(r.DB).
		Where("is_hidden = ?", false).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&complaints).Error
	if err != nil {
		return nil, errors.Wrap(err, "could not list latest complaints")
	}
	if err := r.fillCounts(complaints); err != nil {
		return nil, err
	}
	return complaints, nil
}

func (r *complaintRepo) CountComplaints(scope models.Scope) (int64, error) {
	var count int64
	err := applyScope(r.DB.Model(&models.Complaint{}), scope).Count(&count).Error
	return count, errors.Wrap(err, "could not count complaints")
}

func (r *complaintRepo) CountComplaintsByStatus(scope models.Scope, statusName string) (int64, error) {
	var count int64
	err := applyScope(r.DB.Model(&models.Complaint{}), scope).
		Joins("JOIN statuses ON statuses.id = complaints.status_id").
		Where("statuses.name = ?", statusName).
		Count(&count).Error
	return count, errors.Wrap(err, "could not count complaints by status")
}

func (r *complaintRepo) UpdateStatus(complaintID, statusID uint) error {
	res := r.DB.Model(&models.Complaint{}).Where("id = ?", complaintID).Update("status_id", statusID)
	if res.Error != nil {
		return errors.Wrap(res.Error, "could not update status")
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *complaintRepo) SetHidden(complaintID uint, hidden bool) error {
	res := r.DB.Model(&models.Complaint{}).Where("id = ?", complaintID).Update("is_hidden", hidden)
	if res.Error != nil {
		return errors.Wrap(res.Error, "could not update visibility")
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// countBatchSize keeps IN lists well below the postgres bind parameter limit.
const countBatchSize = 1000

type countRow struct {
	ComplaintID uint
	N           int64
}

// fillCounts sets the derived like, comment and report counts on each complaint.
func (r *complaintRepo) fillCounts(complaints []models.Complaint) error {
	if len(complaints) == 0 {
		return nil
	}
	ids := make([]uint, len(complaints))
	for i := range complaints {
		ids[i] = complaints[i].ID
	}

	counts := func(model interface{}) (map[uint]int64, error) {
		out := make(map[uint]int64, len(ids))
		for start := 0; start < len(ids); start += countBatchSize {
			end := start + countBatchSize
			if end > len(ids) {
				end = len(ids)
			}
			var rows []countRow
			err := r.DB.Model(model).
				Select("complaint_id, COUNT(*) AS n").
				Where("complaint_id IN ?", ids[start:end]).
				Group("complaint_id").
				Scan(&rows).Error
			if err != nil {
				return nil, errors.Wrap(err, "could not count interactions")
			}
			for _, row := range rows {
				out[row.ComplaintID] = row.N
			}
		}
		return out, nil
	}

	likes, err := counts(&models.Like{})
	if err != nil {
		return err
	}
	comments, err := counts(&models.Comment{})
	if err != nil {
		return err
	}
	reports, err := counts(&models.Report{})
	if err != nil {
		return err
	}
	for i := range complaints {
		id := complaints[i].ID
		complaints[i].LikeCount = likes[id]
		complaints[i].CommentCount = comments[id]
		complaints[i].ReportCount = reports[id]
	}
	return nil
}

func applyScope(q *gorm.DB, scope models.Scope) *gorm.DB {
	if scope.OwnerID != 0 {
		q = q.Where("complaints.user_id = ?", scope.OwnerID)
	}
	if scope.ViewerID != 0 {
		q = q.Where("complaints.is_hidden = ? OR complaints.user_id = ?", false, scope.ViewerID)
	}
	if scope.WardID != nil {
		q = q.Where("complaints.ward_id = ?", *scope.WardID).Where("complaints.is_hidden = ?", false)
	}
	if scope.Hidden != nil {
		q = q.Where("complaints.is_hidden = ?", *scope.Hidden)
	}
	return q
}

// applyFilter ANDs the exact-match filters with one OR group of substring matches for q.
func applyFilter(q *gorm.DB, filter models.ComplaintFilter) *gorm.DB {
	keyword := strings.ToLower(strings.TrimSpace(filter.Query))
	if keyword != "" || filter.WardNumber != 0 || filter.MunicipalityID != 0 {
		q = q.Joins("LEFT JOIN wards ON wards.id = complaints.ward_id")
	}
	if keyword != "" {
		like := "%" + keyword + "%"
		q = q.Joins("LEFT JOIN categories ON categories.id = complaints.category_id").
			Joins("LEFT JOIN municipalities ON municipalities.id = complaints.municipality_id").
			Where("LOWER(complaints.title) LIKE ? OR LOWER(complaints.description) LIKE ? OR LOWER(categories.name) LIKE ? OR CAST(wards.ward_number AS TEXT) LIKE ? OR LOWER(municipalities.name) LIKE ?",
				like, like, like, like, like)
	}
	if filter.CategoryID != 0 {
		q = q.Where("complaints.category_id = ?", filter.CategoryID)
	}
	if filter.StatusID != 0 {
		q = q.Where("complaints.status_id = ?", filter.StatusID)
	}
	if filter.MunicipalityID != 0 {
		q = q.Where("wards.municipality_id = ?", filter.MunicipalityID)
	}
	if filter.WardNumber != 0 {
		q = q.Where("wards.ward_number = ?", filter.WardNumber)
	}
	return q
}
