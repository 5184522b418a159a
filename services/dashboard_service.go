package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/techagentng/awaz/config"
	"github.com/techagentng/awaz/db"
	apiError "github.com/techagentng/awaz/errors"
	"github.com/techagentng/awaz/models"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Complaints"

//go:generate mockery --name DashboardService

// DashboardService serves the municipality and admin back offices.
type DashboardService interface {
	MunicipalityDashboard(user *models.User, filter models.ComplaintFilter) (*models.MunicipalityDashboard, *apiError.Error)
	AdminDashboard(user *models.User, filter models.ComplaintFilter) (*models.AdminDashboard, *apiError.Error)
	ReportedComplaints(user *models.User, filter models.ComplaintFilter) (*models.ComplaintList, *apiError.Error)
	ListUsers(page, pageSize int) (*models.UserList, *apiError.Error)
	DeleteUser(ctx context.Context, admin *models.User, userID uint) *apiError.Error
	ExportComplaints(filter models.ComplaintFilter) (*bytes.Buffer, *apiError.Error)
}

type dashboardService struct {
	Config        *config.Config
	authRepo      db.AuthRepository
	complaintRepo db.ComplaintRepository
	referenceRepo db.ReferenceRepository
	complaints    ComplaintService
	events        EventBus
}

func NewDashboardService(authRepo db.AuthRepository, complaintRepo db.ComplaintRepository, referenceRepo db.ReferenceRepository,
	complaints ComplaintService, events EventBus, conf *config.Config) DashboardService {
	return &dashboardService{
		Config:        conf,
		authRepo:      authRepo,
		complaintRepo: complaintRepo,
		referenceRepo: referenceRepo,
		complaints:    complaints,
		events:        events,
	}
}

func (d *dashboardService) MunicipalityDashboard(user *models.User, filter models.ComplaintFilter) (*models.MunicipalityDashboard, *apiError.Error) {
	list, apiErr := d.complaints.ListComplaints(user, ViewWard, filter)
	if apiErr != nil {
		return nil, apiErr
	}

	scope := ScopeFor(user, ViewWard)
	counts := make(map[string]int64, len(models.Statuses))
	for _, status := range models.Statuses {
		n, err := d.complaintRepo.CountComplaintsByStatus(scope, status)
		if err != nil {
			log.Printf("Error counting %s complaints: %v", status, err)
			return nil, apiError.ErrInternalServerError
		}
		counts[status] = n
	}

	return &models.MunicipalityDashboard{
		Stats: models.MunicipalityStats{
			Pending:    counts[models.StatusPending],
			InProgress: counts[models.StatusInProgress],
			Resolved:   counts[models.StatusResolved],
		},
		List: list,
	}, nil
}

func (d *dashboardService) AdminDashboard(user *models.User, filter models.ComplaintFilter) (*models.AdminDashboard, *apiError.Error) {
	list, apiErr := d.complaints.ListComplaints(user, ViewAdmin, filter)
	if apiErr != nil {
		return nil, apiErr
	}
	stats, err := d.adminStats(user)
	if err != nil {
		log.Printf("Error computing admin stats: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return &models.AdminDashboard{Stats: *stats, List: list}, nil
}

func (d *dashboardService) adminStats(user *models.User) (*models.AdminStats, error) {
	var (
		stats models.AdminStats
		err   error
	)
	if stats.TotalUsers, err = d.authRepo.CountUsersExcludingRole(models.RoleAdmin); err != nil {
		return nil, err
	}
	if stats.TotalAdmins, err = d.authRepo.CountUsersByRole(models.RoleAdmin); err != nil {
		return nil, err
	}
	if stats.TotalReportedPosts, err = d.complaintRepo.CountComplaints(ScopeFor(user, ViewReported)); err != nil {
		return nil, err
	}
	if stats.TotalMunicipalities, err = d.referenceRepo.Count(&models.Municipality{}); err != nil {
		return nil, err
	}
	if stats.TotalCategories, err = d.referenceRepo.Count(&models.Category{}); err != nil {
		return nil, err
	}
	if stats.TotalWards, err = d.referenceRepo.Count(&models.Ward{}); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (d *dashboardService) ReportedComplaints(user *models.User, filter models.ComplaintFilter) (*models.ComplaintList, *apiError.Error) {
	return d.complaints.ListComplaints(user, ViewReported, filter)
}

func (d *dashboardService) ListUsers(page, pageSize int) (*models.UserList, *apiError.Error) {
	page, pageSize = clampPage(page, pageSize, d.Config.PageSize)
	users, total, err := d.authRepo.ListUsersExcludingRole(models.RoleAdmin, (page-1)*pageSize, pageSize)
	if err != nil {
		log.Printf("Error listing users: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return &models.UserList{Users: users, Total: total, Page: page, PageSize: pageSize}, nil
}

func (d *dashboardService) DeleteUser(ctx context.Context, admin *models.User, userID uint) *apiError.Error {
	if admin.ID == userID {
		return apiError.New("You cannot delete your own account", http.StatusBadRequest)
	}
	flipped, err := d.authRepo.DeleteUser(userID, d.Config.ReportHideThreshold)
	if err != nil {
		return repoError(err, "user not found")
	}
	log.Printf("admin %d deleted user %d", admin.ID, userID)
	for i := range flipped {
		d.events.Publish(ctx, visibilityEvent(&flipped[i], flipped[i].IsHidden))
	}
	return nil
}

var exportHeaders = []string{"ID", "Title", "Description", "Category", "Municipality", "Ward", "Status", "Author", "Likes", "Comments", "Reports", "Hidden", "Created At"}

// ExportComplaints writes every complaint matching the filter, hidden ones
// included, to an xlsx workbook.
func (d *dashboardService) ExportComplaints(filter models.ComplaintFilter) (*bytes.Buffer, *apiError.Error) {
	complaints, _, err := d.complaintRepo.ListComplaints(models.Scope{}, filter, 0, 0)
	if err != nil {
		log.Printf("Error listing complaints for export: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	buf, err := writeComplaintsWorkbook(complaints)
	if err != nil {
		log.Printf("Error writing export workbook: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return buf, nil
}

func writeComplaintsWorkbook(complaints []models.Complaint) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}
	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, err
		}
	}

	for i, c := range complaints {
		row := []interface{}{
			c.ID, c.Title, c.Description, categoryName(c.Category), municipalityName(c.Municipality),
			wardNumber(c.Ward), statusName(c.Status), authorName(c.User),
			c.LikeCount, c.CommentCount, c.ReportCount, c.IsHidden, c.CreatedAt.Format("2006-01-02 15:04"),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	if err := f.SetColWidth(exportSheet, "B", "C", 40); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(exportSheet, "D", "H", 20); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return &buf, nil
}

func categoryName(c *models.Category) string {
	if c == nil {
		return ""
	}
	return c.Name
}

func municipalityName(m *models.Municipality) string {
	if m == nil {
		return ""
	}
	return m.Name
}

func wardNumber(w *models.Ward) string {
	if w == nil {
		return ""
	}
	return fmt.Sprintf("%d", w.WardNumber)
}

func statusName(s *models.Status) string {
	if s == nil {
		return ""
	}
	return s.Name
}

func authorName(u *models.User) string {
	if u == nil {
		return ""
	}
	return u.FullName()
}
