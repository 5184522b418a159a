package services

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techagentng/awaz/models"
	"github.com/xuri/excelize/v2"
)

func (e *testEnv) dashboardService() DashboardService {
	return NewDashboardService(e.authRepo, e.complaints, e.references, e.complaintService(), e.events, e.conf)
}

func TestMunicipalityDashboard_CountsOwnWard(t *testing.T) {
	env := newTestEnv(t)
	service := env.dashboardService()
	citizen := env.user(t, "citizen@awaz.test", models.RoleCitizen, nil)
	staff := env.user(t, "staff@awaz.test", models.RoleMunicipality, env.ward)

	first := env.complaint(t, citizen, "first", env.ward)
	env.complaint(t, citizen, "second", env.ward)
	env.complaint(t, citizen, "elsewhere", env.otherWard)
	resolved, err := env.references.FindStatusByName(models.StatusResolved)
	require.NoError(t, err)
	require.NoError(t, env.complaints.UpdateStatus(first.ID, resolved.ID))

	dashboard, apiErr := service.MunicipalityDashboard(staff, models.ComplaintFilter{})
	require.Nil(t, apiErr)
	assert.Equal(t, models.MunicipalityStats{Pending: 1, InProgress: 0, Resolved: 1}, dashboard.Stats)
	assert.Equal(t, int64(2), dashboard.List.Total)

	dashboard, apiErr = service.MunicipalityDashboard(staff, models.ComplaintFilter{StatusID: resolved.ID})
	require.Nil(t, apiErr)
	require.Len(t, dashboard.List.Complaints, 1)
	assert.Equal(t, "first", dashboard.List.Complaints[0].Title)
}

func TestAdminDashboard_Stats(t *testing.T) {
	env := newTestEnv(t)
	service := env.dashboardService()
	admin := env.user(t, "admin@awaz.test", models.RoleAdmin, nil)
	citizen := env.user(t, "citizen@awaz.test", models.RoleCitizen, nil)
	env.user(t, "staff@awaz.test", models.RoleMunicipality, env.ward)

	env.complaint(t, citizen, "visible", env.ward)
	hidden := env.complaint(t, citizen, "hidden", env.ward)
	require.NoError(t, env.complaints.SetHidden(hidden.ID, true))

	dashboard, apiErr := service.AdminDashboard(admin, models.ComplaintFilter{})
	require.Nil(t, apiErr)
	assert.Equal(t, models.AdminStats{
		TotalUsers:          2,
		TotalAdmins:         1,
		TotalMunicipalities: 1,
		TotalReportedPosts:  1,
		TotalCategories:     1,
		TotalWards:          2,
	}, dashboard.Stats)
	assert.Equal(t, int64(1), dashboard.List.Total)

	reported, apiErr := service.ReportedComplaints(admin, models.ComplaintFilter{})
	require.Nil(t, apiErr)
	require.Len(t, reported.Complaints, 1)
	assert.Equal(t, "hidden", reported.Complaints[0].Title)
}

func TestUsersAdministration(t *testing.T) {
	env := newTestEnv(t)
	service := env.dashboardService()
	admin := env.user(t, "admin@awaz.test", models.RoleAdmin, nil)
	citizen := env.user(t, "citizen@awaz.test", models.RoleCitizen, nil)
	env.user(t, "other@awaz.test", models.RoleCitizen, nil)
	env.complaint(t, citizen, "mine", env.ward)

	users, apiErr := service.ListUsers(0, 0)
	require.Nil(t, apiErr)
	assert.Equal(t, int64(2), users.Total)
	assert.Equal(t, 1, users.Page)
	assert.Equal(t, env.conf.PageSize, users.PageSize)

	apiErr = service.DeleteUser(context.Background(), admin, admin.ID)
	require.NotNil(t, apiErr)
	assert.Equal(t, "You cannot delete your own account", apiErr.Message)

	require.Nil(t, service.DeleteUser(context.Background(), admin, citizen.ID))
	count, err := env.complaints.CountComplaints(models.Scope{})
	require.NoError(t, err)
	assert.Zero(t, count)

	apiErr = service.DeleteUser(context.Background(), admin, citizen.ID)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestDeleteUser_UnhidesComplaintsTheyReported(t *testing.T) {
	env := newTestEnv(t)
	service := env.dashboardService()
	interactions := env.interactionService()
	admin := env.user(t, "admin@awaz.test", models.RoleAdmin, nil)
	owner := env.user(t, "owner@awaz.test", models.RoleCitizen, nil)
	complaint := env.complaint(t, owner, "Rude remarks", env.ward)
	ctx := context.Background()

	var reporters []*models.User
	for i := 0; i < 3; i++ {
		reporter := env.user(t, fmt.Sprintf("reporter%d@awaz.test", i), models.RoleCitizen, nil)
		reporters = append(reporters, reporter)
		_, _, apiErr := interactions.ToggleReport(ctx, reporter, complaint.ID)
		require.Nil(t, apiErr)
	}

	events, cancel, err := env.events.Subscribe()
	require.NoError(t, err)
	defer cancel()

	require.Nil(t, service.DeleteUser(ctx, admin, reporters[0].ID))

	stored, err := env.complaints.FindComplaintByID(complaint.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stored.ReportCount)
	assert.False(t, stored.IsHidden)

	event := nextEvent(t, events)
	assert.Equal(t, EventComplaintUnhidden, event.Type)
	assert.Equal(t, complaint.ID, event.ComplaintID)
	assert.Equal(t, owner.ID, event.OwnerID)
}

func TestExportComplaints_Workbook(t *testing.T) {
	env := newTestEnv(t)
	service := env.dashboardService()
	citizen := env.user(t, "citizen@awaz.test", models.RoleCitizen, nil)
	env.complaint(t, citizen, "Pothole", env.ward)
	hidden := env.complaint(t, citizen, "Spam", env.otherWard)
	require.NoError(t, env.complaints.SetHidden(hidden.ID, true))

	buf, apiErr := service.ExportComplaints(models.ComplaintFilter{})
	require.Nil(t, apiErr)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, exportHeaders, rows[0])
	assert.Equal(t, "Spam", rows[1][1])
	assert.Equal(t, "Roads", rows[1][3])
	assert.Equal(t, "Lalitpur", rows[1][4])
	assert.Equal(t, "7", rows[1][5])
	assert.Equal(t, models.StatusPending, rows[1][6])
	assert.Equal(t, "Pothole", rows[2][1])
}
