package db_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techagentng/awaz/db"
	"github.com/techagentng/awaz/models"
	"gorm.io/gorm"
)

func TestToggleLike_AddsThenRemoves(t *testing.T) {
	f := newTestDB(t)
	owner := f.user(t, "owner@awaz.test", models.RoleCitizen)
	liker := f.user(t, "liker@awaz.test", models.RoleCitizen)
	complaint := f.complaint(t, owner, "Pothole", f.ward)
	repo := db.NewInteractionRepo(f.db)

	result, err := repo.ToggleLike(liker.ID, complaint.ID)
	require.NoError(t, err)
	assert.True(t, result.Active)
	assert.Equal(t, int64(1), result.Count)

	result, err = repo.ToggleLike(liker.ID, complaint.ID)
	require.NoError(t, err)
	assert.False(t, result.Active)
	assert.Equal(t, int64(0), result.Count)
}

func TestToggleLike_UnknownComplaint(t *testing.T) {
	f := newTestDB(t)
	liker := f.user(t, "liker@awaz.test", models.RoleCitizen)

	_, err := db.NewInteractionRepo(f.db).ToggleLike(liker.ID, 999)
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestLike_UniquePerUserAndComplaint(t *testing.T) {
	f := newTestDB(t)
	owner := f.user(t, "owner@awaz.test", models.RoleCitizen)
	complaint := f.complaint(t, owner, "Pothole", f.ward)

	like := &models.Like{UserID: owner.ID, ComplaintID: complaint.ID}
	require.NoError(t, f.db.DB.Create(like).Error)
	err := f.db.DB.Create(&models.Like{UserID: owner.ID, ComplaintID: complaint.ID}).Error
	require.Error(t, err)
}

func TestReport_UniquePerUserAndComplaint(t *testing.T) {
	f := newTestDB(t)
	owner := f.user(t, "owner@awaz.test", models.RoleCitizen)
	reporter := f.user(t, "reporter@awaz.test", models.RoleCitizen)
	complaint := f.complaint(t, owner, "Pothole", f.ward)

	require.NoError(t, f.db.DB.Create(&models.Report{UserID: reporter.ID, ComplaintID: complaint.ID}).Error)
	err := f.db.DB.Create(&models.Report{UserID: reporter.ID, ComplaintID: complaint.ID}).Error
	require.Error(t, err)

	count, err := db.NewInteractionRepo(f.db).CountReports(complaint.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestToggleReport_HidesAtThresholdAndUnhidesBelow(t *testing.T) {
	f := newTestDB(t)
	owner := f.user(t, "owner@awaz.test", models.RoleCitizen)
	complaint := f.complaint(t, owner, "Broken streetlight", f.ward)
	repo := db.NewInteractionRepo(f.db)
	complaints := db.NewComplaintRepo(f.db)

	var reporters []*models.User
	for i := 0; i < 3; i++ {
		reporters = append(reporters, f.user(t, fmt.Sprintf("reporter%d@awaz.test", i), models.RoleCitizen))
	}

	for i, reporter := range reporters[:2] {
		result, err := repo.ToggleReport(reporter.ID, complaint.ID, 3)
		require.NoError(t, err)
		assert.True(t, result.Active)
		assert.Equal(t, int64(i+1), result.Count)
		assert.False(t, result.IsHidden)
		assert.False(t, result.Flipped)
	}

	result, err := repo.ToggleReport(reporters[2].ID, complaint.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Count)
	assert.True(t, result.IsHidden)
	assert.True(t, result.Flipped)

	stored, err := complaints.FindComplaintByID(complaint.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsHidden)
	assert.Equal(t, int64(3), stored.ReportCount)

	result, err = repo.ToggleReport(reporters[0].ID, complaint.ID, 3)
	require.NoError(t, err)
	assert.False(t, result.Active)
	assert.Equal(t, int64(2), result.Count)
	assert.False(t, result.IsHidden)
	assert.True(t, result.Flipped)

	stored, err = complaints.FindComplaintByID(complaint.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsHidden)
}

func TestToggleReport_AboveThresholdStaysHidden(t *testing.T) {
	f := newTestDB(t)
	owner := f.user(t, "owner@awaz.test", models.RoleCitizen)
	complaint := f.complaint(t, owner, "Garbage", f.ward)
	repo := db.NewInteractionRepo(f.db)

	var last *models.ToggleResult
	for i := 0; i < 4; i++ {
		reporter := f.user(t, fmt.Sprintf("reporter%d@awaz.test", i), models.RoleCitizen)
		result, err := repo.ToggleReport(reporter.ID, complaint.ID, 3)
		require.NoError(t, err)
		last = result
	}
	assert.True(t, last.IsHidden)
	assert.False(t, last.Flipped)

	count, err := repo.CountReports(complaint.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
}

func TestComments_OnePerUserAndComplaint(t *testing.T) {
	f := newTestDB(t)
	owner := f.user(t, "owner@awaz.test", models.RoleCitizen)
	commenter := f.user(t, "commenter@awaz.test", models.RoleCitizen)
	complaint := f.complaint(t, owner, "Water leak", f.ward)
	repo := db.NewInteractionRepo(f.db)

	has, err := repo.HasCommented(commenter.ID, complaint.ID)
	require.NoError(t, err)
	assert.False(t, has)

	comment := &models.Comment{Content: "Same on my street", ComplaintID: complaint.ID, UserID: commenter.ID}
	require.NoError(t, repo.CreateComment(comment))

	has, err = repo.HasCommented(commenter.ID, complaint.ID)
	require.NoError(t, err)
	assert.True(t, has)

	err = repo.CreateComment(&models.Comment{Content: "again", ComplaintID: complaint.ID, UserID: commenter.ID})
	require.Error(t, err)

	require.NoError(t, repo.UpdateComment(comment.ID, "Fixed now"))
	stored, err := repo.FindCommentByID(comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fixed now", stored.Content)
	require.NotNil(t, stored.User)
	assert.Equal(t, commenter.ID, stored.User.ID)

	comments, err := repo.ListComments(complaint.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 1)

	require.NoError(t, repo.DeleteComment(comment.ID))
	assert.ErrorIs(t, repo.DeleteComment(comment.ID), gorm.ErrRecordNotFound)
	assert.ErrorIs(t, repo.UpdateComment(comment.ID, "x"), gorm.ErrRecordNotFound)
}
