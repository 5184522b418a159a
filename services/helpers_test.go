package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/techagentng/awaz/config"
	"github.com/techagentng/awaz/db"
	"github.com/techagentng/awaz/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendActivation(ctx context.Context, to, name, link string) error {
	args := m.Called(ctx, to, name, link)
	return args.Error(0)
}

func (m *mockMailer) SendResetPassword(ctx context.Context, to, link string) error {
	args := m.Called(ctx, to, link)
	return args.Error(0)
}

type testEnv struct {
	conf         *config.Config
	db           *db.GormDB
	authRepo     db.AuthRepository
	complaints   db.ComplaintRepository
	interactions db.InteractionRepository
	references   db.ReferenceRepository
	events       EventBus
	mailer       *mockMailer
	ward         *models.Ward
	otherWard    *models.Ward
	category     *models.Category
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gormDB, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "awaz.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))

	g := &db.GormDB{DB: gormDB}
	env := &testEnv{
		conf: &config.Config{
			BaseUrl:             "http://awaz.test",
			JWTSecret:           "test-secret",
			ReportHideThreshold: 3,
			PageSize:            6,
		},
		db:           g,
		authRepo:     db.NewAuthRepo(g),
		complaints:   db.NewComplaintRepo(g),
		interactions: db.NewInteractionRepo(g),
		references:   db.NewReferenceRepo(g),
		events:       NewEventBus(nil),
		mailer:       new(mockMailer),
	}

	municipality := &models.Municipality{Name: "Lalitpur"}
	require.NoError(t, env.references.CreateMunicipality(municipality))
	env.ward = &models.Ward{MunicipalityID: municipality.ID, WardNumber: 3}
	require.NoError(t, env.references.CreateWard(env.ward))
	env.otherWard = &models.Ward{MunicipalityID: municipality.ID, WardNumber: 7}
	require.NoError(t, env.references.CreateWard(env.otherWard))
	env.category = &models.Category{Name: "Roads"}
	require.NoError(t, env.references.CreateCategory(env.category))
	return env
}

func (e *testEnv) complaintService() ComplaintService {
	return NewComplaintService(e.complaints, e.references, e.interactions, NewMediaService(&DiskStore{}), e.events, e.conf)
}

func (e *testEnv) interactionService() InteractionService {
	return NewInteractionService(e.interactions, e.complaints, e.events, e.conf)
}

// user creates an active user with the given role, placed in ward when it is set.
func (e *testEnv) user(t *testing.T, email, role string, ward *models.Ward) *models.User {
	t.Helper()
	hashed, err := GenerateHashPassword("secret123")
	require.NoError(t, err)
	user := &models.User{
		FirstName:      "Test",
		LastName:       "User",
		Username:       email,
		Email:          email,
		HashedPassword: hashed,
		IsActive:       true,
		Role:           models.Role{Name: role},
	}
	if ward != nil {
		user.WardID = &ward.ID
		user.MunicipalityID = &ward.MunicipalityID
	}
	user, err = e.authRepo.CreateUser(user)
	require.NoError(t, err)
	return user
}

func (e *testEnv) complaint(t *testing.T, owner *models.User, title string, ward *models.Ward) *models.Complaint {
	t.Helper()
	complaint, apiErr := e.complaintService().CreateComplaint(context.Background(), owner, &models.ComplaintRequest{
		Title:       title,
		Description: "description of " + title,
		CategoryID:  e.category.ID,
		WardID:      ward.ID,
	}, nil)
	require.Nil(t, apiErr)
	return complaint
}

// nextEvent waits briefly for the next event on ch.
func nextEvent(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case event := <-ch:
		return event
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return Event{}
	}
}

func drain(ch <-chan Event) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}
