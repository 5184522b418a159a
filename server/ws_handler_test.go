package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/techagentng/awaz/models"
	"github.com/techagentng/awaz/services"
)

func TestEventVisibleTo(t *testing.T) {
	ward, otherWard := uint(1), uint(2)
	admin := &models.User{Model: models.Model{ID: 1}, Role: models.Role{Name: models.RoleAdmin}}
	staff := &models.User{Model: models.Model{ID: 2}, Role: models.Role{Name: models.RoleMunicipality}, WardID: &ward}
	unplaced := &models.User{Model: models.Model{ID: 3}, Role: models.Role{Name: models.RoleMunicipality}}
	citizen := &models.User{Model: models.Model{ID: 4}, Role: models.Role{Name: models.RoleCitizen}}

	inWard := services.Event{Type: services.EventComplaintCreated, OwnerID: 4, WardID: &ward}
	elsewhere := services.Event{Type: services.EventComplaintCreated, OwnerID: 9, WardID: &otherWard}

	assert.True(t, eventVisibleTo(admin, inWard))
	assert.True(t, eventVisibleTo(admin, elsewhere))
	assert.True(t, eventVisibleTo(staff, inWard))
	assert.False(t, eventVisibleTo(staff, elsewhere))
	assert.False(t, eventVisibleTo(unplaced, inWard))
	assert.True(t, eventVisibleTo(citizen, inWard))
	assert.False(t, eventVisibleTo(citizen, elsewhere))
}
