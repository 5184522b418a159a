package models

import "github.com/google/uuid"

// Role decides which listings and dashboards a user may reach.
type Role struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name string    `gorm:"uniqueIndex;not null" json:"name"`
}

const (
	RoleCitizen      = "citizen"
	RoleMunicipality = "municipality"
	RoleAdmin        = "admin"
)

// Roles lists every role seeded at start-up.
var Roles = []string{RoleCitizen, RoleMunicipality, RoleAdmin}
