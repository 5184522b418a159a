package models

type Municipality struct {
	Model
	Name  string `json:"name" gorm:"not null"`
	Wards []Ward `json:"wards,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

// Ward is unique by (municipality, number).
type Ward struct {
	Model
	MunicipalityID uint          `json:"municipality_id" gorm:"not null;uniqueIndex:idx_ward_municipality_number"`
	Municipality   *Municipality `json:"municipality,omitempty"`
	WardNumber     uint          `json:"ward_number" gorm:"not null;uniqueIndex:idx_ward_municipality_number"`
}

type Category struct {
	Model
	Name string `json:"name" gorm:"size:50;uniqueIndex;not null"`
	Slug string `json:"slug" gorm:"size:100;uniqueIndex"`
}

type Status struct {
	Model
	Name string `json:"name" gorm:"size:50;uniqueIndex;not null"`
}

const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusResolved   = "Resolved"
)

// Statuses is the seed order of complaint statuses.
var Statuses = []string{StatusPending, StatusInProgress, StatusResolved}
