package models

// Complaint is a citizen's report of a municipal problem.
type Complaint struct {
	Model
	UserID         uint          `json:"user_id" gorm:"not null;index"`
	User           *User         `json:"user,omitempty"`
	Title          string        `json:"title" gorm:"size:255;not null"`
	Description    string        `json:"description" gorm:"type:text;not null"`
	CategoryID     *uint         `json:"category_id"`
	Category       *Category     `json:"category,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	MunicipalityID *uint         `json:"municipality_id"`
	Municipality   *Municipality `json:"municipality,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	WardID         *uint         `json:"ward_id" gorm:"index"`
	Ward           *Ward         `json:"ward,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	StatusID       *uint         `json:"status_id"`
	Status         *Status       `json:"status,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	ImageURL       string        `json:"image_url,omitempty"`
	ThumbnailURL   string        `json:"thumbnail_url,omitempty"`
	IsHidden       bool          `json:"is_hidden" gorm:"default:false;index"`
	LikeCount      int64         `json:"like_count" gorm:"-"`
	CommentCount   int64         `json:"comment_count" gorm:"-"`
	ReportCount    int64         `json:"report_count" gorm:"-"`
}

// ComplaintRequest carries the text fields of a complaint form. The image travels
// separately as a multipart file.
type ComplaintRequest struct {
	Title        string `form:"title" json:"title" validate:"required,max=255" conform:"trim"`
	Description  string `form:"description" json:"description" validate:"required" conform:"trim"`
	CategoryID   uint   `form:"category_id" json:"category_id"`
	CategoryName string `form:"category" json:"category" validate:"required_without=CategoryID" conform:"trim"`
	WardID       uint   `form:"ward_id" json:"ward_id" validate:"required"`
}

// ComplaintFilter is applied uniformly to every complaint listing.
type ComplaintFilter struct {
	Query          string `form:"q"`
	CategoryID     uint   `form:"category_id"`
	StatusID       uint   `form:"status_id"`
	MunicipalityID uint   `form:"municipality_id"`
	WardNumber     uint   `form:"ward_number"`
	Page           int    `form:"page"`
	PageSize       int    `form:"page_size"`
}

// Scope narrows a listing by who is asking. Zero values apply no restriction.
type Scope struct {
	// OwnerID keeps only this author's complaints, hidden ones included.
	OwnerID uint
	// ViewerID keeps visible complaints plus the viewer's own hidden ones.
	ViewerID uint
	// WardID keeps only visible complaints of one ward.
	WardID *uint
	Hidden *bool
}

type StatusUpdateRequest struct {
	StatusID uint `json:"status_id" form:"status_id"`
}

type VisibilityRequest struct {
	IsHidden bool `json:"is_hidden" form:"is_hidden"`
}

type MunicipalityStats struct {
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"in_progress"`
	Resolved   int64 `json:"resolved"`
}

type AdminStats struct {
	TotalUsers          int64 `json:"total_users"`
	TotalAdmins         int64 `json:"total_admins"`
	TotalMunicipalities int64 `json:"total_municipalities"`
	TotalReportedPosts  int64 `json:"total_reported_posts"`
	TotalCategories     int64 `json:"total_categories"`
	TotalWards          int64 `json:"total_wards"`
}

type ProfileResponse struct {
	User       *User `json:"user"`
	PostCount  int64 `json:"post_count"`
	TotalCount int64 `json:"total_count"`
}

// ComplaintList is one page of a complaint listing.
type ComplaintList struct {
	Complaints []Complaint
	Total      int64
	Page       int
	PageSize   int
}

type ComplaintDetail struct {
	Complaint *Complaint `json:"complaint"`
	Comments  []Comment  `json:"comments"`
}

type MunicipalityDashboard struct {
	Stats MunicipalityStats `json:"stats"`
	List  *ComplaintList    `json:"-"`
}

type AdminDashboard struct {
	Stats AdminStats     `json:"stats"`
	List  *ComplaintList `json:"-"`
}
