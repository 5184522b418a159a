package models

// Like is one user's like on a complaint.
type Like struct {
	Model
	UserID      uint `json:"user_id" gorm:"not null;uniqueIndex:idx_like_user_complaint"`
	ComplaintID uint `json:"complaint_id" gorm:"not null;uniqueIndex:idx_like_user_complaint"`
}

// Report is one user's flag against a complaint. Three of them hide it.
type Report struct {
	Model
	UserID      uint `json:"user_id" gorm:"not null;uniqueIndex:idx_report_user_complaint"`
	ComplaintID uint `json:"complaint_id" gorm:"not null;uniqueIndex:idx_report_user_complaint"`
}

// ToggleResult says which way a like or report toggle went.
type ToggleResult struct {
	Active   bool  `json:"active"`
	Count    int64 `json:"count"`
	IsHidden bool  `json:"is_hidden"`
	// Flipped is set when the toggle changed the complaint's visibility.
	Flipped bool `json:"-"`
}
