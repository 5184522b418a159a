package models

// Comment is a user's single comment on a complaint.
type Comment struct {
	Model
	Content     string `json:"content" gorm:"type:text;not null"`
	ComplaintID uint   `json:"complaint_id" gorm:"not null;uniqueIndex:idx_comment_user_complaint"`
	UserID      uint   `json:"user_id" gorm:"not null;uniqueIndex:idx_comment_user_complaint"`
	User        *User  `json:"user,omitempty"`
}

type CommentRequest struct {
	Content string `json:"content" form:"content"`
}
