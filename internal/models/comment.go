package models

import (
	"time"

	"gorm.io/gorm"
)

// MaxCommentLength bounds Comment.Content in characters.
const MaxCommentLength = 1000

// Comment is a remark on a blog. ParentCommentID links a reply to another
// comment on the same blog; only this back-reference is stored.
type Comment struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Content         string         `gorm:"type:text;not null" json:"content"`
	BlogID          uint           `gorm:"not null;index" json:"blogId"`
	UserID          uint           `gorm:"not null;index" json:"authorId"`
	Author          *Author        `gorm:"foreignKey:UserID" json:"author"`
	ParentCommentID *uint          `gorm:"index" json:"parentComment"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsRoot reports whether the comment has no parent.
func (c *Comment) IsRoot() bool {
	return c.ParentCommentID == nil || *c.ParentCommentID == 0
}
