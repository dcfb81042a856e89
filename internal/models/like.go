package models

import "time"

// Like records a user's like on a blog.
// The combination of UserID and BlogID must be unique; rows are hard deleted on unlike.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_user_blog" json:"userId"`
	BlogID    uint      `gorm:"not null;uniqueIndex:idx_like_user_blog;index" json:"blogId"`
	CreatedAt time.Time `json:"createdAt"`
}
