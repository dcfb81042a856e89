package models

import (
	"time"

	"gorm.io/gorm"
)

// Language is the content language of a blog.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageArabic  Language = "ar"
)

// DefaultLanguage is used when a request omits the language.
const DefaultLanguage = LanguageEnglish

// Valid reports whether l is a supported language.
func (l Language) Valid() bool {
	return l == LanguageEnglish || l == LanguageArabic
}

// Blog is a rich-text post. Content is stored verbatim and never sanitized server-side.
type Blog struct {
	ID       uint     `gorm:"primaryKey" json:"id"`
	Title    string   `gorm:"size:200;not null" json:"title"`
	Content  string   `gorm:"type:text;not null" json:"content"`
	Language Language `gorm:"type:varchar(8);not null;default:'en';index:idx_blogs_language_created,priority:1" json:"language"`
	UserID   uint     `gorm:"not null;index" json:"authorId"`
	Author   *Author  `gorm:"foreignKey:UserID" json:"author"`

	// Tags and Likes are the wire form of TagRows and LikeRows; see Hydrate.
	Tags     []string  `gorm:"-" json:"tags"`
	Likes    []uint    `gorm:"-" json:"likes"`
	TagRows  []BlogTag `gorm:"foreignKey:BlogID" json:"-"`
	LikeRows []Like    `gorm:"foreignKey:BlogID" json:"-"`

	CreatedAt time.Time      `gorm:"index:idx_blogs_language_created,priority:2" json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Hydrate copies preloaded tag and like rows into the wire fields.
func (b *Blog) Hydrate() {
	b.Tags = make([]string, 0, len(b.TagRows))
	for _, t := range b.TagRows {
		b.Tags = append(b.Tags, t.Name)
	}
	b.Likes = make([]uint, 0, len(b.LikeRows))
	for _, l := range b.LikeRows {
		b.Likes = append(b.Likes, l.UserID)
	}
}

// BlogTag is one ordered tag of a blog.
type BlogTag struct {
	ID       uint   `gorm:"primaryKey" json:"-"`
	BlogID   uint   `gorm:"not null;index" json:"-"`
	Position int    `gorm:"not null" json:"-"`
	Name     string `gorm:"size:50;not null" json:"name"`
}

// TagRowsFrom converts an ordered tag list into rows.
func TagRowsFrom(blogID uint, tags []string) []BlogTag {
	rows := make([]BlogTag, 0, len(tags))
	for i, name := range tags {
		rows = append(rows, BlogTag{BlogID: blogID, Position: i, Name: name})
	}
	return rows
}
