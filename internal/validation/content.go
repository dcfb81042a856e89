package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"inkwell/internal/models"
)

const (
	MinTitleLength   = 3
	MaxTitleLength   = 200
	MinContentLength = 10
	MaxTagLength     = 50
	MaxTags          = 20
)

// ValidateTitle checks a trimmed blog title.
func ValidateTitle(title string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(title))
	if n < MinTitleLength || n > MaxTitleLength {
		return fmt.Errorf("title must be between %d and %d characters", MinTitleLength, MaxTitleLength)
	}
	return nil
}

// ValidateContent checks a blog body. HTML is accepted as-is.
func ValidateContent(content string) error {
	if utf8.RuneCountInString(strings.TrimSpace(content)) < MinContentLength {
		return fmt.Errorf("content must be at least %d characters", MinContentLength)
	}
	return nil
}

// ParseLanguage maps "" to the default language and rejects unknown codes.
func ParseLanguage(raw string) (models.Language, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return models.DefaultLanguage, nil
	}
	lang := models.Language(raw)
	if !lang.Valid() {
		return "", fmt.Errorf("language must be one of %q or %q", models.LanguageEnglish, models.LanguageArabic)
	}
	return lang, nil
}

// NormalizeTags trims tags and drops empty ones, keeping order.
func NormalizeTags(tags []string) ([]string, error) {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if utf8.RuneCountInString(tag) > MaxTagLength {
			return nil, fmt.Errorf("tags must be at most %d characters", MaxTagLength)
		}
		out = append(out, tag)
	}
	if len(out) > MaxTags {
		return nil, fmt.Errorf("at most %d tags are allowed", MaxTags)
	}
	return out, nil
}

// ValidateComment checks trimmed comment content against the length bounds.
func ValidateComment(content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return errors.New("comment content is required")
	}
	if utf8.RuneCountInString(content) > models.MaxCommentLength {
		return fmt.Errorf("comment must be at most %d characters", models.MaxCommentLength)
	}
	return nil
}
