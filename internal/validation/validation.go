// Package validation holds the text-validation policies applied by the
// lifecycle services before anything touches storage.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/forumkit/forumkit/internal/apperr"
)

// Letters, digits, underscores and spaces, 255 characters max.
var topicPattern = regexp.MustCompile(`^[\w\s\p{L}]{1,255}$`)

const (
	contentMinLen = 2
	contentMaxLen = 65535
	reportMaxLen  = 65535
)

// TopicValidator validates thread names.
type TopicValidator struct{}

func (TopicValidator) Topic(topic string) error {
	if strings.TrimSpace(topic) == "" {
		return apperr.Validation("Topic can not be empty")
	}
	if !topicPattern.MatchString(topic) {
		return apperr.Validation("Topic must contain only letters, digits, underscores and spaces (255 characters max)")
	}
	return nil
}

// ContentValidator validates post bodies.
type ContentValidator struct{}

func (ContentValidator) Content(content string) error {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return apperr.Validation("Content can not be empty")
	}
	if utf8.RuneCountInString(trimmed) < contentMinLen {
		return apperr.Validation("Content is too short")
	}
	if utf8.RuneCountInString(content) > contentMaxLen {
		return apperr.Validation("Content is too long")
	}
	return nil
}

// ReportValidator validates report message bodies.
type ReportValidator struct{}

func (ReportValidator) Report(message string) error {
	if strings.TrimSpace(message) == "" {
		return apperr.Validation("Report message can not be empty")
	}
	if utf8.RuneCountInString(message) > reportMaxLen {
		return apperr.Validation("Report message is too long")
	}
	return nil
}

// Validator bundles every policy into a single value satisfying the
// validator interfaces the lifecycle services declare.
type Validator struct {
	TopicValidator
	ContentValidator
	ReportValidator
}
