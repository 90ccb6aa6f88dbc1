package core

import (
	"regexp"
	"strings"
)

// Message patterns match anywhere in the text, across lines, ignoring case.
var (
	defectReferenceRe = regexp.MustCompile(`(?is)^.*(pr:|bug:).*$`)
	commendationRe    = regexp.MustCompile(`(?is)^.*(ph:|pointy hat|p?hat:).*$`)
)

// IsEmptyMessage reports whether a commit message carries no text.
func IsEmptyMessage(msg string) bool {
	return strings.TrimSpace(msg) == ""
}

// IsDefectReference reports whether msg links a bug ("bug:" or "pr:").
func IsDefectReference(msg string) bool {
	return defectReferenceRe.MatchString(msg)
}

// IsCommendation reports whether msg awards a pointy hat.
func IsCommendation(msg string) bool {
	return commendationRe.MatchString(msg)
}
