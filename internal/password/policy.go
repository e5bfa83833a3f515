package password

import (
	"fmt"
	"strings"
	"unicode"
)

// UserAttribute is a named user field a candidate password is compared
// against, e.g. {"email", "john@example.com"}.
type UserAttribute struct {
	Name  string
	Value string
}

// Policy is the password strength policy applied at registration and on
// password change.
type Policy struct {
	MinLength int
}

// DefaultPolicy returns the policy used across the application.
func DefaultPolicy() *Policy {
	return &Policy{MinLength: 9}
}

// Validate checks the candidate password against the policy and returns one
// human-readable message per violated rule. attrs are the user's other
// attributes the password must not resemble.
func (p *Policy) Validate(candidate string, attrs ...UserAttribute) []string {
	var msgs []string

	if len(candidate) < p.MinLength {
		msgs = append(msgs, fmt.Sprintf(
			"this password is too short, it must contain at least %d characters", p.MinLength))
	}
	if isNumeric(candidate) {
		msgs = append(msgs, "this password is entirely numeric")
	}
	if _, common := commonPasswords[strings.ToLower(candidate)]; common {
		msgs = append(msgs, "this password is too common")
	}
	for _, attr := range attrs {
		if tooSimilar(candidate, attr.Value) {
			msgs = append(msgs, "the password is too similar to the "+attr.Name)
		}
	}
	return msgs
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// tooSimilar reports whether the password overlaps a user attribute. The
// attribute is split on non-alphanumeric runes; any piece of four or more
// characters contained in the password (or containing it) counts as similar.
func tooSimilar(candidate, attr string) bool {
	candidate = strings.ToLower(candidate)
	attr = strings.ToLower(strings.TrimSpace(attr))
	if attr == "" {
		return false
	}
	pieces := strings.FieldsFunc(attr, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	pieces = append(pieces, attr)
	for _, piece := range pieces {
		if len(piece) < 4 {
			continue
		}
		if strings.Contains(candidate, piece) || strings.Contains(piece, candidate) {
			return true
		}
	}
	return false
}
