package simplecms

import (
	"strings"
)

const (
	// WordsPerMinute is the reading speed used by ReadTime.
	WordsPerMinute = 200

	// ExcerptWords is the number of leading words kept by Excerpt.
	ExcerptWords = 40

	// ExcerptSuffix is appended to every excerpt, short content included.
	ExcerptSuffix = "..."

	// DefaultAuthor is used when neither the identity nor the configuration
	// provides an author name.
	DefaultAuthor = "Admin"
)

// WordCount counts whitespace-delimited tokens in content.
func WordCount(content string) int {
	return len(strings.Fields(content))
}

// ReadTime estimates reading time in whole minutes, rounding up.
func ReadTime(content string) int {
	words := WordCount(content)
	return (words + WordsPerMinute - 1) / WordsPerMinute
}

// Excerpt returns the first ExcerptWords words of content joined by single
// spaces, followed by ExcerptSuffix.
func Excerpt(content string) string {
	words := strings.Fields(content)
	if len(words) > ExcerptWords {
		words = words[:ExcerptWords]
	}
	return strings.Join(words, " ") + ExcerptSuffix
}

// ResolveAuthor returns the identity's display name, or fallback when the
// identity has none.
func ResolveAuthor(identity *Identity, fallback string) string {
	if identity != nil {
		if name := strings.TrimSpace(identity.Name); name != "" {
			return name
		}
	}
	if fallback == "" {
		return DefaultAuthor
	}
	return fallback
}

// SplitTechStack turns "go, postgres,,react" into ["go" "postgres" "react"].
// Empty input yields an empty, non-nil slice.
func SplitTechStack(raw string) []string {
	stack := []string{}
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			stack = append(stack, part)
		}
	}
	return stack
}
