package router

import (
	"regexp"
	"strings"
)

// Pagination directions. An empty string means the question is not a
// pagination command.
const (
	DirectionNext     = "next"
	DirectionPrevious = "previous"
)

// Leading indicators must start the question; phrase indicators may appear
// anywhere. The next set is checked before the previous set, first match wins.
var (
	nextLeading = []string{"next page", "next", "show more", "more"}
	nextPhrases = []string{"more results", "next set"}

	prevLeading = []string{"previous page", "previous", "prev"}
	prevPhrases = []string{"go back", "back"}
)

var paginationNormRe = regexp.MustCompile(`[^a-z0-9]+`)

// DetectPaginationDirection inspects a question for pagination commands
// before any intent classification runs, so "next" never reaches the
// classifier. Returns DirectionNext, DirectionPrevious or "".
func DetectPaginationDirection(question string) string {
	normalized := strings.TrimSpace(paginationNormRe.ReplaceAllString(strings.ToLower(question), " "))
	if normalized == "" {
		return ""
	}
	padded := " " + normalized + " "

	for _, lead := range nextLeading {
		if hasLeadingWords(normalized, lead) {
			return DirectionNext
		}
	}
	for _, phrase := range nextPhrases {
		if strings.Contains(padded, " "+phrase+" ") {
			return DirectionNext
		}
	}
	for _, lead := range prevLeading {
		if hasLeadingWords(normalized, lead) {
			return DirectionPrevious
		}
	}
	for _, phrase := range prevPhrases {
		if strings.Contains(padded, " "+phrase+" ") {
			return DirectionPrevious
		}
	}
	return ""
}

// hasLeadingWords matches a word-aligned prefix: "next" matches "next 10
// rows" but not "nextel coverage".
func hasLeadingWords(normalized, prefix string) bool {
	if normalized == prefix {
		return true
	}
	return strings.HasPrefix(normalized, prefix+" ")
}
