package router

import (
	"regexp"
	"strings"

	"hr-assistant-be/pkg/store"
)

// ReferenceResolver rewrites follow-up questions like "what about his sick
// leaves?" by appending the most recent proper name found in the session
// history. Resolution is best-effort text rewriting only; when no referent
// or no name is found, the question passes through unchanged.
type ReferenceResolver struct{}

func NewReferenceResolver() *ReferenceResolver {
	return &ReferenceResolver{}
}

var referentRe = regexp.MustCompile(`(?i)\b(his|her|their|him|them|he|she|they|that\s+(?:person|employee|user)|the\s+same\s+(?:person|employee|user))\b`)

// questionNameRe finds a capitalized word that is not the first word of the
// question, which is a good-enough signal that the question already names
// someone.
var questionNameRe = regexp.MustCompile(`\S\s+([A-Z][a-z]+)\b`)

// historyNamePatterns are tried in order against each history turn, newest
// first. The prepositional form is the strongest signal ("leaves of Hamid",
// "logs for Rashed Ka").
var historyNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(?:of|for|about)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`),
	regexp.MustCompile(`\S\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)+)\b`),
	regexp.MustCompile(`\S\s+([A-Z][a-z]+)\b`),
}

// Resolve returns the question to hand to SQL generation. The original
// question is returned untouched unless it refers back to someone without
// naming them and the history yields a candidate name.
func (r *ReferenceResolver) Resolve(question string, history []store.Turn) string {
	if !referentRe.MatchString(question) {
		return question
	}
	if questionNameRe.MatchString(question) {
		return question
	}

	name := latestNameIn(history)
	if name == "" {
		return question
	}
	return strings.TrimRight(strings.TrimSpace(question), "?.!") + " for " + name
}

func latestNameIn(history []store.Turn) string {
	for i := len(history) - 1; i >= 0; i-- {
		for _, pattern := range historyNamePatterns {
			if m := pattern.FindStringSubmatch(history[i].Content); m != nil {
				return m[1]
			}
		}
	}
	return ""
}
