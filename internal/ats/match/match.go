// internal/ats/match/match.go

// Package match tests resolved skill tokens for presence in resume text.
package match

import (
	"regexp"
	"strings"
)

// Result carries the match count and the matched tokens for diagnostics.
type Result struct {
	MatchedCount  int
	MatchedTokens []string
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Normalize lower-cases text and collapses whitespace runs to single spaces.
func Normalize(text string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(text), " ")
}

// Match counts how many vocabulary tokens are present in the resume text.
// Presence is a word-boundary regex test on the token with metacharacters
// escaped; tokens whose boundaries are ambiguous due to punctuation (c++,
// c#) fall back to plain substring containment. A token matching either way
// counts once. Matched tokens are reported in vocabulary order.
func Match(vocabulary []string, resumeText string) Result {
	normalized := Normalize(resumeText)

	res := Result{}
	for _, token := range vocabulary {
		if containsToken(normalized, token) {
			res.MatchedCount++
			res.MatchedTokens = append(res.MatchedTokens, token)
		}
	}
	return res
}

func containsToken(normalized, token string) bool {
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(token) + `\b`)
	if err == nil && re.MatchString(normalized) {
		return true
	}
	return strings.Contains(normalized, token)
}
