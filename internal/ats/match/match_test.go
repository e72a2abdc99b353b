// internal/ats/match/match_test.go
package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "React Developer", "react developer"},
		{"collapses runs", "a  b\t\tc\n\nd", "a b c d"},
		{"mixed", "Senior\n GO \t Engineer", "senior go engineer"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestMatch_WordBoundary(t *testing.T) {
	res := Match([]string{"go", "java"}, "5 years of Go and Java development")

	assert.Equal(t, 2, res.MatchedCount)
	assert.Equal(t, []string{"go", "java"}, res.MatchedTokens)
}

func TestMatch_MetacharacterTokens(t *testing.T) {
	// c++ and c# must match despite regex metacharacters; the boundary regex
	// cannot anchor after punctuation so the substring fallback covers them.
	res := Match([]string{"c++", "c#"}, "Systems programming in C++ and C# since 2015")

	assert.Equal(t, 2, res.MatchedCount)
	assert.Contains(t, res.MatchedTokens, "c++")
	assert.Contains(t, res.MatchedTokens, "c#")
}

func TestMatch_DottedToken(t *testing.T) {
	// node.js contains a dot which must be escaped, otherwise "nodexjs"
	// style text would match.
	res := Match([]string{"node.js"}, "Backend built on Node.js")
	assert.Equal(t, 1, res.MatchedCount)

	res = Match([]string{"node.js"}, "Backend built on nodexjs")
	assert.Equal(t, 0, res.MatchedCount)
}

func TestMatch_NoMatches(t *testing.T) {
	res := Match([]string{"react", "vue"}, "Accountant with spreadsheet experience")

	assert.Equal(t, 0, res.MatchedCount)
	assert.Empty(t, res.MatchedTokens)
}

func TestMatch_EmptyVocabulary(t *testing.T) {
	res := Match(nil, "any text at all")

	assert.Equal(t, 0, res.MatchedCount)
	assert.Empty(t, res.MatchedTokens)
}

func TestMatch_CaseAndWhitespaceInsensitive(t *testing.T) {
	res := Match([]string{"react", "docker"}, "REACT\n\n  and   DoCkEr")

	assert.Equal(t, 2, res.MatchedCount)
}

func TestMatch_CountNeverExceedsVocabularySize(t *testing.T) {
	vocabulary := []string{"go", "go"}
	// Even a duplicated token (which the resolver prevents upstream) counts
	// per vocabulary entry, never more.
	res := Match(vocabulary, "go go go go")
	assert.LessOrEqual(t, res.MatchedCount, len(vocabulary))
}

func TestMatch_MultiWordToken(t *testing.T) {
	res := Match([]string{"spring boot", "github actions"}, "Deployed Spring Boot services via GitHub Actions")

	assert.Equal(t, 2, res.MatchedCount)
}
