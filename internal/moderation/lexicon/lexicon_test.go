// internal/moderation/lexicon/lexicon_test.go
package lexicon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listing-moderation/internal/common/errors"
)

func TestDefault(t *testing.T) {
	lex := Default()

	require.NotNil(t, lex)
	assert.Greater(t, lex.TermCount(), 50)
}

func TestNew_EmptyLists(t *testing.T) {
	tests := []struct {
		name     string
		terms    []string
		patterns []string
	}{
		{"no terms", nil, defaultSpamPatterns},
		{"no patterns", defaultBannedTerms, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lex, err := New(tt.terms, tt.patterns)

			require.Error(t, err)
			assert.Nil(t, lex)

			stdErr, ok := err.(*errors.StandardError)
			require.True(t, ok)
			assert.Equal(t, errors.ErrCodeLexiconLoadFailed, stdErr.Code)
		})
	}
}

func TestNew_InvalidSpamPattern(t *testing.T) {
	lex, err := New([]string{"scam"}, []string{`[unterminated`})

	require.Error(t, err)
	assert.Nil(t, lex)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lexicon.json")
	content := `{"bannedTerms": ["lua dao", "scam"], "spamPatterns": ["[!]{3,}"]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	lex, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 2, lex.TermCount())
	assert.Equal(t, []string{"lua dao"}, lex.MatchTerms("nha nay lua dao"))
}

func TestLoad_Failures(t *testing.T) {
	dir := t.TempDir()
	badJSON := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(badJSON, []byte("{not json"), 0o644))

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "nope.json")},
		{"malformed json", badJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lex, err := Load(tt.path)

			require.Error(t, err)
			assert.Nil(t, lex)

			stdErr, ok := err.(*errors.StandardError)
			require.True(t, ok)
			assert.Equal(t, errors.ErrCodeLexiconLoadFailed, stdErr.Code)
		})
	}
}

func TestMatchTerms_WholeWordOnly(t *testing.T) {
	lex := Default()

	tests := []struct {
		name       string
		normalized string
		expected   []string
	}{
		{
			name:       "phrase match",
			normalized: "nha nay chuyen lua dao nguoi thue",
			expected:   []string{"lua dao"},
		},
		{
			name:       "term inside a longer word does not fire",
			normalized: "khu vuc long thanh my",
			expected:   nil,
		},
		{
			name:       "multiple distinct terms in lexicon order",
			normalized: "lua dao da cap",
			expected:   []string{"lua dao", "da cap"},
		},
		{
			name:       "clean text",
			normalized: "phong tro sach dep gan truong dai hoc",
			expected:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, lex.MatchTerms(tt.normalized))
		})
	}
}

func TestMatchTerms_OncePerTerm(t *testing.T) {
	lex := Default()

	found := lex.MatchTerms("scam scam scam")

	assert.Equal(t, []string{"scam"}, found)
}

func TestMatchSpamRuns(t *testing.T) {
	lex := Default()

	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{"exclamation run", "Gia re!!!", []string{"!!!"}},
		{"dot run needs four", "Lien he....", []string{"...."}},
		{"three dots pass", "Lien he...", nil},
		{"question run", "Tai sao??? ", []string{"???"}},
		{"clean", "Phong dep, gia tot.", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, lex.MatchSpamRuns(tt.text))
		})
	}
}
