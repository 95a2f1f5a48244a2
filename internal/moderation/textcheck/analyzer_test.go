// internal/moderation/textcheck/analyzer_test.go
package textcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listing-moderation/internal/moderation/lexicon"
)

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	return New(lexicon.Default())
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercases", "PHONG TRO", "phong tro"},
		{"strips diacritics", "Phòng trọ sạch sẽ", "phong tro sach se"},
		{"maps stroked d", "Đường Điện Biên Phủ", "duong dien bien phu"},
		{"mixed accents and case", "LỪA ĐẢO", "lua dao"},
		{"ascii untouched", "gia re quan 7", "gia re quan 7"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestCheck_BannedTerms(t *testing.T) {
	analyzer := newTestAnalyzer(t)

	// Accented spelling must still hit the unaccented lexicon entry.
	issues := analyzer.Check("Nhà này chuyên lừa đảo")

	require.Len(t, issues, 1)
	assert.Contains(t, issues[0], `disallowed term "lua dao"`)
}

func TestCheck_SpamSymbolRuns(t *testing.T) {
	analyzer := newTestAnalyzer(t)

	issues := analyzer.Check("Gia cuc re!!! Lien he ngay....")

	// "lien he ngay" is itself a banned solicitation term, plus one joined
	// symbol-run issue.
	require.Len(t, issues, 2)
	assert.Contains(t, issues[0], "lien he ngay")
	assert.Contains(t, issues[1], "excessive special characters")
	assert.Contains(t, issues[1], "!!!")
	assert.Contains(t, issues[1], "....")
}

func TestCheck_Shouting(t *testing.T) {
	analyzer := newTestAnalyzer(t)

	tests := []struct {
		name     string
		text     string
		shouting bool
	}{
		{"all caps long text", "PHONG TRO GIA RE QUAN BINH THANH", true},
		{"short caps skipped", "GIA RE", false},
		{"mostly lowercase", "Phong tro gia re quan Binh Thanh", false},
		{"caps just over ten letters", "ABCDEFGHIJK", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found := false
			for _, issue := range analyzer.Check(tt.text) {
				if issue == "excessive uppercase (shouting)" {
					found = true
				}
			}
			assert.Equal(t, tt.shouting, found)
		})
	}
}

func TestCheck_CleanText(t *testing.T) {
	analyzer := newTestAnalyzer(t)

	issues := analyzer.Check("Phong tro gan truong dai hoc, gio giac tu do, an ninh tot")

	assert.Empty(t, issues)
}
