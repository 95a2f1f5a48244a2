// Package textcheck flags banned terms, spam symbol runs and shouting in a
// single text field. It is a pure function of the text and the lexicon and is
// invoked independently on title and description by both the rule validator
// and the content quality scorer.
package textcheck

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"listing-moderation/internal/moderation/lexicon"
)

const (
	// Shouting detection only applies once a field has a meaningful
	// number of letters.
	shoutingMinLetters = 10
	shoutingUpperRatio = 0.7
)

type Analyzer struct {
	lex *lexicon.Lexicon
}

func New(lex *lexicon.Lexicon) *Analyzer {
	return &Analyzer{lex: lex}
}

// stripMarks removes combining diacritical marks after NFD decomposition.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))

// Normalize case-folds text and reduces Vietnamese letters to their base
// Latin form so obfuscated spellings still match the lexicon: diacritics are
// stripped and the stroked đ maps to d.
func Normalize(text string) string {
	lowered := strings.ToLower(text)
	stripped, _, err := transform.String(stripMarks, lowered)
	if err != nil {
		stripped = lowered
	}
	return strings.ReplaceAll(stripped, "đ", "d")
}

// Check returns the ordered list of hygiene issues for one text field.
// An empty slice means the field is clean.
func (a *Analyzer) Check(text string) []string {
	var issues []string

	normalized := Normalize(text)
	for _, term := range a.lex.MatchTerms(normalized) {
		issues = append(issues, fmt.Sprintf("contains disallowed term %q", term))
	}

	if runs := a.lex.MatchSpamRuns(text); len(runs) > 0 {
		issues = append(issues, fmt.Sprintf("excessive special characters: %q", strings.Join(runs, ", ")))
	}

	if isShouting(text) {
		issues = append(issues, "excessive uppercase (shouting)")
	}

	return issues
}

// isShouting reports whether uppercase letters exceed 70% of the alphabetic
// characters in a field with more than 10 letters.
func isShouting(text string) bool {
	var upper, letters int
	for _, r := range text {
		if r >= 'a' && r <= 'z' {
			letters++
		} else if r >= 'A' && r <= 'Z' {
			letters++
			upper++
		}
	}
	return letters > shoutingMinLetters && float64(upper)/float64(letters) > shoutingUpperRatio
}
