// Package lexicon holds the curated banned-term and spam-pattern tables used
// by banned-content detection. The tables are loaded once at process start
// and are strictly read-only afterwards, so one Lexicon is safe to share
// across arbitrarily many concurrent moderation runs.
package lexicon

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"listing-moderation/internal/common/errors"
)

// defaultBannedTerms covers profanity, abuse, scam phrasing and commercial
// spam in Vietnamese (both accented and unaccented spellings) plus common
// English terms. Matching happens on diacritic-stripped text, which is why
// most entries carry an unaccented variant.
var defaultBannedTerms = []string{
	// profanity
	"dit", "djt", "dm", "deo", "du", "cac", "cak", "lon",
	"buoi", "chich", "vai", "vlon", "vcl", "cc", "clgt", "clmm",
	"fuck", "shit", "bitch", "ass", "dick", "pussy", "damn", "hell",

	// abuse
	"heo", "di", "suc vat", "suc sinh", "do ngu", "ngu ngoc",
	"oc cho", "mat day", "thang cho", "con cho", "thang lon", "con lon",
	"do khon", "ngu si", "ngao", "ngu dot", "dan don", "ngu nguoi",
	"dien khung",

	// scam and solicitation
	"lua dao", "scam", "an cap", "trom cap",
	"kiem tien nhanh", "lam giau", "da cap", "mlm",
	"doi no", "cho vay", "vay tien", "bitcoin", "forex",
	"co bac", "ca cuoc", "casino", "song bac",

	// commercial spam
	"inbox", "zalo ngay", "lien he ngay", "click ngay", "dang ky ngay",
	"mua ngay", "khuyen mai", "giam gia", "free", "mien phi 100%",
}

// defaultSpamPatterns flags runs of repeated punctuation/symbol characters.
var defaultSpamPatterns = []string{
	`[!@#$%^&*]{3,}`,
	`[.]{4,}`,
	`[?]{3,}`,
	`[~]{3,}`,
}

// Lexicon is an immutable, precompiled set of banned terms and spam-symbol
// patterns.
type Lexicon struct {
	terms        []string
	termMatchers []*regexp.Regexp
	spamMatchers []*regexp.Regexp
}

// lexiconFile is the on-disk JSON shape accepted by Load.
type lexiconFile struct {
	BannedTerms  []string `json:"bannedTerms"`
	SpamPatterns []string `json:"spamPatterns"`
}

// New compiles a lexicon from explicit term and pattern lists.
func New(terms, spamPatterns []string) (*Lexicon, error) {
	if len(terms) == 0 {
		return nil, errors.NewLexiconLoadError(fmt.Errorf("banned term list is empty"))
	}
	if len(spamPatterns) == 0 {
		return nil, errors.NewLexiconLoadError(fmt.Errorf("spam pattern list is empty"))
	}

	lex := &Lexicon{
		terms:        make([]string, 0, len(terms)),
		termMatchers: make([]*regexp.Regexp, 0, len(terms)),
		spamMatchers: make([]*regexp.Regexp, 0, len(spamPatterns)),
	}

	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		// Whole-word match only: a term must not fire inside a longer
		// unrelated word.
		matcher, err := regexp.Compile(`\b` + regexp.QuoteMeta(term) + `\b`)
		if err != nil {
			return nil, errors.NewLexiconLoadError(fmt.Errorf("compile term %q: %w", term, err))
		}
		lex.terms = append(lex.terms, term)
		lex.termMatchers = append(lex.termMatchers, matcher)
	}

	for _, pattern := range spamPatterns {
		matcher, err := regexp.Compile(pattern)
		if err != nil {
			return nil, errors.NewLexiconLoadError(fmt.Errorf("compile spam pattern %q: %w", pattern, err))
		}
		lex.spamMatchers = append(lex.spamMatchers, matcher)
	}

	return lex, nil
}

// Default returns the built-in lexicon.
func Default() *Lexicon {
	lex, err := New(defaultBannedTerms, defaultSpamPatterns)
	if err != nil {
		// The built-in tables are static; failing to compile them is a
		// programming error, not a runtime condition.
		panic(err)
	}
	return lex
}

// Load reads a lexicon from a JSON file. Any failure here is fatal to
// pipeline construction: the analyzers cannot run without their tables.
func Load(path string) (*Lexicon, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewLexiconLoadError(fmt.Errorf("read %s: %w", path, err))
	}

	var file lexiconFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, errors.NewLexiconLoadError(fmt.Errorf("parse %s: %w", path, err))
	}

	return New(file.BannedTerms, file.SpamPatterns)
}

// MatchTerms returns the banned terms present in normalized text as whole
// words, in lexicon order. One match per distinct term.
func (l *Lexicon) MatchTerms(normalized string) []string {
	var found []string
	for i, matcher := range l.termMatchers {
		if matcher.MatchString(normalized) {
			found = append(found, l.terms[i])
		}
	}
	return found
}

// MatchSpamRuns returns every symbol run in text that matches a spam pattern.
func (l *Lexicon) MatchSpamRuns(text string) []string {
	var runs []string
	for _, matcher := range l.spamMatchers {
		runs = append(runs, matcher.FindAllString(text, -1)...)
	}
	return runs
}

// TermCount reports the number of compiled banned terms.
func (l *Lexicon) TermCount() int {
	return len(l.terms)
}
