// Package quality scores title and description against structural content
// heuristics: spam patterns, keyboard noise, missing sentence structure and
// length floors. Banned-content findings from the hygiene analyzer are folded
// in as high-severity issues, tagged with the field they came from.
package quality

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"listing-moderation/internal/models"
	"listing-moderation/internal/moderation/textcheck"
)

type Severity int

const (
	High Severity = iota
	Medium
	Low
)

// Severity penalties and the issue threshold.
const (
	HighPenalty    = 40.0
	MediumPenalty  = 20.0
	LowPenalty     = 10.0
	IssueThreshold = 70.0
)

const (
	minTitleLen        = 10
	minDescriptionLen  = 30
	goodDescriptionLen = 100
	minWordCount       = 5
	minAlphaRatio      = 0.3
	maxDominantRatio   = 0.5
)

var (
	consonantRun   = regexp.MustCompile(`(?i)[bcdfghjklmnpqrstvwxyz]{5,}`)
	lettersOnlyRun = regexp.MustCompile(`(?i)^[a-z]{10,}$`)
)

// check is one scoring heuristic: it inspects title and description and
// returns zero or more issue messages at a fixed severity.
type check struct {
	severity Severity
	eval     func(title, description string) []string
}

type Scorer struct {
	checks []check
}

func New(analyzer *textcheck.Analyzer) *Scorer {
	return &Scorer{checks: buildChecks(analyzer)}
}

// Score evaluates every check in order and folds the severity counts into
// score = max(0, 100 - 40*high - 20*medium - 10*low).
func (s *Scorer) Score(title, description string) models.LayerResult {
	buckets := map[Severity][]string{}

	for _, c := range s.checks {
		if msgs := c.eval(title, description); len(msgs) > 0 {
			buckets[c.severity] = append(buckets[c.severity], msgs...)
		}
	}

	score := models.ClampScore(100 -
		HighPenalty*float64(len(buckets[High])) -
		MediumPenalty*float64(len(buckets[Medium])) -
		LowPenalty*float64(len(buckets[Low])))

	issues := make([]string, 0, len(buckets[High])+len(buckets[Medium])+len(buckets[Low]))
	issues = append(issues, buckets[High]...)
	issues = append(issues, buckets[Medium]...)
	issues = append(issues, buckets[Low]...)

	reason := "content quality acceptable"
	if len(issues) > 0 {
		reason = fmt.Sprintf("%d content quality issues found", len(issues))
	}

	return models.LayerResult{
		Score:  score,
		Passed: score >= IssueThreshold,
		Reason: reason,
		Issues: issues,
	}
}

func buildChecks(analyzer *textcheck.Analyzer) []check {
	return []check{
		{High, func(title, _ string) []string {
			return tagIssues("title", analyzer.Check(title))
		}},
		{High, func(_, description string) []string {
			return tagIssues("description", analyzer.Check(description))
		}},
		{High, func(title, _ string) []string {
			if pattern, ok := repeatedSubstring(title); ok {
				return []string{fmt.Sprintf("title contains a repeated character sequence (spam pattern %q)", pattern)}
			}
			return nil
		}},
		{High, func(title, _ string) []string {
			if runs := consonantRun.FindAllString(title, -1); len(runs) > 0 {
				return []string{fmt.Sprintf("title contains a meaningless consonant run %q", runs[0])}
			}
			return nil
		}},
		{High, func(_, description string) []string {
			if runs := consonantRun.FindAllString(description, -1); len(runs) > 2 {
				return []string{fmt.Sprintf("description contains multiple consonant runs: %q", strings.Join(runs, ", "))}
			}
			return nil
		}},
		{Medium, func(title, _ string) []string {
			if dominantCharRatio(title) > maxDominantRatio {
				return []string{"title has a high repeated-character ratio (>50%)"}
			}
			return nil
		}},
		{High, func(_, description string) []string {
			if lettersOnlyRun.MatchString(strings.TrimSpace(description)) {
				return []string{"description is an unbroken letter sequence with no words"}
			}
			return nil
		}},
		{High, func(_, description string) []string {
			if mostlyNonAlphabetic(description) {
				return []string{"description is mostly digits or symbols"}
			}
			return nil
		}},
		{High, func(_, description string) []string {
			if utf8.RuneCountInString(description) >= minDescriptionLen && len(strings.Fields(description)) < minWordCount {
				return []string{fmt.Sprintf("description has no real sentence structure (fewer than %d words)", minWordCount)}
			}
			return nil
		}},
		{High, func(title, _ string) []string {
			if utf8.RuneCountInString(title) < minTitleLen {
				return []string{fmt.Sprintf("title too short (< %d characters)", minTitleLen)}
			}
			return nil
		}},
		{High, func(_, description string) []string {
			if utf8.RuneCountInString(description) < minDescriptionLen {
				return []string{fmt.Sprintf("description too short (< %d characters)", minDescriptionLen)}
			}
			return nil
		}},
		{Medium, func(_, description string) []string {
			if utf8.RuneCountInString(description) < goodDescriptionLen {
				return []string{fmt.Sprintf("description lacks detail (< %d characters)", goodDescriptionLen)}
			}
			return nil
		}},
	}
}

func tagIssues(field string, issues []string) []string {
	tagged := make([]string, 0, len(issues))
	for _, issue := range issues {
		tagged = append(tagged, fmt.Sprintf("[%s] %s", field, issue))
	}
	return tagged
}

// repeatedSubstring finds the leftmost substring of length >= 3 that is
// immediately repeated, preferring the longest repeat at each position.
// RE2 has no backreferences, so this is a direct scan.
func repeatedSubstring(text string) (string, bool) {
	r := []rune(text)
	for i := 0; i < len(r); i++ {
		maxLen := (len(r) - i) / 2
		for l := maxLen; l >= 3; l-- {
			if string(r[i:i+l]) == string(r[i+l:i+2*l]) {
				return string(r[i : i+l]), true
			}
		}
	}
	return "", false
}

// dominantCharRatio returns the share of the title taken by its single most
// frequent character, whitespace included.
func dominantCharRatio(title string) float64 {
	counts := map[rune]int{}
	total := 0
	for _, r := range strings.ToLower(title) {
		counts[r]++
		total++
	}
	if total == 0 {
		return 0
	}
	max := 0
	for _, n := range counts {
		if n > max {
			max = n
		}
	}
	return float64(max) / float64(total)
}

// mostlyNonAlphabetic reports whether letters make up less than 30% of the
// non-whitespace characters.
func mostlyNonAlphabetic(description string) bool {
	var letters, total int
	for _, r := range description {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return total > 0 && float64(letters)/float64(total) < minAlphaRatio
}
