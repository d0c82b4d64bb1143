// Package comparison computes field-level differences between two versions of
// a loan document, from their extracted terms and from their section text.
package comparison

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"loanops/internal/model"
)

// MaxValueChars bounds old/new values carried in a difference.
const MaxValueChars = 200

var (
	criticalKeywords = []string{"covenant", "default", "event of default", "interest rate", "maturity", "principal", "mandatory prepayment"}
	highKeywords     = []string{"fee", "payment", "collateral", "guarantee", "security", "representation", "warranty"}
	mediumKeywords   = []string{"notice", "consent", "approval", "reporting"}

	percentPattern = regexp.MustCompile(`\d+\.?\d*%`)
	dollarPattern  = regexp.MustCompile(`\$[\d,]+`)
)

// Compare returns term differences followed by section differences.
// The result is never nil.
func Compare(oldText, newText string, oldTerms, newTerms map[string]any) []model.Difference {
	diffs := CompareTerms(oldTerms, newTerms)
	return append(diffs, CompareSections(oldText, newText)...)
}

// CompareSections diffs two documents section by section. Sections are
// reported in order of first appearance in the old document, then new ones.
func CompareSections(oldText, newText string) []model.Difference {
	oldOrder, oldSecs := splitSections(oldText)
	newOrder, newSecs := splitSections(newText)

	names := append([]string(nil), oldOrder...)
	for _, n := range newOrder {
		if _, ok := oldSecs[n]; !ok {
			names = append(names, n)
		}
	}

	diffs := make([]model.Difference, 0)
	for _, name := range names {
		before, hadBefore := oldSecs[name]
		after, hasAfter := newSecs[name]

		switch {
		case !hadBefore && hasAfter:
			diffs = append(diffs, model.Difference{
				Field:        name,
				Change:       model.ChangeAdded,
				NewValue:     truncate(after),
				Significance: Significance(name, after, ""),
				Explanation:  fmt.Sprintf("New section %q added to the document", name),
			})
		case hadBefore && !hasAfter:
			diffs = append(diffs, model.Difference{
				Field:        name,
				Change:       model.ChangeRemoved,
				OldValue:     truncate(before),
				Significance: Significance(name, "", before),
				Explanation:  fmt.Sprintf("Section %q removed from the document", name),
			})
		case before != after:
			diffs = append(diffs, model.Difference{
				Field:        name,
				Change:       model.ChangeModified,
				OldValue:     truncate(before),
				NewValue:     truncate(after),
				Significance: Significance(name, after, before),
				Explanation:  explainChange(before, after),
			})
		}
	}
	return diffs
}

// Significance grades a change by keyword tier, checking the section name and
// the new text (or the old text when there is no new text).
func Significance(section, newText, oldText string) model.Severity {
	text := newText
	if text == "" {
		text = oldText
	}
	text = strings.ToLower(text)
	section = strings.ToLower(section)

	contains := func(keywords []string) bool {
		for _, k := range keywords {
			if strings.Contains(text, k) || strings.Contains(section, k) {
				return true
			}
		}
		return false
	}

	switch {
	case contains(criticalKeywords):
		return model.SeverityCritical
	case contains(highKeywords):
		return model.SeverityHigh
	case contains(mediumKeywords):
		return model.SeverityMedium
	default:
		return model.SeverityLow
	}
}

func explainChange(before, after string) string {
	b, a := float64(utf8.RuneCountInString(before)), float64(utf8.RuneCountInString(after))
	switch {
	case b < a*0.5:
		return "Significant expansion of content in this section"
	case a < b*0.5:
		return "Significant reduction of content in this section"
	case percentPattern.MatchString(after) && percentPattern.MatchString(before):
		return "Percentage value changed in this section"
	case dollarPattern.MatchString(after) && dollarPattern.MatchString(before):
		return "Dollar amount modified in this section"
	default:
		return "Content modified with similar length"
	}
}

func truncate(s string) string {
	if utf8.RuneCountInString(s) <= MaxValueChars {
		return s
	}
	return string([]rune(s)[:MaxValueChars]) + "..."
}
