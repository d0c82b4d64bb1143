package comparison

import (
	"regexp"
	"strings"
)

// preambleSection holds text that appears before the first heading.
const preambleSection = "Preamble"

var headingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d+\.\s+[A-Z][^\n]+`),
	regexp.MustCompile(`(?i)^SECTION\s+\d+[^\n]+`),
	regexp.MustCompile(`(?i)^Article\s+[IVX]+[^\n]+`),
}

func isHeading(line string) bool {
	for _, p := range headingPatterns {
		if p.MatchString(line) {
			return true
		}
	}
	return false
}

// splitSections breaks a document into named sections. Headings are numbered
// lines ("1. Definitions"), "SECTION n ..." or "Article <roman> ...". The
// returned order lists section names by first appearance; a repeated heading
// keeps only its last body. Sections with blank bodies are dropped.
func splitSections(content string) ([]string, map[string]string) {
	sections := map[string]string{}
	var order []string

	save := func(name, body string) {
		body = strings.TrimSpace(body)
		if body == "" {
			return
		}
		if _, seen := sections[name]; !seen {
			order = append(order, name)
		}
		sections[name] = body
	}

	current := preambleSection
	var buf strings.Builder
	for _, line := range strings.Split(content, "\n") {
		if isHeading(line) {
			save(current, buf.String())
			current = strings.TrimSpace(line)
			buf.Reset()
			continue
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	save(current, buf.String())

	return order, sections
}
