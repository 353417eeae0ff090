package domain

import (
	"regexp"
	"strings"
)

var (
	arrowGlyphs  = strings.NewReplacer("→", "->", "—", "->", "–", "->")
	arrowSpacing = regexp.MustCompile(`\s*->\s*`)
	runsOfSpaces = regexp.MustCompile(`\s+`)
)

// NormalizeTitle folds a title for comparison.
func NormalizeTitle(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeLabel folds a rendered link label ("A -> B") for comparison:
// arrow glyphs become "->", spacing around arrows is dropped and whitespace
// runs collapse to one space.
func NormalizeLabel(s string) string {
	s = arrowGlyphs.Replace(strings.ToLower(s))
	s = arrowSpacing.ReplaceAllString(s, "->")
	s = runsOfSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// LinkLabel is the human label of a link between two titled entities.
func LinkLabel(fromTitle, toTitle string) string {
	return fromTitle + " -> " + toTitle
}
