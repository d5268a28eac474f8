package lexicon

import (
	"fmt"
	"log"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Rule is one ordered post-translation rewrite. Rules apply case-insensitively
// in load order.
type Rule struct {
	Search  string `json:"search"`
	Replace string `json:"replace"`
}

const placeholderFormat = "##GLOSSARY_%d##"

// Protect masks glossary terms with placeholder tokens so the translation
// engine cannot alter them. Matching is case-insensitive on word boundaries,
// longest term first so a short term never shadows part of a longer one. The
// returned map preserves the matched form of each term, not its canonical
// spelling.
func Protect(text string, terms []string) (string, map[string]string) {
	placeholders := make(map[string]string)
	if text == "" || len(terms) == 0 {
		return text, placeholders
	}

	sorted := make([]string, 0, len(terms))
	for _, term := range terms {
		if term != "" {
			sorted = append(sorted, term)
		}
	}
	if len(sorted) == 0 {
		return text, placeholders
	}
	// Go's regexp prefers the leftmost alternative, so longest-first ordering
	// gives longest-match semantics.
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })

	escaped := make([]string, len(sorted))
	for i, term := range sorted {
		escaped[i] = regexp.QuoteMeta(term)
	}
	pattern := regexp.MustCompile("(?i)(" + strings.Join(escaped, "|") + ")")

	var out strings.Builder
	last := 0
	for _, loc := range pattern.FindAllStringIndex(text, -1) {
		if !onWordBoundary(text, loc[0], loc[1]) {
			continue
		}
		placeholder := fmt.Sprintf(placeholderFormat, len(placeholders))
		placeholders[placeholder] = text[loc[0]:loc[1]]
		out.WriteString(text[last:loc[0]])
		out.WriteString(placeholder)
		last = loc[1]
	}
	out.WriteString(text[last:])
	return out.String(), placeholders
}

// Restore replaces placeholders with the original matched terms. It is a
// literal substring replacement and a no-op when no placeholders remain.
func Restore(text string, placeholders map[string]string) string {
	for placeholder, original := range placeholders {
		text = strings.ReplaceAll(text, placeholder, original)
	}
	return text
}

// Normalize applies the rules in order. A rule with an invalid pattern, or one
// that fails mid-application, is logged and skipped; the rules after it still
// run. An empty rule list is the identity.
func Normalize(text string, rules []Rule) string {
	for _, rule := range rules {
		text = applyRule(text, rule)
	}
	return text
}

func applyRule(text string, rule Rule) (out string) {
	out = text
	// Normalization is best effort: one bad rule must not discard the rest.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("normalization rule %q failed: %v", rule.Search, r)
			out = text
		}
	}()

	re, err := regexp.Compile("(?i)" + rule.Search)
	if err != nil {
		log.Printf("invalid normalization rule %q: %v", rule.Search, err)
		return text
	}
	return re.ReplaceAllString(text, rule.Replace)
}

// onWordBoundary reports whether the match at [start, end) is not embedded in
// a longer word. RE2's \b is ASCII-only, so boundaries are checked rune-wise
// to cover Devanagari and other non-Latin scripts.
func onWordBoundary(s string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(s) {
		r, _ := utf8.DecodeRuneInString(s[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	// Combining marks count as word runes so a match never splits a Devanagari
	// cluster from its matra.
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}
