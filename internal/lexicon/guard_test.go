package lexicon

import (
	"strings"
	"testing"
)

func TestProtectRestoreRoundTrip(t *testing.T) {
	terms := []string{"Vatika", "Udyogi"}
	texts := []string{
		"Welcome to Vatika, home of the udyogi spirit.",
		"vatika VATIKA Vatika",
		"no glossary terms here",
		"",
	}
	for _, text := range texts {
		masked, placeholders := Protect(text, terms)
		if got := Restore(masked, placeholders); got != text {
			t.Fatalf("Restore(Protect(%q)) = %q, want round trip", text, got)
		}
	}
}

func TestProtectPreservesMatchedForm(t *testing.T) {
	masked, placeholders := Protect("say VATIKA twice", []string{"Vatika"})
	if strings.Contains(masked, "VATIKA") {
		t.Fatalf("masked text still contains the term: %q", masked)
	}
	if len(placeholders) != 1 {
		t.Fatalf("placeholders = %d, want 1", len(placeholders))
	}
	for _, original := range placeholders {
		if original != "VATIKA" {
			t.Fatalf("placeholder maps to %q, want the matched form VATIKA", original)
		}
	}
}

func TestProtectLongestTermFirst(t *testing.T) {
	masked, placeholders := Protect("the Vatika Gardens are open", []string{"Vatika", "Vatika Gardens"})
	if len(placeholders) != 1 {
		t.Fatalf("placeholders = %v, want exactly one (longest) match", placeholders)
	}
	for _, original := range placeholders {
		if original != "Vatika Gardens" {
			t.Fatalf("matched %q, want the longer term", original)
		}
	}
	if strings.Contains(masked, "Gardens") {
		t.Fatalf("masked = %q, longer term not fully masked", masked)
	}
}

func TestProtectRespectsWordBoundaries(t *testing.T) {
	masked, placeholders := Protect("suvatikas is not vatika", []string{"vatika"})
	if len(placeholders) != 1 {
		t.Fatalf("placeholders = %v, want one match", placeholders)
	}
	if !strings.HasPrefix(masked, "suvatikas ") {
		t.Fatalf("masked = %q, embedded occurrence must stay", masked)
	}
}

func TestProtectUnicodeBoundaries(t *testing.T) {
	// Devanagari term embedded in a longer word must not match; standalone must.
	masked, placeholders := Protect("यह वाटिका है", []string{"वाटिका"})
	if len(placeholders) != 1 {
		t.Fatalf("placeholders = %v, want one match", placeholders)
	}
	if strings.Contains(masked, "वाटिका") {
		t.Fatalf("masked = %q, term not masked", masked)
	}

	_, placeholders = Protect("महावाटिकाएं", []string{"वाटिका"})
	if len(placeholders) != 0 {
		t.Fatalf("placeholders = %v, embedded Devanagari term must not match", placeholders)
	}
}

func TestProtectEmptyTermsIsNoOp(t *testing.T) {
	masked, placeholders := Protect("some text", nil)
	if masked != "some text" || len(placeholders) != 0 {
		t.Fatalf("Protect with no terms = %q, %v", masked, placeholders)
	}
}

func TestRestoreIdempotentWithoutPlaceholders(t *testing.T) {
	out := Restore("plain text", map[string]string{"##GLOSSARY_0##": "Vatika"})
	if out != "plain text" {
		t.Fatalf("Restore() = %q, want unchanged", out)
	}
}

func TestNormalizeAppliesRulesInOrder(t *testing.T) {
	rules := []Rule{
		{Search: "colour", Replace: "color"},
		{Search: "color", Replace: "colr"},
	}
	if got := Normalize("Colour", rules); got != "colr" {
		t.Fatalf("Normalize() = %q, want %q (ordered application)", got, "colr")
	}
}

func TestNormalizeSkipsInvalidRule(t *testing.T) {
	rules := []Rule{
		{Search: "good", Replace: "fine"},
		{Search: "(unclosed", Replace: "x"},
		{Search: "still", Replace: "yet"},
	}
	if got := Normalize("good and still good", rules); got != "fine and yet fine" {
		t.Fatalf("Normalize() = %q, rules after the invalid one must still run", got)
	}
}

func TestNormalizeEmptyRulesIsIdentity(t *testing.T) {
	if got := Normalize("unchanged", nil); got != "unchanged" {
		t.Fatalf("Normalize() = %q, want identity", got)
	}
}

func TestNormalizeIsCaseInsensitive(t *testing.T) {
	rules := []Rule{{Search: "namaste", Replace: "नमस्ते"}}
	if got := Normalize("NAMASTE friend", rules); got != "नमस्ते friend" {
		t.Fatalf("Normalize() = %q", got)
	}
}
