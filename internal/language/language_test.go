package language

import "testing"

func TestCounterpartIsInvolutive(t *testing.T) {
	for _, code := range Supported() {
		other, ok := Counterpart(code)
		if !ok {
			t.Fatalf("Counterpart(%q) not defined", code)
		}
		if other == code {
			t.Fatalf("Counterpart(%q) = %q, want a different code", code, other)
		}
		back, ok := Counterpart(other)
		if !ok || back != code {
			t.Fatalf("Counterpart(Counterpart(%q)) = %q, want %q", code, back, code)
		}
	}
}

func TestCounterpartRejectsUnsupported(t *testing.T) {
	if _, ok := Counterpart("fr"); ok {
		t.Fatalf("Counterpart(\"fr\") should not be defined")
	}
	if _, ok := Counterpart(""); ok {
		t.Fatalf("Counterpart(\"\") should not be defined")
	}
}

func TestIsSupported(t *testing.T) {
	if !IsSupported(English) || !IsSupported(Hindi) {
		t.Fatalf("en and hi must be supported")
	}
	if IsSupported("EN") {
		t.Fatalf("language codes are case sensitive on the wire")
	}
}
