package language

// The deployment serves a closed two-language set. Everything that needs the
// "other side" of a pairing goes through Counterpart so the relay never has to
// hardcode the pairing logic.
const (
	English = "en"
	Hindi   = "hi"
)

var supported = []string{English, Hindi}

// Supported returns the closed set of language codes this deployment serves.
func Supported() []string {
	out := make([]string, len(supported))
	copy(out, supported)
	return out
}

// IsSupported reports whether code is one of the supported language codes.
func IsSupported(code string) bool {
	for _, s := range supported {
		if s == code {
			return true
		}
	}
	return false
}

// Counterpart returns the other member of the supported pair. It is total and
// involutive over the supported set; ok is false for unsupported codes.
func Counterpart(code string) (string, bool) {
	switch code {
	case English:
		return Hindi, true
	case Hindi:
		return English, true
	default:
		return "", false
	}
}
