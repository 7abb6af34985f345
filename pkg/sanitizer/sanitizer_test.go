package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trim spaces", "  Alice Smith  ", "Alice Smith"},
		{"multiple spaces between words", "Alice    Smith", "Alice Smith"},
		{"tabs and newlines", "Alice\t\nSmith", "Alice Smith"},
		{"empty string", "", ""},
		{"only whitespace", "   \t\n  ", ""},
		{"preserve special characters", " Café & Co™ ", "Café & Co™"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := TrimAndNormalize(TrimAndNormalize(tt.input)); again != tt.want {
				t.Errorf("TrimAndNormalize is not idempotent for %q: %q", tt.input, again)
			}
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"valid E.164 format", "+972541234567", "+972541234567"},
		{"with spaces", "+972 54 123 4567", "+972541234567"},
		{"with dashes", "+972-54-123-4567", "+972541234567"},
		{"with parentheses", "+1 (212) 555-1234", "+12125551234"},
		{"leading and trailing spaces", "  +972541234567  ", "+972541234567"},
		{"empty string", "", ""},
		{"no plus sign", "972541234567", ""},
		{"letters", "+1 555 CALL NOW", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.input); got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeRequester(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain name", "  Bob   Jones ", "Bob Jones"},
		{"email kept as is", "bob@example.com", "bob@example.com"},
		{"phone becomes E.164", "+1 (212) 555-1234", "+12125551234"},
		{"control characters dropped", "Bob\x00 Jones", "Bob Jones"},
		{"unparseable phone kept normalized", "+0 000 0000", "+0 000 0000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeRequester(tt.input); got != tt.want {
				t.Errorf("NormalizeRequester(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSearchPattern(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "alice", "alice"},
		{"regex metacharacters escaped", "a.b*(c)", `a\.b\*\(c\)`},
		{"whitespace collapsed", "  al   ice ", "al ice"},
		{"phone normalized", "+1 212 555 1234", `\+12125551234`},
		{"partial phone loses separators", "+1 555 12", `\+155512`},
		{"short partial phone", "+44 (20) 7", `\+44207`},
		{"dashes in partial phone", "+1-212", `\+1212`},
		{"plus inside text is kept", "team +1 555", `team \+1 555`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SearchPattern(tt.input); got != tt.want {
				t.Errorf("SearchPattern(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSearchPattern_CapsLength(t *testing.T) {
	long := make([]rune, MaxSearchTermLength+50)
	for i := range long {
		long[i] = 'x'
	}
	if got := SearchPattern(string(long)); len([]rune(got)) != MaxSearchTermLength {
		t.Errorf("expected pattern capped at %d runes, got %d", MaxSearchTermLength, len([]rune(got)))
	}
}
