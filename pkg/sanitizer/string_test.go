package sanitizer

import "testing"

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "trim spaces",
			input: "  Sunset Kayaking  ",
			want:  "Sunset Kayaking",
		},
		{
			name:  "multiple spaces between words",
			input: "Sunset    Kayaking",
			want:  "Sunset Kayaking",
		},
		{
			name:  "tabs and newlines",
			input: "Sunset\t\nKayaking",
			want:  "Sunset Kayaking",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   \t\n  ",
			want:  "",
		},
		{
			name:  "preserve special characters",
			input: " Café & Spa™ ",
			want:  "Café & Spa™",
		},
		{
			name:  "devanagari characters",
			input: " गोवा  यात्रा ",
			want:  "गोवा यात्रा",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeName(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeName_Idempotent(t *testing.T) {
	inputs := []string{"  a   b  ", "x\ty", "", "plain"}
	for _, in := range inputs {
		once := NormalizeName(in)
		twice := NormalizeName(once)
		if once != twice {
			t.Errorf("NormalizeName not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "  a@b.com ", want: "a@b.com"},
		{input: "\ta b@c.com\n", want: "a b@c.com"},
		{input: "", want: ""},
	}

	for _, tt := range tests {
		if got := NormalizeEmail(tt.input); got != tt.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizePromoCode(t *testing.T) {
	if got := NormalizePromoCode("  SAVE300 "); got != "SAVE300" {
		t.Errorf("NormalizePromoCode = %q, want %q", got, "SAVE300")
	}
	if got := NormalizePromoCode("   "); got != "" {
		t.Errorf("NormalizePromoCode(blank) = %q, want empty", got)
	}
}

func TestNameOrDefault(t *testing.T) {
	if got := NameOrDefault("  ", "user1"); got != "user1" {
		t.Errorf("NameOrDefault(blank) = %q, want user1", got)
	}
	if got := NameOrDefault(" Asha  Rao ", "user1"); got != "Asha Rao" {
		t.Errorf("NameOrDefault = %q, want %q", got, "Asha Rao")
	}
}
