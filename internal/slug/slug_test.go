package slug

import (
	"regexp"
	"strings"
	"testing"
)

// TestGenerate exercises the slug generator with typical headlines, special
// characters, accented names and boundary conditions.
func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		// --- Normal names ---
		{name: "simple two words", input: "Hello World", want: "hello-world"},
		{name: "headline with year", input: "Elections 2024", want: "elections-2024"},
		{name: "single word", input: "Politics", want: "politics"},

		// --- Special characters ---
		{name: "punctuation marks", input: "Hello, World! How's it going?", want: "hello-world-hows-it-going"},
		{name: "ampersand", input: "Arts & Culture", want: "arts-culture"},
		{name: "parentheses", input: "Opinion (Guest)", want: "opinion-guest"},
		{name: "slashes", input: "Local/Regional", want: "localregional"},

		// --- Diacritics ---
		{name: "spanish accents", input: "Política Económica", want: "politica-economica"},
		{name: "enye", input: "Año Nuevo", want: "ano-nuevo"},
		{name: "french accents", input: "Les Misérables à la carte", want: "les-miserables-a-la-carte"},
		{name: "german umlauts", input: "Über die Brücke", want: "uber-die-brucke"},
		{name: "romanian comma below", input: "Știri din Țară", want: "stiri-din-tara"},
		{name: "portuguese cedilla", input: "Ação e Reação", want: "acao-e-reacao"},
		{name: "uppercase accented", input: "ÉLITE", want: "elite"},
		{name: "emoji dropped", input: "Hello 🌍 World", want: "hello-world"},
		{name: "cjk dropped", input: "新闻 News", want: "news"},

		// --- Whitespace handling ---
		{name: "leading and trailing spaces", input: "  hello world  ", want: "hello-world"},
		{name: "multiple spaces collapsed", input: "hello    world", want: "hello-world"},
		{name: "tab becomes hyphen", input: "hello\tworld", want: "hello-world"},
		{name: "newline becomes hyphen", input: "hello\nworld", want: "hello-world"},

		// --- Hyphen handling ---
		{name: "leading hyphens", input: "---hello world", want: "hello-world"},
		{name: "trailing hyphens", input: "hello world---", want: "hello-world"},
		{name: "multiple hyphens", input: "hello---world", want: "hello-world"},
		{name: "hyphens and spaces mixed", input: "  --hello -- world--  ", want: "hello-world"},
		{name: "single hyphen preserved", input: "well-known fact", want: "well-known-fact"},

		// --- Empty results ---
		{name: "empty string", input: "", want: ""},
		{name: "only spaces", input: "     ", want: ""},
		{name: "only hyphens", input: "-----", want: ""},
		{name: "only punctuation", input: "!@#$%^&*()", want: ""},
		{name: "only symbols outside latin", input: "日本", want: ""},

		// --- Numbers ---
		{name: "all numbers", input: "123456", want: "123456"},
		{name: "version number", input: "Version 2.0.1", want: "version-201"},
		{name: "date-like", input: "2026-02-25", want: "2026-02-25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.input)
			if got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestGenerate_Shape checks the output alphabet and hyphen placement for a
// mixed bag of hostile inputs.
func TestGenerate_Shape(t *testing.T) {
	shape := regexp.MustCompile(`^[a-z0-9-]*$`)
	inputs := []string{
		"  -- a -- b --  ",
		"Ñandú ---  Çà\t\tva",
		"x́̂̃y",
		"-\n-\n-",
		"ÀÉÎÕÜ àéîõü",
		"a_b_c",
		"100% Pure & Simple!!!",
		strings.Repeat("é-", 50),
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			got := Generate(in)
			if !shape.MatchString(got) {
				t.Errorf("Generate(%q) = %q contains characters outside [a-z0-9-]", in, got)
			}
			if strings.HasPrefix(got, "-") || strings.HasSuffix(got, "-") {
				t.Errorf("Generate(%q) = %q has a leading or trailing hyphen", in, got)
			}
			if strings.Contains(got, "--") {
				t.Errorf("Generate(%q) = %q has a double hyphen", in, got)
			}
		})
	}
}

// TestGenerate_Idempotent verifies that a slug maps onto itself.
func TestGenerate_Idempotent(t *testing.T) {
	for _, s := range []string{"hello-world", "politica-2024", "a", "123"} {
		t.Run(s, func(t *testing.T) {
			if got := Generate(s); got != s {
				t.Errorf("Generate(%q) = %q, want idempotent result", s, got)
			}
		})
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"hello-world", true},
		{"hello--world", false},
		{"Hello-World", false},
		{"-hello", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := Valid(tt.in); got != tt.want {
			t.Errorf("Valid(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
