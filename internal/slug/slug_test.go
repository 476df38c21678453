package slug

import "testing"

// TestGenerate exercises the slug generator with the kinds of keywords
// the AI produces for slide images: short noun phrases, punctuation,
// and the occasional degenerate input.
func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		// --- Typical keywords ---
		{
			name:  "simple two words",
			input: "Solar Panels",
			want:  "solar-panels",
		},
		{
			name:  "keyword with year",
			input: "Renewable Energy 2026",
			want:  "renewable-energy-2026",
		},
		{
			name:  "already lowercase",
			input: "mountain sunrise",
			want:  "mountain-sunrise",
		},
		{
			name:  "single word",
			input: "Forest",
			want:  "forest",
		},

		// --- Special characters ---
		{
			name:  "punctuation marks",
			input: "City at Night, Aerial View!",
			want:  "city-at-night-aerial-view",
		},
		{
			name:  "ampersand",
			input: "Supply & Demand",
			want:  "supply-demand",
		},
		{
			name:  "parentheses",
			input: "Mars (Red Planet)",
			want:  "mars-red-planet",
		},
		{
			name:  "slashes",
			input: "CPU/GPU architecture",
			want:  "cpugpu-architecture",
		},
		{
			name:  "accents stripped",
			input: "Café Über",
			want:  "caf-ber",
		},

		// --- Whitespace and hyphens ---
		{
			name:  "leading and trailing spaces",
			input: "  ocean waves  ",
			want:  "ocean-waves",
		},
		{
			name:  "multiple consecutive spaces collapsed",
			input: "ocean    waves",
			want:  "ocean-waves",
		},
		{
			name:  "existing hyphen preserved",
			input: "well-known landmark",
			want:  "well-known-landmark",
		},
		{
			name:  "multiple hyphens collapsed",
			input: "ocean---waves",
			want:  "ocean-waves",
		},

		// --- Edge cases ---
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only special characters",
			input: "!@#$%^&*()",
			want:  "",
		},
		{
			name:  "only hyphens",
			input: "-----",
			want:  "",
		},
		{
			name:  "numbers kept",
			input: "Route 66",
			want:  "route-66",
		},
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

// TestGenerate_Idempotent verifies that generating a slug from an already
// valid slug produces the same result.
func TestGenerate_Idempotent(t *testing.T) {
	slugs := []string{
		"solar-panels",
		"renewable-energy-2026",
		"a",
		"123",
	}

	for _, s := range slugs {
		t.Run(s, func(t *testing.T) {
			got := Generate(s)
			if got != s {
				t.Errorf("Generate(%q) = %q, want idempotent result %q", s, got, s)
			}
		})
	}
}

func TestObjectKey(t *testing.T) {
	got := ObjectKey("Solar Panels!", "png", 1700000000)
	want := "solar-panels-1700000000.png"
	if got != want {
		t.Errorf("ObjectKey: got %q, want %q", got, want)
	}
}

func TestObjectKey_DegenerateKeyword(t *testing.T) {
	got := ObjectKey("!!!", "png", 1700000000)
	want := "image-1700000000.png"
	if got != want {
		t.Errorf("ObjectKey: got %q, want %q", got, want)
	}
}
