package textproc

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWords(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		lowercase bool
		want      []string
	}{
		{
			name:      "sentence with punctuation",
			input:     "I feel like giving up. Everything is so heavy.",
			lowercase: true,
			want:      []string{"feel", "like", "giving", "up", "everything", "is", "so", "heavy"},
		},
		{
			name:      "single letters dropped",
			input:     "a b cd e",
			lowercase: true,
			want:      []string{"cd"},
		},
		{
			name:      "apostrophe splits",
			input:     "don't stop",
			lowercase: true,
			want:      []string{"don", "stop"},
		},
		{
			name:      "non-decimal numbers are word runes",
			input:     "x² and ½½ Ⅻ",
			lowercase: true,
			want:      []string{"x²", "and", "½½"},
		},
		{
			name:      "digits and underscore",
			input:     "call_me 911 now!",
			lowercase: true,
			want:      []string{"call_me", "911", "now"},
		},
		{
			name:      "case preserved",
			input:     "Great Day",
			lowercase: false,
			want:      []string{"Great", "Day"},
		},
		{
			name:      "unicode letters",
			input:     "Привет мир çox",
			lowercase: true,
			want:      []string{"привет", "мир", "çox"},
		},
		{
			name:      "emoji separates",
			input:     "sad😢face",
			lowercase: true,
			want:      []string{"sad", "face"},
		},
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Words(tt.input, tt.lowercase)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Words(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestTokenizePositions(t *testing.T) {
	tokens := Tokenize("so so heavy", true)
	for i, tok := range tokens {
		if tok.Position != i {
			t.Errorf("token %d (%q): Position = %d", i, tok.Text, tok.Position)
		}
	}
	if len(tokens) != 3 {
		t.Fatalf("got %d tokens, want 3", len(tokens))
	}
}

func TestIsBlank(t *testing.T) {
	for _, s := range []string{"", "   ", "\n\t "} {
		if !IsBlank(s) {
			t.Errorf("IsBlank(%q) = false, want true", s)
		}
	}
	if IsBlank(" x ") {
		t.Error(`IsBlank(" x ") = true, want false`)
	}
}

func FuzzTokenize(f *testing.F) {
	f.Add("I feel like giving up.")
	f.Add("")
	f.Add("😢😢 ok")
	f.Fuzz(func(t *testing.T, s string) {
		for _, tok := range Tokenize(s, true) {
			if len([]rune(tok.Text)) < minTokenRunes {
				t.Fatalf("token %q shorter than %d runes", tok.Text, minTokenRunes)
			}
		}
	})
}
