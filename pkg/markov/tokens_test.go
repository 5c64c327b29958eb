package markov

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	testCases := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "simple words",
			text: "one two three",
			want: []string{"one", "two", "three"},
		},
		{
			name: "mixed whitespace collapses",
			text: " one\ttwo\n\nthree ",
			want: []string{"one", "two", "three"},
		},
		{
			name: "punctuation and case preserved",
			text: "Hello, world! Hello",
			want: []string{"Hello,", "world!", "Hello"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Tokenize(tc.text); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tc.text, got, tc.want)
			}
		})
	}

	for _, text := range []string{"", "   ", "\t\n"} {
		if got := Tokenize(text); len(got) != 0 {
			t.Errorf("Tokenize(%q) = %v, want no tokens", text, got)
		}
	}
}

func TestContextRoundTrip(t *testing.T) {
	tokens := []string{"the", "quick", "brown"}
	c := ContextOf(tokens)
	if c != "the quick brown" {
		t.Errorf("ContextOf() = %q, want %q", c, "the quick brown")
	}
	if got := c.Tokens(); !reflect.DeepEqual(got, tokens) {
		t.Errorf("Tokens() = %v, want %v", got, tokens)
	}
}

func TestContextShift(t *testing.T) {
	testCases := []struct {
		name string
		c    Context
		next string
		want Context
	}{
		{name: "single token replaced", c: "a", next: "b", want: "b"},
		{name: "two token window slides", c: "a b", next: "c", want: "b c"},
		{name: "three token window slides", c: "a b c", next: "d", want: "b c d"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.c.Shift(tc.next); got != tc.want {
				t.Errorf("Shift(%q) = %q, want %q", tc.next, got, tc.want)
			}
		})
	}
}
