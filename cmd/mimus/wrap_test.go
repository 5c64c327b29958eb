package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapText(t *testing.T) {
	testCases := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{
			name:  "Empty",
			text:  "",
			width: 79,
			want:  nil,
		},
		{
			name:  "ShortLineStaysWhole",
			text:  "the quick brown fox",
			width: 79,
			want:  []string{"the quick brown fox"},
		},
		{
			name:  "BreaksAtWidth",
			text:  "aaa bbb ccc",
			width: 7,
			want:  []string{"aaa bbb", "ccc"},
		},
		{
			name:  "LongWordGetsOwnLine",
			text:  "a verylongword b",
			width: 4,
			want:  []string{"a", "verylongword", "b"},
		},
		{
			name:  "ZeroWidthDisablesWrapping",
			text:  "a b c d",
			width: 0,
			want:  []string{"a b c d"},
		},
		{
			name:  "CollapsesWhitespace",
			text:  "  a\t b\nc  ",
			width: 79,
			want:  []string{"a b c"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, wrapText(tc.text, tc.width))
		})
	}
}

func TestWrapTextDefaultWidth(t *testing.T) {
	words := make([]string, 200)
	for i := range words {
		words[i] = "word"
	}
	text := strings.Join(words, " ")

	lines := wrapText(text, 79)
	require.NotEmpty(t, lines)
	for _, line := range lines {
		assert.LessOrEqual(t, len(line), 79)
	}
	assert.Equal(t, text, strings.Join(lines, " "), "wrapping should not alter the words")
}
