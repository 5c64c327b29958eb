package main

import "strings"

// wrapText splits text into lines of at most width columns, breaking only
// between words. A word longer than the width gets a line of its own. A
// non-positive width disables wrapping and returns the whole text as a
// single line. Text with no words returns nil.
func wrapText(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if width < 1 {
		return []string{strings.Join(words, " ")}
	}

	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		if len(line)+1+len(word) > width {
			lines = append(lines, line)
			line = word
			continue
		}
		line += " " + word
	}
	return append(lines, line)
}
