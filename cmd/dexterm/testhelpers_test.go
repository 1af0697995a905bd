package main

import (
	"strings"
	"testing"
)

func TestStripANSI(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Showing 1–2 of 3", "Showing 1–2 of 3"},
		{"color", "\033[38;5;245m#025\033[0m pikachu", "#025 pikachu"},
		{"osc title", "\033]0;dexterm\007ready", "ready"},
		{"two-char", "\033Mup", "up"},
		{"bare esc at end", "done\033", "done"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripANSI(tt.input); got != tt.want {
				t.Errorf("stripANSI(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// stripANSI removes ANSI escape sequences from a string.
// Handles CSI (ESC[), OSC (ESC]), and two-char (ESC+letter) sequences.
func stripANSI(s string) string {
	var result strings.Builder
	i := 0
	for i < len(s) {
		if s[i] != '\033' {
			result.WriteByte(s[i])
			i++
			continue
		}
		i++
		if i >= len(s) {
			break
		}
		switch s[i] {
		case '[':
			i++
			for i < len(s) && !isLetter(s[i]) {
				i++
			}
			if i < len(s) {
				i++
			}
		case ']':
			i++
			for i < len(s) {
				if s[i] == '\007' {
					i++
					break
				}
				if s[i] == '\033' && i+1 < len(s) && s[i+1] == '\\' {
					i += 2
					break
				}
				i++
			}
		default:
			if isLetter(s[i]) {
				i++
			}
		}
	}
	return result.String()
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
