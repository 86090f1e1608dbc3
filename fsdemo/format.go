package fsdemo

import (
	"encoding/hex"
	"fmt"
	"strings"
	"unicode/utf8"
)

// bufferInspectMax is the number of bytes FormatBuffer shows.
const bufferInspectMax = 50

// FormatBuffer renders bytes as "<Buffer 68 65 6c 6c 6f>", eliding
// anything past the first fifty bytes.
func FormatBuffer(b []byte) string {
	shown := b
	if len(shown) > bufferInspectMax {
		shown = shown[:bufferInspectMax]
	}
	var sb strings.Builder
	sb.WriteString("<Buffer")
	for _, c := range shown {
		fmt.Fprintf(&sb, " %02x", c)
	}
	if rest := len(b) - len(shown); rest > 0 {
		fmt.Fprintf(&sb, " ... %d more bytes", rest)
	}
	sb.WriteString(">")
	return sb.String()
}

// FormatHexRow renders one hex dump row: a six digit offset, the hex pairs
// padded to 48 columns and the 7-bit ASCII reading of the chunk. Each byte
// has its high bit cleared, then anything outside 0x20-0x7E becomes '.'.
func FormatHexRow(offset int, chunk []byte) string {
	pairs := make([]string, len(chunk))
	for i, c := range chunk {
		pairs[i] = hex.EncodeToString([]byte{c})
	}

	ascii := make([]byte, len(chunk))
	for i, c := range chunk {
		c &= 0x7f
		if c < 0x20 || c > 0x7e {
			c = '.'
		}
		ascii[i] = c
	}

	return fmt.Sprintf("%06x  %-48s    %s", offset, strings.Join(pairs, " "), ascii)
}

// Normalize trims and lowercases every line of text, keeping the line
// structure.
func Normalize(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = normalizeLine(line)
	}
	return strings.Join(lines, "\n")
}

func normalizeLine(line string) string {
	return strings.ToLower(strings.TrimSpace(line))
}

// NormalizeStreamLine normalizes a line that may carry its "\n" terminator.
// Concatenating the results over a file equals Normalize of its content.
func NormalizeStreamLine(line string) string {
	if body, ok := strings.CutSuffix(line, "\n"); ok {
		return normalizeLine(body) + "\n"
	}
	return normalizeLine(line)
}

// firstRunes returns the first n runes of s.
func firstRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func runeCount(s string) int {
	return utf8.RuneCountInString(s)
}
