package fsdemo

import (
	"bytes"
	"strings"
	"testing"

	"github.com/systour/systour/internal/assert"
)

func TestFormatHexRow(t *testing.T) {
	row := FormatHexRow(0, []byte("Hello, World!\n"))
	assert.Equal(t, "000000  48 65 6c 6c 6f 2c 20 57 6f 72 6c 64 21 0a"+strings.Repeat(" ", 11)+"Hello, World!.", row)

	row = FormatHexRow(16, []byte{0xf0, 0x9f, 0x90, 0xb9})
	assert.Equal(t, "000010  f0 9f 90 b9"+strings.Repeat(" ", 41)+"p..9", row)

	// "Ä" is c3 84: 0x43 'C' and the control byte 0x04
	row = FormatHexRow(0, []byte("Ä"))
	assert.Equal(t, "000000  c3 84"+strings.Repeat(" ", 47)+"C.", row)

	row = FormatHexRow(0, []byte{0x7f, 0xff, 0xa0, 0xfe})
	assert.Equal(t, "000000  7f ff a0 fe"+strings.Repeat(" ", 41)+".. ~", row)

	full := FormatHexRow(0x1a0, bytes.Repeat([]byte{'~'}, 16))
	assert.Equal(t, "0001a0  "+strings.TrimSpace(strings.Repeat("7e ", 16))+"     "+strings.Repeat("~", 16), full)
}

func TestFormatBuffer(t *testing.T) {
	assert.Equal(t, "<Buffer 68 69>", FormatBuffer([]byte("hi")))
	assert.Equal(t, "<Buffer>", FormatBuffer(nil))

	long := FormatBuffer(bytes.Repeat([]byte{0xff}, 60))
	assert.True(t, strings.HasSuffix(long, "ff ff ... 10 more bytes>"), long)
	assert.Equal(t, 50, strings.Count(long, " ff"))
}

func TestNormalize(t *testing.T) {
	inputs := []string{
		"",
		"  Hello World  \n  SECOND line\n",
		"no trailing NEWLINE  \n  Last",
		"\n\n  \n",
		"\tTabbed\r\nWindows Line\r\n",
	}
	for _, input := range inputs {
		var streamed strings.Builder
		for _, line := range strings.SplitAfter(input, "\n") {
			if line != "" {
				streamed.WriteString(NormalizeStreamLine(line))
			}
		}
		assert.Equal(t, Normalize(input), streamed.String())
	}
	assert.Equal(t, "hello world\nsecond line\n", Normalize("  Hello World  \n  SECOND line\n"))
}

func TestFirstRunes(t *testing.T) {
	assert.Equal(t, "Go 🐹", firstRunes("Go 🐹 streams", 4))
	assert.Equal(t, "short", firstRunes("short", 100))
	assert.Equal(t, "", firstRunes("abc", 0))
}
