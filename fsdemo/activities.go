package fsdemo

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/systour/systour"
	"github.com/systour/systour/extension"
	"github.com/systour/systour/flow"
)

// Activity is a named step of the file tour.
type Activity struct {
	Name  string
	Title string
	run   func(*task)
}

var activities = []Activity{
	{"quickref", "Quick reference: byte and text reads, write and append", quickReference},
	{"syncvscallback", "Sync versus callback reads", syncVsCallback},
	{"normalize", "Text normalizer (sync)", normalizeSync},
	{"logger", "Logger with append (sync)", appendLogger},
	{"encoding", "Encoding explorer (callback)", encodingExplorer},
	{"parallel", "Parallel reads (callback)", parallelReads},
	{"normalize-async", "Streaming normalizer (callback)", normalizeAsync},
	{"hexdump", "Hex dumper", hexDumper},
	{"dailylog", "Daily log", dailyLog},
	{"roundtrip", "Base64 round trip", encodingRoundTrip},
	{"hello", "Callback write then read", helloWorld},
	{"perf", "Sync versus callback timing", performance},
	{"summary", "Key takeaways", summary},
}

// appendFile writes data at the end of name through an append mode
// FileSink, creating the file when it is missing.
func (t *task) appendFile(name string, data []byte) error {
	sink, err := extension.NewFileSink(t.env.Fs, name, extension.FileModeAppend,
		extension.WithLogger(t.env.logger()))
	if err != nil {
		return err
	}
	sink.In() <- data
	close(sink.In())
	sink.AwaitCompletion()
	return sink.Err()
}

func readText(fs afero.Fs, name string) (string, error) {
	data, err := afero.ReadFile(fs, name)
	return string(data), err
}

func isoTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

func quickReference(t *task) {
	fs := t.env.Fs
	self := t.env.self()
	outFile := filepath.Join(filepath.Dir(self), "out.txt")

	t.write("📚 === QUICK REFERENCE EXAMPLES ===\n\n")

	t.println("A) ReadFile → bytes (no decoding):")
	if data, err := afero.ReadFile(fs, self); err != nil {
		t.fail("Error", err)
	} else {
		t.println("Buffer length:", len(data))
		t.println("First 50 bytes:", FormatBuffer(data[:min(len(data), bufferInspectMax)]))
	}

	t.println("\nB) ReadFile → string (utf8):")
	if text, err := readText(fs, self); err != nil {
		t.fail("Error", err)
	} else {
		t.println("String length:", runeCount(text))
		t.println("First 100 chars:", firstRunes(text, 100))
	}

	t.println("\nC) Read then Write (Sync) to out.txt:")
	if text, err := readText(fs, self); err != nil {
		t.fail("Error", err)
	} else if err := afero.WriteFile(fs, outFile, []byte(strings.ToUpper(text)), 0o644); err != nil {
		t.fail("Error", err)
	} else {
		t.println("✅ Wrote out.txt with uppercase content")
	}

	t.println("\nD) Append Mode (O_APPEND):")
	if text, err := readText(fs, self); err != nil {
		t.fail("Error", err)
	} else if err := t.appendFile(outFile, []byte("\n--- APPENDED ---\n"+strings.ToUpper(text))); err != nil {
		t.fail("Error", err)
	} else {
		t.println("✅ Appended to out.txt")
	}
}

func syncVsCallback(t *task) {
	t.write("\n🎯 === ACTIVITY 1: SYNC VS CALLBACK ===\n\n")

	t.println("SYNC VERSION:")
	t.println("START")
	if text, err := readText(t.env.Fs, "notes.txt"); err != nil {
		t.fail("Sync read error", err)
	} else {
		t.println("File content:", firstRunes(text, 50)+"...")
	}
	t.println("END")

	t.println("\nCALLBACK VERSION:")
	t.println("START")
	t.later(func(t *task) {
		text, err := readText(t.env.Fs, "notes.txt")
		if err != nil {
			t.fail("Callback read error", err)
			return
		}
		t.println("File content:", firstRunes(text, 50)+"...")
	})
	t.println("END")

	t.println("\n💡 Notice: Sync blocks until read completes, Callback defers output")
}

func normalizeSync(t *task) {
	t.write("\n🎯 === ACTIVITY 2: TEXT NORMALIZER (SYNC) ===\n\n")

	input, err := readText(t.env.Fs, "notes.txt")
	if err != nil {
		t.fail("Normalizer error", err)
		return
	}
	t.println("Original content:")
	t.println(input)

	normalized := Normalize(input)
	t.println("\nNormalized content:")
	t.println(normalized)

	if err := afero.WriteFile(t.env.Fs, "notes.normalized.txt", []byte(normalized), 0o644); err != nil {
		t.fail("Normalizer error", err)
		return
	}
	t.println("\n✅ Wrote notes.normalized.txt")
}

func appendLogger(t *task) {
	t.write("\n🎯 === ACTIVITY 3: LOGGER WITH APPEND (SYNC) ===\n\n")

	entry := isoTimestamp(t.env.now()) + " - ping\n"
	if err := t.appendFile("app.log", []byte(entry)); err != nil {
		t.fail("Logger error", err)
		return
	}
	t.println("✅ Appended to app.log:", strings.TrimSpace(entry))

	content, err := readText(t.env.Fs, "app.log")
	if err != nil {
		t.fail("Logger error", err)
		return
	}
	t.println("\nCurrent app.log content:")
	t.println(content)
}

func encodingExplorer(t *task) {
	t.write("\n🎯 === ACTIVITY 4: ENCODING EXPLORER (CALLBACK) ===\n\n")

	t.later(func(t *task) {
		text, err := readText(t.env.Fs, "emoji.txt")
		if err != nil {
			t.fail("UTF-8 read error", err)
			return
		}
		t.println("UTF-8 text:", text)

		buf, err := afero.ReadFile(t.env.Fs, "emoji.txt")
		if err != nil {
			t.fail("Buffer read error", err)
			return
		}
		t.println("Buffer length:", len(buf))
		t.println("Hex representation:", hex.EncodeToString(buf))
		t.println("Base64 representation:", base64.StdEncoding.EncodeToString(buf))
	})
}

// parallelReads reads every file through its own ReaderSource and merges
// the contents in completion order.
func parallelReads(t *task) {
	t.write("\n🎯 === ACTIVITY 5: PARALLEL READS (CALLBACK) ===\n\n")

	files := []string{"a.txt", "b.txt", "c.txt"}

	t.println("Kicking off reads...")
	t.later(func(t *task) {
		var sources []systour.Outlet
		for _, name := range files {
			f, err := t.env.Fs.Open(name)
			if err != nil {
				t.fail("Read error", err)
				continue
			}
			source, err := extension.NewReaderSource(f, extension.WholeReader,
				extension.WithContext(t.ctx), extension.WithLogger(t.env.logger()))
			if err != nil {
				t.fail("Read error", err)
				_ = f.Close()
				continue
			}
			sources = append(sources, source)
		}

		contents := make(chan any)
		go flow.Merge(sources...).
			Via(flow.NewMap(func(content []byte) string {
				return "--- file content ---\n" + string(content) + "\n"
			}, 1)).
			To(extension.NewChanSink(contents))
		for element := range contents {
			t.con.lines <- element
		}
	})
	t.println("All read operations initiated (non-blocking)")
}

// normalizeAsync streams notes.txt line by line through the normalizer into
// notes.normalized.async.txt.
func normalizeAsync(t *task) {
	t.write("\n🎯 === ACTIVITY 6: ASYNC NORMALIZER (CALLBACK) ===\n\n")

	t.later(func(t *task) {
		ctx, cancel := context.WithCancel(t.ctx)
		defer cancel()

		source, err := extension.NewFileSource(t.env.Fs, "notes.txt",
			extension.WithContext(ctx), extension.WithLogger(t.env.logger()))
		if err != nil {
			t.fail("Read error", err)
			return
		}
		t.println("Opened notes.txt for streaming")

		sink, err := extension.NewFileSink(t.env.Fs, "notes.normalized.async.txt", extension.FileModeCreate,
			extension.WithContextCancel(cancel), extension.WithLogger(t.env.logger()))
		if err != nil {
			cancel()
			for range source.Out() {
			}
			t.fail("Write error", err)
			return
		}

		lines := 0
		source.
			Via(flow.NewMap(func(line string) string {
				lines++
				return NormalizeStreamLine(line)
			}, 1)).
			To(sink)

		if err := sink.Err(); err != nil {
			t.fail("Write error", err)
			return
		}
		t.printf("Text normalized (%d lines)\n", lines)
		t.println("✅ Wrote notes.normalized.async.txt (async)")
	})
}

// hexDumper streams emoji.txt in 16 byte chunks and prints one row per chunk.
func hexDumper(t *task) {
	t.write("\n🏆 === CHALLENGE 1: HEX DUMPER ===\n\n")

	t.later(func(t *task) {
		f, err := t.env.Fs.Open("emoji.txt")
		if err != nil {
			t.fail("Hex dumper error", err)
			return
		}
		source, err := extension.NewReaderSource(f, extension.ChunkReader(16),
			extension.WithContext(t.ctx), extension.WithLogger(t.env.logger()))
		if err != nil {
			_ = f.Close()
			t.fail("Hex dumper error", err)
			return
		}

		offset := 0
		rows := source.Via(flow.NewMap(func(chunk []byte) string {
			row := FormatHexRow(offset, chunk)
			offset += len(chunk)
			return row
		}, 1))

		var dump strings.Builder
		dump.WriteString("Hex dump of emoji.txt:\n")
		fmt.Fprintf(&dump, "%-6s  %-48s    %s\n", "Offset", "Hex Data", "ASCII")
		fmt.Fprintf(&dump, "%s  %s    %s\n", strings.Repeat("-", 6), strings.Repeat("-", 48), strings.Repeat("-", 16))
		for row := range rows.Out() {
			dump.WriteString(row.(string))
			dump.WriteByte('\n')
		}
		t.write(dump.String())
	})
}

func dailyLog(t *task) {
	t.write("\n🏆 === CHALLENGE 2: DAILY LOG ===\n\n")

	fs := t.env.Fs
	exists, err := afero.DirExists(fs, "logs")
	if err != nil {
		t.fail("Daily log error", err)
		return
	}
	if !exists {
		if err := fs.MkdirAll("logs", 0o755); err != nil {
			t.fail("Daily log error", err)
			return
		}
		t.println("Created logs directory")
	}

	now := t.env.now()
	logFile := "logs/" + now.UTC().Format(time.DateOnly) + ".log"
	if err := t.appendFile(logFile, []byte(isoTimestamp(now)+" - Daily log entry\n")); err != nil {
		t.fail("Daily log error", err)
		return
	}
	t.println("✅ Appended to " + logFile)

	content, err := readText(fs, logFile)
	if err != nil {
		t.fail("Daily log error", err)
		return
	}
	t.printf("\nContent of %s:\n", logFile)
	t.println(content)
}

func encodingRoundTrip(t *task) {
	t.write("\n🏆 === CHALLENGE 3: ENCODING ROUND-TRIP ===\n\n")

	fs := t.env.Fs
	original, err := readText(fs, "emoji.txt")
	if err != nil {
		t.fail("Round-trip error", err)
		return
	}
	t.println("Original text:", original)

	encoded := base64.StdEncoding.EncodeToString([]byte(original))
	t.println("Base64 encoded:", encoded)

	if err := afero.WriteFile(fs, "data.b64", []byte(encoded), 0o644); err != nil {
		t.fail("Round-trip error", err)
		return
	}
	t.println("✅ Wrote data.b64")

	stored, err := readText(fs, "data.b64")
	if err != nil {
		t.fail("Round-trip error", err)
		return
	}
	decoded, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		t.fail("Round-trip error", err)
		return
	}
	t.println("Decoded text:", string(decoded))

	if original == string(decoded) {
		t.println("Round-trip successful: ✅ YES")
		return
	}
	t.println("Round-trip successful: ❌ NO")
	t.println("Original length:", runeCount(original))
	t.println("Decoded length:", runeCount(string(decoded)))
}

func helloWorld(t *task) {
	t.write("\n📝 === ADDITIONAL EXAMPLES ===\n\n")

	t.println("Writing hello.txt with callback...")
	t.later(func(t *task) {
		fs := t.env.Fs
		if err := afero.WriteFile(fs, "hello.txt", []byte("Hallo Welt!\n"), 0o644); err != nil {
			t.fail("Write failed", err)
			return
		}
		t.println("✅ Wrote hello.txt")

		text, err := readText(fs, "hello.txt")
		if err != nil {
			t.fail("UTF-8 read error", err)
			return
		}
		t.println("UTF-8 text:", text)

		buf, err := afero.ReadFile(fs, "hello.txt")
		if err != nil {
			t.fail("Buffer read error", err)
			return
		}
		t.println("Buffer hex:", hex.EncodeToString(buf))
		t.println("Buffer base64:", base64.StdEncoding.EncodeToString(buf))
	})
}

func performance(t *task) {
	t.write("\n⚡ === PERFORMANCE COMPARISON ===\n\n")

	const testFile = "notes.txt"

	t.println("Testing sync read...")
	start := time.Now()
	if _, err := readText(t.env.Fs, testFile); err != nil {
		t.fail("Sync read error", err)
	} else {
		t.printf("Sync read took: %dms\n", time.Since(start).Milliseconds())
	}

	t.println("Testing async read...")
	start = time.Now()
	t.later(func(t *task) {
		if _, err := readText(t.env.Fs, testFile); err != nil {
			t.fail("Async read error", err)
			return
		}
		t.printf("Async read took: %dms\n", time.Since(start).Milliseconds())
		t.println("Note: Async allows other operations to continue during I/O")
	})
}

func summary(t *task) {
	t.write("\n✅ === SUMMARY ===\n" +
		"📚 Key Takeaways:\n" +
		"• Sync reads are simple but block the calling goroutine\n" +
		"• Callback reads run in their own goroutine and report back when done\n" +
		"• Reading bytes or a string is a conversion, not a different call\n" +
		"• Open with O_APPEND for append mode\n" +
		"• Always handle errors in async operations\n" +
		"• Parallel async operations may complete in any order\n" +
		"\n🎉 All file activities completed!\n")
}
