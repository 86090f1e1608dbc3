package sysinfo

import (
	"testing"

	"github.com/systour/systour/internal/assert"
)

func TestExt(t *testing.T) {
	tests := []struct {
		path string
		ext  string
	}{
		{"/home/u/script.js", ".js"},
		{"archive.tar.gz", ".gz"},
		{"README", ""},
		{".bashrc", ""},
		{"/home/u/.bashrc", ""},
		{"index.", "."},
		{"..", ""},
		{"/", ""},
		{"dir.d/file", ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.ext, Ext(tt.path))
		})
	}
}

func TestStem(t *testing.T) {
	assert.Equal(t, "script", Stem("script.js"))
	assert.Equal(t, "document", Stem("document.txt"))
	assert.Equal(t, "README", Stem("README"))
	assert.Equal(t, "archive.tar", Stem("/srv/archive.tar.gz"))
	assert.Equal(t, ".bashrc", Stem(".bashrc"))
}

func TestParse(t *testing.T) {
	tests := []struct {
		path   string
		parsed ParsedPath
	}{
		{"/home/u/file.txt", ParsedPath{Root: "/", Dir: "/home/u", Base: "file.txt", Ext: ".txt", Name: "file"}},
		{"/file", ParsedPath{Root: "/", Dir: "/", Base: "file", Name: "file"}},
		{"file.txt", ParsedPath{Base: "file.txt", Ext: ".txt", Name: "file"}},
		{"a/b/", ParsedPath{Dir: "a", Base: "b", Name: "b"}},
		{"/", ParsedPath{Root: "/", Dir: "/"}},
		{"", ParsedPath{}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.parsed, Parse(tt.path))
		})
	}
}

func TestParsedPath_String(t *testing.T) {
	s := Parse("/home/u/file.txt").String()
	assert.Equal(t, "{ root: '/', dir: '/home/u', base: 'file.txt', ext: '.txt', name: 'file' }", s)
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "/users/student/docs/notes.txt", Join("/users", "student", "docs", "notes.txt"))
	assert.Equal(t, "a/c", Join("a", "b", "..", "c"))
}
