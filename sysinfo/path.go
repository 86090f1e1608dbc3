package sysinfo

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Ext returns the extension of the last path element, including the dot.
// A leading dot does not start an extension, so ".bashrc" has none.
func Ext(p string) string {
	base := filepath.Base(p)
	if base == ".." || base == "." || base == string(filepath.Separator) {
		return ""
	}
	i := strings.LastIndexByte(base, '.')
	if i <= 0 {
		return ""
	}
	return base[i:]
}

// Stem returns the last path element without its extension.
func Stem(p string) string {
	base := Base(p)
	return strings.TrimSuffix(base, Ext(p))
}

// Base returns the last path element, or "" for an empty path.
func Base(p string) string {
	if p == "" {
		return ""
	}
	base := filepath.Base(p)
	if base == string(filepath.Separator) {
		return ""
	}
	return base
}

// Dir returns all but the last path element. A bare file name has no
// directory and yields ".".
func Dir(p string) string {
	return filepath.Dir(p)
}

// Join joins path elements and cleans the result.
func Join(parts ...string) string {
	return filepath.Join(parts...)
}

// ParsedPath is a path split into its significant elements.
type ParsedPath struct {
	Root string `json:"root"`
	Dir  string `json:"dir"`
	Base string `json:"base"`
	Ext  string `json:"ext"`
	Name string `json:"name"`
}

// Parse splits p. Relative paths without a separator have an empty Dir.
func Parse(p string) ParsedPath {
	var pp ParsedPath
	if p == "" {
		return pp
	}
	vol := filepath.VolumeName(p)
	rest := p[len(vol):]
	pp.Root = vol
	if strings.HasPrefix(rest, string(filepath.Separator)) {
		pp.Root = vol + string(filepath.Separator)
	}
	pp.Base = Base(p)
	pp.Ext = Ext(p)
	pp.Name = strings.TrimSuffix(pp.Base, pp.Ext)
	trimmed := strings.TrimRight(rest, string(filepath.Separator))
	if strings.ContainsRune(trimmed, filepath.Separator) {
		pp.Dir = filepath.Dir(vol + trimmed)
	} else {
		pp.Dir = pp.Root
	}
	return pp
}

func (pp ParsedPath) String() string {
	return fmt.Sprintf("{ root: '%s', dir: '%s', base: '%s', ext: '%s', name: '%s' }",
		pp.Root, pp.Dir, pp.Base, pp.Ext, pp.Name)
}
