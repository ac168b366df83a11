package diagfmt

import (
	"path/filepath"
	"strings"

	"mexpand/internal/source"
)

func formatPath(f *source.File, mode PathMode, baseDir string) string {
	switch mode {
	case PathModeAbsolute:
		if f.Flags&source.FileVirtual != 0 {
			return f.Path
		}
		if abs, err := filepath.Abs(f.Path); err == nil {
			return filepath.ToSlash(abs)
		}
		return f.Path
	case PathModeBasename:
		return filepath.Base(f.Path)
	default:
		return strings.TrimPrefix(f.DisplayPath(baseDir), "./")
	}
}

// position returns the 1-based line and character column of off in f.
// Offsets from broken input are clamped, see source.Locate.
func position(f *source.File, off uint32) source.LineCol {
	return source.Locate(f.Text(), off)
}
