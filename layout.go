// layout.go - derives the .kmd listing path and locates sibling binaries

package main

import (
	"os"
	"path/filepath"
	"strings"
)

// deriveListingPath strips a .s/.asm source extension and appends .kmd,
// so "program.s" and "program.asm" both become "program.kmd" — the
// convention kcmd's compile step follows (§6.3).
func deriveListingPath(sourcePath string) string {
	ext := filepath.Ext(sourcePath)
	switch strings.ToLower(ext) {
	case ".s", ".asm":
		return strings.TrimSuffix(sourcePath, ext) + ".kmd"
	default:
		return sourcePath + ".kmd"
	}
}

// siblingBinary locates a binary named name next to the running
// executable, falling back to letting exec.LookPath search $PATH if no
// sibling exists.
func siblingBinary(name string) string {
	self, err := os.Executable()
	if err == nil {
		candidate := filepath.Join(filepath.Dir(self), name)
		if info, statErr := os.Stat(candidate); statErr == nil && !info.IsDir() {
			return candidate
		}
	}
	return name
}
