package main

import "testing"

func TestDeriveListingPathReplacesSourceExtension(t *testing.T) {
	cases := map[string]string{
		"program.s":      "program.kmd",
		"program.asm":    "program.kmd",
		"/a/b/prog.S":    "/a/b/prog.kmd",
		"already.kmd":    "already.kmd.kmd",
	}
	for in, want := range cases {
		if got := deriveListingPath(in); got != want {
			t.Errorf("deriveListingPath(%q) = %q, want %q", in, got, want)
		}
	}
}
