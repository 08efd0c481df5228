package main

import (
	"os"
	"testing"
)

func pipePair(t *testing.T) (a, b *os.File) {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	t.Cleanup(func() {
		r.Close()
		w.Close()
	})
	return r, w
}

func TestWriteReadULittleEndianRoundTrip(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer r.Close()
	defer w.Close()

	writer := NewFramedIO(w, r)
	reader := NewFramedIO(w, r)

	writer.writeU(4, 0xDEADBEEF)
	n, got := reader.readU(4)
	if n != 4 {
		t.Fatalf("expected 4 bytes, got %d", n)
	}
	if got != 0xDEADBEEF {
		t.Fatalf("expected 0xDEADBEEF, got 0x%X", got)
	}
}

func TestWriteUClipsByteCountToFour(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer r.Close()
	defer w.Close()

	io1 := NewFramedIO(w, r)
	// Asking for 8 bytes should still emit only the 4 maxSerialWord
	// bytes backing value, not 8.
	io1.writeU(8, 0xAABBCCDD)

	n, got := io1.readU(4)
	if n != 4 {
		t.Fatalf("expected 4 bytes, got %d", n)
	}
	if got != 0xAABBCCDD {
		t.Fatalf("expected 0xAABBCCDD, got 0x%X", got)
	}

	// Nothing further should have been written to the pipe.
	extraN, _ := io1.readBytes(1)
	if extraN != 0 {
		t.Fatalf("expected no extra bytes beyond the clipped word, got %d", extraN)
	}
}

func TestReadBytesTimesOutOnEmptyPipe(t *testing.T) {
	r, w := pipePair(t)
	_ = w

	io1 := NewFramedIO(w, r)
	n, _ := io1.readBytes(4)
	if n != 0 {
		t.Fatalf("expected 0 bytes on an empty, never-written pipe, got %d", n)
	}
}
