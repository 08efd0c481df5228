package main

import "testing"

func TestMemoryViewReturnsThirteenRows(t *testing.T) {
	board, _ := newFakeBoard(t)
	listing := NewSourceListing()
	view := NewMemoryView(board, listing, nil)

	rows := view.Rows(0x1000)
	if len(rows) != memoryViewRows {
		t.Fatalf("expected %d rows, got %d", memoryViewRows, len(rows))
	}
}

func TestMemoryViewStartsAtWordAlignedAddress(t *testing.T) {
	board, _ := newFakeBoard(t)
	listing := NewSourceListing()
	view := NewMemoryView(board, listing, nil)

	rows := view.Rows(0x1003) // not word-aligned
	if rows[0].Address != 0x1000 {
		t.Fatalf("expected first row to align down to 0x1000, got 0x%X", rows[0].Address)
	}
}

func TestMemoryViewFallsBackToPlaceholderWithoutAListing(t *testing.T) {
	board, _ := newFakeBoard(t)
	listing := NewSourceListing()
	view := NewMemoryView(board, listing, nil)

	rows := view.Rows(0x2000)
	if rows[0].Hex != "00000000" || rows[0].Disassembly != "..." {
		t.Fatalf("expected raw-memory placeholder row, got %+v", rows[0])
	}
}

func TestHexReversedRendersMostSignificantByteFirst(t *testing.T) {
	got := hexReversed([]byte{0x01, 0x02, 0x03, 0x04})
	if got != "04030201" {
		t.Fatalf("expected 04030201, got %s", got)
	}
}
