package main

import "testing"

func TestSetBreakpointClaimsFreeSlot(t *testing.T) {
	board, fb := newFakeBoard(t)
	table := NewBreakpointTable(board)

	fb.defined = 0
	fb.active = 0xFFFFFFFF // every slot undefined and available

	if !table.SetBreakpoint(0x2000) {
		t.Fatalf("expected SetBreakpoint to succeed when slots are free")
	}
	if fb.defined&1 == 0 {
		t.Fatalf("expected slot 0 to be marked defined, defined=0x%X", fb.defined)
	}
	if fb.records[0].addressA != addressToBytes(0x2000) {
		t.Fatalf("expected slot 0 to store address 0x2000, got %v", fb.records[0].addressA)
	}
}

func TestSetBreakpointFailsWhenTableFull(t *testing.T) {
	board, fb := newFakeBoard(t)
	table := NewBreakpointTable(board)

	fb.defined = 0xFFFFFFFF // every slot already defined
	fb.active = 0           // none marked as free

	for i := 0; i < maxBreakpoints; i++ {
		fb.records[i].addressA = addressToBytes(uint32(0x1000 + i*4))
	}

	if table.SetBreakpoint(0x9999) {
		t.Fatalf("expected SetBreakpoint to fail when no free slot exists")
	}
}

func TestListBreakpointsReturnsDefinedAddresses(t *testing.T) {
	board, fb := newFakeBoard(t)
	table := NewBreakpointTable(board)

	fb.defined = 0b101
	fb.records[0].addressA = addressToBytes(0x100)
	fb.records[2].addressA = addressToBytes(0x200)

	got := table.ListBreakpoints()
	if len(got) != 2 {
		t.Fatalf("expected 2 breakpoints, got %d: %v", len(got), got)
	}
	if got[0] != 0x100 || got[1] != 0x200 {
		t.Fatalf("unexpected breakpoint addresses: %v", got)
	}
}
