package main

import "testing"

func TestCheckBoardStateCoercesUnknownByteToNormal(t *testing.T) {
	board, fb := newFakeBoard(t)
	status := NewStatusReader(board)

	fb.status = 0xEE // not any recognised BoardState value

	if got := status.CheckBoardState(); got != StateNormal {
		t.Fatalf("expected unknown status byte to coerce to NORMAL, got 0x%X", got)
	}
}

func TestCheckBoardStatePassesThroughKnownStates(t *testing.T) {
	board, fb := newFakeBoard(t)
	status := NewStatusReader(board)

	fb.status = byte(StateBreakpoint)
	if got := status.CheckBoardState(); got != StateBreakpoint {
		t.Fatalf("expected BREAKPOINT to pass through unchanged, got 0x%X", got)
	}
}

func TestRegisterBankReadDecodesSixteenWords(t *testing.T) {
	board, fb := newFakeBoard(t)
	bank := NewRegisterBank(board)

	// r0 = little-endian bytes 01 02 03 04 -> displayed big-endian 0x04030201...
	// wait: our render is data[i*4+3..0] MSB-first of stored bytes.
	fb.registers[0] = 0x01
	fb.registers[1] = 0x02
	fb.registers[2] = 0x03
	fb.registers[3] = 0x04

	regs := bank.Read()
	if regs[0] != "0x04030201" {
		t.Fatalf("expected r0 = 0x04030201, got %s", regs[0])
	}
	if len(regs) != 16 {
		t.Fatalf("expected 16 registers, got %d", len(regs))
	}
}
