package main

import (
	"os"
	"testing"
)

// fakeBoard plays the emulator's side of the wire protocol against a real
// *Board under test, so the breakpoint/status/register logic can be
// exercised without a real jimulator binary.
type fakeBoard struct {
	rx *os.File // reads host requests
	tx *os.File // writes board replies

	defined   uint32
	active    uint32
	records   [maxBreakpoints]breakpointRecord
	status    byte
	registers [64]byte
	memBytes  map[uint32]byte
}

// memoryAt renders count words (4 bytes each) of simulated memory starting
// at addr, little-endian, defaulting unset bytes to zero.
func (fb *fakeBoard) memoryAt(addr uint32, count int) []byte {
	out := make([]byte, count*4)
	for i := range out {
		out[i] = fb.memBytes[addr+uint32(i)]
	}
	return out
}

func newFakeBoard(t *testing.T) (*Board, *fakeBoard) {
	t.Helper()

	hostToBoardR, hostToBoardW, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	boardToHostR, boardToHostW, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	t.Cleanup(func() {
		hostToBoardR.Close()
		hostToBoardW.Close()
		boardToHostR.Close()
		boardToHostW.Close()
	})

	fb := &fakeBoard{rx: hostToBoardR, tx: boardToHostW, active: 0xFFFFFFFF, memBytes: make(map[uint32]byte)}
	fio := NewFramedIO(fb.tx, fb.rx)
	go fb.serve(fio)

	board := NewBoard(hostToBoardW, boardToHostR)
	return board, fb
}

func (fb *fakeBoard) serve(fio *FramedIO) {
	for {
		n, op := fio.readU8()
		if n != 1 {
			return
		}

		switch Opcode(op) {
		case opBpGet:
			fio.writeU(4, fb.defined)
			fio.writeU(4, fb.active)

		case opBpRead:
			_, slot := fio.readU8()
			rec := fb.records[slot]
			fio.writeU(2, uint32(rec.misc))
			fio.writeBytes(rec.addressA[:])
			fio.writeBytes(rec.addressB[:])
			fio.writeBytes(rec.dataA[:])
			fio.writeBytes(rec.dataB[:])

		case opBpWrite:
			_, slot := fio.readU8()
			_, misc := fio.readU(2)
			_, a := fio.readBytes(4)
			_, b := fio.readBytes(4)
			_, da := fio.readBytes(8)
			_, db := fio.readBytes(8)
			var rec breakpointRecord
			rec.misc = uint16(misc)
			copy(rec.addressA[:], a)
			copy(rec.addressB[:], b)
			copy(rec.dataA[:], da)
			copy(rec.dataB[:], db)
			fb.records[slot] = rec
			fb.defined |= 1 << slot

		case opBpSet:
			_, wordA := fio.readU(4)
			_, wordB := fio.readU(4)
			// wordA's bits are applied to the slots selected by wordB.
			fb.defined = (fb.defined &^ wordB) | (wordA & wordB)

		case opWotUDo:
			fio.writeU8(fb.status)
			fio.writeU(4, 0)
			fio.writeU(4, 0)

		case opGetReg:
			fio.readU(4)
			fio.readU(2)
			fio.writeBytes(fb.registers[:])

		case opGetMem:
			_, addr := fio.readU(4)
			_, count := fio.readU(2)
			fio.writeBytes(fb.memoryAt(addr, int(count)))

		case opStart:
			fio.readU(4) // step count; nothing to reply with

		case opContinue, opStop, opReset:
			// fire-and-forget; nothing to reply with

		default:
			return
		}
	}
}
