// wire_protocol.go - Framed byte I/O and the board's binary wire protocol

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// Opcode is one byte of the board's wire protocol (§6.1).
type Opcode byte

const (
	opStart    Opcode = 0xB0
	opWotUDo   Opcode = 0x20
	opStop     Opcode = 0x21
	opContinue Opcode = 0x23
	opReset    Opcode = 0x04

	opFrWrite Opcode = 0x12
	opFrRead  Opcode = 0x13

	opBpWrite Opcode = 0x30
	opBpRead  Opcode = 0x31
	opBpSet   Opcode = 0x32
	opBpGet   Opcode = 0x33

	opGetReg Opcode = 0x5A
	opSetReg Opcode = 0x52 // unused by the host

	opGetMem Opcode = 0x4A
	opSetMem Opcode = 0x40 // low nibble ORed with the size code
)

// memSizeCode maps a field width in bytes to the SET_MEM opcode's size code.
func memSizeCode(size int) byte {
	switch size {
	case 1:
		return 0
	case 2:
		return 1
	case 4:
		return 2
	case 8:
		return 3
	default:
		return 0
	}
}

const (
	inPollTimeoutMS  = 1000 // readBytes poll timeout, per §4.1
	outPollTimeoutMS = 100  // writeBytes poll timeout, per §4.1
	maxSerialWord    = 4    // readU/writeU clip to 4 bytes
)

// FramedIO is the polled, timeout-bounded byte transport between the host
// and the board (C1). tx is host->board, rx is board->host. Both ends are
// plain pipes; poll(2) (via x/sys/unix) stands in for blocking I/O so that
// no call can stall indefinitely (§5).
type FramedIO struct {
	tx *os.File
	rx *os.File
}

// NewFramedIO wraps the host-side ends of the two board pipes.
func NewFramedIO(tx, rx *os.File) *FramedIO {
	return &FramedIO{tx: tx, rx: rx}
}

// writeBytes polls tx for writability (100ms) and writes buf in full.
// A timeout or a partial write is logged and the write is dropped —
// never blocks indefinitely (§4.1, §7).
func (f *FramedIO) writeBytes(buf []byte) {
	pfd := []unix.PollFd{{Fd: int32(f.tx.Fd()), Events: unix.POLLOUT}}
	n, err := unix.Poll(pfd, outPollTimeoutMS)
	if err != nil || n == 0 {
		fmt.Fprintln(os.Stderr, "jimkmd: board not responding to write!")
		return
	}
	written, err := f.tx.Write(buf)
	if err != nil || written != len(buf) {
		fmt.Fprintln(os.Stderr, "jimkmd: pipe write error!")
	}
}

func (f *FramedIO) writeU8(b byte) {
	f.writeBytes([]byte{b})
}

// writeU emits the low n (clipped to 4) bytes of value, least significant
// byte first.
func (f *FramedIO) writeU(n int, value uint32) {
	if n > maxSerialWord {
		n = maxSerialWord
	}
	buf := make([]byte, n)
	for i := 0; i < n; i++ {
		buf[i] = byte(value)
		value >>= 8
	}
	f.writeBytes(buf)
}

// readBytes polls rx with a 1000ms timeout per chunk, accumulating up to n
// bytes. Returns fewer than n on timeout or EOF.
func (f *FramedIO) readBytes(n int) (int, []byte) {
	buf := make([]byte, n)
	got := 0
	for got < n {
		pfd := []unix.PollFd{{Fd: int32(f.rx.Fd()), Events: unix.POLLIN}}
		ready, err := unix.Poll(pfd, inPollTimeoutMS)
		if err != nil || ready == 0 {
			break
		}
		m, err := f.rx.Read(buf[got:])
		if m <= 0 || err != nil {
			break
		}
		got += m
	}
	return got, buf[:got]
}

func (f *FramedIO) readU8() (int, byte) {
	n, buf := f.readBytes(1)
	if n != 1 {
		return n, 0
	}
	return n, buf[0]
}

// readU decodes up to 4 little-endian bytes into a uint32. The returned
// count is the number of bytes actually received.
func (f *FramedIO) readU(n int) (int, uint32) {
	if n > maxSerialWord {
		n = maxSerialWord
	}
	got, buf := f.readBytes(n)
	var v uint32
	for i := 0; i < got; i++ {
		v |= uint32(buf[i]) << (8 * i)
	}
	return got, v
}

// Board is the host-side handle on the running emulator: the pipe pair plus
// the single protocol mutex that makes each request/response exchange
// atomic with respect to others (§5). All higher-level components
// (breakpoints, execution control, memory view, registers, terminal) issue
// their wire exchanges through a *Board.
type Board struct {
	io *FramedIO
	mu sync.Mutex // held for the full duration of one exchange
}

// NewBoard wraps a connected pipe pair as a Board.
func NewBoard(tx, rx *os.File) *Board {
	return &Board{io: NewFramedIO(tx, rx)}
}

func (b *Board) sendOpcode(op Opcode) {
	b.io.writeU8(byte(op))
}
