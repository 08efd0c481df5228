// terminal_relay.go - the virtual terminal multiplexed over the board pipe

package main

const (
	terminalNumber  = 0   // the only terminal channel the board exposes
	pullChunkMax    = 255 // largest single FR_READ request
)

// TerminalRelay moves bytes between the host and the board's single virtual
// terminal channel, using FR_READ/FR_WRITE frames multiplexed over the same
// pipe pair as every other request (§4.9).
type TerminalRelay struct {
	board *Board
}

// NewTerminalRelay wraps board with terminal relay operations.
func NewTerminalRelay(board *Board) *TerminalRelay {
	return &TerminalRelay{board: board}
}

// PullOutput drains everything the board currently has queued for the
// terminal. It issues FR_READ requests until one comes back reporting zero
// bytes available, which is the board's own end-of-batch marker.
func (t *TerminalRelay) PullOutput() string {
	var out []byte

	for {
		t.board.mu.Lock()
		t.board.sendOpcode(opFrRead)
		t.board.io.writeU8(terminalNumber)
		t.board.io.writeU8(pullChunkMax)
		n, length := t.board.io.readU8()
		if n != 1 || length == 0 {
			t.board.mu.Unlock()
			break
		}
		got, chunk := t.board.io.readBytes(int(length))
		t.board.mu.Unlock()

		out = append(out, chunk[:got]...)
		if got < int(length) {
			break
		}
	}

	return string(out)
}

// isSendableKey reports whether b is a byte the board's terminal accepts:
// printable ASCII, or one of newline/backspace/tab/bell.
func isSendableKey(b byte) bool {
	if b >= ' ' && b <= 0x7F {
		return true
	}
	switch b {
	case '\n', '\b', '\t', '\a':
		return true
	default:
		return false
	}
}

// normalizeKey maps a raw terminal keystroke onto the byte the board's
// terminal expects: a raw-mode terminal sends CR for Enter and (on most
// modern terminals) DEL for Backspace, but the board's own line editing
// wants LF and BS respectively.
func normalizeKey(b byte) byte {
	switch b {
	case '\r':
		return '\n'
	case 0x7F:
		return 0x08
	default:
		return b
	}
}

// PushInput sends a single raw key byte to the board's terminal, after
// normalizing it (§4.9). Returns false without sending anything if the
// normalized byte isn't one the board's terminal accepts.
func (t *TerminalRelay) PushInput(b byte) bool {
	b = normalizeKey(b)
	if !isSendableKey(b) {
		return false
	}

	t.board.mu.Lock()
	defer t.board.mu.Unlock()

	t.board.sendOpcode(opFrWrite)
	t.board.io.writeU8(terminalNumber)
	t.board.io.writeU8(1)
	t.board.io.writeU8(b)
	t.board.io.readU8() // acknowledgement byte, discarded
	return true
}
