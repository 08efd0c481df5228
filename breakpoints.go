// breakpoints.go - the 32-slot breakpoint table and its toggle semantics

package main

const maxBreakpoints = 32

// breakpointRecord mirrors the board's own breakpoint definition: two
// 4-byte address bounds and two 8-byte data masks, none of which this
// client inspects beyond AddressA — the board treats the rest as opaque.
type breakpointRecord struct {
	misc     uint16
	addressA [4]byte
	addressB [4]byte
	dataA    [8]byte
	dataB    [8]byte
}

// BreakpointTable is the host's view onto the board's 32-slot breakpoint
// store (§4.5). It issues BP_GET/BP_READ/BP_WRITE/BP_SET requests on demand;
// it holds no independent state of its own, matching the original's design
// of always trusting a fresh read from the board over cached values.
type BreakpointTable struct {
	board *Board
}

// NewBreakpointTable wraps board with breakpoint-table operations.
func NewBreakpointTable(board *Board) *BreakpointTable {
	return &BreakpointTable{board: board}
}

// status reads wordA (one bit per defined slot) and wordB (one bit per
// active slot) from the board via BP_GET. ok is false if either word came
// back short.
func (t *BreakpointTable) status() (wordA, wordB uint32, ok bool) {
	t.board.mu.Lock()
	defer t.board.mu.Unlock()

	t.board.sendOpcode(opBpGet)
	n1, a := t.board.io.readU(4)
	n2, b := t.board.io.readU(4)
	return a, b, n1 == 4 && n2 == 4
}

// definition reads the full breakpoint record at slot via BP_READ. ok is
// false if any of the five reads came back short.
func (t *BreakpointTable) definition(slot int) (rec breakpointRecord, ok bool) {
	t.board.mu.Lock()
	defer t.board.mu.Unlock()

	t.board.sendOpcode(opBpRead)
	t.board.io.writeU8(byte(slot))

	n0, misc := t.board.io.readU(2)
	n1, a := t.board.io.readBytes(4)
	n2, b := t.board.io.readBytes(4)
	n3, da := t.board.io.readBytes(8)
	n4, db := t.board.io.readBytes(8)

	if n0 != 2 || n1 != 4 || n2 != 4 || n3 != 8 || n4 != 8 {
		return rec, false
	}

	rec.misc = uint16(misc)
	copy(rec.addressA[:], a)
	copy(rec.addressB[:], b)
	copy(rec.dataA[:], da)
	copy(rec.dataB[:], db)
	return rec, true
}

// setStatus sends wordA and wordB via BP_SET. The board applies wordA's bits
// to the slots selected by wordB, so (0, 1<<i) clears slot i alone.
func (t *BreakpointTable) setStatus(wordA, wordB uint32) {
	t.board.mu.Lock()
	defer t.board.mu.Unlock()

	t.board.sendOpcode(opBpSet)
	t.board.io.writeU(4, wordA)
	t.board.io.writeU(4, wordB)
}

// setDefinition writes a fresh breakpoint record at slot via BP_WRITE.
func (t *BreakpointTable) setDefinition(slot int, rec breakpointRecord) {
	t.board.mu.Lock()
	defer t.board.mu.Unlock()

	t.board.sendOpcode(opBpWrite)
	t.board.io.writeU8(byte(slot))
	t.board.io.writeU(2, uint32(rec.misc))
	t.board.io.writeBytes(rec.addressA[:])
	t.board.io.writeBytes(rec.addressB[:])
	t.board.io.writeBytes(rec.dataA[:])
	t.board.io.writeBytes(rec.dataB[:])
}

func addressToBytes(addr uint32) [4]byte {
	return [4]byte{byte(addr), byte(addr >> 8), byte(addr >> 16), byte(addr >> 24)}
}

func bytesToAddress(b [4]byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// SetBreakpoint toggles a breakpoint at address: if one is already defined
// there it is cleared and false is returned; otherwise a free slot is
// claimed and true is returned. false also means "no free slot" when none
// existed to begin with — the board gives no way to tell the two apart,
// and the original client doesn't either (§4.5).
func (t *BreakpointTable) SetBreakpoint(address uint32) bool {
	addr := addressToBytes(address)

	wordA, wordB, ok := t.status()
	if !ok {
		return false
	}

	found := false
	for i := 0; i < maxBreakpoints; i++ {
		if (wordA>>uint(i))&1 == 0 {
			continue
		}
		rec, ok := t.definition(i)
		if ok && rec.addressA == addr {
			found = true
			t.setStatus(0, 1<<uint(i))
		}
	}
	if found {
		return false
	}

	free := (^wordA) & wordB
	if free == 0 {
		return false
	}

	slot := 0
	for (free>>uint(slot))&1 == 0 {
		slot++
	}

	rec := breakpointRecord{misc: 0xFFFF, addressA: addr}
	for i := range rec.addressB {
		rec.addressB[i] = 0xFF
	}
	t.setDefinition(slot, rec)
	return true
}

// ListBreakpoints returns the address of every currently defined
// breakpoint, in slot order.
func (t *BreakpointTable) ListBreakpoints() []uint32 {
	wordA, _, ok := t.status()
	if !ok {
		return nil
	}

	var out []uint32
	for i := 0; i < maxBreakpoints; i++ {
		if (wordA>>uint(i))&1 == 0 {
			continue
		}
		rec, ok := t.definition(i)
		if ok {
			out = append(out, bytesToAddress(rec.addressA))
		}
	}
	return out
}
