// memory_view.go - assembles the 13-row memory/disassembly view

package main

import (
	"fmt"
	"strings"
)

const memoryViewRows = 13

// MemoryRow is one line of the assembled memory view: an address, its hex
// and whichever disassembly/comment text applies, plus whether a breakpoint
// sits on this address. Where a listing line starts at the address, Hex
// holds each of that line's fields read from live memory (rendered
// most-significant-byte-first, followed by one space per byte); elsewhere
// Hex is "00000000" and Disassembly is "...".
type MemoryRow struct {
	Address     uint32
	Hex         string
	Disassembly string
	Breakpoint  bool
}

// MemoryView assembles the 13-row window by merging a raw memory dump from
// the board with the parsed listing (§4.7).
type MemoryView struct {
	board   *Board
	listing *SourceListing
	bp      *BreakpointTable
}

// NewMemoryView wires board, listing and bp together to build views.
func NewMemoryView(board *Board, listing *SourceListing, bp *BreakpointTable) *MemoryView {
	return &MemoryView{board: board, listing: listing, bp: bp}
}

// hexReversed renders b most-significant-byte-first, the way the board's
// little-endian storage is conventionally displayed.
func hexReversed(b []byte) string {
	var sb strings.Builder
	for i := len(b) - 1; i >= 0; i-- {
		fmt.Fprintf(&sb, "%02X", b[i])
	}
	return sb.String()
}

func stripComment(s string) string {
	if i := strings.IndexByte(s, ';'); i >= 0 {
		return s[:i]
	}
	return s
}

// disassembleIncrement computes how far the address cursor should advance
// when the current row doesn't line up with the cursor's source line: to
// the next source line if it's within a word, otherwise to the next word
// boundary.
func disassembleIncrement(lines []*SourceLine, idx int, addr uint32) uint32 {
	src := lines[idx]
	diff := src.Address - addr
	if diff == 0 {
		if idx+1 < len(lines) {
			diff = lines[idx+1].Address - addr
		} else {
			diff = 1000
		}
	}
	if diff < 4 {
		return diff
	}
	return 4 - (addr % 4)
}

// advanceCursor moves idx to the next data-carrying line, wrapping to the
// start of the listing at most once. Returns -1 once the cursor has
// exhausted the listing.
func advanceCursor(lines []*SourceLine, idx int, wrapped *bool) int {
	for {
		if idx+1 < len(lines) {
			idx++
		} else if !*wrapped {
			idx = 0
			*wrapped = true
		} else {
			return -1
		}
		if lines[idx].HasData {
			return idx
		}
	}
}

// Rows fetches memoryViewRows consecutive words of board memory starting
// at the word containing address and builds memoryViewRows rows from there.
// A row whose address is where a listing line starts shows that line's
// fields read from the fetched memory and its disassembly; every other row
// shows the "00000000" / "..." placeholder.
func (v *MemoryView) Rows(address uint32) []MemoryRow {
	startAddr := address &^ 3

	v.board.mu.Lock()
	v.board.sendOpcode(opGetMem)
	v.board.io.writeU(4, startAddr)
	v.board.io.writeU(2, memoryViewRows)
	n, memdata := v.board.io.readBytes(memoryViewRows * 4)
	v.board.mu.Unlock()
	if n < memoryViewRows*4 {
		memdata = append(memdata, make([]byte, memoryViewRows*4-n)...)
	}

	bps := make(map[uint32]bool)
	if v.bp != nil {
		for _, a := range v.bp.ListBreakpoints() {
			bps[a] = true
		}
	}

	lines := v.listing.lines
	srcIdx := -1
	wrapped := false
	if len(lines) > 0 {
		srcIdx = v.listing.findFrom(startAddr)
		if srcIdx == -1 {
			srcIdx = v.listing.firstWithData()
			wrapped = true
		}
	}

	rows := make([]MemoryRow, memoryViewRows)
	addr := startAddr

	for row := 0; row < memoryViewRows; row++ {
		var r MemoryRow
		r.Address = addr
		increment := uint32(4)

		if srcIdx != -1 {
			src := lines[srcIdx]
			if addr == src.Address {
				increment = 0
				var hex strings.Builder
				offset := addr - startAddr

				for i := 0; i < sourceFieldCount; i++ {
					size := src.DataSize[i]
					if size > 0 {
						lo := offset + increment
						hi := lo + uint32(size)
						if int(hi) <= len(memdata) {
							hex.WriteString(hexReversed(memdata[lo:hi]))
						}
						hex.WriteString(strings.Repeat(" ", size))
					}
					increment += uint32(size)
				}

				r.Hex = hex.String()
				r.Disassembly = stripComment(src.Text)

				srcIdx = advanceCursor(lines, srcIdx, &wrapped)
			} else {
				r.Hex = "00000000"
				r.Disassembly = "..."
				increment = disassembleIncrement(lines, srcIdx, addr)
			}
		} else {
			r.Hex = "00000000"
			r.Disassembly = "..."
		}

		if bps[r.Address] {
			r.Breakpoint = true
		}

		rows[row] = r
		addr += increment
	}

	return rows
}
