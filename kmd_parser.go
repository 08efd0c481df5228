// kmd_parser.go - SourceLine/SourceListing model and the .kmd grammar

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	sourceFieldCount = 4 // max data fields per .kmd line
	sourceByteCount  = 4 // clip a line's total bytes to this
)

// SourceLine is one parsed record of a .kmd listing: an address, up to
// four data fields and the disassembly/comment text that follows the `;`.
type SourceLine struct {
	Address    uint32
	DataSize   [sourceFieldCount]int
	DataValue  [sourceFieldCount]uint32
	Text       string
	HasData    bool // at least one field carries bytes
}

// ByteTotal sums the widths of this line's data fields.
func (l *SourceLine) ByteTotal() int {
	total := 0
	for _, s := range l.DataSize {
		total += s
	}
	return total
}

// SourceListing holds every parsed SourceLine, sorted by address. Lines with
// equal addresses keep the order they were read in (stable insertion),
// matching the linked-list insertion rule of the original parser.
type SourceListing struct {
	lines []*SourceLine
}

// NewSourceListing returns an empty listing.
func NewSourceListing() *SourceListing {
	return &SourceListing{}
}

// Len reports how many lines are in the listing.
func (s *SourceListing) Len() int { return len(s.lines) }

// At returns the i'th line in address order.
func (s *SourceListing) At(i int) *SourceLine { return s.lines[i] }

// insert places line in address order, after any existing lines with a
// lower-or-equal address — a stable insertion sort, one line at a time,
// mirroring the original's linked-list walk.
func (s *SourceListing) insert(line *SourceLine) {
	i := 0
	for i < len(s.lines) && line.Address >= s.lines[i].Address {
		i++
	}
	s.lines = append(s.lines, nil)
	copy(s.lines[i+1:], s.lines[i:])
	s.lines[i] = line
}

// findFrom returns the index of the first line whose address is >= from and
// which carries data, or -1 if none exists.
func (s *SourceListing) findFrom(from uint32) int {
	for i, l := range s.lines {
		if l.Address >= from && l.HasData {
			return i
		}
	}
	return -1
}

// firstWithData returns the index of the first line carrying data, or -1.
func (s *SourceListing) firstWithData() int {
	for i, l := range s.lines {
		if l.HasData {
			return i
		}
	}
	return -1
}

// isHexDigit reports whether c is a legal hex digit.
func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'A' && c <= 'F') || (c >= 'a' && c <= 'f')
}

func hexValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	default:
		return int(c-'a') + 10
	}
}

// kmdReader steps one byte at a time over a .kmd file, mirroring the
// original's getc(FILE*)-driven state machine.
type kmdReader struct {
	r    *bufio.Reader
	cur  byte
	eof  bool
}

func newKMDReader(r io.Reader) *kmdReader {
	k := &kmdReader{r: bufio.NewReader(r)}
	k.advance()
	return k
}

func (k *kmdReader) advance() {
	b, err := k.r.ReadByte()
	if err != nil {
		k.eof = true
		k.cur = 0
		return
	}
	k.cur = b
}

// readNumber skips leading whitespace, consumes hex digits and rounds the
// digit count up to a byte count that is itself rounded up to the next
// power of two (clipped to 4 bytes) — the exact rule the original
// readNumberFromFile implements.
func (k *kmdReader) readNumber() (width int, value uint32) {
	for !k.eof && (k.cur == ' ' || k.cur == '\t') {
		k.advance()
	}

	digits := 0
	var v uint32
	for !k.eof && isHexDigit(k.cur) {
		v = (v << 4) | uint32(hexValue(k.cur))
		digits++
		k.advance()
	}

	if digits == 0 {
		return 0, 0
	}

	bytes := (digits + 1) / 2
	if bytes > 4 {
		return 4, v
	}
	w := 1
	for w < bytes {
		w <<= 1
	}
	return w, v
}

// ParseKMD parses the listing at path into a SourceListing. Each non-symbol
// line (one not starting with ':') yields a SourceLine, address-sorted into
// the listing as it's produced; the text after `;` is optional. A line with
// no address of its own takes the address just past the previous record's
// data, and is skipped when no record has been read since the start of the
// file or the last symbol line. Field totals above sourceByteCount are
// clipped: trailing fields that would overflow are dropped from this line.
func ParseKMD(path string) (*SourceListing, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("kmd: open %s: %w", path, err)
	}
	defer f.Close()

	listing := NewSourceListing()
	k := newKMDReader(f)
	var oldAddress uint32
	hasOldAddr := false

	for !k.eof {
		c := k.cur
		if c == ':' {
			hasOldAddr = false
			k.advance()
			skipLine(k)
			continue
		}

		var dsize [sourceFieldCount]int
		var dvalue [sourceFieldCount]uint32
		byteTotal := 0

		width, addr := k.readNumber()
		haveAddr := width != 0

		if haveAddr {
			if k.cur == ':' {
				k.advance()
			}
			for j := 0; j < sourceFieldCount; j++ {
				w, v := k.readNumber()
				if w == 0 {
					break
				}
				dsize[j] = w
				dvalue[j] = v
				byteTotal += w
			}
			oldAddress = addr + uint32(byteTotal)
			hasOldAddr = true
		} else if hasOldAddr {
			addr = oldAddress
			haveAddr = true
		}

		if !haveAddr {
			skipLine(k)
			continue
		}

		for !k.eof && k.cur != ';' && k.cur != '\n' {
			k.advance()
		}

		var text strings.Builder
		if k.cur == ';' {
			k.advance()
			if k.cur == ' ' {
				k.advance()
			}
			for !k.eof && k.cur != '\n' && text.Len() < 100 {
				text.WriteByte(k.cur)
				k.advance()
			}
		}

		line := &SourceLine{Address: addr, Text: text.String()}

		if byteTotal > sourceByteCount {
			running := 0
			for j := 0; j < sourceFieldCount; j++ {
				running += dsize[j]
				if running > sourceByteCount {
					dsize[j] = 0
					dvalue[j] = 0
				}
			}
		}

		total := 0
		for j := 0; j < sourceFieldCount; j++ {
			line.DataSize[j] = dsize[j]
			line.DataValue[j] = dvalue[j]
			total += dsize[j]
		}
		line.HasData = total > 0

		listing.insert(line)
		skipLine(k)
	}

	return listing, nil
}

func skipLine(k *kmdReader) {
	for !k.eof && k.cur != '\n' {
		k.advance()
	}
	if !k.eof {
		k.advance()
	}
}
