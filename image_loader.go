// image_loader.go - loads a parsed listing into board memory

package main

// LoadImage walks every data-carrying field of listing in address order and
// issues a SET_MEM request for each one, planting the program image into
// board memory exactly as the listing describes it (§4.4). Fields that were
// clipped out during parsing (DataSize == 0) are skipped.
func LoadImage(b *Board, listing *SourceListing) {
	for i := 0; i < listing.Len(); i++ {
		line := listing.At(i)
		offset := uint32(0)
		for j := 0; j < sourceFieldCount; j++ {
			size := line.DataSize[j]
			if size > 0 {
				setMemory(b, line.Address+offset, line.DataValue[j], size)
			}
			offset += uint32(size)
		}
	}
}

// setMemory sends one SET_MEM request: opcode | size-code, the 4-byte
// address, a 2-byte element count (always 1 here) and the value itself.
func setMemory(b *Board, address uint32, value uint32, size int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.sendOpcode(Opcode(byte(opSetMem) | memSizeCode(size)))
	b.io.writeU(4, address)
	b.io.writeU(2, 1)
	b.io.writeU(size, value)
}
