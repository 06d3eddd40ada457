// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package blockpool

import "unsafe"

// Free marks the run whose head block's data pointer equals addr as free.
// addr must be a value previously returned by Reserve on this Pool and not
// yet freed.
//
// Free resolves addr to its block in O(1) via pointer arithmetic, recovers
// the run's extent from the head block's used_size (no separate size map is
// needed), and clears used_size across the run. It never moves the cursor;
// the reservation engine's occupied-run skip naturally discovers freed
// space on its next pass.
func (p *Pool) Free(addr uintptr) error {
	idx, ok := p.addressToIndex(addr)
	if !ok {
		return p.invalidFree()
	}
	head := &p.blocks[idx]
	if uintptr(unsafe.Pointer(head.data)) != addr {
		return p.invalidFree()
	}
	if head.usedSize == 0 {
		return p.doubleFree()
	}

	p.bytesInUse -= head.usedSize
	runLength := p.BlocksNeeded(head.usedSize)

	if p.debug {
		start := idx * p.blockSize
		end := start + runLength*p.blockSize
		if end > len(p.region) {
			end = len(p.region)
		}
		clear(p.region[start:end])
	}

	cur := idx
	for i := 0; i < runLength; i++ {
		p.blocks[cur].usedSize = 0
		cur = p.blocks[cur].next
	}

	return nil
}

func (p *Pool) invalidFree() error {
	if p.debug {
		panic(ErrInvalidAddress)
	}
	return ErrInvalidAddress
}

func (p *Pool) doubleFree() error {
	if p.debug {
		panic(ErrDoubleFree)
	}
	return ErrDoubleFree
}

// Clear resets every block's used_size to 0, bytesInUse to 0, and the
// cursor to 0. Addresses returned by Reserve before a Clear are invalidated.
func (p *Pool) Clear() {
	for i := range p.blocks {
		p.blocks[i].usedSize = 0
	}
	p.bytesInUse = 0
	p.cursor = 0
}
