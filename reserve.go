// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package blockpool

import "unsafe"

// Reserve returns the address of a byte range of length nBytes that lies
// entirely within the pool's backing region and is not currently reserved.
// The returned range spans ceil(nBytes/blockSize) consecutive blocks.
//
// Reserve implements first-fit search with a rotating cursor: it starts
// looking at the block the previous successful Reserve left off at, skips
// whole occupied runs in one step, and wraps around the index exactly once.
// It returns errOutOfRoom (iox.ErrWouldBlock) if no contiguous free run of
// the required length exists anywhere in the pool, including when nBytes
// exceeds the pool's total capacity outright.
func (p *Pool) Reserve(nBytes int) (uintptr, error) {
	if nBytes < 1 {
		return 0, ErrInvalidSize
	}
	if nBytes > p.TotalCapacity() {
		return 0, errOutOfRoom
	}

	examined := 0
	cursor := p.cursor

	for examined < p.blockCount {
		head := cursor
		b := &p.blocks[head]

		if b.usedSize > 0 {
			// The cursor sits on an occupied run: jump over the whole run
			// in one step rather than walking it block by block.
			skip := p.BlocksNeeded(b.usedSize)
			for i := 0; i < skip && examined < p.blockCount; i++ {
				cursor++
				if cursor >= p.blockCount {
					cursor = 0
				}
				examined++
			}
			continue
		}

		// The cursor sits on a free block: probe forward along the chain,
		// accumulating contiguous free capacity until it covers nBytes or
		// a non-free block (or the end of the index) terminates the run.
		available := p.blockSize
		examined++
		last := head
		for available < nBytes {
			next := p.blocks[last].next
			if next == -1 || p.blocks[next].usedSize != 0 {
				break
			}
			available += p.blockSize
			last = next
			examined++
			if examined >= p.blockCount {
				break
			}
		}

		if available >= nBytes {
			addr := p.blocks[head].data
			p.markRun(head, nBytes)
			return uintptr(unsafe.Pointer(addr)), nil
		}

		// This run fell short. Advance the cursor to the block immediately
		// after whichever occupied block terminated it (or to 0 if the run
		// ran off the end of the index), then keep searching.
		terminator := p.blocks[last].next
		if terminator == -1 {
			cursor = 0
			continue
		}
		after := p.blocks[terminator].next
		if after == -1 {
			cursor = 0
		} else {
			cursor = after
		}
	}

	return 0, errOutOfRoom
}

// markRun records a freshly reserved run starting at block head, writes the
// head's used_size to the full request size (invariant 4), writes a nonzero
// marker on every subsequent block of the run (invariant 5), updates
// bytesInUse, and places the cursor on the block immediately after the run,
// wrapping to 0 if the run reached the end of the index.
func (p *Pool) markRun(head, nBytes int) {
	p.bytesInUse += nBytes

	remaining := nBytes
	idx := head
	for remaining > 0 {
		p.blocks[idx].usedSize = remaining
		if p.blockSize > remaining {
			remaining = 0
		} else {
			remaining -= p.blockSize
		}
		next := p.blocks[idx].next
		if remaining == 0 {
			if next == -1 {
				p.cursor = 0
			} else {
				p.cursor = next
			}
		}
		idx = next
	}
}
