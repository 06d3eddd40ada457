// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package blockpool

import (
	"fmt"
	"unsafe"

	"code.hybscloud.com/iox"
)

// MaxBlocks is the largest block count the CLI driver's -b flag accepts.
// The library itself has no hard ceiling; this bound only keeps the
// driver's flag validation sane.
const MaxBlocks = 1 << 24

// MaxBlockSize is the largest block size the CLI driver's -s flag accepts.
const MaxBlockSize = SizeTitan

// block is one metadata record in the pool's block index.
//
// Invariants, held between any two public Pool operations:
//
//	data == backing region base + index*blockSize
//	next is the block's successor in index order, or -1 for the last block
//	usedSize == 0 means free; on the head block of a reserved run usedSize
//	holds the run's requested byte size; on a non-head block of a reserved
//	run usedSize is some other nonzero value.
type block struct {
	data     *byte
	next     int
	usedSize int
	index    int
}

// Pool is a fixed-block-size memory pool allocator. It serves variable-sized
// allocation requests out of a single pre-reserved contiguous backing region
// divided into blockCount blocks of blockSize bytes each.
//
// Pool is single-owner: Reserve, Free, Clear, and the dump/gather methods
// must not be called concurrently with each other on the same Pool. Use
// Sharded for concurrent access across independent Pool instances.
type Pool struct {
	_ noCopy

	region     []byte
	blocks     []block
	blockSize  int
	blockCount int
	bytesInUse int
	cursor     int
	debug      bool
}

// New constructs a Pool with blockCount blocks of blockSize bytes each,
// reserving blockSize*blockCount bytes from the host allocator up front.
// All blocks start free and the cursor starts at block 0.
func New(blockSize, blockCount int) (pool *Pool, err error) {
	if blockSize < 1 || blockCount < 1 {
		return nil, ErrInvalidSize
	}

	defer func() {
		if r := recover(); r != nil {
			pool, err = nil, fmt.Errorf("blockpool: backing allocation failed: %v", r)
		}
	}()

	region := make([]byte, blockSize*blockCount)
	blocks := make([]block, blockCount)
	base := unsafe.Pointer(unsafe.SliceData(region))
	for i := range blocks {
		blocks[i] = block{
			data:  (*byte)(unsafe.Add(base, i*blockSize)),
			next:  i + 1,
			index: i,
		}
	}
	blocks[blockCount-1].next = -1

	return &Pool{
		region:     region,
		blocks:     blocks,
		blockSize:  blockSize,
		blockCount: blockCount,
	}, nil
}

// SetDebug toggles debug-build behavior: zeroing newly freed memory for
// readable dumps, and panicking (in addition to returning an error) on
// invalid-free and double-free conditions. Debug mode is off by default,
// matching a release build of the allocator.
func (p *Pool) SetDebug(debug bool) {
	p.debug = debug
}

// Debug reports whether debug mode is enabled.
func (p *Pool) Debug() bool {
	return p.debug
}

// TotalCapacity returns blockSize*blockCount, the total number of bytes the
// pool's backing region holds.
func (p *Pool) TotalCapacity() int {
	return p.blockSize * p.blockCount
}

// TotalBlocks returns the number of blocks in the pool.
func (p *Pool) TotalBlocks() int {
	return p.blockCount
}

// BytesInUse returns the sum of used_size across the head blocks of every
// currently-outstanding reservation.
func (p *Pool) BytesInUse() int {
	return p.bytesInUse
}

// BlockSize returns the fixed size, in bytes, of every block in the pool.
func (p *Pool) BlockSize() int {
	return p.blockSize
}

// BlocksNeeded returns ceil(nBytes/blockSize), the number of consecutive
// blocks a Reserve(nBytes) call would need to occupy.
func (p *Pool) BlocksNeeded(nBytes int) int {
	return (nBytes + p.blockSize - 1) / p.blockSize
}

// Close releases the Pool's backing region and block index so the garbage
// collector can reclaim them. It is idempotent. After Close, every address
// previously returned by Reserve is invalid, exactly as after Clear, and
// TotalBlocks and TotalCapacity report 0.
func (p *Pool) Close() error {
	p.region = nil
	p.blocks = nil
	p.blockCount = 0
	p.bytesInUse = 0
	p.cursor = 0
	return nil
}

// baseAddr returns the address of the first byte of the backing region.
func (p *Pool) baseAddr() uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(p.region)))
}

// addressToIndex resolves addr to a block index, reporting ok=false if addr
// does not land on a block boundary within the backing region.
func (p *Pool) addressToIndex(addr uintptr) (idx int, ok bool) {
	base := p.baseAddr()
	if addr < base || addr >= base+uintptr(p.TotalCapacity()) {
		return 0, false
	}
	offset := addr - base
	if int(offset)%p.blockSize != 0 {
		return 0, false
	}
	return int(offset) / p.blockSize, true
}

// errOutOfRoom is what Reserve returns when no contiguous free run is large
// enough, and when a request exceeds total capacity outright. It reuses
// iox's non-blocking-pool vocabulary: "no room right now" is the same
// caller-visible shape as "pool momentarily empty."
var errOutOfRoom = iox.ErrWouldBlock
