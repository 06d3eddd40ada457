// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package blockpool

import (
	"unsafe"
)

// IoVec represents a scatter/gather I/O descriptor compatible with the
// standard Linux struct iovec. It is used to pass multiple non-contiguous
// user-space buffers to the kernel in a single vectored I/O system call
// (readv, writev, preadv, pwritev, io_uring operations).
//
// Memory layout matches the C struct iovec exactly:
//
//	struct iovec {
//	    void  *iov_base;  // Starting address
//	    size_t iov_len;   // Number of bytes
//	};
//
// The caller must ensure Base points to valid memory for the lifetime of
// any I/O operation using this IoVec.
type IoVec struct {
	Base *byte  // Starting address of the memory block
	Len  uint64 // Number of bytes to transfer
}

// IoVecFromBytesSlice converts a slice of byte slices to a pointer and count
// suitable for io_uring buffer registration (IORING_REGISTER_BUFFERS2).
// Returns the address of the first IoVec element and the number of elements.
//
// Note: The returned address points to a newly allocated []IoVec slice.
// The caller must ensure the input slices remain valid for the lifetime
// of the registration.
func IoVecFromBytesSlice(iov [][]byte) (addr uintptr, n int) {
	if len(iov) == 0 {
		return 0, 0
	}
	vec := make([]IoVec, len(iov))
	for i := range len(iov) {
		vec[i] = IoVec{Base: unsafe.SliceData(iov[i]), Len: uint64(len(iov[i]))}
	}
	addr, n = uintptr(unsafe.Pointer(unsafe.SliceData(vec))), len(vec)
	return
}

// IoVecAddrLen extracts the raw pointer and length from an IoVec slice
// for direct syscall consumption (readv, writev, io_uring submission).
//
// Returns (0, 0) for empty or nil slices.
func IoVecAddrLen(vec []IoVec) (addr uintptr, n int) {
	if len(vec) == 0 {
		return 0, 0
	}
	addr, n = uintptr(unsafe.Pointer(unsafe.SliceData(vec))), len(vec)
	return
}

// IoVecs returns one IoVec per currently-outstanding reservation, each
// pointing at the head of a reserved run with Len set to the run's
// requested byte count (not the rounded-up block count). Order follows
// block index, not reservation order. The returned slice aliases live pool
// memory; it is invalidated by any subsequent Free, Clear, or Close.
func (p *Pool) IoVecs() []IoVec {
	var vecs []IoVec
	// Runs never overlap and are laid out contiguously in index order, so a
	// single forward pass that jumps BlocksNeeded(used_size) blocks on every
	// occupied block it meets visits each run's head exactly once.
	for i := 0; i < p.blockCount; {
		b := &p.blocks[i]
		if b.usedSize == 0 {
			i++
			continue
		}
		vecs = append(vecs, IoVec{Base: b.data, Len: uint64(b.usedSize)})
		i += p.BlocksNeeded(b.usedSize)
	}
	return vecs
}

// Buffers returns a net.Buffers view over every currently-outstanding
// reservation, suitable for a single vectored write. It aliases the same
// live pool memory as IoVecs and carries the same invalidation rules.
func (p *Pool) Buffers() Buffers {
	vecs := p.IoVecs()
	if len(vecs) == 0 {
		return nil
	}
	bufs := make(Buffers, len(vecs))
	for i, v := range vecs {
		bufs[i] = unsafe.Slice(v.Base, int(v.Len))
	}
	return bufs
}

// RegisterableBuffers builds a fresh []IoVec from the pool's current live
// reservations and returns its address and length, ready for a fixed-buffer
// registration syscall (e.g. IORING_REGISTER_BUFFERS2) that wants a pointer
// to a contiguous iovec array rather than a Go slice value. The returned
// address is invalidated by any subsequent call to this method, Reserve, or
// Free, since each call allocates a new backing array.
func (p *Pool) RegisterableBuffers() (addr uintptr, n int) {
	return IoVecFromBytesSlice(p.Buffers())
}

// SubmissionAddr returns the address and count of the pool's current live
// IoVecs for direct readv/writev/io_uring submission. Like IoVecs, this is
// a fresh snapshot on every call and aliases live pool memory; the returned
// address is invalidated by any subsequent Reserve, Free, or Clear.
func (p *Pool) SubmissionAddr() (addr uintptr, n int) {
	return IoVecAddrLen(p.IoVecs())
}
