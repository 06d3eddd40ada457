// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package blockpool_test

import (
	"testing"
	"unsafe"

	"code.hybscloud.com/blockpool"
)

func TestIoVecFromBytesSlice(t *testing.T) {
	t.Run("empty slice", func(t *testing.T) {
		addr, n := blockpool.IoVecFromBytesSlice(nil)
		if addr != 0 || n != 0 {
			t.Errorf("expected (0, 0), got (%d, %d)", addr, n)
		}
	})

	t.Run("single buffer", func(t *testing.T) {
		buf := make([]byte, 128)
		buf[0] = 0xAB
		iov := [][]byte{buf}
		addr, n := blockpool.IoVecFromBytesSlice(iov)
		if n != 1 {
			t.Errorf("expected n=1, got %d", n)
		}
		if addr == 0 {
			t.Error("expected non-zero address")
		}
	})

	t.Run("multiple buffers", func(t *testing.T) {
		bufs := [][]byte{
			make([]byte, 64),
			make([]byte, 128),
			make([]byte, 256),
		}
		addr, n := blockpool.IoVecFromBytesSlice(bufs)
		if n != 3 {
			t.Errorf("expected n=3, got %d", n)
		}
		if addr == 0 {
			t.Error("expected non-zero address")
		}
	})
}

func TestIoVecAddrLen(t *testing.T) {
	t.Run("empty slice", func(t *testing.T) {
		addr, n := blockpool.IoVecAddrLen(nil)
		if addr != 0 || n != 0 {
			t.Errorf("expected (0, 0), got (%d, %d)", addr, n)
		}
	})

	t.Run("non-empty slice", func(t *testing.T) {
		vec := make([]blockpool.IoVec, 4)
		addr, n := blockpool.IoVecAddrLen(vec)
		if n != 4 {
			t.Errorf("expected n=4, got %d", n)
		}
		if addr == 0 {
			t.Error("expected non-zero address")
		}
		expectedAddr := uintptr(unsafe.Pointer(&vec[0]))
		if addr != expectedAddr {
			t.Errorf("expected addr=%d, got %d", expectedAddr, addr)
		}
	})
}

func TestPool_IoVecs(t *testing.T) {
	p, err := blockpool.New(16, 16)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if vecs := p.IoVecs(); vecs != nil {
		t.Errorf("expected nil IoVecs on empty pool, got %v", vecs)
	}

	a1, err := p.Reserve(10)
	if err != nil {
		t.Fatalf("Reserve(10) failed: %v", err)
	}
	a2, err := p.Reserve(40)
	if err != nil {
		t.Fatalf("Reserve(40) failed: %v", err)
	}

	vecs := p.IoVecs()
	if len(vecs) != 2 {
		t.Fatalf("expected 2 IoVecs, got %d", len(vecs))
	}
	got := map[uintptr]uint64{}
	for _, v := range vecs {
		got[uintptr(unsafe.Pointer(v.Base))] = v.Len
	}
	if got[a1] != 10 {
		t.Errorf("IoVec for a1: Len = %d, want 10", got[a1])
	}
	if got[a2] != 40 {
		t.Errorf("IoVec for a2: Len = %d, want 40", got[a2])
	}

	if err := p.Free(a1); err != nil {
		t.Fatalf("Free(a1) failed: %v", err)
	}
	vecs = p.IoVecs()
	if len(vecs) != 1 {
		t.Fatalf("expected 1 IoVec after Free, got %d", len(vecs))
	}
	if uintptr(unsafe.Pointer(vecs[0].Base)) != a2 || vecs[0].Len != 40 {
		t.Errorf("unexpected surviving IoVec: %+v", vecs[0])
	}
}

func TestPool_Buffers(t *testing.T) {
	p, err := blockpool.New(8, 8)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if bufs := p.Buffers(); bufs != nil {
		t.Errorf("expected nil Buffers on empty pool, got %v", bufs)
	}

	addr, err := p.Reserve(20)
	if err != nil {
		t.Fatalf("Reserve(20) failed: %v", err)
	}
	bufs := p.Buffers()
	if len(bufs) != 1 {
		t.Fatalf("expected 1 buffer, got %d", len(bufs))
	}
	if len(bufs[0]) != 20 {
		t.Errorf("buffer length = %d, want 20", len(bufs[0]))
	}
	if uintptr(unsafe.Pointer(&bufs[0][0])) != addr {
		t.Errorf("buffer base does not match reserved address")
	}
}

func TestPool_RegisterableBuffers(t *testing.T) {
	p, err := blockpool.New(8, 8)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if addr, n := p.RegisterableBuffers(); addr != 0 || n != 0 {
		t.Errorf("expected (0, 0) on empty pool, got (%d, %d)", addr, n)
	}

	if _, err := p.Reserve(20); err != nil {
		t.Fatalf("Reserve(20) failed: %v", err)
	}
	if _, err := p.Reserve(8); err != nil {
		t.Fatalf("Reserve(8) failed: %v", err)
	}

	addr, n := p.RegisterableBuffers()
	if n != 2 {
		t.Fatalf("expected n=2, got %d", n)
	}
	if addr == 0 {
		t.Error("expected non-zero address")
	}
}

func TestPool_SubmissionAddr(t *testing.T) {
	p, err := blockpool.New(8, 8)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if addr, n := p.SubmissionAddr(); addr != 0 || n != 0 {
		t.Errorf("expected (0, 0) on empty pool, got (%d, %d)", addr, n)
	}

	if _, err := p.Reserve(20); err != nil {
		t.Fatalf("Reserve(20) failed: %v", err)
	}

	addr, n := p.SubmissionAddr()
	if n != 1 {
		t.Fatalf("expected n=1, got %d", n)
	}
	if addr == 0 {
		t.Error("expected non-zero address")
	}
}
