// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package blockpool_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/blockpool"
	"code.hybscloud.com/iox"
)

// FuzzPool_ReserveFree drives a Pool through arbitrary reserve/free byte
// sequences, checking the invariants that must hold no matter what order
// requests arrive in: BytesInUse never goes negative, and Reserve never
// returns an address that is still live.
func FuzzPool_ReserveFree(f *testing.F) {
	f.Add(uint8(3), uint8(8), []byte{4, 0, 4, 0, 255, 8})

	f.Fuzz(func(t *testing.T, blockSize, blockCount uint8, ops []byte) {
		if blockSize == 0 || blockCount == 0 {
			t.Skip()
		}
		p, err := blockpool.New(int(blockSize), int(blockCount))
		if err != nil {
			t.Skip()
		}
		defer p.Close()

		var live []uintptr
		for _, op := range ops {
			if op%2 == 0 && len(live) > 0 {
				idx := int(op) % len(live)
				if err := p.Free(live[idx]); err != nil {
					t.Fatalf("Free of a live address failed: %v", err)
				}
				live[idx] = live[len(live)-1]
				live = live[:len(live)-1]
				continue
			}

			size := int(op)
			if size == 0 {
				size = 1
			}
			addr, err := p.Reserve(size)
			if err != nil {
				// Out of room is an expected outcome under fuzzing; any other
				// error shape would indicate a bug.
				if !errors.Is(err, iox.ErrWouldBlock) {
					t.Fatalf("Reserve(%d): unexpected error %v", size, err)
				}
				continue
			}
			for _, other := range live {
				if other == addr {
					t.Fatalf("Reserve returned an address already live: %#x", addr)
				}
			}
			live = append(live, addr)
		}

		if p.BytesInUse() < 0 {
			t.Fatalf("BytesInUse went negative: %d", p.BytesInUse())
		}
	})
}
