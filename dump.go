// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package blockpool

import (
	"fmt"
	"strings"
)

// DumpPoolState renders a per-block occupancy table: rows of ten blocks,
// one row of "Block:  %04d | " cells giving each block's index, followed by
// the matching row of "Memory: %04d | " cells giving each block's
// used_size, then a blank separator line. The last row in a pool whose
// block count isn't a multiple of ten is shorter, stopping at the final
// block.
//
// DumpPoolState is a read-only snapshot taken without locking; callers that
// mutate the pool concurrently with a dump observe undefined content.
func (p *Pool) DumpPoolState() string {
	var sb strings.Builder
	for i := 0; i < p.blockCount; i += 10 {
		end := min(i+10, p.blockCount)
		for b := i; b < end; b++ {
			fmt.Fprintf(&sb, "Block:  %04d | ", p.blocks[b].index)
		}
		sb.WriteByte('\n')
		for b := i; b < end; b++ {
			fmt.Fprintf(&sb, "Memory: %04d | ", p.blocks[b].usedSize)
		}
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// DumpMemoryState returns a verbatim snapshot of the backing region, of
// length TotalCapacity(). The returned slice is a copy; mutating it does
// not affect the pool.
func (p *Pool) DumpMemoryState() []byte {
	out := make([]byte, len(p.region))
	copy(out, p.region)
	return out
}
