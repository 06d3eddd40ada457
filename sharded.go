// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package blockpool

// Sharded arbitrates exclusive access to N independent Pool instances for
// callers that need concurrency without paying for locking inside Pool
// itself. Each Lease hands a goroutine sole ownership of one shard for the
// duration of its use; the shard's own Reserve/Free/Clear calls stay
// single-owner, matching Pool's own concurrency contract.
//
// Shard hand-off is built on the package's lock-free bounded-pool
// machinery (BoundedPool[int]): a free shard index is just another item
// circulating through a Nikolaev MPMC ring.
type Sharded struct {
	_ noCopy

	shards []*Pool
	ring   *BoundedPool[int]
}

// NewSharded constructs a Sharded of the requested number of shards, each
// an independent Pool with blockCount blocks of blockSize bytes. The actual
// shard count is rounded up to the next power of two to match
// BoundedPool's ring capacity; the extra shards are fully usable, just
// beyond what the caller asked for.
func NewSharded(shards, blockSize, blockCount int) (*Sharded, error) {
	if shards < 1 {
		return nil, ErrInvalidSize
	}

	ring := NewBoundedPool[int](shards)
	pools := make([]*Pool, ring.Cap())
	for i := range pools {
		p, err := New(blockSize, blockCount)
		if err != nil {
			return nil, err
		}
		pools[i] = p
	}
	next := 0
	ring.Fill(func() int {
		v := next
		next++
		return v
	})

	return &Sharded{shards: pools, ring: ring}, nil
}

// SetNonblock propagates nonblocking mode to the shard-lease ring: when
// set, Lease returns iox.ErrWouldBlock immediately instead of waiting for
// a shard to free up.
func (s *Sharded) SetNonblock(nonblocking bool) {
	s.ring.SetNonblock(nonblocking)
}

// Shards returns the actual number of shards, which may exceed the count
// requested from NewSharded (rounded up to a power of two).
func (s *Sharded) Shards() int {
	return len(s.shards)
}

// Lease blocks until a shard is available (or returns iox.ErrWouldBlock
// immediately in nonblocking mode), then returns that shard's Pool along
// with a release function the caller must call exactly once when done.
// The returned Pool must not be used after release is called.
func (s *Sharded) Lease() (*Pool, func(), error) {
	indirect, err := s.ring.Get()
	if err != nil {
		return nil, nil, err
	}
	idx := s.ring.Value(indirect)
	release := func() {
		_ = s.ring.Put(indirect)
	}
	return s.shards[idx], release, nil
}

// Close closes every shard's Pool. It is not safe to call concurrently
// with an outstanding Lease.
func (s *Sharded) Close() error {
	var first error
	for _, p := range s.shards {
		if err := p.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
