// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package blockpool implements a fixed-block-size memory pool allocator: a
// user-space allocator that serves variable-sized allocation requests out of
// a single pre-reserved contiguous backing region divided into uniformly
// sized blocks.
//
// The pool trades general-purpose flexibility for predictable O(1)
// average-case allocation, no per-request system calls, cache-friendly
// locality, and a bounded, inspectable memory footprint.
//
// # Shape
//
// A Pool is constructed once with a block size and a block count:
//
//	p, err := blockpool.New(64, 1024) // 1024 blocks of 64 bytes each
//	if err != nil {
//	    // backing allocation failed
//	}
//	addr, err := p.Reserve(200) // occupies ceil(200/64) = 4 consecutive blocks
//	if err != nil {
//	    // no contiguous free run large enough
//	}
//	// ... use the reserved range via unsafe.Slice ...
//	p.Free(addr)
//
// # Size tiers
//
// tiers.go exposes named block-size presets (Pico..Titan) and matching
// constructor shortcuts for common allocation shapes, following a
// power-of-4 progression from 32 bytes to 128 MiB.
//
// # Single owner
//
// Pool is not safe for concurrent use: Reserve, Free, Clear, and the dump
// operations must not be called concurrently with each other on the same
// Pool. For callers that need concurrency, Sharded (sharded.go) arbitrates
// exclusive leases across N independent Pool instances using a lock-free
// bounded-pool ring to hand off shard ownership.
//
// # Errors
//
// Reserve reports exhaustion (out of room, or a request larger than the
// pool's total capacity) via iox.ErrWouldBlock, reusing the same
// non-blocking-pool vocabulary code.hybscloud.com/iox defines elsewhere in
// this ecosystem. Free reports programmer errors (an address that does not
// match a reserved run's head block, or a double free) via the package's own
// ErrInvalidAddress and ErrDoubleFree.
//
// # Dependencies
//
// blockpool depends on:
//   - iox: Semantic error types (ErrWouldBlock)
//   - spin: Spinlock and spin-wait primitives for backpressure, used by Sharded
package blockpool
