// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package blockpool

import "errors"

var (
	// ErrInvalidAddress is returned by Free when the given address does not
	// match the data pointer of any block's head, i.e. it was never returned
	// by Reserve on this Pool, or it points into the middle of a run.
	ErrInvalidAddress = errors.New("blockpool: invalid free address")

	// ErrDoubleFree is returned by Free when the head block addressed is
	// already free.
	ErrDoubleFree = errors.New("blockpool: double free")

	// ErrInvalidSize is returned by New when blockSize or blockCount is
	// less than 1.
	ErrInvalidSize = errors.New("blockpool: blockSize and blockCount must be >= 1")
)
