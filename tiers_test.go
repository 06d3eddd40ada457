// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package blockpool_test

import (
	"testing"

	"code.hybscloud.com/blockpool"
)

func TestTierBySize(t *testing.T) {
	cases := []struct {
		size int
		want blockpool.Tier
	}{
		{1, blockpool.TierPico},
		{blockpool.SizePico, blockpool.TierPico},
		{blockpool.SizePico + 1, blockpool.TierNano},
		{blockpool.SizeMicro, blockpool.TierMicro},
		{blockpool.SizeTitan, blockpool.TierTitan},
		{blockpool.SizeTitan + 1, blockpool.TierTitan},
	}
	for _, c := range cases {
		if got := blockpool.TierBySize(c.size); got != c.want {
			t.Errorf("TierBySize(%d) = %v, want %v", c.size, got, c.want)
		}
	}
}

func TestTier_Size(t *testing.T) {
	if got := blockpool.TierPico.Size(); got != blockpool.SizePico {
		t.Errorf("TierPico.Size() = %d, want %d", got, blockpool.SizePico)
	}
	if got := blockpool.TierTitan.Size(); got != blockpool.SizeTitan {
		t.Errorf("TierTitan.Size() = %d, want %d", got, blockpool.SizeTitan)
	}
	if got := blockpool.Tier(-1).Size(); got != blockpool.SizeTitan {
		t.Errorf("out-of-range Tier.Size() = %d, want %d (fallback)", got, blockpool.SizeTitan)
	}
}

func TestSizeFor(t *testing.T) {
	if got := blockpool.SizeFor(100); got != blockpool.SizeNano {
		t.Errorf("SizeFor(100) = %d, want %d", got, blockpool.SizeNano)
	}
}

func TestNewPicoPool(t *testing.T) {
	p, err := blockpool.NewPicoPool(4)
	if err != nil {
		t.Fatalf("NewPicoPool: %v", err)
	}
	defer p.Close()
	if p.BlockSize() != blockpool.SizePico {
		t.Errorf("BlockSize() = %d, want %d", p.BlockSize(), blockpool.SizePico)
	}
}

func TestNewTitanPool(t *testing.T) {
	p, err := blockpool.NewTitanPool(1)
	if err != nil {
		t.Fatalf("NewTitanPool: %v", err)
	}
	defer p.Close()
	if p.BlockSize() != blockpool.SizeTitan {
		t.Errorf("BlockSize() = %d, want %d", p.BlockSize(), blockpool.SizeTitan)
	}
}
