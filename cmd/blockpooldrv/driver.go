// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"math/rand"
	"time"
	"unsafe"

	"code.hybscloud.com/blockpool"
	"code.hybscloud.com/blockpool/archive"
	"code.hybscloud.com/blockpool/logging"
)

// unsafeBytes views the n bytes starting at addr, a value previously
// returned by Pool.Reserve, as a byte slice.
func unsafeBytes(addr uintptr, n int) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), n)
}

// Test type selectors for the -t flag.
const (
	testDefault = iota
	testVerbose
	testBruteforce
	testIndividualSpeed
	testIndividualRandom
	testUnknown
)

const (
	defaultBlockSize = 32
	defaultBlocks    = 2048
)

// settings holds the allocator simulator's command-line surface.
type settings struct {
	testType       int
	blocks         int
	blockSize      int
	memoryPerCycle int
	testCycles     int
	memoryRatio    int // 0..100
}

func defaultSettings() settings {
	return settings{
		testType:    testDefault,
		blocks:      defaultBlocks,
		blockSize:   defaultBlockSize,
		memoryRatio: 100,
	}
}

func (s *settings) validate() error {
	if s.testType < testDefault || s.testType >= testUnknown {
		return fmt.Errorf("test type (-t) out of range [%d, %d]", testDefault, testUnknown-1)
	}
	if s.blocks < 1 || s.blocks > blockpool.MaxBlocks {
		return fmt.Errorf("block count (-b) out of range [1, %d]", blockpool.MaxBlocks)
	}
	if s.blockSize < 1 || s.blockSize > blockpool.MaxBlockSize {
		return fmt.Errorf("block size (-s) out of range [1, %d]", blockpool.MaxBlockSize)
	}
	if s.memoryPerCycle == 0 {
		s.memoryPerCycle = s.blockSize
	}
	if s.memoryPerCycle < 1 || s.memoryPerCycle > s.blockSize*s.blocks {
		return fmt.Errorf("memory per cycle (-m) out of range [1, block size * block count]")
	}
	if s.testCycles == 0 {
		s.testCycles = s.blocks
	}
	if s.testCycles < 1 || s.testCycles > blockpool.MaxBlocks {
		return fmt.Errorf("test cycles (-c) out of range [1, %d]", blockpool.MaxBlocks)
	}
	if s.memoryRatio < 0 || s.memoryRatio > 100 {
		return fmt.Errorf("initial memory ratio (-r) out of range [0, 100]")
	}
	return nil
}

// runScenario dispatches to the test type named by settings.testType:
// Default, Verbose, Bruteforce, Individual_Speed, Individual_Random.
func runScenario(s settings, log logging.Logger) error {
	switch s.testType {
	case testDefault:
		return fullTestsOnSinglePool(s.blockSize, s.blocks, log)
	case testVerbose:
		return simpleVerbosityTest(s.blockSize, s.blocks, log)
	case testBruteforce:
		return bruteForceTest(s.testCycles, log)
	case testIndividualSpeed:
		return simpleSpeedTest(s.blockSize, s.blocks, s.memoryPerCycle, s.testCycles, log)
	case testIndividualRandom:
		return speedTestRandomAfterAllocation(s.blockSize, s.blocks, s.memoryPerCycle, s.testCycles, float64(s.memoryRatio)/100, log)
	default:
		return fmt.Errorf("unhandled test type %d", s.testType)
	}
}

// fullTestsOnSinglePool builds a pool and runs every speed scenario against
// it once at both ends of its fill ratio, reporting pool vs. a plain Go
// allocation baseline.
func fullTestsOnSinglePool(blockSize, blocks int, log logging.Logger) error {
	log.Infof("creating pool of %d blocks of %d bytes", blocks, blockSize)

	p, err := blockpool.New(blockSize, blocks)
	if err != nil {
		return fmt.Errorf("create pool: %w", err)
	}
	defer p.Close()

	blockFactor := max(1, int(float64(blocks)*0.9))

	if err := timedReserveFree(p, blockSize, blockFactor, false, log); err != nil {
		return err
	}
	if err := timedReserveFree(p, blockSize, blockFactor, true, log); err != nil {
		return err
	}
	if err := timedReserveFree(p, blockFactor, blockSize, false, log); err != nil {
		return err
	}
	if err := timedReserveFree(p, blockFactor, blockSize, true, log); err != nil {
		return err
	}
	for _, ratio := range []float64{0.0, 1.0} {
		if err := timedRandom(p, blockFactor, blockSize, ratio, log); err != nil {
			return err
		}
		if err := timedRandom(p, blockSize, blockFactor, ratio, log); err != nil {
			return err
		}
	}

	log.Infof("pool test complete")
	return nil
}

// simpleSpeedTest allocates memorySize bytes cycles times, comparing a
// pool reservation against a plain make([]byte, memorySize) baseline.
func simpleSpeedTest(blockSize, blocks, memorySize, cycles int, log logging.Logger) error {
	p, err := blockpool.New(blockSize, blocks)
	if err != nil {
		return fmt.Errorf("create pool: %w", err)
	}
	defer p.Close()
	return timedReserveFree(p, memorySize, cycles, false, log)
}

func timedReserveFree(p *blockpool.Pool, memorySize, cycles int, freeEach bool, log logging.Logger) error {
	needed := p.BlocksNeeded(memorySize)
	if needed*cycles > p.TotalBlocks() {
		cycles = max(1, p.TotalBlocks()/needed)
		log.Warnf("reducing cycles to %d: request exceeds pool capacity", cycles)
	}

	addrs := make([]uintptr, 0, cycles)
	start := time.Now()
	for i := 0; i < cycles; i++ {
		addr, err := p.Reserve(memorySize)
		if err != nil {
			return fmt.Errorf("reserve: %w", err)
		}
		if freeEach {
			if err := p.Free(addr); err != nil {
				return fmt.Errorf("free: %w", err)
			}
		} else {
			addrs = append(addrs, addr)
		}
	}
	poolElapsed := time.Since(start)

	for _, addr := range addrs {
		_ = p.Free(addr)
	}

	start = time.Now()
	bufs := make([][]byte, 0, cycles)
	for i := 0; i < cycles; i++ {
		b := make([]byte, memorySize)
		if !freeEach {
			bufs = append(bufs, b)
		}
	}
	baselineElapsed := time.Since(start)
	_ = bufs

	log.Infof("speed test: %d bytes x %d cycles (free-each=%v): pool=%s baseline=%s",
		memorySize, cycles, freeEach, poolElapsed, baselineElapsed)
	return nil
}

// timedRandom fills the pool to initialRatio, then fires cycles random
// reserve/free operations, reporting elapsed time.
func timedRandom(p *blockpool.Pool, memorySize, cycles int, initialRatio float64, log logging.Logger) error {
	p.Clear()

	needed := p.BlocksNeeded(memorySize)
	maxAllocations := max(1, p.TotalBlocks()/needed)
	initial := int(float64(maxAllocations) * initialRatio)

	live := make([]uintptr, 0, maxAllocations)
	for i := 0; i < initial; i++ {
		addr, err := p.Reserve(memorySize)
		if err != nil {
			break
		}
		live = append(live, addr)
	}

	start := time.Now()
	for i := 0; i < cycles; i++ {
		if len(live) >= maxAllocations || (len(live) > 0 && rand.Intn(2) == 0) {
			idx := rand.Intn(len(live))
			_ = p.Free(live[idx])
			live[idx] = live[len(live)-1]
			live = live[:len(live)-1]
			continue
		}
		addr, err := p.Reserve(memorySize)
		if err != nil {
			continue
		}
		live = append(live, addr)
	}
	elapsed := time.Since(start)

	for _, addr := range live {
		_ = p.Free(addr)
	}
	p.Clear()

	log.Infof("random speed test: %d bytes x %d cycles, initial ratio %.0f%%: %s",
		memorySize, cycles, initialRatio*100, elapsed)
	return nil
}

func speedTestRandomAfterAllocation(blockSize, blocks, memorySize, cycles int, ratio float64, log logging.Logger) error {
	p, err := blockpool.New(blockSize, blocks)
	if err != nil {
		return fmt.Errorf("create pool: %w", err)
	}
	defer p.Close()
	return timedRandom(p, memorySize, cycles, ratio, log)
}

// simpleVerbosityTest fills a pool with readable marker bytes and dumps
// both its memory and block-index state to files, once for a small
// allocation size and once (pool permitting) for a larger one spanning
// several blocks.
func simpleVerbosityTest(blockSize, blocks int, log logging.Logger) error {
	p, err := blockpool.New(blockSize, blocks)
	if err != nil {
		return fmt.Errorf("create pool: %w", err)
	}
	defer p.Close()
	p.SetDebug(true)

	log.Infof("creating pool of %d blocks of %d bytes, dumping state to files", blocks, blockSize)

	small := max(1, int(float64(blockSize)*0.5))
	cycles := max(1, blocks/2)
	if err := dumpVerbosityRun(p, small, cycles, "SmallChunks"); err != nil {
		return err
	}

	if blocks < 4 {
		log.Warnf("skipping big-chunk verbosity run: only %d block(s) available", blocks)
		return nil
	}
	big := max(1, int(float64(blockSize)*3.5))
	cycles = max(1, blocks/4/2)
	return dumpVerbosityRun(p, big, cycles, "BigChunks")
}

func dumpVerbosityRun(p *blockpool.Pool, memorySize, cycles int, name string) error {
	needed := p.BlocksNeeded(memorySize)
	if needed*cycles > p.TotalBlocks() {
		cycles = max(1, p.TotalBlocks()/needed)
	}

	const startMarker, endMarker = "<Block Start>", "<Block End>"
	for i := 0; i < cycles; i++ {
		addr, err := p.Reserve(memorySize)
		if err != nil {
			if p.Debug() {
				if dumpErr := archive.Write("CrashMemoryStateDump.txt", p.DumpMemoryState()); dumpErr != nil {
					return fmt.Errorf("reserve: %w (crash dump also failed: %v)", err, dumpErr)
				}
			}
			return fmt.Errorf("reserve: %w", err)
		}
		fill(addr, memorySize, startMarker, endMarker)
	}

	if err := archive.Write(fmt.Sprintf("Memory State Dump_%s.txt", name), p.DumpMemoryState()); err != nil {
		return fmt.Errorf("write memory dump: %w", err)
	}
	if err := archive.Write(fmt.Sprintf("Pool State Dump_%s.txt", name), []byte(p.DumpPoolState())); err != nil {
		return fmt.Errorf("write pool dump: %w", err)
	}

	p.Clear()
	return nil
}

// fill writes startMarker at the beginning of the addr..addr+n range,
// endMarker at the end, and an ascending byte sequence in between, so a
// DumpMemoryState output is easy to read by eye.
func fill(addr uintptr, n int, startMarker, endMarker string) {
	buf := unsafeBytes(addr, n)
	if n >= len(startMarker) {
		copy(buf, startMarker)
	}
	if n > len(startMarker)+len(endMarker) {
		for i := len(startMarker); i < n-len(endMarker); i++ {
			buf[i] = byte(i % 256)
		}
	}
	if n >= len(startMarker)+len(endMarker) {
		copy(buf[n-len(endMarker):], endMarker)
	}
}

// bruteForceTest hammers the allocator with randomly shaped pools to
// surface shape-dependent bugs that a single fixed configuration would
// miss.
func bruteForceTest(testsPerformed int, log logging.Logger) error {
	log.Infof("starting bruteforce test: %d runs", testsPerformed)
	const (
		bruteforceMaxBlockSize = 1 << 16
		bruteforceMaxBlocks    = 1024
	)
	for i := 0; i < testsPerformed; i++ {
		blockSize := rand.Intn(bruteforceMaxBlockSize) + 1
		blocks := rand.Intn(bruteforceMaxBlocks) + 1
		log.Infof("bruteforce run %d: %d blocks of %d bytes", i, blocks, blockSize)
		if err := fullTestsOnSinglePool(blockSize, blocks, log); err != nil {
			return fmt.Errorf("bruteforce run %d: %w", i, err)
		}
	}
	log.Infof("bruteforce test finished, all ok")
	return nil
}
