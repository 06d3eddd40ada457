// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command blockpooldrv is the allocator simulator and speed-test driver for
// code.hybscloud.com/blockpool. It exposes five test scenarios (default,
// verbose, bruteforce, individual speed, individual random) as
// CLI-selectable runs, writing a running output log and scenario-specific
// dump files.
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"code.hybscloud.com/blockpool/archive"
	"code.hybscloud.com/blockpool/logging"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	s := defaultSettings()

	cmd := &cobra.Command{
		Use:   "blockpooldrv",
		Short: "Fixed-block-size memory pool allocator simulator and speed-test driver",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDriver(s)
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&s.testType, "test-type", "t", s.testType,
		"test type: 0=default 1=verbose 2=bruteforce 3=individual-speed 4=individual-random")
	flags.IntVarP(&s.blocks, "blocks", "b", s.blocks, "block count")
	flags.IntVarP(&s.blockSize, "block-size", "s", s.blockSize, "block size in bytes")
	flags.IntVarP(&s.memoryPerCycle, "memory", "m", s.memoryPerCycle, "bytes allocated per cycle (0 = block size)")
	flags.IntVarP(&s.testCycles, "cycles", "c", s.testCycles, "test cycles (0 = block count)")
	flags.IntVarP(&s.memoryRatio, "ratio", "r", s.memoryRatio, "initial memory fill ratio, 0-100")

	return cmd
}

func runDriver(s settings) error {
	var logBuf bytes.Buffer
	logging.SetOutput(io.MultiWriter(os.Stdout, &logBuf))
	log := logging.NewLogger("blockpooldrv")

	log.Infof("starting pool allocation simulator")

	if err := s.validate(); err != nil {
		log.Errorf("invalid settings: %v", err)
		_ = archive.Write("Output Log.txt", logBuf.Bytes())
		return fmt.Errorf("invalid settings: %w", err)
	}

	runErr := runScenario(s, log)
	if runErr != nil {
		log.Errorf("scenario failed: %v", runErr)
	}

	if err := archive.Write("Output Log.txt", logBuf.Bytes()); err != nil {
		log.Errorf("failed to write output log: %v", err)
	}

	return runErr
}
