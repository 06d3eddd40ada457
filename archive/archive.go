// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package archive writes pool state dumps and crash snapshots to disk for
// the blockpool CLI driver.
package archive

import "os"

const separator = "\n\n -----------------------------------------------------\n\n"

// Write truncates path (creating it if necessary) and writes data to it.
func Write(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

// Append opens path for appending (creating it if necessary), writes a
// banner separator, then data. Successive Append calls to the same file
// accumulate a readable log of snapshots rather than overwriting each
// other.
func Append(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteString(separator); err != nil {
		return err
	}
	_, err = f.Write(data)
	return err
}
