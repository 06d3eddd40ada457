// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package logging provides a small, swappable logging facade for the
// blockpool CLI driver: an interface, a package-level switch for the
// active implementation, and a stdlib-backed default.
package logging

import "sync/atomic"

type (
	// Logger exposes leveled, printf-style logging methods.
	Logger interface {
		Errorf(format string, args ...any)
		Warnf(format string, args ...any)
		Infof(format string, args ...any)
		Debugf(format string, args ...any)
		Tracef(format string, args ...any)
	}

	// Config allows the active Logger implementation to be swapped out.
	Config struct {
		NewLoggerF func(name string) Logger
		SetLevelF  func(lvl Level)
		GetLevelF  func() Level
	}

	// Level is one of ERROR, WARN, INFO, DEBUG, or TRACE.
	Level int32
)

const (
	ERROR Level = iota
	WARN
	INFO
	DEBUG
	TRACE
)

var settings atomic.Value

func init() {
	SetConfig(Config{NewLoggerF: newStdLogger, SetLevelF: setStdLevel, GetLevelF: stdLevelValue})
}

// NewLogger returns a Logger for the given component name, using the
// currently active Config.
func NewLogger(name string) Logger {
	return settings.Load().(Config).NewLoggerF(name)
}

// SetLevel sets the minimum level the active Logger implementation emits.
func SetLevel(lvl Level) {
	settings.Load().(Config).SetLevelF(lvl)
}

// GetLevel returns the active Logger implementation's minimum level.
func GetLevel() Level {
	return settings.Load().(Config).GetLevelF()
}

// SetConfig swaps the active Logger implementation.
func SetConfig(cfg Config) {
	settings.Store(cfg)
}

// GetConfig returns the currently active Config, e.g. so a caller can
// restore it after a temporary SetConfig swap.
func GetConfig() Config {
	return settings.Load().(Config)
}
