// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

type stdLogger struct {
	name string
}

var (
	stdMx     sync.Mutex
	stdWriter io.Writer = os.Stdout
	stdLevel  int32     = int32(INFO)
	levelName           = map[Level]string{ERROR: "ERROR", WARN: "WARN", INFO: "INFO", DEBUG: "DEBUG", TRACE: "TRACE"}
)

func newStdLogger(name string) Logger {
	return &stdLogger{name: name}
}

// SetOutput redirects the default std logger's writer. Useful for tees,
// e.g. io.MultiWriter(os.Stdout, &logBuf) to keep an in-memory copy of
// everything printed for an end-of-run archive dump.
func SetOutput(w io.Writer) {
	stdMx.Lock()
	defer stdMx.Unlock()
	stdWriter = w
}

func setStdLevel(lvl Level) {
	atomic.StoreInt32(&stdLevel, int32(lvl))
}

func stdLevelValue() Level {
	return Level(atomic.LoadInt32(&stdLevel))
}

func (l *stdLogger) Errorf(format string, args ...any) { l.logf(ERROR, format, args...) }
func (l *stdLogger) Warnf(format string, args ...any)  { l.logf(WARN, format, args...) }
func (l *stdLogger) Infof(format string, args ...any)  { l.logf(INFO, format, args...) }
func (l *stdLogger) Debugf(format string, args ...any) { l.logf(DEBUG, format, args...) }
func (l *stdLogger) Tracef(format string, args ...any) { l.logf(TRACE, format, args...) }

func (l *stdLogger) logf(lvl Level, format string, args ...any) {
	if Level(atomic.LoadInt32(&stdLevel)) < lvl {
		return
	}
	stdMx.Lock()
	defer stdMx.Unlock()
	fmt.Fprintf(stdWriter, "[%s] %s\t%s: ", time.Now().Format("15:04:05.000000"), levelName[lvl], l.name)
	fmt.Fprintf(stdWriter, format, args...)
	fmt.Fprintln(stdWriter)
}
