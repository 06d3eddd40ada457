// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package logging_test

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"code.hybscloud.com/blockpool/logging"
)

func TestStdLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logging.SetOutput(&buf)
	defer logging.SetOutput(os.Stdout)

	prev := logging.GetLevel()
	defer logging.SetLevel(prev)

	logging.SetLevel(logging.WARN)
	log := logging.NewLogger("test")
	log.Debugf("should not appear")
	log.Warnf("should appear: %d", 42)

	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Fatalf("Debugf logged below the active level: %q", out)
	}
	if !strings.Contains(out, "should appear: 42") {
		t.Fatalf("Warnf missing from output: %q", out)
	}
}

func TestStdLogger_IncludesNameAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logging.SetOutput(&buf)
	defer logging.SetOutput(os.Stdout)

	prev := logging.GetLevel()
	defer logging.SetLevel(prev)
	logging.SetLevel(logging.TRACE)

	log := logging.NewLogger("component-x")
	log.Errorf("boom")

	out := buf.String()
	if !strings.Contains(out, "ERROR") || !strings.Contains(out, "component-x") || !strings.Contains(out, "boom") {
		t.Fatalf("output missing expected fields: %q", out)
	}
}

func TestSetConfig_SwapsImplementation(t *testing.T) {
	restore := logging.GetConfig()
	defer logging.SetConfig(restore)

	var called string
	logging.SetConfig(logging.Config{
		NewLoggerF: func(name string) logging.Logger {
			called = name
			return fakeLogger{}
		},
		SetLevelF: func(logging.Level) {},
		GetLevelF: func() logging.Level { return logging.INFO },
	})

	_ = logging.NewLogger("swapped")
	if called != "swapped" {
		t.Fatalf("custom NewLoggerF not invoked, called=%q", called)
	}
}

type fakeLogger struct{}

func (fakeLogger) Errorf(string, ...any) {}
func (fakeLogger) Warnf(string, ...any)  {}
func (fakeLogger) Infof(string, ...any)  {}
func (fakeLogger) Debugf(string, ...any) {}
func (fakeLogger) Tracef(string, ...any) {}
