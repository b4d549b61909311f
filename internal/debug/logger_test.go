package debug

import (
	"bytes"
	"testing"
)

func TestLoggerDisabledWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	NewWriter(false, &buf).Infof("x=%d", 1)
	if buf.Len() != 0 {
		t.Fatalf("disabled logger wrote %q", buf.String())
	}
	var nilLogger *Logger
	nilLogger.Infof("ignored")
	if nilLogger.Enabled() {
		t.Fatalf("nil logger reports enabled")
	}
}

func TestLoggerPrefixesLines(t *testing.T) {
	var buf bytes.Buffer
	NewWriter(true, &buf).Infof("segment kind=%s bytes=%q", "csi", "\x1b[A")
	if got := buf.String(); got != "ttycodes: segment kind=csi bytes=\"\\x1b[A\"\n" {
		t.Fatalf("line = %q", got)
	}
}
