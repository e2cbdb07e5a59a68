package logger

import (
	"bytes"
	"log/slog"
	"testing"
)

func TestSetGlobal(t *testing.T) {
	defer SetGlobal(nil, false)

	var buf bytes.Buffer
	SetGlobal(slog.New(slog.NewTextHandler(&buf, nil)), true)

	if !IsDebug() {
		t.Error("IsDebug() = false after SetGlobal with debug enabled")
	}

	Get().Info("installed")
	if !bytes.Contains(buf.Bytes(), []byte("installed")) {
		t.Errorf("Get() did not return the installed logger; buffer = %q", buf.String())
	}
}

func TestGetFallback(t *testing.T) {
	SetGlobal(nil, false)

	if logger := Get(); logger == nil {
		t.Fatal("Get() = nil without an installed logger")
	}
	if IsDebug() {
		t.Error("IsDebug() = true without an installed logger")
	}
}
