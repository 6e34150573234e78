package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInfoWritesSortedFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	prev := L()
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(prev) })

	Info("request.complete", map[string]any{
		"status": 200,
		"path":   "/api/users/me",
		"err":    errors.New("boom"),
	})

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["path"] != "/api/users/me" {
		t.Fatalf("unexpected path field: %v", fields["path"])
	}
	if fields["err"] != "boom" {
		t.Fatalf("expected error field to be rendered, got %v", fields["err"])
	}
}

func TestSetLoggerNilInstallsNop(t *testing.T) {
	prev := L()
	t.Cleanup(func() { SetLogger(prev) })

	SetLogger(nil)
	Error("ignored", nil)
	if L() == nil {
		t.Fatal("expected a logger")
	}
}

func TestNewWriterLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	prev := L()
	SetLogger(NewWriterLogger(&buf, zapcore.WarnLevel))
	t.Cleanup(func() { SetLogger(prev) })

	Info("extract.start", map[string]any{"name": "lease.txt"})
	Warn("analysis.truncated", map[string]any{"removed_chars": 10})

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected a single JSON line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "analysis.truncated" || entry["ts"] == nil {
		t.Fatalf("unexpected entry: %v", entry)
	}
}
