package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInit_WritesLogFile(t *testing.T) {
	dir := t.TempDir()
	if err := Init(Config{ConfigDir: dir}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { Close(); Logger = nil })

	Info("store opened", "path", "/tmp/x.db")
	Debug("hidden at info level")
	Close()

	data, err := os.ReadFile(filepath.Join(dir, "logs", "sitelit.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	got := string(data)
	if !strings.Contains(got, "store opened") || !strings.Contains(got, "path=/tmp/x.db") {
		t.Errorf("log file = %q", got)
	}
	if strings.Contains(got, "hidden") {
		t.Errorf("debug record written at info level: %q", got)
	}
}

func TestInit_JSON(t *testing.T) {
	dir := t.TempDir()
	if err := Init(Config{ConfigDir: dir, JSON: true}); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { Close(); Logger = nil })

	Warn("slow upstream", "ms", 1200)
	Close()

	data, err := os.ReadFile(filepath.Join(dir, "logs", "sitelit.log"))
	if err != nil {
		t.Fatal(err)
	}
	var rec map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &rec); err != nil {
		t.Fatalf("record is not JSON: %v\n%s", err, data)
	}
	if rec["msg"] != "slow upstream" {
		t.Errorf("msg = %v", rec["msg"])
	}
}

func TestHelpers_NilLogger(t *testing.T) {
	Logger = nil
	Info("dropped")
	if With("k", "v") != nil {
		t.Error("With() before Init should be nil")
	}
}

func TestUseWriter(t *testing.T) {
	var buf bytes.Buffer
	UseWriter(&buf)
	t.Cleanup(func() { Logger = nil })

	With("month", "2025-03").Warn("no events")
	if !strings.Contains(buf.String(), "month=2025-03") {
		t.Errorf("output = %q", buf.String())
	}
}
