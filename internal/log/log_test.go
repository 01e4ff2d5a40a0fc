package log

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNamedLoggerTagsComponent(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	Set(zap.New(core))

	Named("restserver").Infow("listening", "port", 8080)
	Infow("package helper", "ok", true)

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, expected 2", len(entries))
	}
	if got := entries[0].ContextMap()["component"]; got != "restserver" {
		t.Errorf("component = %v, expected restserver", got)
	}
	if entries[1].Message != "package helper" {
		t.Errorf("message = %q", entries[1].Message)
	}
}

func TestInit(t *testing.T) {
	if err := Init(true); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if GetSugaredLogger() == nil || GetZapLogger() == nil {
		t.Error("expected loggers after Init")
	}
}

func TestLogHTTPRequest(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core).Sugar()

	rec := NewStatusRecorder(httptest.NewRecorder())
	rec.WriteHeader(http.StatusServiceUnavailable)
	rec.Write([]byte("down"))

	LogHTTPRequest(logger, HTTPLogEntry{Method: http.MethodGet, Path: "/nights", Status: rec.Status, Size: rec.Size, Duration: time.Millisecond})

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, expected 1", len(entries))
	}
	if entries[0].Level != zap.ErrorLevel {
		t.Errorf("level = %v, expected error for a 5xx", entries[0].Level)
	}
	if got := entries[0].ContextMap()["size"]; got != int64(4) {
		t.Errorf("size = %v (%T), expected 4", got, got)
	}
}

func TestInitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moonhike.log")
	if err := InitFile(false, path); err != nil {
		t.Fatalf("InitFile: %v", err)
	}
	Infow("written to file", "night", "2024-09-17")
	Debugw("below the level")
	Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "written to file") {
		t.Errorf("log file = %q", data)
	}
	if strings.Contains(string(data), "below the level") {
		t.Error("debug entry written at info level")
	}
}
