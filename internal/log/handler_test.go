package log_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	blog "github.com/ErlanBelekov/briefly/internal/log"
	"github.com/ErlanBelekov/briefly/internal/reqctx"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	return rec
}

func TestContextHandler_AddsRequestAndUser(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(blog.NewContextHandler(slog.NewJSONHandler(&buf, nil)))

	ctx := reqctx.WithUserID(reqctx.WithRequestID(context.Background(), "req-1"), "user-1")
	logger.InfoContext(ctx, "hello")

	rec := decode(t, &buf)
	if rec["request_id"] != "req-1" {
		t.Fatalf("expected request_id req-1, got %v", rec["request_id"])
	}
	if rec["user_id"] != "user-1" {
		t.Fatalf("expected user_id user-1, got %v", rec["user_id"])
	}
}

func TestContextHandler_NoValues(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(blog.NewContextHandler(slog.NewJSONHandler(&buf, nil))).With("component", "test")

	logger.InfoContext(context.Background(), "hello")

	rec := decode(t, &buf)
	if _, ok := rec["request_id"]; ok {
		t.Fatal("unexpected request_id")
	}
	if rec["component"] != "test" {
		t.Fatalf("expected component attr to survive WithAttrs, got %v", rec["component"])
	}
}

func TestNew_JSONOutsideLocal(t *testing.T) {
	var buf bytes.Buffer
	logger := blog.New(&buf, "production", slog.LevelInfo)

	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug line written at info level: %s", buf.String())
	}

	logger.InfoContext(reqctx.WithRequestID(context.Background(), "req-9"), "shown")
	rec := decode(t, &buf)
	if rec["msg"] != "shown" || rec["request_id"] != "req-9" {
		t.Fatalf("unexpected record %v", rec)
	}
}
