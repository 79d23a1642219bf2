package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestRequestIDDefaultsToUnknown(t *testing.T) {
	if got := RequestID(context.Background()); got != "unknown" {
		t.Fatalf("expected unknown, got %q", got)
	}
}

func TestWithRequestIDTagsLogger(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)
	ctx := WithContext(context.Background(), &base)

	ctx = WithRequestID(ctx, "req-42")
	if got := RequestID(ctx); got != "req-42" {
		t.Fatalf("expected req-42, got %q", got)
	}

	FromContext(ctx).Info().Msg("hello")
	if !strings.Contains(buf.String(), `"request_id":"req-42"`) {
		t.Fatalf("expected request id in log line, got %s", buf.String())
	}
}

func TestInitRejectsUnwritableLogFile(t *testing.T) {
	err := Init(Config{Level: "info", Environment: "test", LogFile: t.TempDir()})
	if err == nil {
		t.Fatal("expected error when the log file path is a directory")
	}
}
