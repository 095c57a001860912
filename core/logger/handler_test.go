package logger

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"log/slog"
)

func newTestHandler(buf *bytes.Buffer, format logFormat) *structuredHandler {
	return newStructuredHandler(handlerConfig{
		level:    slog.LevelInfo,
		writer:   newFanoutWriter([]io.Writer{buf}, nil),
		format:   format,
		keyOrder: append([]string(nil), defaultKeyOrder...),
	})
}

func TestStructuredHandlerKVOrder(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := WithRID(context.Background(), "rid-123")
	ctx = WithUpdateMeta(ctx, 42, 7, 9)

	log := slog.New(newTestHandler(buf, formatKV)).With("component", "quiz")
	LogEvent(ctx, log, slog.LevelInfo, "quiz.answered",
		slog.String("status", "ok"),
		slog.String("topic", "Math"),
	)

	tokens := strings.Split(strings.TrimSpace(buf.String()), " ")
	expected := []string{"ts=", "level=INFO", "component=quiz", "event=quiz.answered", "status=ok", "rid=rid-123"}
	if len(tokens) < len(expected) {
		t.Fatalf("unexpected token count: %d (%s)", len(tokens), buf.String())
	}
	for i, prefix := range expected {
		if !strings.HasPrefix(tokens[i], prefix) {
			t.Fatalf("token %d = %s, expected prefix %s", i, tokens[i], prefix)
		}
	}
	if !strings.Contains(buf.String(), "topic=Math") {
		t.Fatalf("expected topic attribute, got %s", buf.String())
	}
}

func TestStructuredHandlerJSONOrder(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := WithRID(context.Background(), "rid-json")
	ctx = WithUpdateMeta(ctx, 11, 22, 33)

	log := slog.New(newTestHandler(buf, formatJSON)).With("component", "db")
	LogEvent(ctx, log, slog.LevelError, "db.connect",
		slog.String("status", "fail"),
		slog.String("err", "boom"),
	)

	line := strings.TrimSpace(buf.String())
	prefixes := []string{`{"ts":`, `"level":"ERROR"`, `"component":"db"`, `"event":"db.connect"`, `"status":"fail"`, `"rid":"rid-json"`, `"user_id":22`}
	pos := -1
	for _, pref := range prefixes {
		idx := strings.Index(line, pref)
		if idx == -1 || idx < pos {
			t.Fatalf("prefix %s not found in order within %s", pref, line)
		}
		pos = idx
	}
}

func TestStructuredHandlerCompactRID(t *testing.T) {
	buf := &bytes.Buffer{}
	rawRID := BuildRID(123, 456, 789)
	log := slog.New(newTestHandler(buf, formatKV))
	LogEvent(WithRID(context.Background(), rawRID), log, slog.LevelInfo, "rid.test")

	line := buf.String()
	if !strings.Contains(line, "rid="+CompactRID(rawRID)) {
		t.Fatalf("expected compact rid, got %s", line)
	}
	if strings.Contains(line, "rid_full=") {
		t.Fatalf("rid_full should be omitted in KV output, got %s", line)
	}
	if !strings.Contains(line, "component=app") {
		t.Fatalf("expected default component, got %s", line)
	}
}

func TestStructuredHandlerDurationAndLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	log := slog.New(newTestHandler(buf, formatJSON))
	LogEvent(context.Background(), log, slog.LevelDebug, "skipped")
	if buf.Len() != 0 {
		t.Fatalf("debug record should be filtered, got %s", buf.String())
	}

	LogEvent(context.Background(), log, slog.LevelInfo, "timed", slog.Duration("duration", 1500000))
	if !strings.Contains(buf.String(), `"duration_ms":2`) {
		t.Fatalf("expected duration_ms, got %s", buf.String())
	}
}

func TestLoggersUsableBeforeInit(t *testing.T) {
	Info(context.Background(), "quiz", "noop", slog.String("status", "ok"))
	Quiz.Info("noop")
}

func TestCompactRIDPassthrough(t *testing.T) {
	if got := CompactRID("not-a-rid"); got != "not-a-rid" {
		t.Fatalf("CompactRID changed malformed rid: %s", got)
	}
	if got := CompactRID("35:36:0"); got != "z.10.0" {
		t.Fatalf("CompactRID = %s", got)
	}
}

func TestSanitizeLimit(t *testing.T) {
	if got := SanitizeLimit("a\x00b\tc", 10); got != "ab\tc" {
		t.Fatalf("Sanitize = %q", got)
	}
	if got := SanitizeLimit("абвгд", 3); got != "абв" {
		t.Fatalf("SanitizeLimit = %q", got)
	}
}
