package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

func restoreDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
}

func TestInitText(t *testing.T) {
	restoreDefault(t)
	var buf bytes.Buffer
	Init(WithOutput(&buf))

	slog.Debug("hidden")
	Infof("listening on %s", "127.0.0.1:8080")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `msg="listening on 127.0.0.1:8080"`)
	assert.Contains(t, out, "level=INFO")
}

func TestInitJSON(t *testing.T) {
	restoreDefault(t)
	var buf bytes.Buffer
	Init(WithOutput(&buf), WithJSON(), WithLevel(WarnLevel))

	Infof("dropped")
	Warnf("kept %d", 1)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "kept 1", record["msg"])
}

func TestDevModeTrimsSource(t *testing.T) {
	restoreDefault(t)
	var buf bytes.Buffer
	Init(WithOutput(&buf), WithDevMode())

	Debugf("debug on")

	out := buf.String()
	assert.Contains(t, out, "debug on")
	assert.Contains(t, out, "source=log_test.go:")
}

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"debug", DebugLevel, false},
		{"INFO", InfoLevel, false},
		{" warn ", WarnLevel, false},
		{"error", ErrorLevel, false},
		{"loud", InfoLevel, true},
	}

	for _, tc := range testCases {
		got, err := ParseLevel(tc.in)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, %v, want %v (err %v)", tc.in, got, err, tc.want, tc.wantErr)
		}
	}
}

func TestFanout(t *testing.T) {
	var a, b bytes.Buffer
	h := newFanout(InfoLevel,
		slog.NewTextHandler(&a, nil),
		slog.NewTextHandler(&b, &slog.HandlerOptions{Level: ErrorLevel}),
	)
	logger := slog.New(h).With("conn", "c1").WithGroup("req")

	logger.Debug("skipped")
	logger.Info("info", "path", "/")
	logger.Error("error")

	assert.NotContains(t, a.String(), "skipped")
	assert.Contains(t, a.String(), "conn=c1")
	assert.Contains(t, a.String(), "req.path=/")
	assert.NotContains(t, b.String(), "msg=info")
	assert.Contains(t, b.String(), "msg=error")
	assert.False(t, h.Enabled(context.Background(), DebugLevel))
}

type memoryExporter struct {
	mu      sync.Mutex
	records []sdklog.Record
}

func (e *memoryExporter) Export(_ context.Context, records []sdklog.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, r := range records {
		e.records = append(e.records, r.Clone())
	}
	return nil
}

func (e *memoryExporter) Shutdown(context.Context) error   { return nil }
func (e *memoryExporter) ForceFlush(context.Context) error { return nil }

func TestWithOTel(t *testing.T) {
	restoreDefault(t)
	exporter := &memoryExporter{}
	provider := sdklog.NewLoggerProvider(sdklog.WithProcessor(sdklog.NewSimpleProcessor(exporter)))
	global.SetLoggerProvider(provider)

	var buf bytes.Buffer
	Init(WithOutput(&buf), WithOTel("hearth-test"))
	slog.Info("to both")
	slog.Debug("to neither")

	assert.Contains(t, buf.String(), "to both")

	exporter.mu.Lock()
	defer exporter.mu.Unlock()
	require.Len(t, exporter.records, 1)
	assert.Equal(t, "to both", exporter.records[0].Body().AsString())
}
