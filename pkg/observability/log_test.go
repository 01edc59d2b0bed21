package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	h := NewLogHooks(logger)
	ctx := context.Background()

	h.OnLoadComplete(ctx, "data.csv", "cp949", 3, time.Millisecond, nil)
	h.OnComputeComplete(ctx, "region", 0, time.Millisecond, errors.New("no rows"))
	h.OnCacheHit(ctx, "table")

	out := buf.String()
	for _, want := range []string{"load done", "encoding=cp949", "compute failed", "no rows", "cache hit"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestLogHooksRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	h := NewLogHooks(log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel}))
	h.OnLoadStart(context.Background(), "data.csv")
	h.OnCacheMiss(context.Background(), "table")
	if buf.Len() != 0 {
		t.Errorf("debug events logged at info level: %s", buf.String())
	}
}
