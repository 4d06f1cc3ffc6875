package gallery

import (
	"io"
	"log/slog"
	"os"
	"testing"
	"time"
)

const (
	timeout = 2 * time.Second
	tick    = 5 * time.Millisecond
)

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	os.Exit(m.Run())
}
