package scheduler_test

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hamed0406/isplogger/internal/domain"
	"github.com/hamed0406/isplogger/internal/probe"
	"github.com/hamed0406/isplogger/internal/recorder"
	"github.com/hamed0406/isplogger/internal/repo/csvfile"
	"github.com/hamed0406/isplogger/internal/scheduler"
)

func echoServer(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				buf := make([]byte, 512)
				for {
					n, err := c.Read(buf)
					if err != nil {
						return
					}
					_, _ = c.Write(buf[:n])
				}
			}(c)
		}
	}()
	return ln.Addr().(*net.TCPAddr).Port
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()
	return port
}

func runLoopback(t *testing.T, port int, recordPath string) (*observer.ObservedLogs, time.Duration) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)

	var rec *recorder.Recorder
	if recordPath != "" {
		rec = recorder.New(log, csvfile.New(recordPath))
	} else {
		rec = recorder.New(log, nil)
	}

	cfg := scheduler.Config{
		Interval:   200 * time.Millisecond,
		Timeout:    100 * time.Millisecond,
		Iterations: 3,
		Target:     domain.Target{Host: "127.0.0.1", Port: port},
	}
	s, err := scheduler.NewSampler(log, probe.NewTCPChecker(cfg.Timeout), rec, cfg)
	if err != nil {
		t.Fatalf("NewSampler: %v", err)
	}

	start := time.Now()
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return logs, time.Since(start)
}

func dataRows(t *testing.T, path string) []string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read record: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(string(b), "\n"), "\n")
	if lines[0] != "Date,Time,Host,Port,Status" {
		t.Fatalf("missing header: %q", lines)
	}
	return lines[1:]
}

func TestSampler_LoopbackUp(t *testing.T) {
	port := echoServer(t)
	path := filepath.Join(t.TempDir(), "down_time.csv")

	logs, elapsed := runLoopback(t, port, path)

	if n := logs.FilterMessage("UP").FilterLevelExact(zapcore.InfoLevel).Len(); n != 3 {
		t.Fatalf("want 3 UP lines, got %d", n)
	}
	rows := dataRows(t, path)
	if len(rows) != 3 {
		t.Fatalf("want 3 rows, got %q", rows)
	}
	for _, r := range rows {
		if !strings.HasSuffix(r, ",1") {
			t.Fatalf("want Status=1, got %q", r)
		}
	}
	// 3 cycles of 200ms; allow scheduling slack
	if elapsed < 570*time.Millisecond || elapsed > 900*time.Millisecond {
		t.Fatalf("run took %s, want about 600ms", elapsed)
	}
}

func TestSampler_LoopbackDown(t *testing.T) {
	port := freePort(t)
	path := filepath.Join(t.TempDir(), "down_time.csv")

	logs, _ := runLoopback(t, port, path)

	if n := logs.FilterMessage("DOWN").FilterLevelExact(zapcore.WarnLevel).Len(); n != 3 {
		t.Fatalf("want 3 DOWN lines, got %d", n)
	}
	rows := dataRows(t, path)
	if len(rows) != 3 {
		t.Fatalf("want 3 rows, got %q", rows)
	}
	for _, r := range rows {
		if !strings.HasSuffix(r, ",0") {
			t.Fatalf("want Status=0, got %q", r)
		}
	}
}

func TestSampler_NoRecordPath(t *testing.T) {
	port := echoServer(t)
	dir := t.TempDir()
	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	logs, _ := runLoopback(t, port, "")

	if n := logs.FilterMessage("UP").Len(); n != 3 {
		t.Fatalf("want 3 UP lines, got %d", n)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("no files expected without a record path, got %v", entries)
	}
}
