// cmd/preflight/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/hamed0406/isplogger/internal/config"
	"github.com/hamed0406/isplogger/internal/probe"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run takes the same flags as isplogger and reports what a real run would
// trip over. Only problems that would stop isplogger are failures.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	failed := false
	fail := func(msg string) {
		fmt.Fprintln(stderr, "✖", msg)
		failed = true
	}
	warn := func(msg string) { fmt.Fprintln(stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Fprintln(stdout, "✔", msg) }

	cfg, err := config.Load("preflight", args)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	} else if err != nil {
		fail(err.Error())
		return 1
	}

	sc := cfg.Sampler()
	if err := cfg.Validate(); err != nil {
		fail(err.Error())
	} else {
		ok(fmt.Sprintf("target %s every %s (timeout %s)", sc.Target.Address(), sc.Interval, sc.Timeout))
	}

	if cfg.RecordPath == "" {
		warn("record path empty; UP/DOWN rows will not be saved.")
	} else if err := writableDir(filepath.Dir(cfg.RecordPath)); err != nil {
		fail("record directory not writable: " + err.Error())
	} else {
		ok("record file " + cfg.RecordPath)
	}

	if cfg.LogDir == "" {
		warn("log dir empty; console output only.")
	} else if err := writableDir(cfg.LogDir); err != nil {
		fail("log directory not writable: " + err.Error())
	} else {
		ok("log dir " + cfg.LogDir)
	}

	if failed {
		return 1
	}

	// Name resolution and reachability depend on the link being measured, so
	// they only warn.
	if net.ParseIP(sc.Target.Host) == nil {
		rctx, cancel := context.WithTimeout(ctx, sc.Timeout)
		addrs, err := net.DefaultResolver.LookupHost(rctx, sc.Target.Host)
		cancel()
		if err != nil {
			warn(fmt.Sprintf("cannot resolve %s right now: %v", sc.Target.Host, err))
		} else {
			ok(fmt.Sprintf("%s resolves to %v", sc.Target.Host, addrs))
		}
	}

	res := probe.NewTCPChecker(sc.Timeout).Check(ctx, sc.Target)
	if res.Success {
		ok(fmt.Sprintf("%s reachable (%.1f ms)", sc.Target.Address(), res.LatencyMS))
	} else {
		warn(fmt.Sprintf("%s not reachable right now: %s", sc.Target.Address(), res.Message))
	}

	ok("preflight passed")
	return 0
}

func writableDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".preflight-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
