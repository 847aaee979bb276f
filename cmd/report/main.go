package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/hamed0406/isplogger/internal/repo/csvfile"
	"github.com/hamed0406/isplogger/internal/report"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet("report", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	utc := flags.Bool("utc", false, "interpret record timestamps as UTC instead of local time")
	flags.Usage = func() {
		fmt.Fprintln(stderr, "usage: report [--utc] <record.csv>")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if flags.NArg() != 1 {
		flags.Usage()
		return 2
	}

	loc := time.Local
	if *utc {
		loc = time.UTC
	}

	f, err := os.Open(flags.Arg(0))
	if err != nil {
		fmt.Fprintln(stderr, "report:", err)
		return 1
	}
	defer f.Close()

	results, err := csvfile.Read(f, loc)
	if err != nil {
		fmt.Fprintln(stderr, "report:", err)
		return 1
	}
	if err := report.Write(stdout, results); err != nil {
		fmt.Fprintln(stderr, "report:", err)
		return 1
	}
	return 0
}
