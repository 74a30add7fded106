package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/alecthomas/kingpin/v2"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line in args and returns the exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := kingpin.New("plotexpr", "Compile and sample single-variable expressions in x.")
	app.UsageWriter(stderr)
	app.ErrorWriter(stderr)
	app.Terminate(nil)

	g := &globals{ctx: ctx, stdout: stdout, stderr: stderr}
	// Register globals first so their PreAction runs before command actions.
	g.Register(app)

	var (
		normalize normalizeCommand
		postfix   postfixCommand
		point     pointCommand
		rng       rangeCommand
		batch     batchCommand
	)
	normalize.Register(app, g)
	postfix.Register(app, g)
	point.Register(app, g)
	rng.Register(app, g)
	batch.Register(app, g)

	_, err := app.Parse(args)
	if g.reg != nil && g.metricsFile != "" {
		if merr := prometheus.WriteToTextfile(g.metricsFile, g.reg); merr != nil {
			level.Warn(g.logger).Log("msg", "writing metrics file failed", "file", g.metricsFile, "err", merr)
		}
	}
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}
