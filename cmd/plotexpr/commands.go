package main

import (
	"context"
	"io"
	"math"
	"strconv"

	"github.com/alecthomas/kingpin/v2"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/zephyrtronium/plotexpr"
	"github.com/zephyrtronium/plotexpr/internal/config"
)

const envPrefix = "PLOTEXPR_"

// globals holds flags and state shared by every command.
type globals struct {
	ctx            context.Context
	stdout, stderr io.Writer

	logLevel    string
	output      string
	metricsFile string

	logger  log.Logger
	reg     *prometheus.Registry
	metrics *plotexpr.Metrics
}

// Register adds the global flags to app.
func (g *globals) Register(app *kingpin.Application) {
	app.Flag("log.level", "Only log messages with the given severity or above.").
		Envar(envPrefix + "LOG_LEVEL").Default("info").EnumVar(&g.logLevel, "debug", "info", "warn", "error")
	app.Flag("output", "Output format for samples.").Short('o').
		Envar(envPrefix + "OUTPUT").Default("text").EnumVar(&g.output, "text", "json")
	app.Flag("metrics.file", "Write metrics in the Prometheus text format to this file on exit.").
		Envar(envPrefix + "METRICS_FILE").StringVar(&g.metricsFile)
	app.PreAction(g.setup)
}

func (g *globals) setup(*kingpin.ParseContext) error {
	var allow level.Option
	switch g.logLevel {
	case "debug":
		allow = level.AllowDebug()
	case "warn":
		allow = level.AllowWarn()
	case "error":
		allow = level.AllowError()
	default:
		allow = level.AllowInfo()
	}
	logger := log.NewLogfmtLogger(log.NewSyncWriter(g.stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)
	g.logger = level.NewFilter(logger, allow)
	g.reg = prometheus.NewRegistry()
	g.metrics = plotexpr.NewMetrics(g.reg)
	return nil
}

func (g *globals) compile(expr string, raw bool) (*plotexpr.Postfix, error) {
	var (
		p   *plotexpr.Postfix
		err error
	)
	if raw {
		p, err = plotexpr.Compile(expr, plotexpr.CompileMetrics(g.metrics))
	} else {
		p, err = plotexpr.Parse(expr, plotexpr.CompileMetrics(g.metrics))
	}
	if err != nil {
		return nil, errors.Wrapf(err, "compile %q", expr)
	}
	level.Debug(g.logger).Log("msg", "compiled expression", "expr", expr, "postfix", p)
	return p, nil
}

type normalizeCommand struct {
	g    *globals
	expr string
}

func (c *normalizeCommand) Register(app *kingpin.Application, g *globals) {
	c.g = g
	cmd := app.Command("normalize", "Print an expression with implicit multiplication and unary signs made explicit.").Action(c.run)
	cmd.Arg("expr", "Expression to normalize.").Required().StringVar(&c.expr)
}

func (c *normalizeCommand) run(*kingpin.ParseContext) error {
	_, err := io.WriteString(c.g.stdout, plotexpr.Normalize(c.expr)+"\n")
	return err
}

type postfixCommand struct {
	g    *globals
	expr string
	raw  bool
}

func (c *postfixCommand) Register(app *kingpin.Application, g *globals) {
	c.g = g
	cmd := app.Command("postfix", "Print the postfix form of an expression.").Action(c.run)
	cmd.Flag("raw", "Compile the expression without normalizing it first.").BoolVar(&c.raw)
	cmd.Arg("expr", "Expression to compile.").Required().StringVar(&c.expr)
}

func (c *postfixCommand) run(*kingpin.ParseContext) error {
	p, err := c.g.compile(c.expr, c.raw)
	if err != nil {
		return err
	}
	_, err = io.WriteString(c.g.stdout, p.String()+"\n")
	return err
}

type pointCommand struct {
	g    *globals
	expr string
	x    float64
}

func (c *pointCommand) Register(app *kingpin.Application, g *globals) {
	c.g = g
	cmd := app.Command("point", "Evaluate an expression at one value of x.").Action(c.run)
	cmd.Flag("x", "Value of x.").Default("0").Float64Var(&c.x)
	cmd.Arg("expr", "Expression to evaluate.").Default(config.DefaultExpr).StringVar(&c.expr)
}

func (c *pointCommand) run(*kingpin.ParseContext) error {
	p, err := c.g.compile(c.expr, false)
	if err != nil {
		return err
	}
	pt, err := p.At(c.x)
	if err != nil {
		return errors.Wrapf(err, "evaluate %q", c.expr)
	}
	return c.g.write(result{Expr: c.expr, Postfix: p.String(), Points: []plotexpr.Point{pt}})
}

type rangeCommand struct {
	g          *globals
	expr       string
	start, end float64
	count      int
	workers    int
}

func (c *rangeCommand) Register(app *kingpin.Application, g *globals) {
	c.g = g
	cmd := app.Command("range", "Sample an expression at evenly spaced values of x.").Action(c.run)
	cmd.Flag("start", "First value of x.").Default(strconv.FormatFloat(config.DefaultStart, 'g', -1, 64)).Float64Var(&c.start)
	cmd.Flag("end", "Last value of x.").Default(strconv.FormatFloat(config.DefaultEnd, 'g', -1, 64)).Float64Var(&c.end)
	cmd.Flag("count", "Number of points.").Short('n').Default(strconv.Itoa(config.DefaultCount)).IntVar(&c.count)
	cmd.Flag("workers", "Goroutines to sample with.").Envar(envPrefix + "WORKERS").Default("1").IntVar(&c.workers)
	cmd.Arg("expr", "Expression to sample.").Default(config.DefaultExpr).StringVar(&c.expr)
}

func (c *rangeCommand) run(*kingpin.ParseContext) error {
	r, err := c.g.sample(c.expr, c.start, c.end, c.count, c.workers)
	if err != nil {
		return err
	}
	return c.g.write(r)
}

func (g *globals) sample(expr string, start, end float64, count, workers int) (result, error) {
	p, err := g.compile(expr, false)
	if err != nil {
		return result{}, err
	}
	pts, err := p.Sample(g.ctx, start, end, count,
		plotexpr.SampleWorkers(workers),
		plotexpr.SampleLogger(g.logger),
		plotexpr.SampleMetrics(g.metrics),
	)
	if err != nil {
		return result{}, errors.Wrapf(err, "sample %q", expr)
	}
	return result{Expr: expr, Postfix: p.String(), Points: pts}, nil
}

type batchCommand struct {
	g          *globals
	configFile string
}

func (c *batchCommand) Register(app *kingpin.Application, g *globals) {
	c.g = g
	cmd := app.Command("batch", "Evaluate the plots described in a YAML config file.").Action(c.run)
	cmd.Flag("config.file", "Plots config file.").Envar(envPrefix + "CONFIG_FILE").Required().StringVar(&c.configFile)
}

func (c *batchCommand) run(*kingpin.ParseContext) error {
	cfg, err := config.Load(c.configFile)
	if err != nil {
		return err
	}
	level.Info(c.g.logger).Log("msg", "loaded config", "file", c.configFile, "plots", len(cfg.Plots))
	for _, pl := range cfg.Plots {
		var r result
		switch pl.Mode {
		case config.ModePoint:
			p, err := c.g.compile(pl.Expr, false)
			if err != nil {
				return errors.Wrapf(err, "plot %q", pl.Name)
			}
			pt, err := p.At(pl.X)
			if err != nil {
				return errors.Wrapf(err, "plot %q", pl.Name)
			}
			r = result{Expr: pl.Expr, Postfix: p.String(), Points: []plotexpr.Point{pt}}
		default:
			start, end, count := pl.Range()
			r, err = c.g.sample(pl.Expr, start, end, count, cfg.Workers)
			if err != nil {
				return errors.Wrapf(err, "plot %q", pl.Name)
			}
		}
		r.Name = pl.Name
		if err := c.g.write(r); err != nil {
			return err
		}
	}
	return nil
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type result struct {
	Name    string
	Expr    string
	Postfix string
	Points  []plotexpr.Point
}

// jsonResult is the JSON form of a result. Non-finite y values are null
// because JSON has no numbers for them.
type jsonResult struct {
	Name    string      `json:"name,omitempty"`
	Expr    string      `json:"expr"`
	Postfix string      `json:"postfix"`
	Points  []jsonPoint `json:"points"`
}

type jsonPoint struct {
	X float64  `json:"x"`
	Y *float64 `json:"y"`
}

func (g *globals) write(r result) error {
	if g.output == "json" {
		j := jsonResult{Name: r.Name, Expr: r.Expr, Postfix: r.Postfix, Points: make([]jsonPoint, len(r.Points))}
		for i, pt := range r.Points {
			j.Points[i].X = pt.X
			if !math.IsNaN(pt.Y) && !math.IsInf(pt.Y, 0) {
				y := pt.Y
				j.Points[i].Y = &y
			}
		}
		return json.NewEncoder(g.stdout).Encode(j)
	}
	b := make([]byte, 0, 64+32*len(r.Points))
	b = append(b, "# "...)
	if r.Name != "" {
		b = append(b, r.Name...)
		b = append(b, ": "...)
	}
	b = append(b, r.Postfix...)
	b = append(b, '\n')
	for _, pt := range r.Points {
		b = strconv.AppendFloat(b, pt.X, 'g', -1, 64)
		b = append(b, '\t')
		b = strconv.AppendFloat(b, pt.Y, 'g', -1, 64)
		b = append(b, '\n')
	}
	_, err := g.stdout.Write(b)
	return err
}
