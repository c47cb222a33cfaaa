package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"syscall"

	"github.com/Ahmed-Sermani/ria"
	"github.com/Ahmed-Sermani/ria/bipartite"
	"github.com/Ahmed-Sermani/ria/dot"
	"github.com/Ahmed-Sermani/ria/ingest"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

var (
	appName = "riagraph"
	appSha  = ""
)

type cliConfig struct {
	algorithm     string
	alpha         float64
	maxIterations int
	threshold     float64
	workers       int
	input         string
	dotOutput     string
	credOutput    string
	logLevel      string
}

func main() {
	rootLogger := logrus.New()
	logger := rootLogger.WithFields(logrus.Fields{
		"app": appName,
		"sha": appSha,
	})

	if err := run(rootLogger, logger); err != nil {
		logger.WithField("err", err).Error("shutting down due to error")
		os.Exit(1)
	}
}

func run(rootLogger *logrus.Logger, logger *logrus.Entry) error {
	var cfg cliConfig
	flag.StringVar(&cfg.algorithm, "algorithm", "ria", fmt.Sprintf("The scoring algorithm to use (supported values: %v)", ria.AlgorithmNames()))
	flag.Float64Var(&cfg.alpha, "alpha", 1, "The steepness of the reviewer weight function (only used by ria)")
	flag.IntVar(&cfg.maxIterations, "max-iterations", bipartite.DefaultMaxIterations, "The maximum number of update passes")
	flag.Float64Var(&cfg.threshold, "threshold", bipartite.DefaultThreshold, "Stop once the largest change of a pass falls below this value")
	flag.IntVar(&cfg.workers, "workers", runtime.NumCPU(), "The number of workers used within each update pass (defaults to number of CPUs)")
	flag.StringVar(&cfg.input, "input", "-", "CSV file with reviewer,product,rating rows; - reads from stdin")
	flag.StringVar(&cfg.dotOutput, "dot", "", "If set, write the scored graph in Graphviz DOT format to this file")
	flag.StringVar(&cfg.credOutput, "credibilities", "", "If set, write the final product credibilities as JSON lines to this file")
	flag.StringVar(&cfg.logLevel, "log-level", "info", "The log level (debug, info, warn, error)")
	flag.Parse()

	level, err := logrus.ParseLevel(cfg.logLevel)
	if err != nil {
		return xerrors.Errorf("could not parse log level: %w", err)
	}
	rootLogger.SetLevel(level)

	graphCfg, err := ria.ConfigFor(cfg.algorithm, cfg.alpha)
	if err != nil {
		return err
	}
	graphCfg.ComputeWorkers = cfg.workers
	graphCfg.Logger = logger.WithField("component", "bipartite")

	g, err := bipartite.NewGraph(graphCfg)
	if err != nil {
		return err
	}
	defer func() { _ = g.Close() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGHUP)
	defer cancel()

	loader, err := ingest.NewLoader(ingest.Config{
		Graph:  g,
		Logger: logger.WithField("component", "ingest"),
	})
	if err != nil {
		return err
	}
	in, closeIn, err := openInput(cfg.input)
	if err != nil {
		return err
	}
	stats, err := loader.Load(ctx, in)
	closeIn()
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"reviewers": len(g.Reviewers()),
		"products":  len(g.Products()),
		"reviews":   stats.Reviews,
	}).Info("loaded review graph")

	res, err := g.Run(ctx, bipartite.RunConfig{
		MaxIterations: cfg.maxIterations,
		Threshold:     cfg.threshold,
	})
	if err != nil {
		return err
	}
	if !res.Converged {
		logger.WithField("diff", res.Diff).Warn("scores did not converge")
	}

	if err = printScores(os.Stdout, g); err != nil {
		return err
	}
	if cfg.dotOutput != "" {
		if err = writeDOT(g, cfg.dotOutput); err != nil {
			return err
		}
	}
	if cfg.credOutput != "" {
		if err = writeCredibilities(g, cfg.credOutput); err != nil {
			return err
		}
	}
	return nil
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, xerrors.Errorf("could not open input: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// printScores writes reviewers from the most to the least anomalous,
// followed by the product summaries, as tab separated lines.
func printScores(w io.Writer, g *bipartite.Graph) error {
	reviewers := g.Reviewers()
	sort.SliceStable(reviewers, func(i, j int) bool {
		return reviewers[i].AnomalousScore() > reviewers[j].AnomalousScore()
	})
	for _, r := range reviewers {
		if _, err := fmt.Fprintf(w, "reviewer\t%s\t%.6f\n", r.Name(), r.AnomalousScore()); err != nil {
			return err
		}
	}
	for _, p := range g.Products() {
		if _, err := fmt.Fprintf(w, "product\t%s\t%.6f\n", p.Name(), p.Summary()); err != nil {
			return err
		}
	}
	return nil
}

func writeDOT(g *bipartite.Graph, path string) error {
	out, err := dot.Marshal(g, "reviews")
	if err != nil {
		return err
	}
	if err = os.WriteFile(path, out, 0o644); err != nil {
		return xerrors.Errorf("could not write DOT output: %w", err)
	}
	return nil
}

func writeCredibilities(g *bipartite.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return xerrors.Errorf("could not create credibility output: %w", err)
	}
	if err = g.DumpCredibilities(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
