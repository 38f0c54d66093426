// Command cl1 finds overlapping cohesive clusters in a weighted network.
//
// Usage:
//
//	cl1 [flags] network.txt
//
// The network is a whitespace-separated edge list ("source target [weight]").
// Use "-" to read it from standard input.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dd0wney/cluso-cohesion/pkg/clusterone"
	"github.com/dd0wney/cluso-cohesion/pkg/ingest"
	"github.com/dd0wney/cluso-cohesion/pkg/logging"
	"github.com/dd0wney/cluso-cohesion/pkg/metrics"
	"github.com/dd0wney/cluso-cohesion/pkg/params"
	"github.com/dd0wney/cluso-cohesion/pkg/seeding"
)

// errUsage is returned for bad invocations; the flag set has already
// printed the details.
var errUsage = errors.New("usage error")

type options struct {
	configPath  string
	seedsPath   string
	format      string
	detailed    bool
	lenient     bool
	logLevel    string
	logFormat   string
	metricsOut  string
	printConfig bool
	input       string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "cl1: %v\n", err)
		}
		os.Exit(1)
	}
}

// parseFlags builds the effective configuration: defaults, then the YAML
// file from -config, then any flags given explicitly.
func parseFlags(args []string, stderr io.Writer) (params.Config, options, error) {
	fs := flag.NewFlagSet("cl1", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.configPath, "config", "", "YAML parameter file")
	fs.StringVar(&opts.seedsPath, "seeds", "", "File with one seed per line; overrides -seed-method")
	fs.StringVar(&opts.format, "format", "plain", "Output format: plain, csv or json")
	fs.BoolVar(&opts.detailed, "detailed", false, "Give every cluster property its own csv column")
	fs.BoolVar(&opts.lenient, "lenient", false, "Skip malformed input lines instead of failing")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn or error")
	fs.StringVar(&opts.logFormat, "log-format", "text", "Log format: text or json")
	fs.StringVar(&opts.metricsOut, "metrics-out", "", "Write Prometheus text metrics to this file after the run")
	fs.BoolVar(&opts.printConfig, "print-config", false, "Print the effective configuration as YAML and exit")

	def := params.DefaultConfig()
	var flagCfg params.Config
	fs.IntVar(&flagCfg.MinSize, "min-size", def.MinSize, "Minimum cluster size")
	fs.Float64Var(&flagCfg.MinDensity, "min-density", def.MinDensity, "Minimum cluster density")
	fs.Float64Var(&flagCfg.OverlapThreshold, "max-overlap", def.OverlapThreshold, "Overlap above which a weaker cluster is merged away")
	fs.Float64Var(&flagCfg.HaircutThreshold, "haircut", def.HaircutThreshold, "Haircut threshold in (0,1]; other values disable it")
	fs.StringVar(&flagCfg.HaircutPolicy, "haircut-policy", def.HaircutPolicy, "Haircut policy: single_pass or fixed_point")
	fs.IntVar(&flagCfg.KCoreThreshold, "kcore", def.KCoreThreshold, "Require a non-empty k-core; 0 disables")
	fs.Float64Var(&flagCfg.NodePenalty, "penalty", def.NodePenalty, "Node penalty in the cohesiveness score")
	fs.BoolVar(&flagCfg.FluffClusters, "fluff", def.FluffClusters, "Add boundary nodes linked to most members")
	fs.StringVar(&flagCfg.MergingMethod, "merge-method", def.MergingMethod, "Overlap measure: match, jaccard, dice or simpson")
	fs.StringVar(&flagCfg.SeedStrategy, "seed-method", def.SeedStrategy, "Seeds: nodes, edges or unused_nodes")
	fs.IntVar(&flagCfg.Workers, "workers", def.Workers, "Growth workers; 0 uses GOMAXPROCS")

	if err := fs.Parse(args); err != nil {
		return params.Config{}, options{}, errUsage
	}

	cfg := def
	if opts.configPath != "" {
		loaded, err := params.LoadFile(opts.configPath)
		if err != nil {
			return params.Config{}, options{}, err
		}
		cfg = loaded
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "min-size":
			cfg.MinSize = flagCfg.MinSize
		case "min-density":
			cfg.MinDensity = flagCfg.MinDensity
		case "max-overlap":
			cfg.OverlapThreshold = flagCfg.OverlapThreshold
		case "haircut":
			cfg.HaircutThreshold = flagCfg.HaircutThreshold
		case "haircut-policy":
			cfg.HaircutPolicy = flagCfg.HaircutPolicy
		case "kcore":
			cfg.KCoreThreshold = flagCfg.KCoreThreshold
		case "penalty":
			cfg.NodePenalty = flagCfg.NodePenalty
		case "fluff":
			cfg.FluffClusters = flagCfg.FluffClusters
		case "merge-method":
			cfg.MergingMethod = flagCfg.MergingMethod
		case "seed-method":
			cfg.SeedStrategy = flagCfg.SeedStrategy
		case "workers":
			cfg.Workers = flagCfg.Workers
		}
	})

	if !opts.printConfig {
		if fs.NArg() != 1 {
			fmt.Fprintln(stderr, "usage: cl1 [flags] network.txt")
			fs.PrintDefaults()
			return params.Config{}, options{}, errUsage
		}
		opts.input = fs.Arg(0)
	}
	return cfg, opts, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if opts.printConfig {
		data, err := cfg.Marshal()
		if err != nil {
			return err
		}
		_, err = stdout.Write(data)
		return err
	}

	level, err := logging.ParseLevel(opts.logLevel)
	if err != nil {
		return err
	}
	logFormat, err := logging.ParseFormat(opts.logFormat)
	if err != nil {
		return err
	}
	logger := logging.New(stderr, level, logFormat)
	write, err := writerFor(opts.format, opts.detailed)
	if err != nil {
		return err
	}

	p, err := cfg.Build()
	if err != nil {
		return err
	}

	reg := metrics.NewRegistry()
	readerOpts := []ingest.Option{ingest.WithLogger(logger), ingest.WithMetrics(reg)}
	if opts.lenient {
		readerOpts = append(readerOpts, ingest.Lenient())
	}
	reader := ingest.NewReader(readerOpts...)

	var ds *ingest.Dataset
	if opts.input == "-" {
		ds, err = reader.ReadEdgeList(stdin)
	} else {
		ds, err = reader.LoadEdgeList(opts.input)
	}
	if err != nil {
		return err
	}

	if opts.seedsPath != "" {
		seeds, err := reader.LoadSeeds(opts.seedsPath, ds)
		if err != nil {
			return err
		}
		list, err := seeding.NewList(ds.Graph.NodeCount(), seeds)
		if err != nil {
			return err
		}
		p = p.WithSeedGenerator(list)
	}
	logger.Debug("parameters", logging.String("summary", p.String()))

	res, err := clusterone.New(p, clusterone.WithLogger(logger), clusterone.WithMetrics(reg)).Run(ctx, ds.Graph)
	if err != nil {
		return err
	}

	if err := write(stdout, res, ds); err != nil {
		return fmt.Errorf("write clusters: %w", err)
	}

	if opts.metricsOut != "" {
		if err := writeMetrics(reg, opts.metricsOut); err != nil {
			return err
		}
	}
	return nil
}

func writeMetrics(reg *metrics.Registry, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create metrics file: %w", err)
	}
	if err := reg.WriteText(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
