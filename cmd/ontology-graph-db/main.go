// Package main implements the ontology mapping pipeline entry point:
// flat building/sensor inventory records go in, an RDF knowledge graph in
// Turtle plus a transformed-hierarchy JSON snapshot come out.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/shahin-smv93/ontology-graph-db/config"
	"github.com/shahin-smv93/ontology-graph-db/dataset/concordia"
	"github.com/shahin-smv93/ontology-graph-db/errors"
	"github.com/shahin-smv93/ontology-graph-db/graph"
	"github.com/shahin-smv93/ontology-graph-db/mapper"
	"github.com/shahin-smv93/ontology-graph-db/metric"
	"github.com/shahin-smv93/ontology-graph-db/transform"
)

// Build information constants
const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "ontology-graph-db"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("Pipeline failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run() error {
	cliCfg := parseFlags()

	if cliCfg.ShowVersion {
		fmt.Printf("%s %s (built %s)\n", appName, Version, BuildTime)
		return nil
	}
	if cliCfg.ShowHelp {
		printDetailedHelp()
		return nil
	}
	if err := validateFlags(cliCfg); err != nil {
		return err
	}

	logger := setupLogger(cliCfg.LogLevel, cliCfg.LogFormat)
	slog.SetDefault(logger)

	cfg, err := config.LoadFile(cliCfg.ConfigPath)
	if err != nil {
		return err
	}
	if cliCfg.InputPath != "" {
		cfg.InputDataPath = cliCfg.InputPath
	}
	if cliCfg.Workers > 0 {
		cfg.Workers = cliCfg.Workers
	}
	if cfg.InputDataPath == "" {
		return errors.NewConfigError("input_data_path", "no input records file given")
	}

	if cliCfg.Validate {
		logger.Info("Configuration is valid", "config", cliCfg.ConfigPath)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := metric.NewMetrics()
	if cliCfg.MetricsAddr != "" {
		server, err := metric.NewServer(cliCfg.MetricsAddr, metrics)
		if err != nil {
			return err
		}
		go func() {
			if err := server.Start(); err != nil {
				logger.Error("Metrics server failed", "error", err)
			}
		}()
		defer func() { _ = server.Stop() }()
	}

	return runPipeline(ctx, cfg, logger, metrics)
}

func runPipeline(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *metric.Metrics) error {
	records, err := readRecords(cfg.InputDataPath)
	if err != nil {
		return err
	}
	logger.Info("Input loaded", "path", cfg.InputDataPath, "records", len(records))

	ds, err := concordia.New(cfg)
	if err != nil {
		return err
	}

	te, err := transform.NewEngine(cfg, ds,
		transform.WithLogger(logger), transform.WithMetrics(metrics))
	if err != nil {
		return err
	}
	hierarchy, tstats, err := te.Transform(ctx, records)
	if err != nil {
		return err
	}

	if cfg.OutputTransformedPath != "" {
		if err := writeJSON(cfg.OutputTransformedPath, hierarchy.Export()); err != nil {
			return err
		}
		logger.Info("Transformed hierarchy written",
			"path", cfg.OutputTransformedPath, "entities", tstats.Entities)
	}

	me, err := mapper.NewEngine(cfg, ds,
		mapper.WithLogger(logger), mapper.WithMetrics(metrics))
	if err != nil {
		return err
	}
	g, mstats, err := me.Map(ctx, hierarchy)
	if err != nil {
		return err
	}

	if err := writeTurtle(cfg.OutputRDFPath, g); err != nil {
		return err
	}
	logger.Info("Ontology graph written",
		"path", cfg.OutputRDFPath,
		"triples", mstats.TriplesEmitted,
		"entities_failed", mstats.EntitiesFailed)

	if cfg.EnableDebug && cfg.OutputDebugPath != "" {
		if err := writeTurtle(cfg.OutputDebugPath, mapper.DebugSample(g, 2)); err != nil {
			return err
		}
		logger.Info("Debug sample written", "path", cfg.OutputDebugPath)
	}
	return nil
}

// readRecords decodes the input file: either a bare JSON array of records
// or an object with a top-level "records" array.
func readRecords(path string) ([]config.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "cli", "readRecords", "read input file")
	}

	var records []config.Record
	if err := json.Unmarshal(data, &records); err == nil {
		return records, nil
	}

	var wrapped struct {
		Records []config.Record `json:"records"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, errors.Wrap(err, "cli", "readRecords", "decode input records")
	}
	if wrapped.Records == nil {
		return nil, errors.Wrap(fmt.Errorf("%w: no records found", errors.ErrEmptyInput),
			"cli", "readRecords", "decode input records")
	}
	return wrapped.Records, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "cli", "writeJSON", "encode output")
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return errors.Wrap(err, "cli", "writeJSON", "write output file")
	}
	return nil
}

func writeTurtle(path string, g *graph.Graph) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "cli", "writeTurtle", "create output file")
	}
	defer func() { _ = f.Close() }()

	if err := g.EncodeTurtle(f); err != nil {
		return err
	}
	return nil
}
