package transform

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/shahin-smv93/ontology-graph-db/config"
	"github.com/shahin-smv93/ontology-graph-db/entity"
	"github.com/shahin-smv93/ontology-graph-db/errors"
	"github.com/shahin-smv93/ontology-graph-db/metric"
)

// Outcome classifies how one record was handled.
type Outcome string

const (
	// OutcomeOK means the record's entities were merged.
	OutcomeOK Outcome = "ok"
	// OutcomeSkipped means validation or extraction rejected the record
	// and the run continued without it.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeFailed means merging the record raised a conflict and the
	// run continued without the rest of its contribution.
	OutcomeFailed Outcome = "failed"
)

// Result reports the handling of one input record. OK records are not
// retained in Stats; only skips and failures carry a Result.
type Result struct {
	Index    int     `json:"index"`
	RecordID string  `json:"record_id,omitempty"`
	Outcome  Outcome `json:"outcome"`
	Err      error   `json:"-"`
	Reason   string  `json:"reason,omitempty"`
}

// Stats summarizes one transform run.
type Stats struct {
	RunID     string        `json:"run_id"`
	Dataset   string        `json:"dataset"`
	Records   int           `json:"records"`
	Processed int           `json:"processed"`
	Skipped   int           `json:"skipped"`
	Failed    int           `json:"failed"`
	Entities  entity.Counts `json:"entities"`
	Duration  time.Duration `json:"duration"`
	Results   []Result      `json:"results,omitempty"`
}

// Engine runs the hierarchical transform: validate each record, extract
// its descriptors through the dataset, and merge them into one hierarchy
// keyed by identity URI.
//
// Extraction is pure per record and may run on several goroutines when
// the configuration allows workers; the merge is always applied in input
// order on a single goroutine, so results are deterministic either way.
type Engine struct {
	cfg       *config.Config
	dataset   Dataset
	validator *Validator
	logger    *slog.Logger
	metrics   *metric.Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithMetrics attaches pipeline metrics. Nil disables collection.
func WithMetrics(m *metric.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine creates a transform engine for one dataset.
func NewEngine(cfg *config.Config, dataset Dataset, opts ...Option) (*Engine, error) {
	if cfg == nil {
		return nil, errors.NewConfigError("config", "configuration is required")
	}
	if dataset == nil {
		return nil, errors.NewConfigError("dataset", "dataset is required")
	}
	e := &Engine{
		cfg:       cfg,
		dataset:   dataset,
		validator: NewValidator(cfg),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("component", "transform", "dataset", dataset.Name())
	return e, nil
}

// Transform processes the records into a hierarchy. Under strict
// validation the first rejected record aborts the run with its error;
// otherwise rejected records are counted and the run completes. The
// returned stats always describe whatever work was done.
func (e *Engine) Transform(ctx context.Context, records []config.Record) (*entity.Hierarchy, *Stats, error) {
	start := time.Now()
	stats := &Stats{
		RunID:   uuid.NewString(),
		Dataset: e.dataset.Name(),
		Records: len(records),
	}
	e.logger.Info("transform started", "run_id", stats.RunID, "records", len(records))

	contribs, err := e.extractAll(ctx, records, stats)
	if err != nil {
		stats.Duration = time.Since(start)
		return nil, stats, err
	}

	h := entity.NewHierarchy(e.cfg.LastWriteWins)
	for _, c := range contribs {
		if c == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			stats.Duration = time.Since(start)
			return nil, stats, errors.WrapTransform(err, "Engine", "Transform", "merge records")
		}
		if err := e.merge(h, c); err != nil {
			if e.cfg.StrictValidation {
				stats.Duration = time.Since(start)
				return nil, stats, err
			}
			e.fail(stats, c.index, c.recordID, err)
			continue
		}
		stats.Processed++
		e.metrics.RecordOutcome(stats.Dataset, string(OutcomeOK))
	}

	stats.Entities = h.Counts()
	stats.Duration = time.Since(start)
	e.recordEntityMetrics(stats.Entities)
	e.metrics.ObserveTransform(stats.Dataset, stats.Duration.Seconds())
	e.logger.Info("transform finished",
		"run_id", stats.RunID,
		"processed", stats.Processed,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
		"duration", stats.Duration,
	)
	return h, stats, nil
}

// extractAll runs validation and extraction for every record, preserving
// input order in the returned slice. A nil slot marks a skipped record.
func (e *Engine) extractAll(ctx context.Context, records []config.Record, stats *Stats) ([]*contribution, error) {
	contribs := make([]*contribution, len(records))

	if e.cfg.Workers > 1 {
		rejected := make([]error, len(records))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.cfg.Workers)
		for i, rec := range records {
			i, rec := i, rec
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				c, err := e.extract(i, rec)
				if err != nil {
					if e.cfg.StrictValidation {
						return err
					}
					rejected[i] = err
					return nil
				}
				contribs[i] = c
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		// Skips are recorded after the fact, in input order, so stats
		// and logs match the sequential path.
		for i, err := range rejected {
			if err != nil {
				e.skip(stats, i, recordID(e.cfg, records[i]), err)
			}
		}
		return contribs, nil
	}

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, errors.WrapTransform(err, "Engine", "Transform", "extract records")
		}
		c, err := e.extract(i, rec)
		if err != nil {
			if e.cfg.StrictValidation {
				return nil, err
			}
			e.skip(stats, i, recordID(e.cfg, rec), err)
			continue
		}
		contribs[i] = c
	}
	return contribs, nil
}

// extract assembles one record's contribution by walking the dataset
// contract in its fixed order.
func (e *Engine) extract(index int, rec config.Record) (*contribution, error) {
	if e.cfg.ValidateData {
		if err := e.validator.Check(rec); err != nil {
			return nil, err
		}
	}

	c := &contribution{index: index, recordID: recordID(e.cfg, rec)}

	building, err := e.dataset.ExtractBuilding(rec)
	if err != nil {
		return nil, err
	}
	if building == nil {
		return nil, errors.NewMissingFieldError("building", "building", c.recordID)
	}
	c.building = building

	if c.address, err = e.dataset.ExtractAddress(rec, building); err != nil {
		return nil, err
	}
	if c.address != nil {
		building.AddressURI = c.address.URI
	}

	if c.units, err = e.dataset.ExtractSpatialUnits(rec, building); err != nil {
		return nil, err
	}
	finest := building.URI
	if n := len(c.units); n > 0 {
		finest = c.units[n-1].URI
	}

	if c.objects, err = e.dataset.ExtractPhysicalObjects(rec, finest); err != nil {
		return nil, err
	}
	objectURI := ""
	if n := len(c.objects); n > 0 {
		objectURI = c.objects[n-1].URI
	}

	if c.sensor, err = e.dataset.ExtractSensor(rec, finest, objectURI); err != nil {
		return nil, err
	}

	if c.sensor != nil {
		if c.gateways, err = e.dataset.ExtractGateways(rec, c.sensor); err != nil {
			return nil, err
		}
	}

	if c.sensor != nil {
		c.measurement, c.interval, err = e.dataset.ExtractMeasurement(rec, c.sensor)
		if err != nil {
			return nil, err
		}
		if !e.cfg.CreateTimeIntervals && c.measurement != nil {
			c.interval = nil
			c.measurement.IntervalURI = ""
			c.measurement.TimeInterval = ""
		}
	}
	return c, nil
}

// merge applies one contribution to the hierarchy in dependency order so
// parents exist before their children attach. The whole contribution is
// checked for conflicts up front: a record that fails contributes
// nothing, so a Failed outcome never leaves partial entities behind.
func (e *Engine) merge(h *entity.Hierarchy, c *contribution) error {
	if err := e.check(h, c); err != nil {
		return err
	}

	if _, err := h.AddBuilding(c.building); err != nil {
		return err
	}
	if c.address != nil {
		if _, err := h.AddAddress(c.address); err != nil {
			return err
		}
	}
	for _, u := range c.units {
		if _, err := h.AddSpatialUnit(u); err != nil {
			return err
		}
		h.AttachChild(u.ParentURI, u.URI)
	}
	for _, o := range c.objects {
		if _, err := h.AddPhysicalObject(o); err != nil {
			return err
		}
		h.AttachChild(o.ParentURI, o.URI)
	}
	if c.sensor != nil {
		if _, err := h.AddSensor(c.sensor); err != nil {
			return err
		}
		h.AttachChild(c.sensor.ParentURI, c.sensor.URI)
	}
	for _, g := range c.gateways {
		if _, err := h.AddGateway(g); err != nil {
			return err
		}
		h.AttachChild(g.ParentURI, g.URI)
		// Gateway entities are always kept; only the subsystem links are
		// behind the flag.
		if c.sensor != nil && e.cfg.CreateGatewayRelationships {
			h.LinkGatewaySensor(g.URI, c.sensor.URI)
		}
	}
	if c.measurement != nil {
		if _, err := h.AddMeasurement(c.measurement); err != nil {
			return err
		}
		h.AttachChild(c.measurement.SensorURI, c.measurement.URI)
		if c.interval != nil {
			if _, err := h.AddTimeInterval(c.interval); err != nil {
				return err
			}
			h.AttachChild(c.measurement.URI, c.interval.URI)
		}
	}
	return nil
}

// check verifies a contribution against the current hierarchy without
// mutating it.
func (e *Engine) check(h *entity.Hierarchy, c *contribution) error {
	if err := h.CheckBuilding(c.building); err != nil {
		return err
	}
	if c.address != nil {
		if err := h.CheckAddress(c.address); err != nil {
			return err
		}
	}
	for _, u := range c.units {
		if err := h.CheckSpatialUnit(u); err != nil {
			return err
		}
	}
	for _, o := range c.objects {
		if err := h.CheckPhysicalObject(o); err != nil {
			return err
		}
	}
	if c.sensor != nil {
		if err := h.CheckSensor(c.sensor); err != nil {
			return err
		}
	}
	for _, g := range c.gateways {
		if err := h.CheckGateway(g); err != nil {
			return err
		}
	}
	if c.measurement != nil {
		if c.measurement.SensorURI == "" {
			return errors.WrapTransform(
				fmt.Errorf("%w: measurement %s", errors.ErrMissingRelation, c.measurement.URI),
				"Engine", "Transform", "attach measurement")
		}
		if err := h.CheckMeasurement(c.measurement); err != nil {
			return err
		}
		if c.interval != nil {
			if err := h.CheckTimeInterval(c.interval); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Engine) skip(stats *Stats, index int, recordID string, err error) {
	e.logger.Warn("record skipped", "index", index, "record_id", recordID, "error", err)
	stats.Skipped++
	stats.Results = append(stats.Results, Result{
		Index: index, RecordID: recordID, Outcome: OutcomeSkipped, Err: err, Reason: err.Error(),
	})
	e.metrics.RecordOutcome(stats.Dataset, string(OutcomeSkipped))
}

func (e *Engine) fail(stats *Stats, index int, recordID string, err error) {
	e.logger.Warn("record merge failed", "index", index, "record_id", recordID, "error", err)
	stats.Failed++
	stats.Results = append(stats.Results, Result{
		Index: index, RecordID: recordID, Outcome: OutcomeFailed, Err: err, Reason: err.Error(),
	})
	e.metrics.RecordOutcome(stats.Dataset, string(OutcomeFailed))
}

func (e *Engine) recordEntityMetrics(c entity.Counts) {
	name := e.dataset.Name()
	e.metrics.AddEntities(name, string(entity.KindBuilding), c.Buildings)
	e.metrics.AddEntities(name, string(entity.KindAddress), c.Addresses)
	e.metrics.AddEntities(name, string(entity.KindSpatialUnit), c.SpatialUnits)
	e.metrics.AddEntities(name, string(entity.KindPhysicalObject), c.PhysicalObjects)
	e.metrics.AddEntities(name, string(entity.KindSensor), c.Sensors)
	e.metrics.AddEntities(name, string(entity.KindGateway), c.Gateways)
	e.metrics.AddEntities(name, string(entity.KindMeasurement), c.Measurements)
	e.metrics.AddEntities(name, string(entity.KindTimeInterval), c.TimeIntervals)
}
