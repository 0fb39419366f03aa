package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/juan-malbeclabs/solana/pkg/clock"
	"github.com/juan-malbeclabs/solana/pkg/record"
)

// Option configures the Service
// ------------------------------------------------
type Option func(*Service)

// WithClock injects a custom Clock (e.g., for testing)
func WithClock(c Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithRunIDs overrides how run identifiers are generated
func WithRunIDs(next func() uuid.UUID) Option {
	return func(s *Service) { s.nextRunID = next }
}

// WithEventHandler receives every lifecycle event, synchronously and in order
func WithEventHandler(h func(Event)) Option {
	return func(s *Service) { s.handler = h }
}

// WithSeparator sets the string joining nested keys when flattening
func WithSeparator(sep string) Option {
	return func(s *Service) { s.separator = sep }
}

// Service runs the fetch, join, enrich, flatten and export pipeline once per call
// -------------------------------------------------------------------------------
type Service struct {
	topology  Topology
	geo       Geolocator
	exporters []Exporter
	clock     Clock
	handler   func(Event)
	separator string
	nextRunID func() uuid.UUID
}

// NewService constructs a Service with required dependencies and options
// ---------------------------------------------------------------------
// By default, it uses a real clock, random v4 run ids, "_" as separator and discards events.
func NewService(topology Topology, geo Geolocator, exporters []Exporter, opts ...Option) *Service {
	s := &Service{
		topology:  topology,
		geo:       geo,
		exporters: exporters,
		clock:     clock.SystemClock{},
		handler:   func(Event) {},
		separator: record.DefaultSeparator,
		nextRunID: uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes one collection pass. Every step runs sequentially on the calling
// goroutine and the first error aborts the run. Exporters only run once every node
// has been enriched, in the order given; a failing exporter stops the ones after it.
func (s *Service) Run(ctx context.Context) (Report, error) {
	runID, start := s.nextRunID(), s.clock.Now()
	s.handler(RunStarted{RunID: runID, StartedAt: start})

	report, err := s.run(ctx, runID, start)
	if err != nil {
		s.handler(RunFailed{Err: err})
		return report, err
	}

	report.Duration = s.clock.Now().Sub(start)
	s.handler(RunCompleted{Report: report})
	return report, nil
}

func (s *Service) run(ctx context.Context, runID uuid.UUID, start time.Time) (Report, error) {
	report := Report{RunID: runID}

	// Extract
	gossip, err := s.topology.Gossip(ctx)
	if err != nil {
		return report, fmt.Errorf("%w: %w", ErrGossipFetchFailed, err)
	}
	validators, err := s.topology.Validators(ctx)
	if err != nil {
		return report, fmt.Errorf("%w: %w", ErrValidatorsFetchFailed, err)
	}
	report.Gossip, report.Validators = len(gossip), len(validators)
	s.handler(TopologyFetched{Gossip: report.Gossip, Validators: report.Validators})

	// Join
	merged, err := RescaleStake(Join(gossip, validators))
	if err != nil {
		return report, fmt.Errorf("%w: %w", ErrJoinFailed, err)
	}
	staked := FilterStaked(merged)
	report.Merged, report.Staked = len(merged), len(staked)
	s.handler(Joined{Merged: report.Merged, Staked: report.Staked})

	// Enrich
	enriched := make([]*record.Record, len(staked))
	for i, node := range staked {
		e, err := EnrichNode(ctx, s.geo, node)
		if err != nil {
			return report, fmt.Errorf("%w: %w", ErrEnrichFailed, err)
		}
		enriched[i] = e

		ip, _ := node.String(IPField)
		s.handler(NodeEnriched{Position: i + 1, Total: len(staked), IP: ip})
	}

	// Flatten & export
	snapshot := Snapshot{
		RunID:   runID,
		TakenAt: start,
		Table:   record.Tabulate(record.FlattenAll(enriched, s.separator)),
	}
	report.Columns = len(snapshot.Table.Columns)

	for _, exp := range s.exporters {
		if err := exp.Export(ctx, snapshot); err != nil {
			return report, fmt.Errorf("%w: %s: %w", ErrExportFailed, exp.Name(), err)
		}
		s.handler(Exported{Exporter: exp.Name(), Rows: snapshot.Table.Len(), Columns: report.Columns})
	}
	report.Exported = snapshot.Table.Len()

	return report, nil
}
