package collector

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/juan-malbeclabs/solana/pkg/record"
)

// Sentinel errors for failure cases
var (
	ErrGossipFetchFailed     = errors.New("gossip fetch failed")
	ErrValidatorsFetchFailed = errors.New("validators fetch failed")
	ErrJoinFailed            = errors.New("join failed")
	ErrEnrichFailed          = errors.New("enrichment failed")
	ErrExportFailed          = errors.New("export failed")

	ErrInvalidStake      = errors.New("stake is not a number")
	ErrMissingIPAddress  = errors.New("node has no ip address")
	ErrGeolocationFailed = errors.New("geolocation lookup failed")
)

// Field names used by the Solana CLI output
const (
	IdentityField = "identityPubkey"
	StakeField    = "activatedStake"
	IPField       = "ipAddress"
)

// LamportsPerSOL converts activated stake from lamports to SOL
const LamportsPerSOL = 1_000_000_000

// Topology fetches cluster data from the Solana CLI
// ------------------------------------------------
type Topology interface {
	Gossip(ctx context.Context) ([]*record.Record, error)
	Validators(ctx context.Context) ([]*record.Record, error)
}

// Geolocator resolves an IP address to location fields
type Geolocator interface {
	Lookup(ctx context.Context, ip string) (*record.Record, error)
}

// Exporter writes a finished snapshot somewhere
type Exporter interface {
	Name() string
	Export(ctx context.Context, snapshot Snapshot) error
}

// Snapshot is the flattened result of one run
type Snapshot struct {
	RunID   uuid.UUID
	TakenAt time.Time
	Table   record.Table
}

// Report summarises a completed run
type Report struct {
	RunID      uuid.UUID
	Gossip     int
	Validators int
	Merged     int
	Staked     int
	Columns    int
	Exported   int
	Duration   time.Duration
}

// Clock abstracts time for production and testing
// ------------------------------------------------
type Clock interface {
	Now() time.Time
}

// Event represents a run lifecycle event
// --------------------------------------
type Event any

type RunStarted struct {
	RunID     uuid.UUID
	StartedAt time.Time
}

type TopologyFetched struct {
	Gossip     int
	Validators int
}

type Joined struct {
	Merged int
	Staked int
}

type NodeEnriched struct {
	Position int
	Total    int
	IP       string
}

type Exported struct {
	Exporter string
	Rows     int
	Columns  int
}

type RunCompleted struct {
	Report Report
}

type RunFailed struct {
	Err error
}
