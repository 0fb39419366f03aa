// Package solana runs the local Solana CLI and decodes its JSON output.
package solana

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/juan-malbeclabs/solana/pkg/record"
)

// Subcommands
const (
	GossipCommand     = "gossip"
	ValidatorsCommand = "validators"
)

// validatorsField holds the validator list in the `validators --output json` document
const validatorsField = "validators"

// Sentinel errors for CLI invocations
var (
	ErrExternalTool = errors.New("solana cli failed")
	ErrDecodeOutput = errors.New("decoding solana cli output")
)

// ExternalToolError reports a CLI run that wrote to stderr or did not exit cleanly
type ExternalToolError struct {
	Subcommand string
	Stderr     string
	Err        error
}

func (e *ExternalToolError) Error() string {
	msg := fmt.Sprintf("%s: %s", ErrExternalTool, e.Subcommand)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ExternalToolError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrExternalTool}
	}
	return []error{ErrExternalTool, e.Err}
}

// Option configures the Client
type Option func(*Client)

// WithCluster passes --url to every invocation (a moniker such as mainnet-beta or an RPC URL).
// By default the cluster configured for the CLI is used.
func WithCluster(cluster string) Option {
	return func(c *Client) { c.cluster = cluster }
}

// Client invokes the Solana CLI binary
type Client struct {
	binaryPath string
	cluster    string
}

// NewClient creates a client for the CLI binary at binaryPath
func NewClient(binaryPath string, opts ...Option) *Client {
	c := &Client{binaryPath: binaryPath}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Gossip returns the nodes visible in the cluster gossip network
func (c *Client) Gossip(ctx context.Context) ([]*record.Record, error) {
	out, err := c.run(ctx, GossipCommand)
	if err != nil {
		return nil, err
	}

	nodes, err := record.DecodeList(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecodeOutput, GossipCommand, err)
	}
	return nodes, nil
}

// Validators returns the staking records of the cluster's vote accounts.
// The CLI wraps the list in an object alongside stake totals; a bare list is accepted too.
func (c *Client) Validators(ctx context.Context) ([]*record.Record, error) {
	out, err := c.run(ctx, ValidatorsCommand)
	if err != nil {
		return nil, err
	}

	doc, err := record.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecodeOutput, ValidatorsCommand, err)
	}

	list := doc
	if envelope, ok := doc.(*record.Record); ok {
		list, _ = envelope.Get(validatorsField)
	}

	validators, err := record.AsList(list)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecodeOutput, ValidatorsCommand, err)
	}
	return validators, nil
}

// run executes `<binary> <subcommand> --output json` and returns its stdout
func (c *Client) run(ctx context.Context, subcommand string) ([]byte, error) {
	args := []string{subcommand, "--output", "json"}
	if c.cluster != "" {
		args = append(args, "--url", c.cluster)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.binaryPath, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil || stderr.Len() > 0 {
		return nil, &ExternalToolError{
			Subcommand: subcommand,
			Stderr:     stderr.String(),
			Err:        err,
		}
	}
	return stdout.Bytes(), nil
}
