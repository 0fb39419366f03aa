package collector

import (
	"context"
	"fmt"

	"github.com/juan-malbeclabs/solana/pkg/record"
)

// FilterStaked keeps the records whose stake is strictly positive.
// A record without a stake field counts as zero stake.
func FilterStaked(records []*record.Record) []*record.Record {
	staked := make([]*record.Record, 0, len(records))
	for _, r := range records {
		if Stake(r) > 0 {
			staked = append(staked, r)
		}
	}
	return staked
}

// EnrichNode looks up the node's IP address and returns the node merged with the
// location fields. Location fields win on collisions.
func EnrichNode(ctx context.Context, geo Geolocator, node *record.Record) (*record.Record, error) {
	ip, ok := node.String(IPField)
	if !ok {
		id, _ := node.String(IdentityField)
		return nil, fmt.Errorf("%w: %s", ErrMissingIPAddress, id)
	}

	info, err := geo.Lookup(ctx, ip)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrGeolocationFailed, ip, err)
	}
	return node.Merge(info), nil
}
