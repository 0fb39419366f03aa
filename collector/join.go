package collector

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/juan-malbeclabs/solana/pkg/record"
)

// IndexValidators keys validator records by identity.
// When several records share an identity the last one wins.
// Records without a string identity are left out.
func IndexValidators(validators []*record.Record) map[string]*record.Record {
	index := make(map[string]*record.Record, len(validators))
	for _, v := range validators {
		if id, ok := v.String(IdentityField); ok {
			index[id] = v
		}
	}
	return index
}

// Join merges every gossip node with the validator of the same identity,
// keeping gossip order. Validator fields win on collisions.
// Nodes without a matching validator are dropped.
func Join(gossip, validators []*record.Record) []*record.Record {
	index := IndexValidators(validators)

	merged := make([]*record.Record, 0, len(gossip))
	for _, node := range gossip {
		id, ok := node.String(IdentityField)
		if !ok {
			continue
		}
		validator, ok := index[id]
		if !ok {
			continue
		}
		merged = append(merged, node.Merge(validator))
	}
	return merged
}

// RescaleStake returns copies of records with the stake converted from lamports to SOL.
// Records without a stake field are copied unchanged.
func RescaleStake(records []*record.Record) ([]*record.Record, error) {
	out := make([]*record.Record, len(records))
	for i, r := range records {
		c := r.Clone()
		if raw, ok := c.Get(StakeField); ok {
			sol, err := lamportsToSOL(raw)
			if err != nil {
				id, _ := c.String(IdentityField)
				return nil, fmt.Errorf("%w: %s %v: %w", ErrInvalidStake, id, raw, err)
			}
			c.Set(StakeField, sol)
		}
		out[i] = c
	}
	return out, nil
}

// Stake returns the stake of r, treating a missing or non-numeric field as zero
func Stake(r *record.Record) float64 {
	v, ok := r.Get(StakeField)
	if !ok {
		return 0
	}
	f, _ := record.Float(v)
	return f
}

var lamportsPerSOL = big.NewRat(LamportsPerSOL, 1)

// lamportsToSOL divides exactly and rounds once to the nearest float64
func lamportsToSOL(v any) (float64, error) {
	if n, ok := v.(json.Number); ok {
		r, ok := new(big.Rat).SetString(n.String())
		if !ok {
			return 0, fmt.Errorf("cannot parse %q", n)
		}
		f, _ := r.Quo(r, lamportsPerSOL).Float64()
		return f, nil
	}

	f, ok := record.Float(v)
	if !ok {
		return 0, fmt.Errorf("unexpected type %T", v)
	}
	return f / LamportsPerSOL, nil
}
