// Package genesis loads the JSON file that seeds a QFC node: shard
// count, consensus parameters, and starting balances. It mirrors the
// teacher's foundation/blockchain/genesis.Load shape, minus the
// on-disk block database the teacher pairs it with (persistence is a
// Non-goal here).
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/CreoDAMO/QFC/internal/txn"
	"github.com/CreoDAMO/QFC/ledger"
)

// Genesis represents the genesis file's on-disk shape.
type Genesis struct {
	ShardCount        int                `json:"shard_count"`
	InitialDifficulty uint               `json:"initial_difficulty"`
	TargetBlockTime   string             `json:"target_block_time"`
	AdjustmentWindow  int                `json:"adjustment_window"`
	Balances          map[string]float64 `json:"balances"`
}

// Load opens and parses a genesis file at path.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, fmt.Errorf("read genesis file: %w", err)
	}

	var g Genesis
	if err := json.Unmarshal(content, &g); err != nil {
		return Genesis{}, fmt.Errorf("parse genesis file: %w", err)
	}

	return g, nil
}

// Default returns a genesis with the same defaults internal/config
// declares and an empty balance sheet — suitable when no genesis file
// is supplied.
func Default() Genesis {
	return Genesis{
		ShardCount:        4,
		InitialDifficulty: 4,
		TargetBlockTime:   "60s",
		AdjustmentWindow:  10,
		Balances:          map[string]float64{},
	}
}

// ToLedgerGenesis converts the on-disk representation into the
// ledger.Genesis New expects, parsing the human-readable duration
// string, treating a missing balance sheet as an empty one, and
// rejecting balances whose sum exceeds the native asset's total supply.
func (g Genesis) ToLedgerGenesis() (ledger.Genesis, error) {
	targetBlockTime, err := time.ParseDuration(g.TargetBlockTime)
	if err != nil {
		return ledger.Genesis{}, fmt.Errorf("parse target_block_time: %w", err)
	}

	balances := g.Balances
	if balances == nil {
		balances = map[string]float64{}
	}

	var allocated float64
	for _, bal := range balances {
		allocated += bal
	}
	if allocated > txn.TotalSupply {
		return ledger.Genesis{}, fmt.Errorf("genesis balances sum %v exceeds total supply %v", allocated, float64(txn.TotalSupply))
	}

	return ledger.Genesis{
		ShardCount:        g.ShardCount,
		InitialDifficulty: g.InitialDifficulty,
		TargetBlockTime:   targetBlockTime,
		AdjustmentWindow:  g.AdjustmentWindow,
		Balances:          balances,
	}, nil
}
