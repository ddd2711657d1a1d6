// Package metrics holds the process-wide Prometheus collectors for
// consensus activity. Collectors are package-level vars, registered
// against a registry by Register (package init registers nothing),
// matching the collector layout used across the wider example pack's
// mining/consensus metrics.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Difficulty reports the current proof-of-work difficulty, per shard.
	Difficulty = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "qfc_consensus_difficulty",
			Help: "Current proof-of-work difficulty (leading hex zeros required).",
		},
		[]string{"shard"},
	)

	// MeanBlockTimeSeconds reports the rolling mean block time used to
	// drive difficulty adjustment, per shard.
	MeanBlockTimeSeconds = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "qfc_consensus_mean_block_time_seconds",
			Help: "Rolling mean block time over the current adjustment window.",
		},
		[]string{"shard"},
	)

	// BlocksMinedTotal counts blocks successfully mined, per shard and
	// energy source.
	BlocksMinedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qfc_consensus_blocks_mined_total",
			Help: "Total blocks mined, labeled by shard and energy source.",
		},
		[]string{"shard", "energy_source"},
	)

	// RewardEmittedTotal sums the mining reward credited, per shard.
	RewardEmittedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qfc_consensus_reward_emitted_total",
			Help: "Total mining reward emitted, labeled by shard.",
		},
		[]string{"shard"},
	)

	// MempoolDepth reports the number of pending transactions awaiting a
	// build, per shard.
	MempoolDepth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "qfc_mempool_depth",
			Help: "Pending transactions awaiting inclusion in a block, per shard.",
		},
		[]string{"shard"},
	)
)

// Register adds every collector to reg. A collector already registered
// with reg is skipped rather than reported, so Register may be called
// repeatedly (ledger.New calls it on every construction) without error
// or panic.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		Difficulty,
		MeanBlockTimeSeconds,
		BlocksMinedTotal,
		RewardEmittedTotal,
		MempoolDepth,
	}

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				return err
			}
		}
	}

	return nil
}
