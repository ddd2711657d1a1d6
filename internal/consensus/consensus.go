// Package consensus implements proof-of-work mining over a block
// candidate: nonce search against a difficulty target, energy-source
// tagging, difficulty adjustment by rolling mean block time, and the
// halving mining-reward schedule.
package consensus

import (
	"context"
	"fmt"
	mathrand "math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/CreoDAMO/QFC/internal/block"
	"github.com/CreoDAMO/QFC/internal/metrics"
)

// shardLabel renders a shard id as the Prometheus label value used to
// attribute a mine to the shard that performed it, even though
// difficulty itself is one process-wide value shared by every shard.
func shardLabel(shardID int) string {
	return strconv.Itoa(shardID)
}

// EnergySources lists the renewable energy tags a miner may claim for a
// block, matching original_source's GreenProofOfWork.renewable_energy_sources.
var EnergySources = []string{"solar", "wind", "hydro", "geothermal"}

// BaseReward is the mining reward paid before any halving.
const BaseReward = 50

// HalvingInterval is the number of blocks between reward halvings,
// matching original_source/src/blockchain/green_consensus.py's
// Bitcoin-like interval.
const HalvingInterval = 210_000

// checkInterval is how many nonce attempts pass between ctx.Err() checks,
// keeping the hot loop cheap while still cancelling promptly.
const checkInterval = 4096

// Engine holds the single process-wide difficulty and block-time
// history shared by every shard (spec.md §4.5: "Difficulty is a single
// process-wide integer shared across all shards") and performs
// proof-of-work mining against it.
type Engine struct {
	mu               sync.Mutex
	difficulty       uint
	targetBlockTime  time.Duration
	adjustmentWindow int
	blockTimes       []time.Duration
}

// New constructs the shared mining engine, starting at initialDifficulty
// and adjusting every adjustmentWindow blocks to aim for
// targetBlockTime.
func New(initialDifficulty uint, targetBlockTime time.Duration, adjustmentWindow int) *Engine {
	return &Engine{
		difficulty:       initialDifficulty,
		targetBlockTime:  targetBlockTime,
		adjustmentWindow: adjustmentWindow,
	}
}

// Difficulty returns the engine's current difficulty.
func (e *Engine) Difficulty() uint {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.difficulty
}

// Mine picks an energy source for cand at random, then searches from
// nonce 0 for a nonce that makes cand's hash satisfy the engine's
// current difficulty, returning the sealed copy of cand. shardID is used only to attribute metrics to the
// shard that performed the mine. It supports cooperative cancellation
// via ctx, checked every checkInterval attempts rather than every
// attempt.
func (e *Engine) Mine(ctx context.Context, shardID int, cand block.Block) (block.Block, error) {
	started := time.Now()

	cand.Difficulty = e.Difficulty()
	cand.EnergySource = EnergySources[mathrand.Intn(len(EnergySources))]
	cand.Nonce = 0

	var attempts uint64
	for {
		attempts++
		if attempts%checkInterval == 0 {
			if err := ctx.Err(); err != nil {
				return block.Block{}, err
			}
		}

		hash, err := cand.ComputeHash()
		if err != nil {
			return block.Block{}, fmt.Errorf("hash candidate: %w", err)
		}

		if hashSatisfies(hash, cand.Difficulty) {
			break
		}

		cand.Nonce++
	}

	label := shardLabel(shardID)
	e.recordBlockTime(label, time.Since(started))
	metrics.BlocksMinedTotal.WithLabelValues(label, cand.EnergySource).Inc()
	metrics.Difficulty.WithLabelValues(label).Set(float64(e.Difficulty()))

	return cand, nil
}

// recordBlockTime appends d to the rolling window and, once the window
// is full, adjusts difficulty up or down to steer toward
// targetBlockTime, then clears the window — mirroring
// GreenProofOfWork.adjust_difficulty. label attributes the resulting
// mean-block-time gauge to the shard that triggered this mine.
func (e *Engine) recordBlockTime(label string, d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.blockTimes = append(e.blockTimes, d)
	if len(e.blockTimes) < e.adjustmentWindow {
		return
	}

	var total time.Duration
	for _, bt := range e.blockTimes {
		total += bt
	}
	mean := total / time.Duration(len(e.blockTimes))

	switch {
	case mean < e.targetBlockTime:
		e.difficulty++
	case mean > e.targetBlockTime:
		if e.difficulty > 1 {
			e.difficulty--
		}
	}

	metrics.MeanBlockTimeSeconds.WithLabelValues(label).Set(mean.Seconds())
	e.blockTimes = nil
}

// Reward returns the mining reward for the block at the given height,
// applying the halving schedule: max(1, BaseReward >> halvings).
func Reward(blockIndex uint64) uint64 {
	halvings := blockIndex / HalvingInterval
	if halvings >= 63 {
		return 1
	}

	reward := uint64(BaseReward) >> halvings
	if reward < 1 {
		return 1
	}
	return reward
}

// hashSatisfies reports whether hash begins with difficulty hex zeros.
func hashSatisfies(hash string, difficulty uint) bool {
	const zeros = "0000000000000000000000000000000000000000000000000000000000000000"

	if uint(len(hash)) < difficulty {
		return false
	}
	return hash[:difficulty] == zeros[:difficulty]
}

