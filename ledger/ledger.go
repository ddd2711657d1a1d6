// Package ledger is the single public entry point over a QFC node: the
// balance map, the shard set, the shared consensus engine, and the
// cross-shard coordinator. Every mutation of process-wide state flows
// through a Ledger method, and Ledger serializes those mutations behind
// one mutex, matching the shared-resource policy the teacher enforces
// with Database.mu in foundation/blockchain/database.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/CreoDAMO/QFC/internal/block"
	"github.com/CreoDAMO/QFC/internal/consensus"
	"github.com/CreoDAMO/QFC/internal/coordinator"
	"github.com/CreoDAMO/QFC/internal/metrics"
	"github.com/CreoDAMO/QFC/internal/shard"
	"github.com/CreoDAMO/QFC/internal/txn"
)

// ErrInsufficientFunds is returned by Submit when the sender's balance
// does not cover the transaction's total cost.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrInvalidSignature is returned by Submit when a non-reward
// transaction's signature does not verify.
var ErrInvalidSignature = errors.New("invalid transaction signature")

// Genesis seeds a Ledger's initial balances and consensus parameters.
type Genesis struct {
	ShardCount        int
	InitialDifficulty uint
	TargetBlockTime   time.Duration
	AdjustmentWindow  int
	Balances          map[string]float64
}

// Verifier checks a transaction's signature against the sender's public
// key; callers supply one since the ledger itself has no key registry.
// A transaction whose sender cannot be verified (unknown key) should
// return false, same as an invalid signature.
type Verifier func(tx txn.Transaction) bool

// Ledger is the façade described above.
type Ledger struct {
	mu          sync.Mutex
	shards      []*shard.Shard
	engine      *consensus.Engine
	coordinator *coordinator.Coordinator
	balances    map[string]map[string]float64 // asset -> address -> balance
	verify      Verifier
	log         *zap.Logger
}

// New constructs a Ledger from genesis, wiring the coordinator's
// balance check directly to the ledger's own balance map (no locking
// inside that closure: it always runs with mu already held).
func New(gen Genesis, verify Verifier, log *zap.Logger) (*Ledger, error) {
	if gen.ShardCount <= 0 {
		return nil, fmt.Errorf("shard count must be positive, got %d", gen.ShardCount)
	}

	l := &Ledger{
		balances: map[string]map[string]float64{
			txn.NativeAsset: {},
		},
		verify: verify,
		log:    log,
	}

	for addr, bal := range gen.Balances {
		l.balances[txn.NativeAsset][addr] = bal
	}

	l.shards = make([]*shard.Shard, gen.ShardCount)
	for i := range l.shards {
		l.shards[i] = shard.New(i, shard.SpatialTag{})
	}

	l.engine = consensus.New(gen.InitialDifficulty, gen.TargetBlockTime, gen.AdjustmentWindow)
	l.coordinator = coordinator.New(l.shards, l.balanceLocked, log)

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	return l, nil
}

// Submit validates tx and, if it is well-formed and affordable, routes
// it to its owning shard(s) and updates the balance map atomically with
// pool admission (spec.md §4.7). Submit never returns a reward
// transaction to the caller; reward credits bypass this path entirely
// (see Mine), per spec.md §9 open question 5.
func (l *Ledger) Submit(tx txn.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	if !l.verify(tx) {
		return ErrInvalidSignature
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.balanceLocked(tx.Sender) < tx.TotalCost() {
		return ErrInsufficientFunds
	}

	if err := l.coordinator.Route(tx); err != nil {
		return err
	}

	l.debitLocked(tx.Sender, tx.TotalCost())
	l.creditLocked(tx.Recipient, tx.Amount)

	source, err := l.coordinator.ShardFor(tx.Sender)
	if err == nil {
		metrics.MempoolDepth.WithLabelValues(strconv.Itoa(source.ID())).Set(float64(len(source.Pending())))
	}

	return nil
}

// Mine routes to the shard owning minerAddress, builds a candidate
// block from its pending pool, hands it to the shared consensus engine,
// appends the sealed block, and credits the mining reward directly to
// minerAddress in the same critical section as the append. It returns
// shard.ErrNoTransactions if the shard has nothing pending.
func (l *Ledger) Mine(ctx context.Context, minerAddress string) (block.Block, error) {
	target, err := l.coordinator.ShardFor(minerAddress)
	if err != nil {
		return block.Block{}, err
	}

	l.mu.Lock()
	cand, err := target.Build(l.engine.Difficulty())
	l.mu.Unlock()
	if err != nil {
		return block.Block{}, err
	}

	mined, err := l.engine.Mine(ctx, target.ID(), cand)
	if err != nil {
		// Build has already drained the pending pool; a failed mine
		// re-queues the drained transactions so they are not silently
		// lost.
		target.Requeue(cand.Transactions)
		return block.Block{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := mined.ValidateBlock(target.Latest()); err != nil {
		target.Requeue(cand.Transactions)
		return block.Block{}, fmt.Errorf("mined block failed validation: %w", err)
	}

	target.Append(mined)

	reward := consensus.Reward(mined.Index)
	l.creditLocked(minerAddress, float64(reward))
	metrics.RewardEmittedTotal.WithLabelValues(strconv.Itoa(target.ID())).Add(float64(reward))

	return mined, nil
}

// Balance returns the current balance of address in asset, defaulting
// to zero for an address never credited.
func (l *Ledger) Balance(address, asset string) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.balances[asset][address]
}

// Chain returns a shard's full block list, oldest first.
func (l *Ledger) Chain(shardID int) ([]block.Block, error) {
	if shardID < 0 || shardID >= len(l.shards) {
		return nil, fmt.Errorf("shard %d out of range [0,%d)", shardID, len(l.shards))
	}
	return l.shards[shardID].Chain(), nil
}

// balanceLocked reads the native-asset balance for address; it assumes
// mu is already held (either by a Ledger method, or by the coordinator
// calling back into it during Submit's critical section).
func (l *Ledger) balanceLocked(address string) float64 {
	return l.balances[txn.NativeAsset][address]
}

func (l *Ledger) debitLocked(address string, amount float64) {
	l.balances[txn.NativeAsset][address] -= amount
}

func (l *Ledger) creditLocked(address string, amount float64) {
	l.balances[txn.NativeAsset][address] += amount
}
