// Package shard owns one shard's chain and pending-transaction pool.
// A Shard never mines on its own; Build only drains the pool into a new
// unmined block candidate, which internal/consensus then seals.
package shard

import (
	"errors"
	"sync"

	"github.com/CreoDAMO/QFC/internal/block"
	"github.com/CreoDAMO/QFC/internal/txn"
)

// ErrNoTransactions is returned by Build when the pending pool is empty,
// mirroring original_source/src/blockchain/shard.py's create_block
// returning None for an empty pool — here as an explicit no-op error
// rather than a nil block, so callers cannot forget to check it.
var ErrNoTransactions = errors.New("no pending transactions to build a block from")

// SpatialTag is a cosmetic (X, Y, Z) position assigned once at shard
// construction. No core invariant reads it; it exists only so an
// external visualization client has something to plot, matching the
// pygame Vector3 tag on Shard in original_source/src/blockchain/shard.py.
type SpatialTag [3]float64

// Shard owns a chain and a FIFO pool of transactions admitted to it.
type Shard struct {
	mu         sync.Mutex
	id         int
	chain      []block.Block
	pending    []txn.Transaction
	spatialTag SpatialTag
}

// New constructs a shard seeded with its own genesis block.
func New(id int, tag SpatialTag) *Shard {
	return &Shard{
		id:         id,
		chain:      []block.Block{block.NewGenesis()},
		spatialTag: tag,
	}
}

// ID returns the shard's index.
func (s *Shard) ID() int {
	return s.id
}

// SpatialTag returns the shard's cosmetic position.
func (s *Shard) SpatialTag() SpatialTag {
	return s.spatialTag
}

// Latest returns the most recently appended block.
func (s *Shard) Latest() block.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.chain[len(s.chain)-1]
}

// Chain returns a copy of the shard's full block list, oldest first.
func (s *Shard) Chain() []block.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]block.Block, len(s.chain))
	copy(out, s.chain)
	return out
}

// Admit appends tx to the pending pool. Ordering within the pool is
// FIFO; Build drains it in the order transactions were admitted.
func (s *Shard) Admit(tx txn.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = append(s.pending, tx)
}

// Pending returns a copy of the current pending pool, for balance
// checks that must see in-flight transactions without draining them.
func (s *Shard) Pending() []txn.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]txn.Transaction, len(s.pending))
	copy(out, s.pending)
	return out
}

// Build irrevocably drains the pending pool into a new unmined block
// candidate sitting on top of the shard's current head. It returns
// ErrNoTransactions if the pool is empty, rather than a nil block, so a
// mining attempt on an idle shard is a deliberate no-op for the caller.
func (s *Shard) Build(difficulty uint) (block.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pending) == 0 {
		return block.Block{}, ErrNoTransactions
	}

	head := s.chain[len(s.chain)-1]
	headHash, err := head.ComputeHash()
	if err != nil {
		return block.Block{}, err
	}

	txs := s.pending
	s.pending = nil

	return block.New(head.Index+1, headHash, txs, difficulty), nil
}

// Append adds a mined block directly to the tail of the chain, without
// validating it — callers that want linkage/difficulty checks should
// call block.ValidateBlock against Latest() first.
func (s *Shard) Append(b block.Block) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.chain = append(s.chain, b)
}

// Requeue pushes transactions back onto the front of the pending pool,
// for use when a build was drained but its block ultimately could not
// be mined or appended (a cancelled or failed mine, or a mined block
// that fails validation).
func (s *Shard) Requeue(txs []txn.Transaction) {
	if len(txs) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = append(txs, s.pending...)
}
