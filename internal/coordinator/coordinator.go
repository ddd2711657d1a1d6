// Package coordinator routes transactions to the shard that owns their
// sender's address and, when sender and recipient disagree, settles the
// transfer across both shards with a two-phase prepare/commit/abort.
package coordinator

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/CreoDAMO/QFC/internal/shard"
	"github.com/CreoDAMO/QFC/internal/txn"
)

// ErrMalformedAddress is returned by ShardFor when address does not
// begin with a hex digit, per spec.md §9 open question 4: routing uses
// int(address[0], 16), which is undefined for non-hex characters.
var ErrMalformedAddress = errors.New("address does not begin with a hex digit")

// ErrPrepareFailed is returned when the source shard cannot cover the
// transaction's total cost; the caller should surface this as a
// rejected submission with no state change.
var ErrPrepareFailed = errors.New("cross-shard prepare failed: insufficient balance")

// BalanceFunc reports the current balance for an address, used during
// prepare to check the source shard can cover the transaction.
type BalanceFunc func(address string) float64

// Coordinator routes transactions across a fixed set of shards and
// settles cross-shard transfers with a two-phase commit.
type Coordinator struct {
	shards  []*shard.Shard
	log     *zap.Logger
	balance BalanceFunc
}

// New constructs a coordinator over shards, using balance to check
// prepare-phase affordability and log for phase tracing.
func New(shards []*shard.Shard, balance BalanceFunc, log *zap.Logger) *Coordinator {
	return &Coordinator{
		shards:  shards,
		balance: balance,
		log:     log,
	}
}

// ShardFor returns the shard that owns address, per spec.md §4.6:
// int(address[0], base=16) mod shard_count.
func (c *Coordinator) ShardFor(address string) (*shard.Shard, error) {
	if address == "" {
		return nil, fmt.Errorf("%w: empty address", ErrMalformedAddress)
	}

	nibble := address[0]
	var value int
	switch {
	case nibble >= '0' && nibble <= '9':
		value = int(nibble - '0')
	case nibble >= 'a' && nibble <= 'f':
		value = int(nibble-'a') + 10
	case nibble >= 'A' && nibble <= 'F':
		value = int(nibble-'A') + 10
	default:
		return nil, fmt.Errorf("%w: %q", ErrMalformedAddress, address)
	}

	return c.shards[value%len(c.shards)], nil
}

// Route admits tx to its owning shard(s): directly into the single
// shard owning both sender and recipient, or via two-phase commit when
// they disagree.
func (c *Coordinator) Route(tx txn.Transaction) error {
	source, err := c.ShardFor(tx.Sender)
	if err != nil {
		return err
	}

	destination, err := c.ShardFor(tx.Recipient)
	if err != nil {
		return err
	}

	if source == destination {
		source.Admit(tx)
		return nil
	}

	return c.twoPhaseCommit(tx, source, destination)
}

// twoPhaseCommit runs prepare, then commit or abort, for a transaction
// whose sender and recipient live on different shards. The ticket is a
// correlation id for log tracing only; it carries no consensus meaning
// and is never hashed or persisted.
func (c *Coordinator) twoPhaseCommit(tx txn.Transaction, source, destination *shard.Shard) error {
	ticket := uuid.New().String()

	c.log.Debug("cross-shard prepare",
		zap.String("ticket", ticket),
		zap.Int("source_shard", source.ID()),
		zap.Int("destination_shard", destination.ID()),
	)

	if !c.prepare(tx, source) {
		c.log.Debug("cross-shard abort", zap.String("ticket", ticket))
		return ErrPrepareFailed
	}

	c.commit(tx, source, destination)
	c.log.Debug("cross-shard commit",
		zap.String("ticket", ticket),
		zap.Int("source_shard", source.ID()),
		zap.Int("destination_shard", destination.ID()),
	)

	return nil
}

// prepare checks that source's owner can cover tx's total cost. The
// destination side always accepts, per spec.md §4.6 ("always true in
// the source model").
func (c *Coordinator) prepare(tx txn.Transaction, source *shard.Shard) bool {
	return c.balance(tx.Sender) >= tx.TotalCost()
}

// commit appends tx to both the source and destination pending pools.
// Both appends happen from this single call, so no caller can observe a
// half-committed state absent a process crash (out of scope per
// spec.md §9 open question 3).
func (c *Coordinator) commit(tx txn.Transaction, source, destination *shard.Shard) {
	source.Admit(tx)
	destination.Admit(tx)
}
