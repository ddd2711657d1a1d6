// Package block implements the mined unit of the ledger: a batch of
// transactions, the previous block's hash, a nonce, and the energy
// source the miner claims for it. ComputeHash is the single value both
// content-addresses a block and is checked against the proof-of-work
// difficulty target.
package block

import (
	"errors"
	"fmt"
	"time"

	"github.com/CreoDAMO/QFC/internal/crypto"
	"github.com/CreoDAMO/QFC/internal/merkle"
	"github.com/CreoDAMO/QFC/internal/txn"
)

// ErrChainForked is returned from ValidateBlock when the candidate block
// does not sit directly on top of the chain's current head.
var ErrChainForked = errors.New("blockchain forked, start resync")

// ErrEmptyPrevHash is returned by ValidateBlock when a non-genesis block
// does not carry its parent's hash.
var ErrEmptyPrevHash = errors.New("previous hash mismatch")

// header is the exact set of fields hashed to produce a block's
// identity, matching the field set original_source/src/block.py hashes
// (index, transactions, previous_hash, nonce, timestamp) extended with
// EnergySource per the mining protocol in SPEC_FULL.md §4.5. Genesis and
// any not-yet-mined block carry the zero value "" for EnergySource.
type header struct {
	Index        uint64            `json:"index"`
	Transactions []txn.Transaction `json:"transactions"`
	PreviousHash string            `json:"previous_hash"`
	Nonce        uint64            `json:"nonce"`
	Timestamp    int64             `json:"timestamp"`
	EnergySource string            `json:"energy_source"`
}

// Block is a batch of transactions sealed behind a proof-of-work nonce.
type Block struct {
	Index        uint64
	Transactions []txn.Transaction
	PreviousHash string
	Nonce        uint64
	Timestamp    int64
	EnergySource string
	Difficulty   uint
}

// New constructs an unmined block candidate sitting on top of prev, with
// the pending transactions it will carry. Nonce is zero and EnergySource
// empty until Mine (internal/consensus) seals it.
func New(index uint64, previousHash string, transactions []txn.Transaction, difficulty uint) Block {
	return Block{
		Index:        index,
		Transactions: transactions,
		PreviousHash: previousHash,
		Timestamp:    time.Now().UTC().Unix(),
		Difficulty:   difficulty,
	}
}

// NewGenesis constructs block zero: no transactions, the sentinel
// parent hash "0" (spec.md §6 — genesis has no real parent block to
// hash), mined difficulty of zero so it never needs a nonce search.
func NewGenesis() Block {
	return Block{
		Index:        0,
		Transactions: nil,
		PreviousHash: "0",
		Timestamp:    time.Now().UTC().Unix(),
	}
}

// ComputeHash returns the content hash of the block: the same digest
// that proof-of-work mining searches a nonce to satisfy. It is computed
// over the block's header fields only, never over a merkle root, so a
// block's identity does not depend on the supplemental merkle package.
func (b Block) ComputeHash() (string, error) {
	h := header{
		Index:        b.Index,
		Transactions: b.Transactions,
		PreviousHash: b.PreviousHash,
		Nonce:        b.Nonce,
		Timestamp:    b.Timestamp,
		EnergySource: b.EnergySource,
	}

	digest, err := crypto.Hash(h)
	if err != nil {
		return "", fmt.Errorf("hash block: %w", err)
	}
	return digest, nil
}

// ValidateBlock checks that b can legally extend prev: it is the next
// index, it names prev's hash as its parent, its timestamp does not
// precede prev's, and (for non-genesis blocks) its hash satisfies its
// own recorded difficulty.
func (b Block) ValidateBlock(prev Block) error {
	if b.Index != prev.Index+1 {
		return fmt.Errorf("%w: got index %d, expected %d", ErrChainForked, b.Index, prev.Index+1)
	}

	prevHash, err := prev.ComputeHash()
	if err != nil {
		return fmt.Errorf("hash previous block: %w", err)
	}
	if b.PreviousHash != prevHash {
		return fmt.Errorf("%w: got %s, expected %s", ErrEmptyPrevHash, b.PreviousHash, prevHash)
	}

	if b.Timestamp < prev.Timestamp {
		return fmt.Errorf("block timestamp %d precedes parent timestamp %d", b.Timestamp, prev.Timestamp)
	}

	if b.Index == 0 {
		return nil
	}

	hash, err := b.ComputeHash()
	if err != nil {
		return fmt.Errorf("hash block: %w", err)
	}
	if !hashSatisfies(hash, b.Difficulty) {
		return fmt.Errorf("%s does not satisfy difficulty %d", hash, b.Difficulty)
	}

	return nil
}

// hashSatisfies reports whether hash (plain lowercase hex, no "0x")
// begins with difficulty hex zeros.
func hashSatisfies(hash string, difficulty uint) bool {
	const zeros = "0000000000000000000000000000000000000000000000000000000000000000"

	if uint(len(hash)) < difficulty {
		return false
	}
	return hash[:difficulty] == zeros[:difficulty]
}

// =============================================================================

// MerkleRoot returns the hex merkle root over b's transactions, for
// light-client inclusion proofs. It returns an error for an empty block
// (genesis, or any block with no transactions) since a tree needs at
// least one leaf; callers should treat that as "no root", not a fault.
func (b Block) MerkleRoot() (string, error) {
	if len(b.Transactions) == 0 {
		return "", errors.New("block has no transactions, no merkle root")
	}

	tree, err := merkle.NewTree(b.Transactions)
	if err != nil {
		return "", fmt.Errorf("build merkle tree: %w", err)
	}

	return fmt.Sprintf("%x", tree.MerkleRoot), nil
}
