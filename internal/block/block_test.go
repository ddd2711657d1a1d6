package block_test

import (
	"testing"

	"github.com/CreoDAMO/QFC/internal/block"
	"github.com/CreoDAMO/QFC/internal/txn"
)

const (
	success = "✓"
	failed  = "✗"
)

func Test_GenesisHashIsStable(t *testing.T) {
	genesis := block.NewGenesis()

	h1, err := genesis.ComputeHash()
	if err != nil {
		t.Fatalf("%s\tshould hash genesis: %s", failed, err)
	}
	h2, err := genesis.ComputeHash()
	if err != nil {
		t.Fatalf("%s\tshould hash genesis again: %s", failed, err)
	}

	if h1 != h2 {
		t.Fatalf("%s\texpected genesis to hash identically across calls", failed)
	}
	t.Logf("%s\tgenesis hashed identically across calls", success)
}

func Test_FirstBlockValidatesAgainstGenesis(t *testing.T) {
	genesis := block.NewGenesis()
	genesisHash, err := genesis.ComputeHash()
	if err != nil {
		t.Fatalf("%s\tshould hash genesis: %s", failed, err)
	}

	next := block.New(1, genesisHash, nil, 0)
	if err := next.ValidateBlock(genesis); err != nil {
		t.Fatalf("%s\tblock 1 at difficulty 0 should validate against genesis: %s", failed, err)
	}
	t.Logf("%s\tblock 1 validated against genesis at difficulty 0", success)
}

func Test_ComputeHashIsDeterministic(t *testing.T) {
	tx := txn.New("alice", "bob", 10, "")
	b1 := block.New(1, "deadbeef", []txn.Transaction{tx}, 2)
	b2 := b1

	h1, err := b1.ComputeHash()
	if err != nil {
		t.Fatalf("%s\tshould hash b1: %s", failed, err)
	}
	h2, err := b2.ComputeHash()
	if err != nil {
		t.Fatalf("%s\tshould hash b2: %s", failed, err)
	}

	if h1 != h2 {
		t.Fatalf("%s\texpected identical blocks to hash identically", failed)
	}
	t.Logf("%s\tidentical blocks hashed identically", success)

	b2.Nonce = 1
	h3, err := b2.ComputeHash()
	if err != nil {
		t.Fatalf("%s\tshould hash b2 after nonce change: %s", failed, err)
	}
	if h1 == h3 {
		t.Fatalf("%s\texpected a changed nonce to change the hash", failed)
	}
	t.Logf("%s\tchanging the nonce changed the hash", success)
}

func Test_ValidateBlockRejectsWrongIndex(t *testing.T) {
	genesis := block.NewGenesis()

	next := block.New(5, "whatever", nil, 0)
	if err := next.ValidateBlock(genesis); err == nil {
		t.Fatalf("%s\tshould reject a block with a skipped index", failed)
	}
	t.Logf("%s\trejected a block with a skipped index", success)
}

func Test_ValidateBlockRejectsWrongParentHash(t *testing.T) {
	genesis := block.NewGenesis()

	next := block.New(1, "not-the-real-parent-hash", nil, 0)
	if err := next.ValidateBlock(genesis); err == nil {
		t.Fatalf("%s\tshould reject a block naming the wrong parent", failed)
	}
	t.Logf("%s\trejected a block naming the wrong parent", success)
}

func Test_ValidateBlockRejectsUnsolvedDifficulty(t *testing.T) {
	genesis := block.NewGenesis()
	genesisHash, err := genesis.ComputeHash()
	if err != nil {
		t.Fatalf("%s\tshould hash genesis: %s", failed, err)
	}

	next := block.New(1, genesisHash, nil, 10)
	if err := next.ValidateBlock(genesis); err == nil {
		t.Fatalf("%s\tshould reject a block that never searched for a nonce", failed)
	}
	t.Logf("%s\trejected a block whose hash does not satisfy its difficulty", success)
}

func Test_MerkleRootRequiresTransactions(t *testing.T) {
	empty := block.New(1, "deadbeef", nil, 0)
	if _, err := empty.MerkleRoot(); err == nil {
		t.Fatalf("%s\tshould refuse a merkle root over zero transactions", failed)
	}
	t.Logf("%s\trefused a merkle root over zero transactions", success)

	tx := txn.New("alice", "bob", 10, "")
	nonEmpty := block.New(1, "deadbeef", []txn.Transaction{tx}, 0)
	root, err := nonEmpty.MerkleRoot()
	if err != nil {
		t.Fatalf("%s\tshould build a merkle root over one transaction: %s", failed, err)
	}
	if root == "" {
		t.Fatalf("%s\texpected a non-empty root", failed)
	}
	t.Logf("%s\tbuilt a merkle root over a single-transaction block", success)
}
