// Copyright 2017 Cameron Bergoon
// https://github.com/cbergoon/merkletree
// Licensed under the MIT License, see LICENCE file for details.
// This code has been cleaned up and specialized to QFC's transaction type.

// Package merkle builds an inclusion-proof tree directly over a
// block's signed transactions. It is a supplemental light-client
// feature: the ledger's consensus hash is computed directly over the
// transaction list, not over a merkle root, so nothing here gates
// mining or validation.
package merkle

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/CreoDAMO/QFC/internal/txn"
)

// Tree is a merkle tree built over a block's transactions, using
// SHA-256 at every internal node. Unlike a general-purpose merkle
// library, a leaf's hash is always txn.Transaction.CalculateHash:
// there is no pluggable hash strategy or content type to configure.
type Tree struct {
	Root       *Node
	Leafs      []*Node
	MerkleRoot []byte
}

// NewTree constructs a tree over txs, in order.
func NewTree(txs []txn.Transaction) (*Tree, error) {
	var t Tree
	if err := t.Generate(txs); err != nil {
		return nil, err
	}
	return &t, nil
}

// Generate constructs the leafs and intermediate nodes of the tree
// from txs. If the tree was generated previously, it is regenerated
// from scratch.
func (t *Tree) Generate(txs []txn.Transaction) error {
	if len(txs) == 0 {
		return errors.New("cannot construct tree with no transactions")
	}

	var leafs []*Node
	for _, tx := range txs {
		h, err := leafHash(tx)
		if err != nil {
			return err
		}

		leafs = append(leafs, &Node{
			Hash:  h,
			Value: tx,
			leaf:  true,
		})
	}

	if len(leafs)%2 == 1 {
		duplicate := &Node{
			Hash:  leafs[len(leafs)-1].Hash,
			Value: leafs[len(leafs)-1].Value,
			leaf:  true,
			dup:   true,
		}
		leafs = append(leafs, duplicate)
	}

	root, err := buildIntermediate(leafs)
	if err != nil {
		return err
	}

	t.Root = root
	t.Leafs = leafs
	t.MerkleRoot = root.Hash

	return nil
}

// leafHash is a leaf node's hash: the transaction's own content hash,
// decoded from hex into the raw bytes every internal node hashes over.
func leafHash(tx txn.Transaction) ([]byte, error) {
	digest, err := tx.CalculateHash()
	if err != nil {
		return nil, fmt.Errorf("hash leaf transaction: %w", err)
	}

	raw, err := hex.DecodeString(digest)
	if err != nil {
		return nil, fmt.Errorf("decode leaf digest: %w", err)
	}
	return raw, nil
}

// Proof returns the set of hashes and the concatenation order needed
// to prove that tx is included in the tree.
func (t *Tree) Proof(tx txn.Transaction) ([][]byte, []int64, error) {
	for _, node := range t.Leafs {
		if node.Value != tx {
			continue
		}

		var proof [][]byte
		var order []int64
		parent := node.Parent

		for parent != nil {
			if bytes.Equal(parent.Left.Hash, node.Hash) {
				proof = append(proof, parent.Right.Hash)
				order = append(order, 1) // right sibling, concat second.
			} else {
				proof = append(proof, parent.Left.Hash)
				order = append(order, 0) // left sibling, concat first.
			}
			node = parent
			parent = parent.Parent
		}

		return proof, order, nil
	}

	return nil, nil, errors.New("transaction not found in tree")
}

// Verify validates the hashes at every level of the tree and reports
// whether the recomputed root matches the stored root.
func (t *Tree) Verify() error {
	root, err := t.Root.verify()
	if err != nil {
		return err
	}

	if !bytes.Equal(t.MerkleRoot, root) {
		return errors.New("merkle root invalid")
	}

	return nil
}

// VerifyData reports whether tx is present in the tree and whether the
// hashes on its path to the root are internally consistent.
func (t *Tree) VerifyData(tx txn.Transaction) error {
	for _, node := range t.Leafs {
		if node.Value != tx {
			continue
		}

		parent := node.Parent
		for parent != nil {
			rightBytes, err := parent.Right.CalculateHash()
			if err != nil {
				return err
			}

			leftBytes, err := parent.Left.CalculateHash()
			if err != nil {
				return err
			}

			sum := sha256.Sum256(append(leftBytes, rightBytes...))
			if !bytes.Equal(sum[:], parent.Hash) {
				return errors.New("transaction is not consistent with the merkle root")
			}

			parent = parent.Parent
		}

		return nil
	}

	return errors.New("transaction is not consistent with the merkle root")
}

// Values returns the slice of transactions stored in the tree,
// dropping the duplicate leaf that padding an odd-sized set
// introduces.
func (t *Tree) Values() []txn.Transaction {
	var values []txn.Transaction
	for _, leaf := range t.Leafs {
		values = append(values, leaf.Value)
	}

	l := len(t.Leafs)
	if bytes.Equal(t.Leafs[l-1].Hash, t.Leafs[l-2].Hash) {
		return values[:l-1]
	}

	return values
}

// RootHex renders the merkle root as "0x"-prefixed hex, for display only.
func (t *Tree) RootHex() string {
	return hexutil.Encode(t.MerkleRoot)
}

// String returns a line-per-leaf representation of the tree.
func (t *Tree) String() string {
	s := ""
	for _, l := range t.Leafs {
		s += fmt.Sprint(l)
		s += "\n"
	}
	return s
}

// MarshalText panics: the tree itself is never meant to be serialized.
// Callers that need a serializable view should marshal Values() instead.
func (t *Tree) MarshalText() (text []byte, err error) {
	panic("do not marshal the merkle tree, use Values")
}

// =============================================================================

// Node represents a node, root, or leaf in the tree. A leaf's Value is
// the transaction it was built from; an internal node's Value is the
// zero Transaction and unused.
type Node struct {
	Parent *Node
	Left   *Node
	Right  *Node
	Hash   []byte
	Value  txn.Transaction
	leaf   bool
	dup    bool
}

// verify walks down to the leafs, recomputing the hash at each level.
func (n *Node) verify() ([]byte, error) {
	if n.leaf {
		return leafHash(n.Value)
	}

	rightBytes, err := n.Right.verify()
	if err != nil {
		return nil, err
	}

	leftBytes, err := n.Left.verify()
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(append(leftBytes, rightBytes...))
	return sum[:], nil
}

// CalculateHash returns the hash of the node without descending
// further than necessary: a leaf returns its transaction's hash
// directly.
func (n *Node) CalculateHash() ([]byte, error) {
	if n.leaf {
		return leafHash(n.Value)
	}

	sum := sha256.Sum256(append(n.Left.Hash, n.Right.Hash...))
	return sum[:], nil
}

// String returns a string representation of the node.
func (n *Node) String() string {
	return fmt.Sprintf("%t %t %v %v", n.leaf, n.dup, n.Hash, n.Value)
}

// =============================================================================

// buildIntermediate constructs the intermediate and root levels of the
// tree above a set of leaf nodes, returning the resulting root.
func buildIntermediate(nl []*Node) (*Node, error) {
	var nodes []*Node

	for i := 0; i < len(nl); i += 2 {
		left, right := i, i+1
		if i+1 == len(nl) {
			right = i
		}

		chash := append(nl[left].Hash, nl[right].Hash...)
		sum := sha256.Sum256(chash)

		n := Node{
			Left:  nl[left],
			Right: nl[right],
			Hash:  sum[:],
		}

		nodes = append(nodes, &n)
		nl[left].Parent = &n
		nl[right].Parent = &n

		if len(nl) == 2 {
			return &n, nil
		}
	}

	return buildIntermediate(nodes)
}
