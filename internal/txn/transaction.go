// Package txn implements the signed value-transfer transaction at the
// heart of the ledger: construction, content hashing, RSA-PSS signing
// and verification, and the fixed fee policy.
package txn

import (
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/CreoDAMO/QFC/internal/crypto"
)

// NativeAsset is the symbol used when no asset is specified.
const NativeAsset = "QFC"

// TotalSupply is the fixed total supply of the native asset.
const TotalSupply = 1_000_000_000

// FeeRate is the fixed transaction fee, expressed as a fraction of the
// transfer amount. It is a policy constant, never a user input.
const FeeRate = 0.01

var validate = validator.New()

// Transaction is a signed value transfer. It is immutable once Sign has
// been called; every field below is set exactly once during
// construction, and Signature is the only field Sign ever mutates.
type Transaction struct {
	Sender    string  `json:"sender" validate:"required"`
	Recipient string  `json:"recipient" validate:"required,nefield=Sender"`
	Amount    float64 `json:"amount" validate:"gt=0"`
	Asset     string  `json:"asset" validate:"required"`
	Timestamp int64   `json:"timestamp"`
	Fee       float64 `json:"fee" validate:"gte=0"`
	Signature string  `json:"signature"`
}

// New constructs an unsigned transaction. Fee is derived from amount per
// the fixed FeeRate policy; asset defaults to NativeAsset when empty.
func New(sender, recipient string, amount float64, asset string) Transaction {
	if asset == "" {
		asset = NativeAsset
	}

	return Transaction{
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount,
		Asset:     asset,
		Timestamp: time.Now().UTC().Unix(),
		Fee:       amount * FeeRate,
	}
}

// TotalCost returns the amount plus the fee: what must be deducted from
// the sender's balance for this transaction to succeed.
func (tx Transaction) TotalCost() float64 {
	return tx.Amount + tx.Fee
}

// CalculateHash returns the content digest of the transaction. Per the
// hashing rule spec.md §9 mandates, the signature field is always
// serialized as the empty string for the purpose of this digest, both
// before signing and when re-deriving the digest for verification.
func (tx Transaction) CalculateHash() (string, error) {
	tx.Signature = ""
	digest, err := crypto.Hash(tx)
	if err != nil {
		return "", fmt.Errorf("hash transaction: %w", err)
	}
	return digest, nil
}

// Sign computes the content hash (with signature held empty) and sets
// Signature to the RSA-PSS signature over that hash. Signing is the
// terminal state transition for a transaction: once it returns
// successfully, tx is immutable in every field that matters.
func (tx *Transaction) Sign(priv *rsa.PrivateKey) error {
	digest, err := tx.CalculateHash()
	if err != nil {
		return err
	}

	sig, err := crypto.Sign(priv, digest)
	if err != nil {
		return fmt.Errorf("sign transaction: %w", err)
	}

	tx.Signature = sig
	return nil
}

// Verify reports whether Signature is a valid RSA-PSS signature, under
// pub, over the transaction's content hash. It never errors; an
// unverifiable signature simply yields false.
func (tx Transaction) Verify(pub *rsa.PublicKey) bool {
	digest, err := tx.CalculateHash()
	if err != nil {
		return false
	}
	return crypto.Verify(pub, digest, tx.Signature)
}

// Validate checks the struct-level malformed-input rules from spec.md
// §7 (amount > 0, sender/recipient present and distinct, known asset).
// It does not check signatures, balances, or address hex-shape — those
// are the caller's (ledger façade's) responsibility, since they require
// context this type does not have.
func (tx Transaction) Validate() error {
	if err := validate.Struct(tx); err != nil {
		return fmt.Errorf("malformed transaction: %w", err)
	}
	if tx.Asset != NativeAsset {
		return fmt.Errorf("malformed transaction: unknown asset %q", tx.Asset)
	}
	return nil
}
