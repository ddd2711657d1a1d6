// Package keyring persists RSA key pairs to PEM files on disk, the CLI
// equivalent of the teacher's crypto.SaveECDSA/LoadECDSA pair, adapted
// for RSA since signing here is RSA-PSS rather than ECDSA (spec.md
// §4.1). Keys live one-per-file under a directory, named by address.
package keyring

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"

	"github.com/CreoDAMO/QFC/internal/crypto"
)

const keyExtension = ".rsa.pem"

// path renders the on-disk file name for an address's private key
// within dir, matching the teacher's getPrivateKeyPath suffixing
// convention in app/wallet/cli/cmd/root.go.
func path(dir, address string) string {
	return filepath.Join(dir, address+keyExtension)
}

// Generate creates a new key pair, derives its address, and saves the
// private key to dir. It returns the address and the private key so
// the caller (the keygen command) can report both immediately.
func Generate(dir string, bits int) (string, *rsa.PrivateKey, error) {
	priv, err := crypto.GenerateKey(bits)
	if err != nil {
		return "", nil, err
	}

	address, err := crypto.AddressFromPublicKey(&priv.PublicKey)
	if err != nil {
		return "", nil, err
	}

	if err := Save(dir, address, priv); err != nil {
		return "", nil, err
	}

	return address, priv, nil
}

// Save PEM-encodes priv in PKCS#1 form and writes it to dir under
// address's key file, creating dir if necessary.
func Save(dir, address string, priv *rsa.PrivateKey) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create key directory: %w", err)
	}

	block := &pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(priv),
	}

	if err := os.WriteFile(path(dir, address), pem.EncodeToMemory(block), 0o600); err != nil {
		return fmt.Errorf("write key file: %w", err)
	}
	return nil
}

// Load reads and decodes the private key stored for address under dir.
func Load(dir, address string) (*rsa.PrivateKey, error) {
	content, err := os.ReadFile(path(dir, address))
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}

	block, _ := pem.Decode(content)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found in %s", path(dir, address))
	}

	priv, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	return priv, nil
}

// LoadAll reads every key file in dir and returns a registry mapping
// address to public key, suitable for building a ledger.Verifier that
// checks a transaction's signature against whichever address signed it.
func LoadAll(dir string) (map[string]*rsa.PublicKey, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]*rsa.PublicKey{}, nil
		}
		return nil, fmt.Errorf("read key directory: %w", err)
	}

	registry := make(map[string]*rsa.PublicKey, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".pem" {
			continue
		}
		address := name[:len(name)-len(keyExtension)]

		priv, err := Load(dir, address)
		if err != nil {
			return nil, err
		}
		registry[address] = &priv.PublicKey
	}
	return registry, nil
}
