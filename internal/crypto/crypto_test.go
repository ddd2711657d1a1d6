package crypto_test

import (
	"testing"

	"github.com/CreoDAMO/QFC/internal/crypto"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func Test_HashDeterministic(t *testing.T) {
	type payload struct {
		Name string
		N    int
	}

	h1, err := crypto.Hash(payload{Name: "bill", N: 1})
	if err != nil {
		t.Fatalf("%s\tshould be able to hash a value: %s", failed, err)
	}

	h2, err := crypto.Hash(payload{Name: "bill", N: 1})
	if err != nil {
		t.Fatalf("%s\tshould be able to hash a value: %s", failed, err)
	}

	if h1 != h2 {
		t.Fatalf("%s\tshould get identical hashes for identical values", failed)
	}
	t.Logf("%s\tgot identical hashes for identical values", success)

	h3, err := crypto.Hash(payload{Name: "bill", N: 2})
	if err != nil {
		t.Fatalf("%s\tshould be able to hash a value: %s", failed, err)
	}

	if h1 == h3 {
		t.Fatalf("%s\tshould get different hashes for different values", failed)
	}
	t.Logf("%s\tgot different hashes for different values", success)
}

func Test_SignVerifyRoundTrip(t *testing.T) {
	priv, err := crypto.GenerateKey(2048)
	if err != nil {
		t.Fatalf("%s\tshould be able to generate a key: %s", failed, err)
	}

	digest, err := crypto.Hash("some content")
	if err != nil {
		t.Fatalf("%s\tshould be able to hash content: %s", failed, err)
	}

	sig, err := crypto.Sign(priv, digest)
	if err != nil {
		t.Fatalf("%s\tshould be able to sign the digest: %s", failed, err)
	}

	if !crypto.Verify(&priv.PublicKey, digest, sig) {
		t.Fatalf("%s\tshould verify a signature made by the matching key", failed)
	}
	t.Logf("%s\tverified a signature made by the matching key", success)
}

func Test_VerifyRejectsWrongKey(t *testing.T) {
	priv1, err := crypto.GenerateKey(2048)
	if err != nil {
		t.Fatalf("%s\tshould be able to generate a key: %s", failed, err)
	}

	priv2, err := crypto.GenerateKey(2048)
	if err != nil {
		t.Fatalf("%s\tshould be able to generate a second key: %s", failed, err)
	}

	digest, err := crypto.Hash("some content")
	if err != nil {
		t.Fatalf("%s\tshould be able to hash content: %s", failed, err)
	}

	sig, err := crypto.Sign(priv1, digest)
	if err != nil {
		t.Fatalf("%s\tshould be able to sign the digest: %s", failed, err)
	}

	if crypto.Verify(&priv2.PublicKey, digest, sig) {
		t.Fatalf("%s\tshould not verify a signature under an unrelated key", failed)
	}
	t.Logf("%s\trejected a signature under an unrelated key", success)
}

func Test_AddressFromPublicKey(t *testing.T) {
	priv, err := crypto.GenerateKey(2048)
	if err != nil {
		t.Fatalf("%s\tshould be able to generate a key: %s", failed, err)
	}

	addr, err := crypto.AddressFromPublicKey(&priv.PublicKey)
	if err != nil {
		t.Fatalf("%s\tshould be able to derive an address: %s", failed, err)
	}

	if len(addr) != 2*crypto.AddressLength {
		t.Fatalf("%s\taddress should be %d hex chars, got %d", failed, 2*crypto.AddressLength, len(addr))
	}
	t.Logf("%s\tderived an address of the expected length", success)
}
