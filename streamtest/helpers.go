package streamtest

import (
	"crypto/rand"
	"encoding/binary"
	"testing"

	"github.com/iov-one/streampay"
	"github.com/iov-one/streampay/crypto"
)

// NewKey returns a random secp256k1 signer.
func NewKey() crypto.Signer {
	return crypto.GenPrivKeySecp256k1()
}

// NewCondition returns a random signature condition.
func NewCondition() streampay.Condition {
	return NewKey().PublicKey().Condition()
}

// SequenceID returns an ID encoded the way sequence values are, so
// tests can address entities created via a sequence counter.
func SequenceID(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}

// RandomAddr returns a valid random address generated on the fly.
func RandomAddr(t testing.TB) streampay.Address {
	t.Helper()
	raw := make([]byte, streampay.AddressLength)
	if _, err := rand.Read(raw); err != nil {
		t.Fatalf("cannot generate a random address: %s", err)
	}
	a := streampay.Address(raw)
	if err := a.Validate(); err != nil {
		t.Fatalf("generated address is not valid: %s", err)
	}
	return a
}
