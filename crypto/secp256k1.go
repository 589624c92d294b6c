package crypto

import (
	"github.com/btcsuite/btcd/btcec"
	"github.com/iov-one/streampay"
	"github.com/iov-one/streampay/errors"
)

// ExtensionName is used for the conditions we derive from public keys.
const ExtensionName = "sigs"

const (
	// SignatureSize is the length of a compact recoverable signature:
	// one recovery byte followed by the 32 byte R and S values.
	SignatureSize = 65

	// PubKeySize is the length of a compressed secp256k1 public key.
	PubKeySize = 33
)

// PubKey represents a public key we can verify against and derive a
// condition from.
type PubKey interface {
	Verify(digest []byte, sig Signature) bool
	Condition() streampay.Condition
}

// Signer is the functionality we use from a private key.
type Signer interface {
	Sign(digest []byte) (Signature, error)
	PublicKey() *PublicKey
}

// Signature is a compact recoverable secp256k1 signature over a 32
// byte digest.
type Signature []byte

// Validate returns an error if this is not a well-formed signature.
func (s Signature) Validate() error {
	if len(s) != SignatureSize {
		return errors.Wrapf(errors.ErrInput, "signature must be %d bytes", SignatureSize)
	}
	return nil
}

// PublicKey is a compressed secp256k1 public key.
type PublicKey struct {
	Secp256k1 []byte
}

var _ PubKey = (*PublicKey)(nil)

// Validate returns an error if the key cannot be parsed.
func (p *PublicKey) Validate() error {
	if len(p.Secp256k1) != PubKeySize {
		return errors.Wrapf(errors.ErrInput, "public key must be %d bytes", PubKeySize)
	}
	if _, err := btcec.ParsePubKey(p.Secp256k1, btcec.S256()); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}

// Verify checks that the signature was produced over this digest by
// the private key matching this public key.
func (p *PublicKey) Verify(digest []byte, sig Signature) bool {
	recovered, err := RecoverSigner(digest, sig)
	if err != nil {
		return false
	}
	return recovered.Condition().Equals(p.Condition())
}

// Condition encodes the public key into a condition. Its address
// identifies the key holder throughout the state.
func (p *PublicKey) Condition() streampay.Condition {
	return streampay.NewCondition(ExtensionName, "secp256k1", p.Secp256k1)
}

// Address is a shortcut for Condition().Address()
func (p *PublicKey) Address() streampay.Address {
	return p.Condition().Address()
}

// RecoverSigner extracts the public key that produced the signature
// over the given digest. It returns ErrInput when the signature is
// malformed or does not resolve to any key.
func RecoverSigner(digest []byte, sig Signature) (*PublicKey, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	pub, _, err := btcec.RecoverCompact(btcec.S256(), sig, digest)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return &PublicKey{Secp256k1: pub.SerializeCompressed()}, nil
}

// PrivateKey is a secp256k1 private key.
type PrivateKey struct {
	Secp256k1 []byte
}

var _ Signer = (*PrivateKey)(nil)

// Sign produces a compact recoverable signature over the digest.
func (p *PrivateKey) Sign(digest []byte) (Signature, error) {
	priv, _ := btcec.PrivKeyFromBytes(btcec.S256(), p.Secp256k1)
	sig, err := btcec.SignCompact(btcec.S256(), priv, digest, true)
	if err != nil {
		return nil, errors.Wrap(err, "sign digest")
	}
	return Signature(sig), nil
}

// PublicKey returns the corresponding PublicKey
func (p *PrivateKey) PublicKey() *PublicKey {
	_, pub := btcec.PrivKeyFromBytes(btcec.S256(), p.Secp256k1)
	return &PublicKey{Secp256k1: pub.SerializeCompressed()}
}

// GenPrivKeySecp256k1 returns a random new private key
func GenPrivKeySecp256k1() *PrivateKey {
	priv, err := btcec.NewPrivateKey(btcec.S256())
	if err != nil {
		panic(err)
	}
	return &PrivateKey{Secp256k1: priv.Serialize()}
}

// PrivKeySecp256k1FromSeed will deterministically generate a private
// key from a given seed. Use if you have a strong source of external
// randomness, or for deterministic keys in test cases.
func PrivKeySecp256k1FromSeed(seed []byte) *PrivateKey {
	priv, _ := btcec.PrivKeyFromBytes(btcec.S256(), seed)
	return &PrivateKey{Secp256k1: priv.Serialize()}
}
