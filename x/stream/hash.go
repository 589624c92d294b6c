package stream

import (
	"crypto/sha256"

	"github.com/iov-one/streampay"
	"github.com/iov-one/streampay/crypto"
	"github.com/iov-one/streampay/errors"
)

// TermsHash returns the digest both parties sign to agree on new
// stream terms. The terms are serialized with the deterministic
// codec, so equal terms always produce an equal digest.
func TermsHash(terms StreamTerms) ([]byte, error) {
	raw, err := streamCodec.MarshalBinaryBare(&terms)
	if err != nil {
		return nil, errors.Wrap(err, "marshal terms")
	}
	digest := sha256.Sum256(raw)
	return digest[:], nil
}

// ValidateSignature reports whether the signature over the given
// digest was made by the key behind the given address.
func ValidateSignature(digest []byte, sig crypto.Signature, signer streampay.Address) bool {
	key, err := crypto.RecoverSigner(digest, sig)
	if err != nil {
		return false
	}
	return key.Address().Equals(signer)
}

// validateConsent recovers the key that signed the terms digest and
// checks it belongs to the expected counterparty. It returns
// ErrInvalidSignature when the signature was made over different
// terms or by a different key.
func validateConsent(terms StreamTerms, sig crypto.Signature, counterparty streampay.Address) error {
	digest, err := TermsHash(terms)
	if err != nil {
		return err
	}
	signer, err := crypto.RecoverSigner(digest, sig)
	if err != nil {
		return errors.Wrap(ErrInvalidSignature, err.Error())
	}
	if !signer.Address().Equals(counterparty) {
		return errors.Wrap(ErrInvalidSignature, "signer is not the counterparty")
	}
	return nil
}
