/*
Package crypto provides the recoverable secp256k1 signatures used to
prove off-chain consent, along with the key types that back them.

A Signature is a 65 byte compact signature from which the signing
public key can be recovered given the signed digest. This lets a
message carry only the signature: whoever recovers the key compares
its address against the expected party.
*/
package crypto
