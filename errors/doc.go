/*
Package errors implements the error handling used across the streampay
ledger.

Each returned error must wrap one of the registered root errors. An
error class is tested with the root error Is method, never by string
comparison. Use Wrap and Wrapf to add context to an error as it moves
up the stack; the original root error (and its code) is preserved.

Error codes are stable identifiers that the host can return to clients.
Codes below 1000 are reserved for this package; extensions register
their own errors in a dedicated range (see x/stream for an example).
*/
package errors
