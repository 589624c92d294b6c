/*
Package streampay defines the common interfaces that tie the payment
streaming ledger together: messages and transactions, handlers and
decorators, the key-value storage contracts, addresses and conditions,
and the context helpers that carry block information from the host.

The actual semantics live in the extensions under x/, most notably
x/stream (the streaming ledger itself) and x/cash (the wallet accounting
used to move funds in and out of stream escrow accounts). This package
holds only the glue, so that extensions depend on small interfaces and
not on each other.
*/
package streampay
