/*
Package cash maintains the fungible asset balances held by addresses
and exposes a controller that other extensions use to move funds.

There is a single asset type. Balances are stored per address in
wallets, and every transfer is all-or-nothing: on any failure the
wallets involved are left untouched.
*/
package cash
