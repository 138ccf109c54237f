/*
Package cash is the ledger service: it keeps one wallet per address and
moves value between them.

Every mutation is all-or-nothing. A transfer that would overdraw the
source fails with ErrInsufficientBalance and writes nothing. Wallets can
be opened without funds, which is how escrow holding accounts come into
existence before the first deposit.

Minting and burning are restricted to the mint authority stored in the
package configuration.
*/
package cash
