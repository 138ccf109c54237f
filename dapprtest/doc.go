// Package dapprtest provides helpers for tests of the escrow extensions:
// deterministic identities, in-memory authentication and stores.
package dapprtest
