/*
Package dappr defines all common interfaces to tie together the escrow
engine subpackages, as well as implementations of some of the simpler
components (when interfaces would be too much overhead).

Identities are represented by Address values, usually derived from a
Condition. Records live in a KVStore, every operation runs against a cache
wrap of the store that is either written as a whole or discarded.

We pass context through context.Context between app, decorators, and
handlers. To do so, dappr defines some common keys to store info, such as
block height, block time and the logger.

There should exist two functions for every XYZ of type T that we want to
support in Context:

  WithXYZ(Context, T) Context
  GetXYZ(Context) (val T, ok bool)

WithXYZ may panic if the value was previously set to avoid lower-level
modules overwriting the value (eg. height, time).
*/
package dappr
