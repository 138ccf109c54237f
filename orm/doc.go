/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
* Each bucket contains only one type of record.
* A record key is derived deterministically by the caller, ie. from an
escrow ID and a milestone index. There are no generated IDs.
* A record is created once and then mutated in place. Records are never
deleted, they form an audit trail.

Records are serialized with go-amino, see Marshal and Unmarshal.
*/
package orm
