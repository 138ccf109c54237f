package dapprtest

import (
	"encoding/binary"
	"sync/atomic"
	"testing"

	"github.com/dappr/dappr"
)

var sequence uint64

// NewCondition returns a new, unique condition. Conditions are derived from
// a process wide sequence so they never collide within a test binary.
func NewCondition() dappr.Condition {
	n := atomic.AddUint64(&sequence, 1)
	data := make([]byte, 8)
	binary.BigEndian.PutUint64(data, n)
	return dappr.NewCondition("test", "sig", data)
}

// NewAddress returns the address of a new, unique condition.
func NewAddress() dappr.Address {
	return NewCondition().Address()
}

// ParseAddress takes an address in a human readable format and returns
// its binary representation.
func ParseAddress(t testing.TB, encodedAddress string) dappr.Address {
	t.Helper()

	addr, err := dappr.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}
