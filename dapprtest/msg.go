package dapprtest

import "github.com/dappr/dappr"

// Msg is a message with a configurable path and validation result.
type Msg struct {
	RoutePath string
	Err       error
}

var _ dappr.Msg = (*Msg)(nil)

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.Err
}
