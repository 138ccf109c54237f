// Package utils provides decorators that are shared by all handlers:
// logging, panic recovery and savepoints.
package utils
