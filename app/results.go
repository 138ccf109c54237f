package app

import (
	"fmt"

	"github.com/dappr/dappr"
	"github.com/dappr/dappr/errors"
)

// Response is what the caller of an operation receives. Internal error
// details are only exposed in debug mode.
type Response struct {
	Code   uint32   `json:"code"`
	Log    string   `json:"log,omitempty"`
	Data   []byte   `json:"data,omitempty"`
	Events []string `json:"events,omitempty"`
}

// DeliverOrError returns the response of a delivered message, converting
// the error message if present, or using the successful DeliverResult.
func DeliverOrError(res *dappr.DeliverResult, err error, debug bool) Response {
	if err != nil {
		code, log := errors.Info(err, debug)
		return Response{Code: code, Log: fmt.Sprintf("cannot deliver: %s", log)}
	}
	resp := Response{Log: res.Log, Data: res.Data}
	for _, e := range res.Events {
		resp.Events = append(resp.Events, e.EventName())
	}
	return resp
}

// CheckOrError returns the response of a checked message.
func CheckOrError(err error, debug bool) Response {
	if err != nil {
		code, log := errors.Info(err, debug)
		return Response{Code: code, Log: fmt.Sprintf("cannot check: %s", log)}
	}
	return Response{Log: "ok"}
}
