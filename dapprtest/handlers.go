package dapprtest

import "github.com/dappr/dappr"

// Handler is a mock implementation of the dappr.Handler interface.
//
// Set CheckErr or DeliverErr to force an error response. Each method call
// is counted regardless of the result.
type Handler struct {
	checkCall int
	CheckErr  error

	deliverCall   int
	DeliverResult dappr.DeliverResult
	DeliverErr    error
}

var _ dappr.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx dappr.Context, db dappr.KVStore, msg dappr.Msg) error {
	h.checkCall++
	return h.CheckErr
}

func (h *Handler) Deliver(ctx dappr.Context, db dappr.KVStore, msg dappr.Msg) (*dappr.DeliverResult, error) {
	h.deliverCall++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}

// WriteHandler writes Key/Value to the store on every call and then
// returns Err.
type WriteHandler struct {
	Key   []byte
	Value []byte
	Err   error
}

var _ dappr.Handler = WriteHandler{}

func (h WriteHandler) Check(ctx dappr.Context, db dappr.KVStore, msg dappr.Msg) error {
	if err := db.Set(h.Key, h.Value); err != nil {
		return err
	}
	return h.Err
}

func (h WriteHandler) Deliver(ctx dappr.Context, db dappr.KVStore, msg dappr.Msg) (*dappr.DeliverResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	if h.Err != nil {
		return nil, h.Err
	}
	return &dappr.DeliverResult{}, nil
}

// PanicHandler panics on every call.
type PanicHandler struct{}

var _ dappr.Handler = PanicHandler{}

func (PanicHandler) Check(dappr.Context, dappr.KVStore, dappr.Msg) error {
	panic("check panic")
}

func (PanicHandler) Deliver(dappr.Context, dappr.KVStore, dappr.Msg) (*dappr.DeliverResult, error) {
	panic("deliver panic")
}
