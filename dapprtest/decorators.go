package dapprtest

import "github.com/dappr/dappr"

// Decorator is a mock implementation of the dappr.Decorator interface.
//
// Set CheckErr or DeliverErr to force error response for corresponding method.
// If error attributes are not set then wrapped handler method is called and
// its result returned.
// Each method call is counted. Regardless of the method call result the
// counter is incremented.
type Decorator struct {
	checkCall int
	// CheckErr if set is returned by the Check method before calling
	// the wrapped handler.
	CheckErr error

	deliverCall int
	// DeliverErr if set is returned by the Deliver method before calling
	// the wrapped handler.
	DeliverErr error
}

var _ dappr.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx dappr.Context, db dappr.KVStore, msg dappr.Msg, next dappr.Checker) error {
	d.checkCall++

	if d.CheckErr != nil {
		return d.CheckErr
	}
	return next.Check(ctx, db, msg)
}

func (d *Decorator) Deliver(ctx dappr.Context, db dappr.KVStore, msg dappr.Msg, next dappr.Deliverer) (*dappr.DeliverResult, error) {
	d.deliverCall++

	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, msg)
}

func (d *Decorator) CheckCallCount() int {
	return d.checkCall
}

func (d *Decorator) DeliverCallCount() int {
	return d.deliverCall
}

func (d *Decorator) CallCount() int {
	return d.checkCall + d.deliverCall
}
