package streamtest

import "github.com/iov-one/streampay"

// Handler is a mock implementation of the streampay.Handler interface,
// counting calls and returning configured results.
type Handler struct {
	checkCall   int
	CheckResult streampay.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult streampay.DeliverResult
	DeliverErr    error
}

var _ streampay.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx streampay.Context, db streampay.KVStore, tx streampay.Tx) (*streampay.CheckResult, error) {
	h.checkCall++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx streampay.Context, db streampay.KVStore, tx streampay.Tx) (*streampay.DeliverResult, error) {
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

// Decorator is a mock implementation of the streampay.Decorator
// interface, counting passes and forwarding to the next handler.
type Decorator struct {
	checkCall   int
	deliverCall int
}

var _ streampay.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx streampay.Context, db streampay.KVStore, tx streampay.Tx, next streampay.Checker) (*streampay.CheckResult, error) {
	d.checkCall++
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx streampay.Context, db streampay.KVStore, tx streampay.Tx, next streampay.Deliverer) (*streampay.DeliverResult, error) {
	d.deliverCall++
	return next.Deliver(ctx, db, tx)
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
