package aggregators

import (
	"math"
	"sync/atomic"
	"unsafe"

	"github.com/Ahmed-Sermani/ria/bsp"
)

var (
	_ bsp.Aggregator = (*Float64MaxAggregator)(nil)
	_ bsp.Aggregator = (*Float64MinAggregator)(nil)
)

// Float64MaxAggregator keeps the largest float64 value aggregated since the
// last call to Set. Unlike a sum, the result does not depend on the order in
// which concurrent workers report their values.
//
// The zero value starts at 0; callers aggregating values that may be negative
// should Set(math.Inf(-1)) first.
type Float64MaxAggregator struct {
	cur, prev float64
}

func (a *Float64MaxAggregator) Type() string {
	return "Float64MaxAggregator"
}

func (a *Float64MaxAggregator) Get() any {
	return loadFloat64(&a.cur)
}

func (a *Float64MaxAggregator) Set(v any) {
	storeFloat64(&a.cur, v.(float64))
	storeFloat64(&a.prev, v.(float64))
}

func (a *Float64MaxAggregator) Aggregate(v any) {
	storeIf(&a.cur, v.(float64), func(cur, v float64) bool { return v > cur })
}

func (a *Float64MaxAggregator) Delta() any {
	return swapDelta(&a.cur, &a.prev)
}

// Float64MinAggregator keeps the smallest float64 value aggregated since the
// last call to Set.
//
// The zero value starts at 0; callers should Set(math.Inf(1)) first.
type Float64MinAggregator struct {
	cur, prev float64
}

func (a *Float64MinAggregator) Type() string {
	return "Float64MinAggregator"
}

func (a *Float64MinAggregator) Get() any {
	return loadFloat64(&a.cur)
}

func (a *Float64MinAggregator) Set(v any) {
	storeFloat64(&a.cur, v.(float64))
	storeFloat64(&a.prev, v.(float64))
}

func (a *Float64MinAggregator) Aggregate(v any) {
	storeIf(&a.cur, v.(float64), func(cur, v float64) bool { return v < cur })
}

func (a *Float64MinAggregator) Delta() any {
	return swapDelta(&a.cur, &a.prev)
}

func storeFloat64(fp *float64, v float64) {
	atomic.StoreUint64((*uint64)(unsafe.Pointer(fp)), math.Float64bits(v))
}

// swapDelta records the current value as the previous one and returns the
// difference between them.
func swapDelta(cur, prev *float64) float64 {
	c := loadFloat64(cur)
	p := math.Float64frombits(atomic.SwapUint64((*uint64)(unsafe.Pointer(prev)), math.Float64bits(c)))
	return c - p
}
