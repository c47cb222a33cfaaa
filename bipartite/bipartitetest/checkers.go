package bipartitetest

import (
	"fmt"
	"math"

	gc "gopkg.in/check.v1"
)

type almostEqualsChecker struct {
	*gc.CheckerInfo
}

// AlmostEquals checks that two float64 values differ by no more than the
// given tolerance:
//
//	c.Assert(value, AlmostEquals, 0.5, 1e-9)
var AlmostEquals gc.Checker = &almostEqualsChecker{
	&gc.CheckerInfo{Name: "AlmostEquals", Params: []string{"obtained", "expected", "tolerance"}},
}

func (checker *almostEqualsChecker) Check(params []interface{}, names []string) (result bool, error string) {
	obtained, ok := params[0].(float64)
	if !ok {
		return false, fmt.Sprintf("obtained value must be a float64, got %T", params[0])
	}
	expected, ok := params[1].(float64)
	if !ok {
		return false, fmt.Sprintf("expected value must be a float64, got %T", params[1])
	}
	tolerance, ok := params[2].(float64)
	if !ok {
		return false, fmt.Sprintf("tolerance must be a float64, got %T", params[2])
	}
	return math.Abs(obtained-expected) <= tolerance, ""
}
