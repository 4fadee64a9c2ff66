package store

import (
	"reflect"
	"time"
)

// valuesEqual implements the strict equality used by Query filters. Values
// of different dynamic types never match; time.Time compares by instant.
func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Type() != rb.Type() {
		return false
	}
	if !ra.Type().Comparable() {
		return false
	}
	return a == b
}
