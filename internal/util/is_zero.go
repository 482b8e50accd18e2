// Package util holds small reflect helpers shared by config plumbing.
package util

import "reflect"

// IsZero reports whether i holds the zero value of its type.
func IsZero(i interface{}) bool {
	return IsZeroVal(reflect.ValueOf(i))
}

func IsZeroVal(v reflect.Value) bool {
	return !v.IsValid() || v.IsZero()
}
