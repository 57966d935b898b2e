// Package testutil provides small testing helpers used across this
// module's buffer, disk, and page tests.
package testutil

import (
	"reflect"
	"testing"
)

// Ok fails the test immediately if err is non-nil.
func Ok(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// Equals fails the test if exp and act are not deeply equal.
func Equals(t *testing.T, exp, act interface{}) {
	t.Helper()
	if !reflect.DeepEqual(exp, act) {
		t.Fatalf("expected: %#v\ngot: %#v", exp, act)
	}
}

// Assert fails the test with a formatted message if cond is false.
func Assert(t *testing.T, cond bool, msg string, args ...interface{}) {
	t.Helper()
	if !cond {
		t.Fatalf(msg, args...)
	}
}
