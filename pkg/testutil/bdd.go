package testutil

import "testing"

// Given, When, and Then prefix subtests so `go test -v` output reads as a
// scenario. They are plain t.Run wrappers; nesting order is up to the caller.

// Given names a precondition subtest.
func Given(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("Given "+desc, fn)
}

// When names an action subtest.
func When(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("When "+desc, fn)
}

// Then names an assertion subtest.
func Then(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("Then "+desc, fn)
}
