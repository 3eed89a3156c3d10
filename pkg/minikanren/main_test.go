package minikanren

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain verifies the package's synchronous, goroutine-free execution
// model (see doc.go): no test here should leave anything running in the
// background.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
