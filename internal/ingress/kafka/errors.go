package kafka

import (
	"fmt"

	pkgerrors "github.com/raunit-dev/OrderBook/pkg/errors"
)

// errorf wraps err with the failing operation name, mirroring the
// teacher's Reader.logError/Publisher error-logging helpers.
func errorf(err error, operation string) *pkgerrors.ErrorTracer {
	return pkgerrors.NewTracer(fmt.Sprintf("%s: %s", operation, err.Error())).Wrap(err)
}
