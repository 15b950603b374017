package log

import (
	"github.com/YuminosukeSato/gomvpa/pkg/errors"
)

// extractStacktrace returns the first safe detail recorded by
// cockroachdb/errors, which is the stack captured by errors.WithStack.
func extractStacktrace(err error) string {
	safeDetails := errors.GetSafeDetails(err)
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	return ""
}
