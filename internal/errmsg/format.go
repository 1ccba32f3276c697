// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import (
	"errors"
	"fmt"

	"github.com/llehouerou/tunesearch/internal/search"
)

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Search operations
	OpSearch      Op = "search"
	OpFetchDetail Op = "load details"
	OpClientSetup Op = "set up catalog client"

	// History operations
	OpHistoryOpen   Op = "open search history"
	OpHistoryLoad   Op = "load search history"
	OpHistoryRecord Op = "record search"
	OpHistoryClear  Op = "clear search history"

	// Initialization
	OpConfigLoad Op = "load configuration"
	OpLogSetup   Op = "set up logging"
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %s", op, Describe(err))
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %s", op, context, Describe(err))
}

// Describe renders search failures in terms a user can act on. Other
// errors are returned verbatim.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var serr *search.Error
	if !errors.As(err, &serr) {
		return err.Error()
	}
	switch serr.Kind {
	case search.KindInvalidQuery:
		return withReason("invalid query", serr.Reason)
	case search.KindTransportFailure:
		if serr.Err != nil {
			return "network error: " + serr.Err.Error()
		}
		return "network error"
	case search.KindBadStatus:
		return fmt.Sprintf("HTTP %d", serr.Status)
	case search.KindDecodeFailure:
		return withReason("invalid response", serr.Reason)
	case search.KindCancelled:
		return "cancelled"
	}
	return err.Error()
}

func withReason(msg, reason string) string {
	if reason == "" {
		return msg
	}
	return msg + " (" + reason + ")"
}
