package log

import (
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// appendError attaches err to the event under key. Errors that know how to
// marshal themselves (the typed errors in pkg/errors) are written as objects;
// the cockroachdb stack trace, when present, goes under "stacktrace".
func appendError(e *zerolog.Event, key string, err error) *zerolog.Event {
	if err == nil {
		return e
	}
	e = e.Str(key, err.Error())
	var marshaler zerolog.LogObjectMarshaler
	if errors.As(err, &marshaler) {
		e = e.Object(key+"_detail", marshaler)
	}
	if stacktrace := extractStacktrace(err); stacktrace != "" {
		e = e.Str(StacktraceAttrKey, stacktrace)
	}
	return e
}

func extractStacktrace(err error) string {
	safeDetails := errors.GetSafeDetails(err).SafeDetails
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	return ""
}
