package httputil

import (
	"log/slog"
	"net/http"

	dErrors "zoopito/pkg/domain-errors"
	"zoopito/pkg/requestcontext"
)

// Fail logs err against the request and writes the error envelope.
// Client errors log at warn, everything else at error.
func Fail(w http.ResponseWriter, r *http.Request, logger *slog.Logger, msg string, err error) {
	ctx := r.Context()
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		logger.ErrorContext(ctx, msg,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	} else {
		logger.WarnContext(ctx, msg,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	WriteError(w, err)
}
