package apperr

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Handle reports an error that is not passed back to a caller, such as an
// internal failure hidden behind a generic HTTP 500 response
func Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	attrs := []any{"error", err}
	if goErr := goerr.Unwrap(err); goErr != nil {
		if values := goErr.Values(); len(values) > 0 {
			attrs = append(attrs, "values", values)
		}
	}

	ctxlog.From(ctx).Error("application error", attrs...)
}
