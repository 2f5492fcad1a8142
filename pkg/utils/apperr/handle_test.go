package apperr_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/mindhaven/mindhaven/pkg/utils/apperr"
)

func TestHandle(t *testing.T) {
	var buf bytes.Buffer
	ctx := ctxlog.With(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))

	apperr.Handle(ctx, goerr.New("failed to save result", goerr.V("resultID", "r-1")))
	gt.S(t, buf.String()).Contains("application error")
	gt.S(t, buf.String()).Contains("failed to save result")
	gt.S(t, buf.String()).Contains("r-1")

	buf.Reset()
	apperr.Handle(ctx, nil)
	gt.Equal(t, buf.Len(), 0)
}
