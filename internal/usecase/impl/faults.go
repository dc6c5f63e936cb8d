package impl

import (
	"context"
	"log/slog"

	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/usecase"

	"github.com/pkg/errors"
)

// absorbFault logs and counts err when it is an InfraFault. It reports
// whether err was absorbed.
func absorbFault(ctx context.Context, logger *slog.Logger, recorder usecase.FaultRecorder, err error) bool {
	var fault *domainerrors.InfraFault
	if !errors.As(err, &fault) {
		return false
	}

	logger.DebugContext(ctx, "Infrastructure fault absorbed",
		slog.String("component", fault.Component),
		slog.String("op", fault.Op),
		slog.Any("error", fault.Err),
	)
	if recorder != nil {
		recorder.InfraFault(fault.Component, fault.Op)
	}

	return true
}
