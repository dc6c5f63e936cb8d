package handler

import (
	"net/http"

	"storefront/internal/delivery/api/response"
	"storefront/internal/infra/metrics"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// HealthHandlerParams holds dependencies for HealthHandler, injected by Fx.
type HealthHandlerParams struct {
	fx.In

	ReadinessUC usecase.ReadinessUsecase `optional:"true"`
	Metrics     *metrics.Metrics
}

// HealthHandler serves the operational endpoints every service exposes
type HealthHandler struct {
	readinessUC usecase.ReadinessUsecase
	metrics     *metrics.Metrics
}

// NewHealthHandler is the constructor for HealthHandler
func NewHealthHandler(params HealthHandlerParams) *HealthHandler {
	return &HealthHandler{
		readinessUC: params.ReadinessUC,
		metrics:     params.Metrics,
	}
}

// Healthz reports process liveness
func (h *HealthHandler) Healthz(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": usecase.StatusOK})
}

// ServesReadiness reports whether the service has backing stores to probe
func (h *HealthHandler) ServesReadiness() bool {
	return h.readinessUC != nil
}

// Readyz reports the state of the backing stores. A degraded report is still
// served with 200.
func (h *HealthHandler) Readyz(c echo.Context) error {
	report := h.readinessUC.Check(c.Request().Context())

	return response.Success(c, http.StatusOK, report)
}

// Metrics serves the Prometheus exposition
func (h *HealthHandler) Metrics(c echo.Context) error {
	h.metrics.Handler().ServeHTTP(c.Response(), c.Request())

	return nil
}
