package handler

import (
	"net/http"

	"storefront/internal/delivery/api/response"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// RecommendationHandlerParams holds dependencies for RecommendationHandler, injected by Fx.
type RecommendationHandlerParams struct {
	fx.In

	RecommendationUC usecase.RecommendationUsecase
}

// RecommendationHandler serves product suggestions
type RecommendationHandler struct {
	recommendationUC usecase.RecommendationUsecase
}

// NewRecommendationHandler is the constructor for RecommendationHandler
func NewRecommendationHandler(params RecommendationHandlerParams) *RecommendationHandler {
	return &RecommendationHandler{
		recommendationUC: params.RecommendationUC,
	}
}

// RecommendationQuery represents the query string of GET /recommendations
type RecommendationQuery struct {
	CustomerID string `json:"customer_id" query:"customer_id" validate:"required"`
}

// GetRecommendations handles GET /recommendations?customer_id=
func (h *RecommendationHandler) GetRecommendations(c echo.Context) error {
	var query RecommendationQuery
	if err := c.Bind(&query); err != nil {
		return response.BindingError(c)
	}

	if err := c.Validate(&query); err != nil {
		return response.HandleAppError(c, err)
	}

	recommendations, err := h.recommendationUC.Recommend(c.Request().Context(), query.CustomerID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, recommendations)
}
