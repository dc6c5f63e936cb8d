// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"storefront/internal/delivery/api/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// RouterParams collects the handlers of a service. Each binary provides only
// the handlers it serves.
type RouterParams struct {
	fx.In

	HealthHandler         *handler.HealthHandler
	ProductHandler        *handler.ProductHandler        `optional:"true"`
	OrderHandler          *handler.OrderHandler          `optional:"true"`
	RecommendationHandler *handler.RecommendationHandler `optional:"true"`
}

// router holds all the handlers that need to be registered.
type router struct {
	healthHandler         *handler.HealthHandler
	productHandler        *handler.ProductHandler
	orderHandler          *handler.OrderHandler
	recommendationHandler *handler.RecommendationHandler
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		healthHandler:         params.HealthHandler,
		productHandler:        params.ProductHandler,
		orderHandler:          params.OrderHandler,
		recommendationHandler: params.RecommendationHandler,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", r.healthHandler.Healthz)
	e.GET("/metrics", r.healthHandler.Metrics)
	if r.healthHandler.ServesReadiness() {
		e.GET("/readyz", r.healthHandler.Readyz)
	}

	if r.productHandler != nil {
		productsGroup := e.Group("/products")
		{
			productsGroup.POST("", r.productHandler.CreateProduct)
			productsGroup.GET("/:id", r.productHandler.GetProduct)
			productsGroup.PUT("/:id", r.productHandler.UpdateProduct)
		}
		e.GET("/search", r.productHandler.SearchProducts)
	}

	if r.orderHandler != nil {
		ordersGroup := e.Group("/orders")
		{
			ordersGroup.POST("", r.orderHandler.CreateOrder)
			ordersGroup.GET("/:id", r.orderHandler.GetOrder)
		}
	}

	if r.recommendationHandler != nil {
		e.GET("/recommendations", r.recommendationHandler.GetRecommendations)
	}
}
