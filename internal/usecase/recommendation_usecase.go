package usecase

import "context"

// Recommendations lists products suggested to a customer
type Recommendations struct {
	CustomerID      string   `json:"customer_id"`
	Recommendations []string `json:"recommendations"`
}

// RecommendationUsecase defines the recommender use case
type RecommendationUsecase interface {
	Recommend(ctx context.Context, customerID string) (*Recommendations, error)
}
