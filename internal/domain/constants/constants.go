package constants

// Environments
const (
	EnvDevelop    = "develop"
	EnvStaging    = "staging"
	EnvProduction = "production"
)

// Pub/Sub providers
const (
	PubSubProviderKafka  = "kafka"
	PubSubProviderGoogle = "google"
	PubSubProviderLocal  = "local"
	PubSubProviderLog    = "log"
)

// Service names used when SERVICE_NAME is unset
const (
	ServiceCatalog     = "catalog-api"
	ServiceOrders      = "orders-api"
	ServiceIndexer     = "indexer-worker"
	ServiceRecommender = "recommender-svc"
)

// Default HTTP ports per binary
const (
	PortCatalog     = 8001
	PortOrders      = 8002
	PortRecommender = 8003
	PortIndexer     = 9104
)

// Cache key prefixes
const (
	CacheKeyProduct = "product:"
	CacheKeyOrder   = "order:"
	CacheKeySearch  = "search:"
)

// Order defaults
const (
	OrderStatusCreated = "CREATED"
	DefaultCurrency    = "USD"
)
