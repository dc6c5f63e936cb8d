package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]

		return v, ok
	}
}

func TestApplyEnvAliases_FlatVariables(t *testing.T) {
	cfg := &Config{}
	err := applyEnvAliases(cfg, lookupFrom(map[string]string{
		"SERVICE_NAME":                "catalog-api",
		"PORT":                        "9000",
		"DB_URL":                      "postgresql+asyncpg://u:p@db:5432/catalog",
		"REDIS_URL":                   "redis://cache:6379/0",
		"OPENSEARCH_URL":              "http://search:9200",
		"ENABLE_KAFKA":                "Yes",
		"KAFKA_BOOTSTRAP":             "k1:9092,k2:9092",
		"TOPIC_PRODUCT_UPDATED":       "products",
		"CACHE_TTL_SECONDS":           "60",
		"SEARCH_CACHE_TTL_SECONDS":    "5",
		"OTEL_EXPORTER_OTLP_ENDPOINT": "http://otel:4317",
		"VALIDATE_AVRO":               "on",
	}))
	require.NoError(t, err)
	applyDefaults(cfg)

	assert.Equal(t, "catalog-api", cfg.Env.ServiceName)
	assert.Equal(t, 9000, cfg.HTTP.Port)
	require.NotNil(t, cfg.Postgres)
	assert.Equal(t, "postgresql://u:p@db:5432/catalog", cfg.Postgres.URL)
	assert.True(t, cfg.Postgres.AutoMigrate)
	require.NotNil(t, cfg.Redis)
	assert.Equal(t, "redis://cache:6379/0", cfg.Redis.URL)
	assert.Equal(t, "http://search:9200", cfg.Search.URL)
	assert.Equal(t, "kafka", cfg.PubSub.Provider)
	assert.True(t, cfg.BusEnabled())
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers())
	assert.Equal(t, "products", cfg.PubSub.Topics.ProductUpdated)
	assert.Equal(t, defaultTopicOrder, cfg.PubSub.Topics.OrderCreated)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 5*time.Second, cfg.Cache.SearchTTL)
	assert.Equal(t, "http://otel:4317", cfg.Tracing.Endpoint)
	assert.True(t, cfg.Events.ValidateSchema)
}

func TestApplyEnvAliases_DisableKafkaWins(t *testing.T) {
	cfg := &Config{}
	err := applyEnvAliases(cfg, lookupFrom(map[string]string{
		"ENABLE_KAFKA":  "true",
		"DISABLE_KAFKA": "1",
	}))
	require.NoError(t, err)

	assert.Equal(t, "log", cfg.PubSub.Provider)
	assert.False(t, cfg.BusEnabled())
}

func TestApplyEnvAliases_InvalidNumbers(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "port", env: map[string]string{"PORT": "eighty"}},
		{name: "cache ttl", env: map[string]string{"CACHE_TTL_SECONDS": "soon"}},
		{name: "metrics port", env: map[string]string{"METRICS_PORT": "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := applyEnvAliases(&Config{}, lookupFrom(tt.env))
			assert.Error(t, err)
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	WithService("orders-api", 8002)(cfg)
	applyDefaults(cfg)

	assert.Equal(t, "orders-api", cfg.Env.ServiceName)
	assert.Equal(t, 8002, cfg.HTTP.Port)
	assert.Equal(t, defaultMaxRequestBodySize, cfg.HTTP.MaxRequestBodySize)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 15*time.Second, cfg.Cache.SearchTTL)
	assert.Equal(t, "orders-api", cfg.PubSub.GroupID)
	assert.Equal(t, defaultTopicProduct, cfg.PubSub.Topics.ProductUpdated)
	assert.Equal(t, defaultEventQueueSize, cfg.Events.QueueSize)
	assert.Equal(t, defaultRetryDelay, cfg.Indexer.RetryDelay)
	assert.Nil(t, cfg.Postgres)
	assert.Nil(t, cfg.Redis)
	assert.False(t, cfg.BusEnabled())
}

func TestWithService_KeepsConfiguredValues(t *testing.T) {
	cfg := &Config{}
	cfg.Env.ServiceName = "custom"
	cfg.HTTP.Port = 1234
	WithService("catalog-api", 8001)(cfg)

	assert.Equal(t, "custom", cfg.Env.ServiceName)
	assert.Equal(t, 1234, cfg.HTTP.Port)
}

func TestNormalizeDSN(t *testing.T) {
	assert.Equal(t, "postgresql://u@h/db", normalizeDSN("postgresql+asyncpg://u@h/db"))
	assert.Equal(t, "postgres://u@h/db", normalizeDSN("postgres://u@h/db"))
	assert.Equal(t, "host=h user=u", normalizeDSN("host=h user=u"))
}

func TestParseFlag(t *testing.T) {
	for _, v := range []string{"1", "true", "TRUE", "yes", "on", " On "} {
		assert.True(t, parseFlag(v), v)
	}
	for _, v := range []string{"", "0", "false", "no", "off", "enabled"} {
		assert.False(t, parseFlag(v), v)
	}
}

func TestPostgresConfig_ConnectionFromURL(t *testing.T) {
	pg := &PostgresConfig{URL: "postgresql://shop:s3cret@db:6543/catalog?sslmode=require&application_name=catalog-api"}
	pg.MaxOpenConns = 7

	conn, err := pg.Connection()
	require.NoError(t, err)
	assert.Equal(t, "db", conn.Master.Host)
	assert.Equal(t, "6543", conn.Master.Port)
	assert.Equal(t, "shop", conn.Master.UserName)
	assert.Equal(t, "s3cret", conn.Master.Password)
	assert.Equal(t, "catalog", conn.Database)
	assert.Equal(t, "require", conn.SSLMode)
	assert.Equal(t, "catalog-api", conn.ApplicationName)
	assert.Equal(t, 7, conn.MaxOpenConns)

	// the stored settings are left untouched
	assert.Empty(t, pg.Master.Host)
}

func TestPostgresConfig_ConnectionDefaultsPort(t *testing.T) {
	conn, err := (&PostgresConfig{URL: "postgres://u@db/orders"}).Connection()
	require.NoError(t, err)
	assert.Equal(t, defaultPostgresPort, conn.Master.Port)
	assert.Empty(t, conn.Master.Password)
}

func TestPostgresConfig_ConnectionRejectsForeignScheme(t *testing.T) {
	_, err := (&PostgresConfig{URL: "mysql://u@db/orders"}).Connection()
	assert.Error(t, err)
}

func TestPostgresConfig_Configured(t *testing.T) {
	var missing *PostgresConfig
	assert.False(t, missing.Configured())
	assert.False(t, (&PostgresConfig{}).Configured())
	assert.True(t, (&PostgresConfig{URL: "postgres://db/x"}).Configured())

	structured := &PostgresConfig{}
	structured.Master.Host = "db"
	assert.True(t, structured.Configured())
}

func TestApplyEnvAliases_Replicas(t *testing.T) {
	cfg := &Config{}
	err := applyEnvAliases(cfg, lookupFrom(map[string]string{
		"DB_URL":                       "postgres://u@primary/catalog",
		"POSTGRES_REPLICAS_0_HOST":     "replica-a",
		"POSTGRES_REPLICAS_0_PORT":     "5432",
		"POSTGRES_REPLICAS_0_USERNAME": "ro",
		"POSTGRES_REPLICAS_1_HOST":     "replica-b",
		"POSTGRES_REPLICAS_1_PORT":     "5433",
		"POSTGRES_REPLICAS_3_HOST":     "skipped",
		"POSTGRES_REPLICAS_3_PORT":     "5434",
	}))
	require.NoError(t, err)

	require.NotNil(t, cfg.Postgres)
	require.Len(t, cfg.Postgres.Replicas, 2)
	assert.Equal(t, "replica-a", cfg.Postgres.Replicas[0].Host)
	assert.Equal(t, "ro", cfg.Postgres.Replicas[0].UserName)
	assert.Equal(t, "5433", cfg.Postgres.Replicas[1].Port)
}
