package config

import (
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/slighter12/go-lib/database/postgres"
)

const (
	defaultPath               = "."
	defaultMaxRequestBodySize = "100KB"
	defaultLogLevel           = "info"

	defaultCacheTTL       = 30 * time.Second
	defaultSearchCacheTTL = 15 * time.Second
	defaultCacheTimeout   = 250 * time.Millisecond
	defaultStoreTimeout   = 5 * time.Second
	defaultSearchTimeout  = 2 * time.Second
	defaultPublishTimeout = 5 * time.Second
	defaultRetryDelay     = 5 * time.Second
	defaultEventQueueSize = 256
	defaultEventWorkers   = 2
	defaultSearchURL      = "http://localhost:9200"
	defaultSearchIndex    = "products"
	defaultKafkaBootstrap = "localhost:9092"
	defaultTopicProduct   = "events.catalog.product-updated"
	defaultTopicOrder     = "events.orders.order-created"
	defaultIndexerMetrics = 9104
	defaultPostgresPort   = "5432"
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port               int    `json:"port" yaml:"port"`
		MaxRequestBodySize string `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`
		Timeouts           struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	// Postgres is optional; without a URL the services run on the in-memory store.
	Postgres *PostgresConfig `json:"postgres" yaml:"postgres"`

	// Redis is optional; without a URL every cache lookup is a miss.
	Redis *RedisConfig `json:"redis" yaml:"redis"`

	Cache CacheConfig `json:"cache" yaml:"cache"`

	Search SearchConfig `json:"search" yaml:"search"`

	// PubSub configuration for event publishing and consumption
	PubSub PubSubConfig `json:"pubsub" yaml:"pubsub"`

	Events EventsConfig `json:"events" yaml:"events"`

	Indexer IndexerConfig `json:"indexer" yaml:"indexer"`

	Tracing TracingConfig `json:"tracing" yaml:"tracing"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// PostgresConfig defines the relational store connection. The primary comes
// either from URL or from the structured master settings.
type PostgresConfig struct {
	postgres.DBConn `mapstructure:",squash"`

	// URL is a postgres:// connection string. SQLAlchemy style schemes
	// (postgresql+asyncpg://) are accepted and normalized.
	URL string `json:"url" yaml:"url"`

	// Timeout bounds each transaction and the initial connect.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// AutoMigrate creates the schema on startup.
	AutoMigrate bool `json:"autoMigrate" yaml:"autoMigrate"`
}

// Configured reports whether a primary was given.
func (p *PostgresConfig) Configured() bool {
	return p != nil && (p.URL != "" || p.Master.Host != "")
}

// Connection resolves URL onto a copy of the structured settings.
func (p *PostgresConfig) Connection() (*postgres.DBConn, error) {
	conn := p.DBConn
	if p.URL == "" {
		return &conn, nil
	}

	u, err := url.Parse(p.URL)
	if err != nil {
		return nil, errors.Wrap(err, "parse postgres url")
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return nil, errors.Errorf("unsupported postgres url scheme %q", u.Scheme)
	}

	conn.Master = postgres.ConnectionConfig{
		Host:     u.Hostname(),
		Port:     u.Port(),
		UserName: u.User.Username(),
	}
	if conn.Master.Port == "" {
		conn.Master.Port = defaultPostgresPort
	}
	if password, ok := u.User.Password(); ok {
		conn.Master.Password = password
	}
	if db := strings.TrimPrefix(u.Path, "/"); db != "" {
		conn.Database = db
	}

	query := u.Query()
	if v := query.Get("sslmode"); v != "" {
		conn.SSLMode = v
	}
	if v := query.Get("search_path"); v != "" {
		conn.SearchPath = v
	}
	if v := query.Get("application_name"); v != "" {
		conn.ApplicationName = v
	}

	return &conn, nil
}

// RedisConfig defines the cache connection
type RedisConfig struct {
	URL     string        `json:"url" yaml:"url"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// CacheConfig defines entry lifetimes
type CacheConfig struct {
	TTL       time.Duration `json:"ttl" yaml:"ttl"`
	SearchTTL time.Duration `json:"searchTtl" yaml:"searchTtl"`
}

// SearchConfig defines the OpenSearch endpoint
type SearchConfig struct {
	URL     string        `json:"url" yaml:"url"`
	Index   string        `json:"index" yaml:"index"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// PubSubConfig defines the message bus
type PubSubConfig struct {
	// Provider type: "kafka", "google", "local" or "log"
	Provider string `json:"provider" yaml:"provider"`

	// Kafka bootstrap addresses, comma separated
	Bootstrap string `json:"bootstrap" yaml:"bootstrap"`

	// Consumer group used by the indexer
	GroupID string `json:"groupId" yaml:"groupId"`

	// Google Cloud project ID (for google provider)
	ProjectID string `json:"projectId" yaml:"projectId"`

	// Local HTTP endpoint for development (for local provider)
	LocalEndpoint string `json:"localEndpoint" yaml:"localEndpoint"`

	Topics TopicsConfig `json:"topics" yaml:"topics"`
}

// TopicsConfig names the topics each event goes to
type TopicsConfig struct {
	ProductUpdated string `json:"productUpdated" yaml:"productUpdated"`
	OrderCreated   string `json:"orderCreated" yaml:"orderCreated"`
}

// EventsConfig tunes the background emitter
type EventsConfig struct {
	QueueSize      int           `json:"queueSize" yaml:"queueSize"`
	Workers        int           `json:"workers" yaml:"workers"`
	PublishTimeout time.Duration `json:"publishTimeout" yaml:"publishTimeout"`
	ValidateSchema bool          `json:"validateSchema" yaml:"validateSchema"`
}

// IndexerConfig tunes the consumer loop
type IndexerConfig struct {
	RetryDelay  time.Duration `json:"retryDelay" yaml:"retryDelay"`
	MetricsPort int           `json:"metricsPort" yaml:"metricsPort"`
}

// TracingConfig enables OTLP span export when Endpoint is set
type TracingConfig struct {
	Endpoint string `json:"endpoint" yaml:"endpoint"`
}

// Option adjusts defaults for a specific binary.
type Option func(*Config)

// WithService sets the service name and HTTP port used when none is configured.
func WithService(name string, port int) Option {
	return func(cfg *Config) {
		if cfg.Env.ServiceName == "" {
			cfg.Env.ServiceName = name
		}
		if cfg.HTTP.Port == 0 {
			cfg.HTTP.Port = port
		}
	}
}

// BusEnabled reports whether a real message bus was selected.
func (c *Config) BusEnabled() bool {
	return c.PubSub.Provider != "" && c.PubSub.Provider != "log"
}

// KafkaBrokers splits the bootstrap list.
func (c *Config) KafkaBrokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.PubSub.Bootstrap, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}

	return brokers
}

// LoadWithEnv loads .yaml files through koanf. A missing file is not an error:
// the services are configurable from the environment alone.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			abs := filepath.Join(pwd, path)
			searchPaths = append(searchPaths, abs)
		}
	}

	var configFile string
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate

			break
		}
	}

	if configFile != "" {
		if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "read %s config failed", currEnv)
		}
	}

	existingConfigMap := koanfInstance.Raw()

	// Load environment variables
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Convert ENV_VAR_NAME to path and align each segment with existing YAML keys.
			// Example: POSTGRES_AUTOMIGRATE -> postgres.autoMigrate
			key := canonicalizeEnvKey(k, existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			MatchName: func(mapKey, fieldName string) bool {
				// Case-insensitive matching for env var overrides
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

// New loads config.yaml (if any), the environment and the flat variable names
// used by the deployment manifests, then fills defaults.
func New(opts ...Option) (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	if err := applyEnvAliases(cfg, os.LookupEnv); err != nil {
		return nil, err
	}

	for _, opt := range opts {
		opt(cfg)
	}

	applyDefaults(cfg)

	return cfg, nil
}

// applyEnvAliases maps the flat variables (DB_URL, ENABLE_KAFKA, ...) onto the
// structured config. They win over config.yaml.
func applyEnvAliases(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup("SERVICE_NAME"); ok && v != "" {
		cfg.Env.ServiceName = v
	}

	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "invalid PORT %q", v)
		}
		cfg.HTTP.Port = port
	}

	if v, ok := lookup("DB_URL"); ok && v != "" {
		if cfg.Postgres == nil {
			cfg.Postgres = &PostgresConfig{AutoMigrate: true}
		}
		cfg.Postgres.URL = v
	}

	// Build replicas from environment variables (POSTGRES_REPLICAS_0_HOST, POSTGRES_REPLICAS_0_PORT, etc.)
	if cfg.Postgres != nil {
		cfg.Postgres.Replicas = buildReplicasFromEnv(lookup)
	}

	if v, ok := lookup("REDIS_URL"); ok && v != "" {
		if cfg.Redis == nil {
			cfg.Redis = &RedisConfig{}
		}
		cfg.Redis.URL = v
	}

	if v, ok := lookup("OPENSEARCH_URL"); ok && v != "" {
		cfg.Search.URL = v
	}

	if v, ok := lookup("KAFKA_BOOTSTRAP"); ok && v != "" {
		cfg.PubSub.Bootstrap = v
	}

	if v, ok := lookup("KAFKA_GROUP_ID"); ok && v != "" {
		cfg.PubSub.GroupID = v
	}

	if v, ok := lookup("ENABLE_KAFKA"); ok && parseFlag(v) && cfg.PubSub.Provider == "" {
		cfg.PubSub.Provider = "kafka"
	}

	if v, ok := lookup("DISABLE_KAFKA"); ok && parseFlag(v) {
		cfg.PubSub.Provider = "log"
	}

	if v, ok := lookup("TOPIC_PRODUCT_UPDATED"); ok && v != "" {
		cfg.PubSub.Topics.ProductUpdated = v
	}

	if v, ok := lookup("TOPIC_ORDER_CREATED"); ok && v != "" {
		cfg.PubSub.Topics.OrderCreated = v
	}

	if v, ok := lookup("CACHE_TTL_SECONDS"); ok && v != "" {
		ttl, err := parseSeconds(v)
		if err != nil {
			return errors.Wrap(err, "invalid CACHE_TTL_SECONDS")
		}
		cfg.Cache.TTL = ttl
	}

	if v, ok := lookup("SEARCH_CACHE_TTL_SECONDS"); ok && v != "" {
		ttl, err := parseSeconds(v)
		if err != nil {
			return errors.Wrap(err, "invalid SEARCH_CACHE_TTL_SECONDS")
		}
		cfg.Cache.SearchTTL = ttl
	}

	if v, ok := lookup("OTEL_EXPORTER_OTLP_ENDPOINT"); ok && v != "" {
		cfg.Tracing.Endpoint = v
	}

	if v, ok := lookup("VALIDATE_AVRO"); ok {
		cfg.Events.ValidateSchema = parseFlag(v)
	}

	if v, ok := lookup("METRICS_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "invalid METRICS_PORT %q", v)
		}
		cfg.Indexer.MetricsPort = port
	}

	return nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.HTTP.MaxRequestBodySize) == "" {
		cfg.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}
	if cfg.Env.Log.Level == "" {
		cfg.Env.Log.Level = defaultLogLevel
	}

	if cfg.Postgres != nil {
		cfg.Postgres.URL = normalizeDSN(cfg.Postgres.URL)
		if cfg.Postgres.Timeout <= 0 {
			cfg.Postgres.Timeout = defaultStoreTimeout
		}
	}
	if cfg.Redis != nil && cfg.Redis.Timeout <= 0 {
		cfg.Redis.Timeout = defaultCacheTimeout
	}

	if cfg.Cache.TTL <= 0 {
		cfg.Cache.TTL = defaultCacheTTL
	}
	if cfg.Cache.SearchTTL <= 0 {
		cfg.Cache.SearchTTL = defaultSearchCacheTTL
	}

	if cfg.Search.URL == "" {
		cfg.Search.URL = defaultSearchURL
	}
	if cfg.Search.Index == "" {
		cfg.Search.Index = defaultSearchIndex
	}
	if cfg.Search.Timeout <= 0 {
		cfg.Search.Timeout = defaultSearchTimeout
	}

	if cfg.PubSub.Bootstrap == "" {
		cfg.PubSub.Bootstrap = defaultKafkaBootstrap
	}
	if cfg.PubSub.GroupID == "" {
		cfg.PubSub.GroupID = cfg.Env.ServiceName
	}
	if cfg.PubSub.Topics.ProductUpdated == "" {
		cfg.PubSub.Topics.ProductUpdated = defaultTopicProduct
	}
	if cfg.PubSub.Topics.OrderCreated == "" {
		cfg.PubSub.Topics.OrderCreated = defaultTopicOrder
	}

	if cfg.Events.QueueSize <= 0 {
		cfg.Events.QueueSize = defaultEventQueueSize
	}
	if cfg.Events.Workers <= 0 {
		cfg.Events.Workers = defaultEventWorkers
	}
	if cfg.Events.PublishTimeout <= 0 {
		cfg.Events.PublishTimeout = defaultPublishTimeout
	}

	if cfg.Indexer.RetryDelay <= 0 {
		cfg.Indexer.RetryDelay = defaultRetryDelay
	}
	if cfg.Indexer.MetricsPort == 0 {
		cfg.Indexer.MetricsPort = defaultIndexerMetrics
	}
}

// parseFlag accepts the usual truthy spellings.
func parseFlag(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func parseSeconds(v string) (time.Duration, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, errors.WithStack(err)
	}

	return time.Duration(n) * time.Second, nil
}

// buildReplicasFromEnv builds the read replicas from POSTGRES_REPLICAS_{index}_{field}.
// Indexes must be contiguous; the first incomplete entry ends the list.
func buildReplicasFromEnv(lookup func(string) (string, bool)) []postgres.ConnectionConfig {
	get := func(key string) string {
		v, _ := lookup(key)

		return v
	}

	var replicas []postgres.ConnectionConfig
	for i := 0; ; i++ {
		prefix := "POSTGRES_REPLICAS_" + strconv.Itoa(i) + "_"

		host := get(prefix + "HOST")
		port := get(prefix + "PORT")
		if host == "" || port == "" {
			break
		}

		replicas = append(replicas, postgres.ConnectionConfig{
			Host:     host,
			Port:     port,
			UserName: get(prefix + "USERNAME"),
			Password: get(prefix + "PASSWORD"),
		})
	}

	return replicas
}

// normalizeDSN strips a "+driver" suffix from the URL scheme so that
// postgresql+asyncpg://... works with pgx.
func normalizeDSN(dsn string) string {
	scheme, rest, ok := strings.Cut(dsn, "://")
	if !ok {
		return dsn
	}
	if base, _, hasDriver := strings.Cut(scheme, "+"); hasDriver {
		return base + "://" + rest
	}

	return dsn
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}
