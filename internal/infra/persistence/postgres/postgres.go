package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"maps"
	"strconv"
	"sync"
	"time"

	"storefront/config"
	"storefront/internal/domain/lifecycle"
	"storefront/internal/errors"
	"storefront/internal/infra/persistence/model"

	pgLib "github.com/slighter12/go-lib/database/postgres"
	"go.uber.org/fx"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

const (
	dbPoolMonitorInterval       = 5 * time.Second
	dbPoolWarnDurationThreshold = 50 * time.Millisecond
	healthcheckTimeout          = 2 * time.Second
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// Gateway owns the connection to the relational store. It is opened on
// start; when no URL is configured or the connection fails it stays
// not ready and callers fall back to the in-memory store.
type Gateway struct {
	logger *slog.Logger
	cfg    *config.Config

	mu            sync.RWMutex
	db            *gorm.DB
	sqlDB         *sql.DB
	cancelMonitor context.CancelFunc
}

// New creates the gateway and binds it to the fx lifecycle.
func New(params Params) *Gateway {
	gw := &Gateway{
		logger: params.Logger,
		cfg:    params.Config,
	}

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			if !gw.Configured() {
				gw.logger.Info("Postgres not configured, using in-memory store")

				return nil
			}

			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := gw.Open(ctx); err != nil {
				gw.logger.Warn("Postgres unavailable, using in-memory store", slog.Any("error", err))

				return nil
			}

			if gw.cfg.Postgres.AutoMigrate {
				if err := gw.CreateSchema(ctx); err != nil {
					gw.logger.Warn("Schema creation failed", slog.Any("error", err))
				}
			}

			return nil
		},
		OnStop: func(_ context.Context) error {
			return gw.Close()
		},
	})

	return gw
}

// Configured reports whether a primary was provided.
func (gw *Gateway) Configured() bool {
	return gw.cfg != nil && gw.cfg.Postgres.Configured()
}

// Open connects to the configured primary and its read replicas.
func (gw *Gateway) Open(ctx context.Context) error {
	pg := gw.cfg.Postgres

	conn, err := pg.Connection()
	if err != nil {
		return errors.Wrap(err, "invalid PostgreSQL settings")
	}
	if pg.Timeout > 0 {
		conn.RuntimeParams = withConnectTimeout(conn.RuntimeParams, pg.Timeout)
	}

	db, err := pgLib.New(conn)
	if err != nil {
		return errors.Wrap(err, "failed to create PostgreSQL client")
	}

	return gw.attach(ctx, db)
}

func (gw *Gateway) attach(ctx context.Context, db *gorm.DB) error {
	db.TranslateError = true
	db = db.Session(&gorm.Session{
		// Disable GORM's per-statement implicit transaction.
		// We keep explicit transactions via txManager.Execute for multi-step atomic operations.
		SkipDefaultTransaction: true,
		Logger:                 newGormSlogLogger(gw.logger, gw.cfg),
	})

	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get PostgreSQL sql.DB")
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()

		return errors.Wrap(err, "failed to ping PostgreSQL")
	}

	monitorCtx, cancelMonitor := context.WithCancel(context.Background())
	go monitorDBPool(monitorCtx, gw.logger, sqlDB, dbPoolMonitorInterval)

	gw.mu.Lock()
	gw.db = db
	gw.sqlDB = sqlDB
	gw.cancelMonitor = cancelMonitor
	gw.mu.Unlock()

	return nil
}

func withConnectTimeout(params map[string]string, timeout time.Duration) map[string]string {
	merged := make(map[string]string, len(params)+1)
	maps.Copy(merged, params)
	if _, ok := merged["connect_timeout"]; !ok {
		merged["connect_timeout"] = strconv.Itoa(max(1, int(timeout.Seconds())))
	}

	return merged
}

// Ready reports whether the engine is open.
func (gw *Gateway) Ready() bool {
	gw.mu.RLock()
	defer gw.mu.RUnlock()

	return gw.db != nil
}

// DB returns the engine, or nil when not ready.
func (gw *Gateway) DB() *gorm.DB {
	gw.mu.RLock()
	defer gw.mu.RUnlock()

	return gw.db
}

// Healthcheck runs SELECT 1 on the primary and reports false on any fault.
func (gw *Gateway) Healthcheck(ctx context.Context) bool {
	db := gw.DB()
	if db == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, healthcheckTimeout)
	defer cancel()

	var one int
	if err := db.WithContext(ctx).Clauses(dbresolver.Write).Raw("SELECT 1").Scan(&one).Error; err != nil {
		gw.logger.DebugContext(ctx, "Postgres healthcheck failed", slog.Any("error", err))

		return false
	}

	return one == 1
}

// CreateSchema creates or updates the tables of every persistence model.
func (gw *Gateway) CreateSchema(ctx context.Context) error {
	db := gw.DB()
	if db == nil {
		return errors.New("postgres gateway is not ready")
	}

	if err := db.WithContext(ctx).AutoMigrate(model.All()...); err != nil {
		return errors.Wrap(err, "auto migrate")
	}

	return nil
}

// Close stops the pool monitor and closes the connection.
func (gw *Gateway) Close() error {
	gw.mu.Lock()
	defer gw.mu.Unlock()

	if gw.cancelMonitor != nil {
		gw.cancelMonitor()
	}
	if gw.sqlDB == nil {
		return nil
	}

	err := gw.sqlDB.Close()
	gw.db = nil
	gw.sqlDB = nil

	return errors.WithStack(err)
}

func monitorDBPool(ctx context.Context, logger *slog.Logger, sqlDB *sql.DB, interval time.Duration) {
	if logger == nil || sqlDB == nil {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	prev := sqlDB.Stats()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cur := sqlDB.Stats()
			waitDelta := cur.WaitCount - prev.WaitCount
			waitDurationDelta := cur.WaitDuration - prev.WaitDuration

			if waitDelta > 0 {
				attrs := []slog.Attr{
					slog.Int64("waitCountDelta", waitDelta),
					slog.Duration("waitDurationDelta", waitDurationDelta),
					slog.Duration("avgWait", waitDurationDelta/time.Duration(waitDelta)),
					slog.Int("maxOpenConns", cur.MaxOpenConnections),
					slog.Int("openConns", cur.OpenConnections),
					slog.Int("inUseConns", cur.InUse),
					slog.Int("idleConns", cur.Idle),
				}
				if waitDurationDelta >= dbPoolWarnDurationThreshold {
					logger.LogAttrs(ctx, slog.LevelWarn, "Postgres pool wait detected", attrs...)
				} else {
					logger.LogAttrs(ctx, slog.LevelDebug, "Postgres pool wait observed", attrs...)
				}
			}

			prev = cur
		}
	}
}
