package conduit

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// App owns the HTTP server and its collaborators: the bun database, the
// token service, the auth resolver, and the controller. Build it with
// NewApp, run it with Listen.
type App struct {
	cfg    Config
	db     *bun.DB
	router *fiber.App
	logger Logger
}

// NewApp wires the application from configuration: opens the database,
// bootstraps the schema, and registers the route table.
func NewApp(ctx context.Context, cfg Config, logger Logger) (*App, error) {
	if logger == nil {
		logger = defLogger{}
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.GetDatabaseDSN())
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to open database")
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	if err := bootstrapSchema(ctx, db); err != nil {
		return nil, err
	}

	tokens := NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetTokenExpiration(),
		cfg.GetIssuer(),
		cfg.GetAudience(),
		logger,
	)

	users := NewUsersRepository(db)
	followers := NewFollowersRepository(db)

	resolver := NewAuthResolver(tokens, users).WithLogger(logger)
	controller := NewController(users, followers, tokens).WithLogger(logger)

	router := fiber.New(fiber.Config{
		AppName:               "conduit",
		DisableStartupMessage: true,
	})

	controller.RegisterRoutes(router, resolver)

	return &App{
		cfg:    cfg,
		db:     db,
		router: router,
		logger: logger,
	}, nil
}

// Router exposes the fiber app, mainly for tests driving requests through
// it without a listener.
func (a *App) Router() *fiber.App {
	return a.router
}

// DB exposes the bun handle for schema tooling and tests.
func (a *App) DB() *bun.DB {
	return a.db
}

// Listen serves until the context is canceled, then drains in-flight
// requests and closes the database.
func (a *App) Listen(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		errCh <- a.router.Listen(a.cfg.GetListenAddr())
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		a.logger.Info("shutting down", "addr", a.cfg.GetListenAddr())
		if err := a.router.ShutdownWithTimeout(10 * time.Second); err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "server shutdown failed")
		}
		return a.db.Close()
	}
}

// Close releases resources without serving. Listen closes them itself.
func (a *App) Close() error {
	return a.db.Close()
}

// bootstrapSchema creates the tables when they do not exist yet. The
// schema is small enough that a migration tool would outweigh it.
func bootstrapSchema(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*User)(nil),
		(*Follow)(nil),
	}

	for _, model := range models {
		_, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "failed to bootstrap schema")
		}
	}

	return nil
}
