// Package pos wires the cart and print engines to the configured store.
package pos

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/RahulVervebot/pims-sub002/config"
	"github.com/RahulVervebot/pims-sub002/engine"
	"github.com/RahulVervebot/pims-sub002/store"
	"github.com/RahulVervebot/pims-sub002/store/redis"
	"github.com/RahulVervebot/pims-sub002/store/sqlite"
)

// Collection names accepted by App.Engine.
const (
	Cart  = "cart"
	Print = "print"
)

// Option configures Open.
type Option func(*options)

type options struct {
	log     *zap.Logger
	diag    func(collection string, err error)
	backend store.Backend
}

// WithLogger sets the logger shared by the store and both engines.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithDiagnostics receives the non-fatal persistence errors of both engines.
func WithDiagnostics(fn func(collection string, err error)) Option {
	return func(o *options) {
		o.diag = fn
	}
}

// WithBackend overrides the backend selected by the config driver.
func WithBackend(b store.Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// App owns the two engines of a POS session and the store behind them.
type App struct {
	Cart  *engine.Engine
	Print *engine.Engine

	store *store.Store
	log   *zap.Logger
}

// Open builds the store from cfg, creates the cart and print engines and
// hydrates both concurrently.
func Open(ctx context.Context, cfg config.Config, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	backend := o.backend
	if backend == nil {
		var err error
		backend, err = OpenBackend(ctx, cfg, o.log)
		if err != nil {
			return nil, err
		}
	}
	codec, err := store.CodecByName(strings.ToLower(cfg.Codec))
	if err != nil {
		_ = backend.Close()
		return nil, err
	}
	st := store.New(backend, store.WithCodec(codec), store.WithLogger(o.log))

	app := &App{
		Cart:  engine.New(cfg.CartKey, st, engineOptions(o, Cart)...),
		Print: engine.New(cfg.PrintKey, st, engineOptions(o, Print)...),
		store: st,
		log:   o.log,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return app.Cart.Hydrate(gctx) })
	g.Go(func() error { return app.Print.Hydrate(gctx) })
	if err := g.Wait(); err != nil {
		_ = app.Close(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("hydrate: %w", err)
	}

	o.log.Info("pos session opened",
		zap.String("driver", strings.ToLower(cfg.StoreDriver)),
		zap.String("codec", codec.Name()),
		zap.Int("cart_items", app.Cart.Snapshot().Len()),
		zap.Int("print_items", app.Print.Snapshot().Len()),
	)
	return app, nil
}

func engineOptions(o options, name string) []engine.Option {
	opts := []engine.Option{engine.WithLogger(o.log)}
	if o.diag != nil {
		diag := o.diag
		opts = append(opts, engine.WithDiagnostics(func(err error) { diag(name, err) }))
	}
	return opts
}

// OpenBackend opens the backend named by cfg.StoreDriver.
func OpenBackend(ctx context.Context, cfg config.Config, log *zap.Logger) (store.Backend, error) {
	switch strings.ToLower(cfg.StoreDriver) {
	case config.DriverMemory:
		return store.NewMemoryBackend(), nil
	case config.DriverSQLite:
		b, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite backend: %w", err)
		}
		return b, nil
	case config.DriverRedis:
		b, err := redis.New(redis.Options{Addr: cfg.RedisAddr, Prefix: cfg.RedisPrefix, Logger: log})
		if err != nil {
			return nil, fmt.Errorf("open redis backend: %w", err)
		}
		if err := b.Initialize(ctx); err != nil {
			_ = b.Close()
			return nil, fmt.Errorf("open redis backend: %w", err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// Engine returns the engine for "cart" or "print".
func (a *App) Engine(name string) (*engine.Engine, error) {
	switch strings.ToLower(name) {
	case Cart:
		return a.Cart, nil
	case Print:
		return a.Print, nil
	default:
		return nil, fmt.Errorf("unknown collection %q (want %s or %s)", name, Cart, Print)
	}
}

// Flush waits until both engines have persisted every change made so far.
func (a *App) Flush(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.Cart.Flush(gctx) })
	g.Go(func() error { return a.Print.Flush(gctx) })
	return g.Wait()
}

// Close flushes and stops both engines, then closes the store.
func (a *App) Close(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return a.Cart.Close(ctx) })
	g.Go(func() error { return a.Print.Close(ctx) })
	closeErr := g.Wait()
	if closeErr != nil {
		a.log.Warn("engines did not drain before close", zap.Error(closeErr))
	}
	return errors.Join(closeErr, a.store.Close())
}
