package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/tabsettings"
	"github.com/unkn0wn-root/tabsettings/codec"
	asynchook "github.com/unkn0wn-root/tabsettings/hooks/async"
	pr "github.com/unkn0wn-root/tabsettings/provider"
	"github.com/unkn0wn-root/tabsettings/provider/bigcache"
	redisprov "github.com/unkn0wn-root/tabsettings/provider/redis"
	"github.com/unkn0wn-root/tabsettings/provider/ristretto"
	"github.com/unkn0wn-root/tabsettings/provider/sqlite"
	"github.com/unkn0wn-root/tabsettings/sloghooks"
	"github.com/unkn0wn-root/tabsettings/storage"
)

// peers on a shared Redis are not trusted to send small values
const maxSharedValue = 64 << 10

const writeTimeout = 5 * time.Second

type app struct {
	settings tabsettings.Settings
	backend  *storage.Storage
	log      tabsettings.Logger

	closers []func(context.Context) error
}

// openApp wires the store for one command run and initializes it.
func openApp(ctx context.Context, c config, logOut io.Writer) (a *app, err error) {
	a = &app{}
	defer func() {
		if err != nil {
			_ = a.close(context.Background())
		}
	}()

	logger, syncLog, err := c.newLogger(logOut)
	if err != nil {
		return nil, err
	}
	a.log = logger
	a.closers = append(a.closers, func(context.Context) error { syncLog(); return nil })

	valueCodec, err := c.valueCodec()
	if err != nil {
		return nil, err
	}

	var durable *sqlite.Provider
	openDurable := func() (*sqlite.Provider, error) {
		if durable != nil {
			return durable, nil
		}
		p, err := sqlite.Open(c.db)
		if err != nil {
			return nil, err
		}
		durable = p
		return p, nil
	}

	local, err := c.localProvider(openDurable)
	if err != nil {
		return nil, err
	}

	opts := storage.Options{
		Namespace: c.namespace,
		Local:     local,
		Codec:     valueCodec,
		OnCorrupt: func(key, reason string) {
			logger.Warn("dropped corrupt entry", tabsettings.Fields{"key": key, "reason": reason})
		},
	}

	if c.redis != "" {
		rdb := goredis.NewClient(&goredis.Options{Addr: c.redis})
		a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })

		shared, err := redisprov.New(redisprov.Config{Client: rdb})
		if err != nil {
			return nil, err
		}
		sharedCodec := codec.Limit[any]{Inner: valueCodec, MaxDecode: maxSharedValue}
		feed, err := storage.NewRedisFeed(ctx, storage.RedisFeedConfig{
			Client:    rdb,
			Namespace: c.namespace,
			Codec:     sharedCodec,
			OnError: func(err error) {
				logger.Warn("bad change message", tabsettings.Fields{"err": err})
			},
		})
		if err != nil {
			_ = local.Close(ctx)
			return nil, err
		}
		opts.Shared = shared
		opts.SharedCodec = sharedCodec
		opts.Feed = feed
	} else {
		// keys carry their area, so one file can hold both tiers
		shared, err := openDurable()
		if err != nil {
			_ = local.Close(ctx)
			return nil, err
		}
		opts.Shared = shared
	}

	backend, err := storage.New(opts)
	if err != nil {
		return nil, err
	}
	a.backend = backend
	// runs before the redis client closer above
	a.closers = append(a.closers, backend.Close)

	hooks := asynchook.New(sloghooks.New(c.newSlog(logOut), sloghooks.Options{IgnoredEvery: 10}), 1, 256)
	a.closers = append(a.closers, func(context.Context) error { hooks.Close(); return nil })

	tabs := logTabs{log: logger}
	settings, err := tabsettings.New(tabsettings.Options{
		Backend:      backend,
		Scheduler:    tabs,
		Indicator:    tabs,
		Logger:       logger,
		Hooks:        hooks,
		WriteTimeout: writeTimeout,
	})
	if err != nil {
		return nil, err
	}
	a.settings = settings
	a.closers = append(a.closers, settings.Close)

	if err := settings.Init(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

func (c config) localProvider(openDurable func() (*sqlite.Provider, error)) (pr.Provider, error) {
	switch c.local {
	case "sqlite":
		return openDurable()
	case "bigcache":
		return bigcache.New(bigcache.Config{})
	case "ristretto":
		return ristretto.New(ristretto.Config{})
	default:
		return nil, fmt.Errorf("unknown local tier %q", c.local)
	}
}

// close drains pending writes, then releases everything in reverse order.
func (a *app) close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i](ctx))
	}
	a.closers = nil
	return errors.Join(errs...)
}
