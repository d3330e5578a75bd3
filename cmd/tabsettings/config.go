package main

import (
	"fmt"
	"io"
	stdslog "log/slog"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/unkn0wn-root/tabsettings"
	"github.com/unkn0wn-root/tabsettings/codec"
	logruslog "github.com/unkn0wn-root/tabsettings/log/logrus"
	slogadapter "github.com/unkn0wn-root/tabsettings/log/slog"
	zaplog "github.com/unkn0wn-root/tabsettings/log/zap"
)

// config holds the persistent flags. Each flag falls back to a
// TABSETTINGS_* environment variable.
type config struct {
	db        string
	redis     string
	namespace string
	codec     string
	local     string
	logger    string
	debug     bool
}

var cfg config

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&cfg.db, "db", envOr("TABSETTINGS_DB", "tabsettings.db"), "SQLite file for durable tiers")
	f.StringVar(&cfg.redis, "redis", envOr("TABSETTINGS_REDIS", ""), "Redis address for the shared tier (empty: SQLite)")
	f.StringVar(&cfg.namespace, "namespace", envOr("TABSETTINGS_NAMESPACE", "default"), "settings namespace")
	f.StringVar(&cfg.codec, "codec", envOr("TABSETTINGS_CODEC", "json"), "value codec: json|cbor|msgpack|proto")
	f.StringVar(&cfg.local, "local", envOr("TABSETTINGS_LOCAL", "sqlite"), "local tier: sqlite|bigcache|ristretto")
	f.StringVar(&cfg.logger, "logger", envOr("TABSETTINGS_LOGGER", "zap"), "log backend: zap|logrus|slog")
	f.BoolVar(&cfg.debug, "debug", envBool("TABSETTINGS_DEBUG"), "log at debug level")
}

func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func envBool(key string) bool {
	b, _ := strconv.ParseBool(os.Getenv(key))
	return b
}

func (c config) valueCodec() (codec.Codec[any], error) {
	switch c.codec {
	case "json":
		return codec.JSON[any]{}, nil
	case "cbor":
		return codec.NewCBOR[any](true)
	case "msgpack":
		return codec.Msgpack[any]{}, nil
	case "proto":
		return codec.NewStructPB(), nil
	default:
		return nil, fmt.Errorf("unknown codec %q", c.codec)
	}
}

// newLogger builds the store logger on w. The returned func flushes it.
func (c config) newLogger(w io.Writer) (tabsettings.Logger, func(), error) {
	switch c.logger {
	case "zap":
		level := zap.InfoLevel
		if c.debug {
			level = zap.DebugLevel
		}
		zc := zap.NewProductionEncoderConfig()
		zc.TimeKey = ""
		l := zap.New(zapcore.NewCore(zapcore.NewConsoleEncoder(zc), zapcore.AddSync(w), level))
		return zaplog.ZapLogger{L: l}, func() { _ = l.Sync() }, nil
	case "logrus":
		l := logrus.New()
		l.SetOutput(w)
		l.SetLevel(logrus.InfoLevel)
		if c.debug {
			l.SetLevel(logrus.DebugLevel)
		}
		return logruslog.LogrusLogger{E: logrus.NewEntry(l)}, func() {}, nil
	case "slog":
		return slogadapter.Logger{L: c.newSlog(w)}, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown logger %q", c.logger)
	}
}

// newSlog is used for hook events regardless of --logger.
func (c config) newSlog(w io.Writer) *stdslog.Logger {
	level := stdslog.LevelInfo
	if c.debug {
		level = stdslog.LevelDebug
	}
	return stdslog.New(stdslog.NewTextHandler(w, &stdslog.HandlerOptions{Level: level}))
}
