package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

type Env string

const (
	EnvDev  Env = "dev"
	EnvProd Env = "prod"
)

type Backend string

const (
	BackendStd Backend = "std" // текстовый вывод для dev
	BackendZap Backend = "zap" // JSON через slog-zap для prod
)

type Config struct {
	Service    string
	Version    string
	InstanceID string

	Level   slog.Level
	Env     Env
	Backend Backend // default: zap для prod, std для dev
	Debug   bool

	AddSource bool
}

var def *slog.Logger

// Init настраивает глобальный slog под окружение.
func Init(cfg Config) {
	if cfg.Env == "" {
		cfg.Env = DetectEnv()
	}
	if cfg.Service == "" {
		cfg.Service = "realtime"
	}
	if cfg.InstanceID == "" {
		hn, _ := os.Hostname()
		cfg.InstanceID = hn + "-" + uuid.New().String()[:8]
	}
	if cfg.Backend == "" {
		if cfg.Env == EnvProd {
			cfg.Backend = BackendZap
		} else {
			cfg.Backend = BackendStd
		}
	}

	var h slog.Handler
	switch cfg.Backend {
	case BackendZap:
		h = newZapHandler(cfg)
	default:
		h = newStdHandler(cfg)
	}

	h = h.WithAttrs([]slog.Attr{
		slog.String("service", cfg.Service),
		slog.String("env", string(cfg.Env)),
		slog.String("version", cfg.Version),
		slog.String("instance_id", cfg.InstanceID),
	})

	base := slog.New(h)
	slog.SetDefault(base)
	def = base
}

func L() *slog.Logger {
	if def != nil {
		return def
	}
	Init(Config{})
	return def
}

func DetectEnv() Env {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv("APP_ENV")))
	switch raw {
	case "prod", "production":
		return EnvProd
	default:
		return EnvDev
	}
}
