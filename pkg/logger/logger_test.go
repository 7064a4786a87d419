package logger

import (
	"context"
	"testing"
)

func TestDetectEnv(t *testing.T) {
	t.Setenv("APP_ENV", "")
	if got := DetectEnv(); got != EnvDev {
		t.Fatalf("default should be dev, got %q", got)
	}

	t.Setenv("APP_ENV", "production")
	if got := DetectEnv(); got != EnvProd {
		t.Fatalf("expected prod, got %q", got)
	}
}

func TestInitPicksBackendByEnv(t *testing.T) {
	// не должен паниковать и обязан выставить глобальный логгер
	Init(Config{Env: EnvDev})
	if L() == nil {
		t.Fatalf("L() returned nil after Init")
	}

	Init(Config{Env: EnvProd, Service: "test"})
	if L() == nil {
		t.Fatalf("L() returned nil after prod Init")
	}
}

func TestAttrsFromCtxWithoutSpan(t *testing.T) {
	if attrs := AttrsFromCtx(context.Background()); attrs != nil {
		t.Fatalf("no span in ctx must give nil attrs, got %v", attrs)
	}
}
