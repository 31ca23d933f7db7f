package config

import (
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("polylayer-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Telemetry.ServiceName != "polylayer-test" {
		t.Errorf("expected service name polylayer-test, got %s", cfg.Telemetry.ServiceName)
	}
	if cfg.Database.DSN() != "postgres://polylayer:@localhost:5432/polylayer?sslmode=disable" {
		t.Errorf("unexpected DSN %s", cfg.Database.DSN())
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("POLYLAYER_SERVER_PORT", "9090")
	t.Setenv("POLYLAYER_LOG_FORMAT", "text")

	cfg, err := Load("polylayer-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("expected text log format, got %s", cfg.Log.Format)
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := &Config{Log: LogConfig{Format: "xml"}}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"server.port", "database.host", "database.max_conns", "nats.url", "valkey.addr", "log.format"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected error to mention %s: %v", want, err)
		}
	}
}
