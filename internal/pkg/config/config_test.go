package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("LoadWith returned error: %v", err)
	}
	if cfg.Port != "3001" || cfg.Env != EnvDevelopment || !cfg.IsDevelopment() {
		t.Fatalf("unexpected server defaults: %+v", cfg)
	}
	if cfg.Mongo.Database != "crud_app" || cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("unexpected store defaults: %+v %+v", cfg.Mongo, cfg.Redis)
	}
	if cfg.Session.TTL != 24*time.Hour || cfg.JWT.TTL != 24*time.Hour {
		t.Fatalf("unexpected ttl defaults: %v %v", cfg.Session.TTL, cfg.JWT.TTL)
	}
	if cfg.SMTP.Host != "smtp.gmail.com" || cfg.SMTP.Port != 587 || cfg.SMTP.Secure {
		t.Fatalf("unexpected smtp defaults: %+v", cfg.SMTP)
	}
	if cfg.BcryptCost != 10 || cfg.JWT.Secret != "" {
		t.Fatalf("unexpected auth defaults: cost=%d jwt=%q", cfg.BcryptCost, cfg.JWT.Secret)
	}
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"PORT":           "9000",
		"ENV":            "production",
		"MONGODB_URI":    "mongodb://mongo:27017",
		"SESSION_TTL":    "2h",
		"SMTP_SECURE":    "true",
		"SMTP_PORT":      "465",
		"ADMIN_EMAIL":    "root@example.com",
		"ADMIN_PASSWORD": "secret",
	}))
	if err != nil {
		t.Fatalf("LoadWith returned error: %v", err)
	}
	if cfg.Port != "9000" || cfg.IsDevelopment() {
		t.Fatalf("unexpected server config: %+v", cfg)
	}
	if cfg.Mongo.URI != "mongodb://mongo:27017" || cfg.Session.TTL != 2*time.Hour {
		t.Fatalf("overrides not applied: %+v %+v", cfg.Mongo, cfg.Session)
	}
	if !cfg.SMTP.Secure || cfg.SMTP.Port != 465 {
		t.Fatalf("smtp overrides not applied: %+v", cfg.SMTP)
	}
	if cfg.Admin.Email != "root@example.com" || cfg.Admin.Name != "Administrator" {
		t.Fatalf("unexpected admin config: %+v", cfg.Admin)
	}
}

func TestLoadWith_InvalidValue(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{"SMTP_PORT": "abc"}))
	if err == nil {
		t.Fatalf("expected error for non-numeric port")
	}
}
