package bootstrap

import (
	"context"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/dalemusser/scholarhub/internal/app/system/mailer"
	"github.com/dalemusser/scholarhub/internal/app/system/ratelimit"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func validConfig() AppConfig {
	return AppConfig{
		MongoURI:          "mongodb://localhost:27017",
		MongoDatabase:     "scholarhub_test",
		InstitutionDomain: "minsu.edu.ph",
		AdminEmail:        "admin@minsu.edu.ph",
		MailProvider:      mailLog,
		MailFrom:          "noreply@minsu.edu.ph",
		TrackRateLimit:    30,
	}
}

func TestValidateApp(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr string
	}{
		{name: "valid", mutate: func(*AppConfig) {}},
		{name: "missing admin", mutate: func(c *AppConfig) { c.AdminEmail = "" }, wantErr: "admin_email is required"},
		{name: "admin not an address", mutate: func(c *AppConfig) { c.AdminEmail = "admin" }, wantErr: "not an email address"},
		{name: "missing domain", mutate: func(c *AppConfig) { c.InstitutionDomain = "" }, wantErr: "institution_domain"},
		{name: "negative limit", mutate: func(c *AppConfig) { c.TrackRateLimit = -1 }, wantErr: "track_rate_limit"},
		{name: "negative proxy hops", mutate: func(c *AppConfig) { c.TrustedProxyHops = -1 }, wantErr: "trusted_proxy_hops"},
		{name: "microsoft without tenant", mutate: func(c *AppConfig) { c.MicrosoftClientID = "client" }, wantErr: "microsoft_tenant"},
		{name: "microsoft common tenant", mutate: func(c *AppConfig) {
			c.MicrosoftClientID = "client"
			c.MicrosoftTenant = "common"
		}, wantErr: "microsoft_tenant"},
		{name: "microsoft organizations tenant", mutate: func(c *AppConfig) {
			c.MicrosoftClientID = "client"
			c.MicrosoftTenant = "organizations"
		}, wantErr: "microsoft_tenant"},
		{name: "microsoft tenant id", mutate: func(c *AppConfig) {
			c.MicrosoftClientID = "client"
			c.MicrosoftTenant = "72f988bf-86f1-41af-91ab-2d7cd011db47"
		}},
		{name: "unknown provider", mutate: func(c *AppConfig) { c.MailProvider = "pigeon" }, wantErr: "unknown mail_provider"},
		{name: "smtp without host", mutate: func(c *AppConfig) {
			c.MailProvider = mailSMTP
			c.MailSMTPPort = 587
		}, wantErr: "mail_smtp_host"},
		{name: "smtp ok", mutate: func(c *AppConfig) {
			c.MailProvider = mailSMTP
			c.MailSMTPHost = "smtp.example.com"
			c.MailSMTPPort = 587
		}},
		{name: "ses without region", mutate: func(c *AppConfig) { c.MailProvider = mailSES }, wantErr: "mail_ses_region"},
		{name: "sendgrid without key", mutate: func(c *AppConfig) { c.MailProvider = mailSendGrid }, wantErr: "mail_sendgrid_key"},
		{name: "sendgrid without from", mutate: func(c *AppConfig) {
			c.MailProvider = mailSendGrid
			c.MailSendGridKey = "SG.key"
			c.MailFrom = ""
		}, wantErr: "mail_from"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := validateApp(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("validateApp: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("validateApp error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestNewMailSender(t *testing.T) {
	tests := []struct {
		provider string
		want     string
	}{
		{mailLog, "log"},
		{"", "log"},
		{mailSMTP, "smtp"},
		{mailSendGrid, "sendgrid"},
	}
	for _, tt := range tests {
		cfg := validConfig()
		cfg.MailProvider = tt.provider
		cfg.MailSMTPHost = "localhost"
		cfg.MailSMTPPort = 1025
		cfg.MailSendGridKey = "SG.key"

		s, err := newMailSender(context.Background(), cfg, zap.NewNop())
		if err != nil {
			t.Fatalf("%q: newMailSender: %v", tt.provider, err)
		}
		if s.Name() != tt.want {
			t.Errorf("%q: sender = %q, want %q", tt.provider, s.Name(), tt.want)
		}
	}

	cfg := validConfig()
	cfg.MailProvider = "pigeon"
	if _, err := newMailSender(context.Background(), cfg, zap.NewNop()); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestNewMailSender_LogSenderDelivers(t *testing.T) {
	s, err := newMailSender(context.Background(), validConfig(), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	m := mailer.New(s, "noreply@minsu.edu.ph", "MinSU", zap.NewNop())
	if err := m.Send(context.Background(), mailer.Email{To: "student@minsu.edu.ph", Subject: "Hi", TextBody: "Hello"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
}

func TestNewTrackLimiter(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		l, stop := newTrackLimiter(nil, 0)
		defer stop()
		if l != nil {
			t.Fatalf("limiter = %T, want nil", l)
		}
	})

	t.Run("memory", func(t *testing.T) {
		l, stop := newTrackLimiter(nil, 2)
		defer stop()
		if _, ok := l.(*ratelimit.Memory); !ok {
			t.Fatalf("limiter = %T, want *ratelimit.Memory", l)
		}
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		defer rdb.Close()

		l, stop := newTrackLimiter(rdb, 1)
		defer stop()
		if _, ok := l.(*ratelimit.Redis); !ok {
			t.Fatalf("limiter = %T, want *ratelimit.Redis", l)
		}

		ctx := context.Background()
		if ok, err := l.Allow(ctx, "10.0.0.1"); err != nil || !ok {
			t.Fatalf("first Allow = %v, %v; want true", ok, err)
		}
		if ok, _ := l.Allow(ctx, "10.0.0.1"); ok {
			t.Fatal("second Allow should be limited")
		}
	})
}

func TestConnectRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	rdb, err := connectRedis(context.Background(), "redis://"+mr.Addr()+"/0")
	if err != nil {
		t.Fatalf("connectRedis: %v", err)
	}
	rdb.Close()

	if _, err := connectRedis(context.Background(), "not a url"); err == nil {
		t.Fatal("expected error for malformed redis_url")
	}
}
